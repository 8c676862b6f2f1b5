package transcript

import (
	"sync"
	"testing"

	"github.com/hammamikhairi/moodchat/internal/domain"
	"github.com/hammamikhairi/moodchat/internal/emotion"
	"github.com/hammamikhairi/moodchat/internal/logger"
)

func TestLogAppendAndOrder(t *testing.T) {
	l := New(logger.Nop())

	first := domain.NewUserMessage("hello")
	second := domain.NewAssistantMessage("hi", emotion.Happy)

	if !l.Append(first) || !l.Append(second) {
		t.Fatal("expected both appends to succeed")
	}

	all := l.All()
	if len(all) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(all))
	}
	if all[0].ID != first.ID || all[1].ID != second.ID {
		t.Fatal("messages out of order")
	}

	if all[1].Text != "hi" {
		t.Fatalf("second message = %+v", all[1])
	}
	if l.CountRole(domain.RoleAssistant) != 1 || l.CountRole(domain.RoleUser) != 1 {
		t.Fatal("unexpected role counts")
	}
}

func TestLogIgnoresDuplicateID(t *testing.T) {
	l := New(logger.Nop())
	m := domain.NewUserMessage("once")

	l.Append(m)
	if l.Append(m) {
		t.Fatal("duplicate append should be rejected")
	}
	if l.Len() != 1 {
		t.Fatalf("expected 1 message, got %d", l.Len())
	}
}

func TestLogAllIsCopy(t *testing.T) {
	l := New(logger.Nop())
	l.Append(domain.NewUserMessage("original"))

	all := l.All()
	all[0].Text = "mutated"

	if l.All()[0].Text != "original" {
		t.Fatal("All must return a copy")
	}
}

func TestLogConcurrentAppend(t *testing.T) {
	l := New(logger.Nop())
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Append(domain.NewUserMessage("x"))
		}()
	}
	wg.Wait()

	if l.Len() != 50 {
		t.Fatalf("expected 50 messages, got %d", l.Len())
	}
}
