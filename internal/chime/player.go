package chime

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/hammamikhairi/moodchat/internal/domain"
	"github.com/hammamikhairi/moodchat/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.Cue = (*Player)(nil)
	_ domain.Cue = (*NoOp)(nil)
)

// DefaultVolume is the peak amplitude of the unlock cue.
const DefaultVolume = 0.3

// Player plays the unlock cue through the system audio device via oto.
type Player struct {
	ctx *oto.Context
	log *logger.Logger
	pcm []byte

	mu      sync.Mutex
	playing bool
}

// NewPlayer initializes the audio context and pre-renders the cue.
// Returns an error if the audio device is unavailable.
func NewPlayer(log *logger.Logger) (*Player, error) {
	op := &oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: ChannelCount,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	log.Debug("chime initialized (rate=%d, channels=%d)", SampleRate, ChannelCount)
	return &Player{ctx: ctx, log: log, pcm: Render(Unlock, DefaultVolume)}, nil
}

// Unlocked plays the cue in the background. A cue that is still sounding
// swallows the next one.
func (p *Player) Unlocked(ctx context.Context) {
	p.mu.Lock()
	if p.playing {
		p.mu.Unlock()
		return
	}
	p.playing = true
	p.mu.Unlock()

	go p.play(ctx)
}

func (p *Player) play(ctx context.Context) {
	defer func() {
		p.mu.Lock()
		p.playing = false
		p.mu.Unlock()
	}()

	player := p.ctx.NewPlayer(bytes.NewReader(p.pcm))
	defer player.Close()

	player.Play()
	p.log.Debug("chime: playing %d bytes of PCM", len(p.pcm))

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			player.Pause()
			return
		case <-ticker.C:
		}
	}
}

// NoOp is a cue that does nothing. Used when the chime is disabled or no
// audio device is available.
type NoOp struct {
	log *logger.Logger
}

// NewNoOp creates a silent cue.
func NewNoOp(log *logger.Logger) *NoOp {
	return &NoOp{log: log}
}

// Unlocked only logs.
func (n *NoOp) Unlocked(context.Context) {
	n.log.Debug("chime no-op: chat unlocked")
}
