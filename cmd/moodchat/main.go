// moodchat is an emotion-aware terminal chat client. It polls a detection
// backend for liveness and emotion, shows mood-based suggestions, and
// relays chat questions once a live person has been confirmed.
//
// Usage:
//
//	moodchat [-base-url URL] [-interval 1s] [-no-chime] [-verbose] [-quiet]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/hammamikhairi/moodchat/internal/backend"
	"github.com/hammamikhairi/moodchat/internal/chime"
	"github.com/hammamikhairi/moodchat/internal/config"
	"github.com/hammamikhairi/moodchat/internal/display"
	"github.com/hammamikhairi/moodchat/internal/domain"
	"github.com/hammamikhairi/moodchat/internal/engine"
	"github.com/hammamikhairi/moodchat/internal/logger"
	"github.com/hammamikhairi/moodchat/internal/mood"
	"github.com/hammamikhairi/moodchat/internal/poller"
	"github.com/hammamikhairi/moodchat/internal/transcript"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	baseURL := flag.String("base-url", cfg.BaseURL, "detection backend root URL")
	interval := flag.Duration("interval", cfg.PollInterval, "status poll interval")
	noChime := flag.Bool("no-chime", !cfg.Chime, "do not play a sound when chat unlocks")
	verbose := flag.Bool("verbose", false, "enable verbose/debug logging")
	quiet := flag.Bool("quiet", false, "disable all logging")
	logFile := flag.String("log-file", cfg.LogFile, "file to write logs to (use \"stderr\" to log to console)")
	flag.Parse()

	cfg.BaseURL = *baseURL
	cfg.PollInterval = *interval
	cfg.Chime = !*noChime
	cfg.LogFile = *logFile
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	logLevel := logger.LevelNormal
	if *verbose {
		logLevel = logger.LevelVerbose
	}
	if *quiet {
		logLevel = logger.LevelOff
	}

	// Logs go to a file by default so the TUI stays clean.
	var logOut io.Writer = os.Stderr
	if cfg.LogFile != "" && cfg.LogFile != "stderr" {
		dir := filepath.Dir(cfg.LogFile)
		if dir != "" && dir != "." {
			os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", cfg.LogFile, err)
		} else {
			logOut = f
			defer f.Close()
		}
	}

	// Third-party packages that use the standard logger write to the
	// same place.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	log := logger.New(logLevel, logOut)

	// Cancelled when the UI quits.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := backend.NewClient(cfg.BaseURL, log.Named("backend"),
		backend.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	history := transcript.New(log.Named("transcript"))
	ui := display.NewUI(history, display.WithSubtitle(client.BaseURL()))

	var cue domain.Cue = chime.NewNoOp(log.Named("chime"))
	if cfg.Chime {
		player, err := chime.NewPlayer(log.Named("chime"))
		if err != nil {
			log.Error("audio init failed, chime disabled: %v", err)
		} else {
			cue = player
		}
	}

	eng := engine.New(client, ui, log.Named("engine"), engine.WithCue(cue))
	statusPoller := poller.New(client, eng, log.Named("poller"),
		poller.WithInterval(cfg.PollInterval),
	)

	log.Info("moodchat starting (backend=%s, interval=%s, chart=%d, chime=%t)",
		client.BaseURL(), cfg.PollInterval, mood.Capacity, cfg.Chime)

	app := &chatApp{engine: eng, ui: ui, log: log.Named("app")}

	go func() {
		ui.WaitReady()
		eng.Open()
		statusPoller.Start(ctx)
		app.run(ctx)
	}()

	// Bubble Tea owns the terminal and blocks until quit.
	if err := ui.Run(); err != nil {
		log.Error("display: %v", err)
	}

	// No new polls after exit; requests already in flight finish on their own.
	statusPoller.Stop()
	cancel()

	polls, failures := statusPoller.Stats()
	log.Info("moodchat exiting (messages=%d, questions=%d, polls=%d, failed polls=%d)",
		history.Len(), history.CountRole(domain.RoleUser), polls, failures)
}

type chatApp struct {
	engine *engine.Engine
	ui     *display.UI
	log    *logger.Logger
}

// run reads submitted lines until the UI quits. Each exchange runs on its
// own goroutine so a slow backend never blocks the input loop; the
// controller's gate rejects overlapping submissions.
func (a *chatApp) run(ctx context.Context) {
	inputs := a.ui.InputChan()
	for {
		select {
		case <-ctx.Done():
			return
		case <-a.ui.QuitChan():
			return
		case text, ok := <-inputs:
			if !ok {
				return
			}
			go a.submit(ctx, text)
		}
	}
}

func (a *chatApp) submit(ctx context.Context, text string) {
	err := a.engine.Submit(ctx, text)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrEmptyMessage), errors.Is(err, domain.ErrAwaitingResponse):
		a.log.Debug("submit skipped: %v", err)
	case errors.Is(err, domain.ErrNotLive):
		a.log.Info("submit rejected: liveness check not passed")
	default:
		a.log.Debug("exchange finished with error: %v", err)
	}
}
