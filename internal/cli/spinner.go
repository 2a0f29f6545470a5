package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// stderr receives spinner frames. Tests replace it.
var stderr io.Writer = os.Stderr

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// spinner animates a status line with the elapsed time on stderr. It stops
// when Stop is called or when its parent context ends.
type spinner struct {
	msg     string
	start   time.Time
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}

	mu    sync.Mutex
	width int
}

// startSpinner begins animating msg until ctx ends or Stop is called.
func startSpinner(ctx context.Context, msg string) *spinner {
	ctx, cancel := context.WithCancel(ctx)
	s := &spinner{
		msg:     msg,
		start:   time.Now(),
		ctx:     ctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *spinner) run() {
	defer close(s.stopped)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			s.clearLine()
			return
		case <-ticker.C:
			elapsed := time.Since(s.start).Truncate(100 * time.Millisecond)
			line := fmt.Sprintf("%s %s", s.msg, elapsed)
			s.mu.Lock()
			s.width = max(s.width, len(line)+2)
			fmt.Fprintf(stderr, "\r%s %s", styleIconSpinner.Render(spinnerFrames[i%len(spinnerFrames)]), StyleDim.Render(line))
			s.mu.Unlock()
		}
	}
}

// Stop ends the animation and clears the line. It is safe to call twice.
func (s *spinner) Stop() {
	s.cancel()
	<-s.stopped
}

// Elapsed reports how long the spinner has been running.
func (s *spinner) Elapsed() time.Duration {
	return time.Since(s.start)
}

func (s *spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(stderr, "\r%s\r", strings.Repeat(" ", s.width))
	}
}

// Fail stops the spinner and prints msg as an error.
func (s *spinner) Fail(msg string) {
	s.Stop()
	printError("%s", msg)
}
