package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/netweave/pkg/observability"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner is an animated status line for a pipeline run.
//
// Between Start and Stop it is installed as the pipeline hooks, so the line
// follows the generate, layout and normalize stages as the runner reports
// them. Every event is forwarded to the hooks it replaced, which Stop
// restores. Stages served from the cache report nothing and leave the line
// unchanged.
type Spinner struct {
	w       io.Writer
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	stopped chan struct{}
	stop    sync.Once

	mu      sync.Mutex
	message string
	stages  []string
	width   int
	started bool
	prev    observability.PipelineHooks
}

// newSpinner creates a spinner on stderr that stops when ctx is cancelled.
func newSpinner(ctx context.Context, message string) *Spinner {
	return newSpinnerTo(ctx, os.Stderr, message)
}

func newSpinnerTo(ctx context.Context, w io.Writer, message string) *Spinner {
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		w:       w,
		ctx:     spinnerCtx,
		cancel:  cancel,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		message: message,
	}
}

// Start installs the spinner as the pipeline hooks and begins the animation.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.prev = observability.Pipeline()
	s.mu.Unlock()
	observability.SetPipelineHooks(s)

	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-s.done:
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

// Stop ends the animation, clears the line and restores the previous
// pipeline hooks. It is safe to call more than once.
func (s *Spinner) Stop() {
	s.stop.Do(func() {
		s.cancel()
		close(s.done)

		s.mu.Lock()
		started, prev := s.started, s.prev
		s.mu.Unlock()
		if !started {
			return
		}
		<-s.stopped
		observability.SetPipelineHooks(prev)
		s.clearLine()
	})
}

// StopWithSuccess stops the spinner and shows a success message.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops the spinner and shows an error message.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the spinner's context ended, either by Stop or
// by cancellation of the parent context.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}

// Message returns the current status line text.
func (s *Spinner) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

// Stages returns a summary of every stage completed so far, in order.
func (s *Spinner) Stages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.stages...)
}

func (s *Spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := frame + " " + s.message
	s.width = max(s.width, len(line))
	fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width+1))
	}
}

func (s *Spinner) setMessage(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = fmt.Sprintf(format, args...)
}

func (s *Spinner) complete(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stages = append(s.stages, fmt.Sprintf(format, args...))
}

// =============================================================================
// observability.PipelineHooks
// =============================================================================

func (s *Spinner) OnGenerateStart(ctx context.Context, network string, nodes int) {
	s.setMessage("Generating %s network with %d nodes...", network, nodes)
	s.prev.OnGenerateStart(ctx, network, nodes)
}

func (s *Spinner) OnGenerateComplete(ctx context.Context, network string, edges int, d time.Duration, err error) {
	if err == nil {
		s.complete("generate %s: %d edges", network, edges)
	}
	s.prev.OnGenerateComplete(ctx, network, edges, d, err)
}

func (s *Spinner) OnLayoutStart(ctx context.Context, layout string, nodes int) {
	s.setMessage("Computing %s layout for %d nodes...", layout, nodes)
	s.prev.OnLayoutStart(ctx, layout, nodes)
}

func (s *Spinner) OnLayoutComplete(ctx context.Context, layout string, d time.Duration, err error) {
	if err == nil {
		s.complete("layout %s", layout)
		s.setMessage("Normalizing positions...")
	}
	s.prev.OnLayoutComplete(ctx, layout, d, err)
}

func (s *Spinner) OnNormalizeComplete(ctx context.Context, degenerate bool, d time.Duration, err error) {
	if err == nil {
		if degenerate {
			s.complete("normalize: collinear axis centred")
		} else {
			s.complete("normalize")
		}
	}
	s.prev.OnNormalizeComplete(ctx, degenerate, d, err)
}
