package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/samber/lo"
	"github.com/trebuchet-org/fundme/internal/domain/config"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// SpinnerProgressReporter implements progress reporting with a spinner
type SpinnerProgressReporter struct {
	mu      sync.Mutex
	spinner *spinner.Spinner
	out     io.Writer
	stages  []stageInfo
	message string
}

type stageInfo struct {
	Stage     string
	StartTime time.Time
	EndTime   time.Time
}

// displayedStages are shown in the spinner trail, in order
var displayedStages = []string{
	usecase.StageResolving,
	usecase.StageDeploying,
	usecase.StageVerifying,
	usecase.StageSaving,
}

// NewSpinnerProgressReporter creates a new spinner-based progress reporter writing to out
func NewSpinnerProgressReporter(out io.Writer) *SpinnerProgressReporter {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false

	return &SpinnerProgressReporter{
		spinner: s,
		out:     out,
	}
}

// OnProgress handles progress events
func (r *SpinnerProgressReporter) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if event.Stage != "" && (len(r.stages) == 0 || r.stages[len(r.stages)-1].Stage != event.Stage) {
		r.completeCurrentStage(now)
		r.stages = append(r.stages, stageInfo{Stage: event.Stage, StartTime: now})
	}
	r.message = event.Message

	if event.Stage == usecase.StageCompleted {
		r.completeCurrentStage(now)
		if r.spinner.Active() {
			r.spinner.Stop()
		}
		fmt.Fprintln(r.out, r.display(now))
		return
	}

	if event.Spinner {
		r.spinner.Suffix = " " + r.display(now)
		if !r.spinner.Active() {
			r.spinner.Start()
		}
	} else if r.spinner.Active() {
		r.spinner.Stop()
	}
}

// Info prints an info message
func (r *SpinnerProgressReporter) Info(message string) {
	r.print(color.New(color.FgCyan), message)
}

// Error prints an error message
func (r *SpinnerProgressReporter) Error(message string) {
	r.print(color.New(color.FgRed), message)
}

func (r *SpinnerProgressReporter) print(c *color.Color, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Stop spinner temporarily
	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}

	c.Fprintln(r.out, message)

	if wasActive {
		r.spinner.Start()
	}
}

// completeCurrentStage marks the current stage as completed
func (r *SpinnerProgressReporter) completeCurrentStage(now time.Time) {
	if len(r.stages) > 0 && r.stages[len(r.stages)-1].EndTime.IsZero() {
		r.stages[len(r.stages)-1].EndTime = now
	}
}

// display renders the stage trail followed by the latest message
func (r *SpinnerProgressReporter) display(now time.Time) string {
	var parts []string
	for _, stage := range r.stages {
		if !lo.Contains(displayedStages, stage.Stage) {
			continue
		}

		var icon string
		var stageColor *color.Color
		var duration time.Duration
		if stage.EndTime.IsZero() {
			icon = "●"
			stageColor = color.New(color.FgYellow)
			duration = now.Sub(stage.StartTime).Round(time.Second)
		} else {
			icon = "✓"
			stageColor = color.New(color.FgGreen)
			duration = stage.EndTime.Sub(stage.StartTime).Round(time.Millisecond)
		}
		parts = append(parts, fmt.Sprintf("%s %s (%s)", icon, stageColor.Sprint(stage.Stage), duration))
	}

	display := strings.Join(parts, " → ")
	if r.message != "" {
		if display != "" {
			display += "  "
		}
		display += r.message
	}
	return display
}

// NewProgressSink picks the spinner for interactive terminals and the no-op
// sink for JSON or non-interactive runs
func NewProgressSink(cfg *config.RuntimeConfig) usecase.ProgressSink {
	if cfg.JSON || cfg.NonInteractive {
		return NewNopSink()
	}
	return NewSpinnerProgressReporter(os.Stderr)
}

// Ensure SpinnerProgressReporter implements ProgressSink
var _ usecase.ProgressSink = (*SpinnerProgressReporter)(nil)
