package service

import (
	"io"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"

	"github.com/ludo-technologies/fsdscan/domain"
)

// StageBar shows the audit stage in progress as a single bar on stderr.
// Stages run one after another, so starting a stage retires the previous bar.
type StageBar struct {
	writer io.Writer

	mu      sync.Mutex
	current *progressbar.ProgressBar
}

// NewProgressManager returns a stage bar when enabled and stderr is a
// terminal, and a no-op manager otherwise
func NewProgressManager(enabled bool) domain.ProgressManager {
	if enabled && IsInteractiveEnvironment() {
		return newStageBar(os.Stderr)
	}
	return &NoOpProgressManager{}
}

func newStageBar(w io.Writer) *StageBar {
	return &StageBar{writer: w}
}

// StartTask replaces the current bar with one for the given stage. The
// returned task may be incremented from several goroutines.
func (s *StageBar) StartTask(stage string, total int) domain.TaskProgress {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(s.writer),
		progressbar.OptionSetDescription(stage),
		progressbar.OptionSetWidth(24),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "|",
			BarEnd:        "|",
		}),
		progressbar.OptionClearOnFinish(),
	)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		_ = s.current.Finish()
	}
	s.current = bar
	return &stageTask{bar: bar}
}

// IsInteractive returns true if progress bars should be shown
func (s *StageBar) IsInteractive() bool {
	return true
}

// Close clears a bar left open by a failed stage
func (s *StageBar) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		_ = s.current.Finish()
		s.current = nil
	}
}

type stageTask struct {
	bar *progressbar.ProgressBar
}

func (t *stageTask) Increment(n int) {
	_ = t.bar.Add(n)
}

func (t *stageTask) Describe(item string) {
	t.bar.Describe(item)
}

func (t *stageTask) Complete() {
	_ = t.bar.Finish()
}

// NoOpProgressManager implements ProgressManager with no-op methods
type NoOpProgressManager struct{}

// StartTask returns a no-op task progress
func (pm *NoOpProgressManager) StartTask(_ string, _ int) domain.TaskProgress {
	return &NoOpTaskProgress{}
}

// IsInteractive returns false for no-op manager
func (pm *NoOpProgressManager) IsInteractive() bool {
	return false
}

// Close is a no-op
func (pm *NoOpProgressManager) Close() {}

// NoOpTaskProgress implements TaskProgress with no-op methods
type NoOpTaskProgress struct{}

// Increment is a no-op
func (tp *NoOpTaskProgress) Increment(_ int) {}

// Describe is a no-op
func (tp *NoOpTaskProgress) Describe(_ string) {}

// Complete is a no-op
func (tp *NoOpTaskProgress) Complete() {}
