package domain

// ProgressManager creates progress indicators for long running stages
type ProgressManager interface {
	// StartTask creates a task with a description and a total item count
	StartTask(description string, total int) TaskProgress

	// IsInteractive returns true if progress bars are rendered
	IsInteractive() bool

	// Close finishes all tasks
	Close()
}

// TaskProgress tracks one stage
type TaskProgress interface {
	Increment(n int)
	Describe(description string)
	Complete()
}
