package concurrent

// WarmupJobItem one start/end place pair whose road graph should be cached ahead of time.
type WarmupJobItem struct {
	Line       int
	StartPoint string
	EndPoint   string
}

type JobI interface {
	WarmupJobItem
}

type Job[T JobI] struct {
	ID      int
	JobItem T
}
type JobFunc[T JobI, G any] func(job T) G
