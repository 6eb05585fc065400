package harvest

import "context"

// Task is a pending fetch in the crawl frontier.
type Task struct {
	URL  string
	Kind LinkKind

	// Depth is the number of page hops from the seed that led here.
	Depth int
}

// TaskFrontier manages the crawl queue with deduplication.
type TaskFrontier interface {
	// Push adds a task to the frontier.
	// Returns false if the URL has already been seen.
	Push(task Task) bool

	// Pop returns the next task. Document tasks are returned before pages.
	// Returns false if the frontier is empty.
	Pop() (Task, bool)

	// Len returns the number of tasks in the queue.
	Len() int
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
