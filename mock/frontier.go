package mock

import (
	"context"

	"github.com/fwojciec/harvest"
)

var _ harvest.TaskFrontier = (*TaskFrontier)(nil)

// TaskFrontier is a mock implementation of harvest.TaskFrontier.
type TaskFrontier struct {
	PushFn func(task harvest.Task) bool
	PopFn  func() (harvest.Task, bool)
	LenFn  func() int
}

func (f *TaskFrontier) Push(task harvest.Task) bool {
	return f.PushFn(task)
}

func (f *TaskFrontier) Pop() (harvest.Task, bool) {
	return f.PopFn()
}

func (f *TaskFrontier) Len() int {
	return f.LenFn()
}

var _ harvest.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of harvest.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
