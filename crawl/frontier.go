package crawl

import (
	"container/heap"
	"net/url"
	"strings"
	"sync"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/bloom"
)

// Compile-time interface verification.
var _ harvest.TaskFrontier = (*Frontier)(nil)

// Frontier is an in-memory task queue with Bloom filter deduplication.
// Document tasks are popped before page tasks, shallower pages before deeper
// ones, and otherwise in insertion order.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu    sync.Mutex
	seen  *bloom.Filter
	queue *taskHeap
	seq   uint64
}

// NewFrontier creates a new Frontier sized for n expected URLs
// with the given false positive rate for deduplication.
func NewFrontier(n uint, fpRate float64) *Frontier {
	h := &taskHeap{}
	heap.Init(h)
	return &Frontier{
		seen:  bloom.NewFilter(n, fpRate),
		queue: h,
	}
}

// Push adds a task to the frontier.
// Returns false if the URL has already been seen. URLs are compared after
// NormalizeURL, and the queued task carries the normalized URL.
func (f *Frontier) Push(task harvest.Task) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	task.URL = NormalizeURL(task.URL)
	if !f.seen.Visit(task.URL) {
		return false
	}

	f.seq++
	heap.Push(f.queue, queuedTask{Task: task, seq: f.seq})
	return true
}

// Pop returns the next task.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (harvest.Task, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.queue.Len() == 0 {
		return harvest.Task{}, false
	}
	qt, _ := heap.Pop(f.queue).(queuedTask)
	return qt.Task, true
}

// Len returns the number of queued tasks.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queue.Len()
}

// NormalizeURL returns the visited-set key for rawURL: the fragment is
// removed, scheme and host are lowercased, and an empty path becomes "/".
func NormalizeURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		if idx := strings.Index(rawURL, "#"); idx != -1 {
			return rawURL[:idx]
		}
		return rawURL
	}
	u.Fragment = ""
	u.RawFragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Path == "" && u.Opaque == "" && u.Host != "" {
		u.Path = "/"
	}
	return u.String()
}

type queuedTask struct {
	harvest.Task
	seq uint64
}

// taskHeap implements heap.Interface ordered by kind, depth, then insertion.
type taskHeap []queuedTask

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	di, dj := h[i].Kind.IsDocument(), h[j].Kind.IsDocument()
	if di != dj {
		return di
	}
	if h[i].Depth != h[j].Depth {
		return h[i].Depth < h[j].Depth
	}
	return h[i].seq < h[j].seq
}

func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *taskHeap) Push(x any) {
	qt, _ := x.(queuedTask)
	*h = append(*h, qt)
}

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}
