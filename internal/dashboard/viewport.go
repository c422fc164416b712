package dashboard

import "sync"

// Chart sizing.
const (
	MaxChartWidth = 800
	ChartPadding  = 40
	ChartHeight   = 400
)

// ChartWidth bounds the chart to the container: min(800, container-40), never negative.
func ChartWidth(containerWidth int) int {
	w := min(MaxChartWidth, containerWidth-ChartPadding)
	return max(w, 0)
}

// Viewport broadcasts container resize events to subscribers.
type Viewport struct {
	mu    sync.Mutex
	width int
	subs  map[uint64]func(width int)
	next  uint64
}

// NewViewport creates a viewport with an initial container width.
// A width of zero means the container has not been measured yet.
func NewViewport(width int) *Viewport {
	return &Viewport{
		width: width,
		subs:  make(map[uint64]func(int)),
	}
}

// Width returns the last measured container width.
func (v *Viewport) Width() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.width
}

// Resize records a new container width and notifies every subscriber.
func (v *Viewport) Resize(width int) {
	v.mu.Lock()
	v.width = width
	subs := make([]func(int), 0, len(v.subs))
	for _, fn := range v.subs {
		subs = append(subs, fn)
	}
	v.mu.Unlock()

	for _, fn := range subs {
		fn(width)
	}
}

// Subscribe registers fn for resize events. The returned func releases the
// subscription and is safe to call more than once.
func (v *Viewport) Subscribe(fn func(width int)) (unsubscribe func()) {
	v.mu.Lock()
	id := v.next
	v.next++
	v.subs[id] = fn
	v.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			delete(v.subs, id)
			v.mu.Unlock()
		})
	}
}

// Subscribers returns the number of active subscriptions.
func (v *Viewport) Subscribers() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.subs)
}
