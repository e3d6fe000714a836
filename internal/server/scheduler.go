package server

// Scheduler decides how a connection's work is run. The accept loop hands
// every accepted connection to Go; the request handling itself does not
// depend on which Scheduler is used.
type Scheduler interface {
	Go(task func())
}

type unbounded struct{}

// Unbounded runs every task on its own goroutine with no limit and no
// backpressure. A flood of connections means a flood of goroutines.
func Unbounded() Scheduler {
	return unbounded{}
}

func (unbounded) Go(task func()) {
	go task()
}

// Bounded runs at most n tasks at once. Go blocks until a slot is free,
// which in turn stops the accept loop from taking new connections.
type Bounded struct {
	slots chan struct{}
}

func NewBounded(n int) *Bounded {
	if n < 1 {
		n = 1
	}
	return &Bounded{slots: make(chan struct{}, n)}
}

func (b *Bounded) Go(task func()) {
	b.slots <- struct{}{}
	go func() {
		defer func() { <-b.slots }()
		task()
	}()
}

// InFlight returns the number of running tasks
func (b *Bounded) InFlight() int {
	return len(b.slots)
}

// Limit returns the maximum number of concurrent tasks
func (b *Bounded) Limit() int {
	return cap(b.slots)
}
