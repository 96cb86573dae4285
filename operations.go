// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package jsep

import (
	"container/list"
	"sync"
)

// operation is a unit of work run on an operations chain.
type operation func()

// operations is a FIFO task executor. Enqueued operations run one at a
// time, in submission order, on a goroutine that exists only while the
// chain is non-empty.
type operations struct {
	mu     sync.Mutex
	busyCh chan struct{}
	ops    *list.List

	// onEmptyChain, if set, runs after the last queued operation finished.
	onEmptyChain func()
	isClosed     bool
}

func newOperations(onEmptyChain func()) *operations {
	return &operations{
		ops:          list.New(),
		onEmptyChain: onEmptyChain,
	}
}

// Enqueue adds a new action to be executed. If there are no actions
// scheduled, the execution will start immediately in a new goroutine. It
// returns false, dropping op, once the queue has been closed; the caller
// is responsible for completing whatever op would have completed.
func (o *operations) Enqueue(op operation) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.tryEnqueue(op)
}

// tryEnqueue must be called with mu held.
func (o *operations) tryEnqueue(op operation) bool {
	if op == nil || o.isClosed {
		return false
	}
	o.ops.PushBack(op)

	if o.busyCh == nil {
		o.busyCh = make(chan struct{})
		go o.start()
	}

	return true
}

// IsEmpty checks if there are tasks in the queue.
func (o *operations) IsEmpty() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.ops.Len() == 0
}

// Done blocks until all currently enqueued operations are finished executing.
func (o *operations) Done() {
	var wg sync.WaitGroup
	wg.Add(1)
	o.mu.Lock()
	enqueued := o.tryEnqueue(func() {
		wg.Done()
	})
	o.mu.Unlock()
	if !enqueued {
		return
	}
	wg.Wait()
}

// GracefulClose forbids new operations from being enqueued and waits for
// the already queued ones to finish.
func (o *operations) GracefulClose() {
	o.mu.Lock()
	if o.isClosed {
		o.mu.Unlock()

		return
	}
	o.isClosed = true

	busyCh := o.busyCh
	o.mu.Unlock()
	if busyCh == nil {
		return
	}
	<-busyCh
}

func (o *operations) pop() func() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.ops.Len() == 0 {
		return nil
	}

	e := o.ops.Front()
	o.ops.Remove(e)
	if op, ok := e.Value.(operation); ok {
		return op
	}

	return nil
}

func (o *operations) start() {
	defer func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		// this will be the most recent busy chan
		close(o.busyCh)

		if o.ops.Len() == 0 || o.isClosed {
			o.busyCh = nil

			return
		}

		// either a new operation was enqueued while we
		// were busy, or an operation panicked
		o.busyCh = make(chan struct{})
		go o.start()
	}()

	fn := o.pop()
	for fn != nil {
		fn()
		fn = o.pop()
	}
	if o.onEmptyChain != nil {
		o.onEmptyChain()
	}
}
