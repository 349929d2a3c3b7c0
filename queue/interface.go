/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package queue provides the fixed-capacity FIFO ring used for event and data
// descriptors.
//
// The ring is allocated once at construction and never resized. Two monotonic
// 64-bit counters track the head and tail: queued minus proced is the number
// of elements present and stays within [0, capacity] under the queue mutex.
// Enqueue and dequeue copy whole values, so the value a consumer dequeues is
// identical to the one the producer enqueued.
package queue

import (
	liberr "github.com/nabbar/golib/errors"
)

// DefaultCapacity is the ring size applied when New is given zero.
const DefaultCapacity = 64

// Queue is a thread-safe bounded FIFO of T.
type Queue[T any] interface {
	// EnqueueLast appends v at the tail.
	// A full ring returns result.ErrorTooManyQueuingEvtDesc and leaves the
	// counters untouched.
	EnqueueLast(v T) liberr.Error

	// DequeueFirst removes and returns the head element.
	// An empty ring returns result.ErrorEvtDescQueueEmpty and leaves the
	// counters untouched.
	DequeueFirst() (T, liberr.Error)

	// IsEmpty returns true when no element is queued.
	IsEmpty() bool

	// Len returns the number of queued elements.
	Len() uint64

	// Capacity returns the fixed ring capacity.
	Capacity() uint64

	// Counters returns the monotonic queued and proced counters.
	Counters() (queued uint64, proced uint64)
}

// New returns a Queue of the given capacity; zero means DefaultCapacity.
func New[T any](capacity uint64) Queue[T] {
	if capacity == 0 {
		capacity = DefaultCapacity
	}

	return &ring[T]{
		buf: make([]T, capacity),
	}
}
