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

package queue

import (
	"sync"

	liberr "github.com/nabbar/golib/errors"

	iocres "github.com/nabbar/ioclib/result"
)

type ring[T any] struct {
	m sync.Mutex

	// queued and proced only ever grow; queued - proced is the fill level.
	queued uint64
	proced uint64

	buf []T
}

func (o *ring[T]) EnqueueLast(v T) liberr.Error {
	o.m.Lock()
	defer o.m.Unlock()

	if o.queued < o.proced {
		return iocres.ErrorBug.Error(nil)
	}

	if o.queued-o.proced == uint64(len(o.buf)) {
		return iocres.ErrorTooManyQueuingEvtDesc.Error(nil)
	}

	o.buf[o.queued%uint64(len(o.buf))] = v
	o.queued++

	return nil
}

func (o *ring[T]) DequeueFirst() (T, liberr.Error) {
	o.m.Lock()
	defer o.m.Unlock()

	var zero T

	if o.queued < o.proced {
		return zero, iocres.ErrorBug.Error(nil)
	}

	if o.queued == o.proced {
		return zero, iocres.ErrorEvtDescQueueEmpty.Error(nil)
	}

	pos := o.proced % uint64(len(o.buf))
	v := o.buf[pos]
	o.buf[pos] = zero
	o.proced++

	return v, nil
}

func (o *ring[T]) IsEmpty() bool {
	o.m.Lock()
	defer o.m.Unlock()

	return o.queued == o.proced
}

func (o *ring[T]) Len() uint64 {
	o.m.Lock()
	defer o.m.Unlock()

	return o.queued - o.proced
}

func (o *ring[T]) Capacity() uint64 {
	return uint64(len(o.buf))
}

func (o *ring[T]) Counters() (queued uint64, proced uint64) {
	o.m.Lock()
	defer o.m.Unlock()

	return o.queued, o.proced
}
