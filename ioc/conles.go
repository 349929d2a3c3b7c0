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

package ioc

import (
	"context"
	"sync/atomic"
	"time"

	liberr "github.com/nabbar/golib/errors"
	librun "github.com/nabbar/golib/runner/startStop"

	iocmsg "github.com/nabbar/ioclib/message"
	iocque "github.com/nabbar/ioclib/queue"
	iocres "github.com/nabbar/ioclib/result"
	iocstt "github.com/nabbar/ioclib/state"
	iocsub "github.com/nabbar/ioclib/subscriber"
)

// conles is the connection-less auto-link: one bounded event queue, one
// subscriber list, one state machine and one dispatch goroutine, addressed
// through the reserved AutoLinkID.
//
// The wrk channel replaces the original condition variable toward the
// dispatcher; the spc channel is signalled by the dispatcher after each
// dequeue so a may-block post waits for space instead of spinning blind.
type conles struct {
	r *ioc

	que iocque.Queue[iocmsg.EvtDesc]
	sub iocsub.List
	mac iocstt.Machine

	wrk chan struct{}
	spc chan struct{}

	run *atomic.Value // librun.StartStop
}

func newConles(r *ioc) *conles {
	o := &conles{
		r:   r,
		que: iocque.New[iocmsg.EvtDesc](r.cfg.QueueSize),
		sub: iocsub.New(r.cfg.MaxSubscriber),
		mac: iocstt.New(),
		wrk: make(chan struct{}, 1),
		spc: make(chan struct{}, 1),
		run: new(atomic.Value),
	}

	// the auto-link is permanently "connected"
	o.mac.SetConnState(iocstt.ConnConnected)

	return o
}

func (o *conles) start(ctx context.Context) liberr.Error {
	r := librun.New(o.loop, nil)
	o.run.Store(r)

	if e := r.Start(ctx); e != nil {
		return iocres.ErrorBug.Error(e)
	}

	return nil
}

func (o *conles) stop(ctx context.Context) {
	if r, ok := o.run.Load().(librun.StartStop); ok && r != nil && r.IsRunning() {
		_ = r.Stop(ctx)
	}
}

// loop is the dispatch goroutine: wait for a wakeup or the deadline, then
// drain the queue completely.
func (o *conles) loop(ctx context.Context) error {
	tck := time.NewTicker(o.r.cfg.DispatchDeadline)
	defer tck.Stop()

	for {
		select {
		case <-ctx.Done():
			o.drain()
			return nil

		case <-o.wrk:
			o.drain()

		case <-tck.C:
			o.drain()
		}
	}
}

func (o *conles) drain() {
	for {
		evt, err := o.que.DequeueFirst()
		if err != nil {
			o.r.metrics().SetQueueDepth(0)
			return
		}

		o.sub.Dispatch(&evt, o.mac)
		o.r.metrics().IncDispatched()
		o.r.metrics().SetQueueDepth(o.que.Len())

		o.signalSpace()
	}
}

func (o *conles) signalWork() {
	select {
	case o.wrk <- struct{}{}:
	default:
	}
}

func (o *conles) signalSpace() {
	select {
	case o.spc <- struct{}{}:
	default:
	}
}

// post applies the bus decision table: refuse with no consumer, then branch
// on sync/async and the blocking policy.
func (o *conles) post(evt *iocmsg.EvtDesc, opt *iocmsg.Option) liberr.Error {
	if o.sub.IsEmpty() {
		return iocres.ErrorNoEventConsumer.Error(nil)
	}

	if opt.IsSync() {
		return o.postSync(evt, opt)
	}

	return o.postAsync(evt, opt)
}

func (o *conles) postAsync(evt *iocmsg.EvtDesc, opt *iocmsg.Option) liberr.Error {
	err := o.que.EnqueueLast(*evt)

	if err == nil {
		o.r.metrics().IncPosted()
		o.r.metrics().SetQueueDepth(o.que.Len())
		o.signalWork()
		return nil
	}

	if !iocres.IsCode(err, iocres.ErrorTooManyQueuingEvtDesc) {
		return err
	}

	if !opt.MayBlock() {
		o.r.metrics().IncDropped()
		return err
	}

	// bounded wait for the dispatcher to free a slot
	var deadline time.Time
	if b := opt.Budget(); b > 0 {
		deadline = time.Now().Add(b)
	}

	for {
		o.signalWork()

		select {
		case <-o.spc:
		case <-time.After(o.r.cfg.BackoffStep):
		}

		if err = o.que.EnqueueLast(*evt); err == nil {
			o.r.metrics().IncPosted()
			o.r.metrics().SetQueueDepth(o.que.Len())
			o.signalWork()
			return nil
		}

		if !deadline.IsZero() && time.Now().After(deadline) {
			o.r.metrics().IncDropped()
			return iocres.ErrorTooManyQueuingEvtDesc.Error(nil)
		}
	}
}

func (o *conles) postSync(evt *iocmsg.EvtDesc, opt *iocmsg.Option) liberr.Error {
	if o.que.IsEmpty() {
		o.dispatchInline(evt)
		return nil
	}

	if !opt.MayBlock() {
		return iocres.ErrorTooLongEmptyingEvtDescQueue.Error(nil)
	}

	var deadline time.Time
	if b := opt.Budget(); b > 0 {
		deadline = time.Now().Add(b)
	}

	for {
		o.signalWork()

		select {
		case <-o.spc:
		case <-time.After(o.r.cfg.BackoffStep):
		}

		if o.que.IsEmpty() {
			o.dispatchInline(evt)
			return nil
		}

		if !deadline.IsZero() && time.Now().After(deadline) {
			return iocres.ErrorTooLongEmptyingEvtDescQueue.Error(nil)
		}
	}
}

func (o *conles) dispatchInline(evt *iocmsg.EvtDesc) {
	o.r.metrics().IncPosted()
	o.sub.Dispatch(evt, o.mac)
	o.r.metrics().IncDispatched()
}

func (o *conles) subEvt(args iocsub.SubArgs) liberr.Error {
	return o.sub.Insert(args, o.mac)
}

func (o *conles) unsubEvt(args iocsub.UnsubArgs) liberr.Error {
	return o.sub.Remove(args, o.mac)
}

// forceProc wakes the dispatcher and polls until the queue is provably empty
// or the context is done.
func (o *conles) forceProc(ctx context.Context) {
	for !o.que.IsEmpty() {
		o.signalWork()

		select {
		case <-ctx.Done():
			return
		case <-time.After(o.r.cfg.ForceProcPoll):
		}
	}
}

func (o *conles) wakeupProc() {
	o.signalWork()
}
