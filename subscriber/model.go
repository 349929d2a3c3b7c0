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

package subscriber

import (
	"sync"
	"sync/atomic"

	liberr "github.com/nabbar/golib/errors"

	iocmsg "github.com/nabbar/ioclib/message"
	iocres "github.com/nabbar/ioclib/result"
	iocstt "github.com/nabbar/ioclib/state"
)

type record struct {
	cb  CbProcEvt
	prv interface{}
	ids []iocmsg.EvtID
}

func (r *record) used() bool {
	return r.cb != nil
}

func (r *record) matches(id iocmsg.EvtID) bool {
	for _, i := range r.ids {
		if i == id {
			return true
		}
	}
	return false
}

type lst struct {
	m   sync.Mutex
	n   atomic.Int64
	sub []record
}

func (o *lst) Insert(args SubArgs, mac iocstt.Machine) liberr.Error {
	if args.CbProcEvt == nil || len(args.EvtIDs) < 1 {
		return iocres.ErrorInvalidParam.Error(nil)
	}

	o.m.Lock()
	defer o.m.Unlock()

	if mac != nil {
		if e := mac.Enter(iocstt.OpBusySubEvt, iocstt.SubDefault); e != nil {
			return e
		}
		defer func() {
			_ = mac.Leave(iocstt.OpBusySubEvt)
		}()
	}

	free := -1

	for i := range o.sub {
		if !o.sub[i].used() {
			if free < 0 {
				free = i
			}
			continue
		}

		if sameCallback(o.sub[i].cb, args.CbProcEvt) && o.sub[i].prv == args.CbPriv {
			return iocres.ErrorConflictEventConsumer.Error(nil)
		}
	}

	if free < 0 {
		return iocres.ErrorTooManyEventConsumer.Error(nil)
	}

	// the list owns its copy of the filter until remove
	ids := make([]iocmsg.EvtID, len(args.EvtIDs))
	copy(ids, args.EvtIDs)

	o.sub[free] = record{
		cb:  args.CbProcEvt,
		prv: args.CbPriv,
		ids: ids,
	}
	o.n.Add(1)

	return nil
}

func (o *lst) Remove(args UnsubArgs, mac iocstt.Machine) liberr.Error {
	o.m.Lock()
	defer o.m.Unlock()

	if mac != nil {
		if e := mac.Enter(iocstt.OpBusyUnsubEvt, iocstt.SubDefault); e != nil {
			return e
		}
		defer func() {
			_ = mac.Leave(iocstt.OpBusyUnsubEvt)
		}()
	}

	for i := range o.sub {
		if !o.sub[i].used() {
			continue
		}

		if sameCallback(o.sub[i].cb, args.CbProcEvt) && o.sub[i].prv == args.CbPriv {
			o.sub[i] = record{}
			o.n.Add(-1)
			return nil
		}
	}

	return iocres.ErrorNoEventConsumer.Error(nil)
}

func (o *lst) Dispatch(evt *iocmsg.EvtDesc, mac iocstt.Machine) int {
	o.m.Lock()
	defer o.m.Unlock()

	var cnt int

	for i := range o.sub {
		if !o.sub[i].used() || !o.sub[i].matches(evt.EvtID) {
			continue
		}

		var entered bool

		if mac != nil {
			entered = mac.Enter(iocstt.OpBusyCbProcEvt, iocstt.SubDefault) == nil
		}

		_ = o.sub[i].cb(evt, o.sub[i].prv)
		cnt++

		if entered {
			_ = mac.Leave(iocstt.OpBusyCbProcEvt)
		}
	}

	return cnt
}

// IsEmpty reads a counter maintained outside the list mutex: the mutex stays
// held across subscriber callbacks, and a post must still be able to check
// for consumers while a dispatch is in flight.
func (o *lst) IsEmpty() bool {
	return o.n.Load() == 0
}

func (o *lst) Len() int {
	return int(o.n.Load())
}

func (o *lst) Clear() {
	o.m.Lock()
	defer o.m.Unlock()

	for i := range o.sub {
		o.sub[i] = record{}
	}

	o.n.Store(0)
}
