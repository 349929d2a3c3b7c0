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

// Package subscriber implements the bounded subscriber list attached to a
// link or to the connection-less auto-link.
//
// A subscriber is a {callback, private context, event-id filter} record and is
// uniquely identified by its {callback, private context} pair. Insert, Remove
// and Dispatch all serialize under the list mutex, and the mutex stays held
// while subscriber callbacks run: at most one callback runs at a time per
// list, which is the per-link ordering guarantee. The flip side is that a
// callback must never call back into the same list's subscribe or unsubscribe
// or it will deadlock.
package subscriber

import (
	"reflect"

	liberr "github.com/nabbar/golib/errors"

	iocmsg "github.com/nabbar/ioclib/message"
	iocstt "github.com/nabbar/ioclib/state"
)

// DefaultCapacity is the list size applied when New is given zero.
const DefaultCapacity = 16

// CbProcEvt is a subscriber callback. It receives the dispatched descriptor
// and the private context registered at subscribe time.
type CbProcEvt func(evt *iocmsg.EvtDesc, priv interface{}) liberr.Error

// SubArgs carries one subscription: the callback, its private context, and
// the event ids the subscriber filters for. The list copies EvtIDs on insert
// and owns the copy until remove.
type SubArgs struct {
	CbProcEvt CbProcEvt
	CbPriv    interface{}
	EvtIDs    []iocmsg.EvtID
}

// UnsubArgs identifies the subscription to remove by its {callback, private
// context} pair.
type UnsubArgs struct {
	CbProcEvt CbProcEvt
	CbPriv    interface{}
}

// List is a thread-safe bounded subscriber set.
type List interface {
	// Insert adds a subscription, driving the parent machine through the
	// enter-sub / leave-sub transitions when one is given.
	// A duplicate {callback, context} pair returns
	// result.ErrorConflictEventConsumer; a full list returns
	// result.ErrorTooManyEventConsumer; a nil callback returns
	// result.ErrorInvalidParam.
	Insert(args SubArgs, mac iocstt.Machine) liberr.Error

	// Remove deletes the subscription matching the {callback, context} pair,
	// driving the parent machine through enter-unsub / leave-unsub when one
	// is given. An absent pair returns result.ErrorNoEventConsumer.
	Remove(args UnsubArgs, mac iocstt.Machine) liberr.Error

	// Dispatch visits every present subscriber whose filter contains the
	// descriptor's event id and invokes its callback under the list mutex,
	// wrapping each invocation in the parent machine's enter-cb-proc-evt /
	// leave-cb-proc-evt transitions. It returns the number of callbacks
	// invoked.
	Dispatch(evt *iocmsg.EvtDesc, mac iocstt.Machine) int

	// IsEmpty returns true when no subscription is present.
	IsEmpty() bool

	// Len returns the number of present subscriptions.
	Len() int

	// Clear removes every subscription. It takes the list mutex, so it does
	// not return before an in-flight Dispatch has finished.
	Clear()
}

// New returns a List of the given capacity; zero means DefaultCapacity.
func New(capacity int) List {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &lst{
		sub: make([]record, capacity),
	}
}

// sameCallback compares two callbacks by code pointer: Go functions are not
// comparable, but the dedup key of the original contract is the function
// identity.
func sameCallback(a, b CbProcEvt) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}
