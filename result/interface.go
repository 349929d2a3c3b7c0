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

// Package result defines the result taxonomy shared by every public operation
// of the IOC substrate.
//
// All operations return a liberr.Error carrying one of the codes below, or nil
// on success. The codes are allocated from liberr.MinAvailable upward so they
// never collide with the golib package ranges.
package result

import (
	"errors"

	liberr "github.com/nabbar/golib/errors"
)

const (
	// ErrorInvalidParam reports a nil required pointer, an illegal option
	// combination or a malformed descriptor.
	ErrorInvalidParam liberr.CodeError = iota + liberr.MinAvailable

	// ErrorNotExistLink reports a link id that is unknown or already closed.
	ErrorNotExistLink

	// ErrorNotExistService reports a service id or URI that is not online.
	ErrorNotExistService

	// ErrorNotSupport reports an operation the link's transport does not
	// implement, or a call made with a mismatching link role.
	ErrorNotSupport

	// ErrorNoEventConsumer reports a post that found no live subscriber.
	ErrorNoEventConsumer

	// ErrorTooManyEventConsumer reports a subscribe exceeding the list capacity.
	ErrorTooManyEventConsumer

	// ErrorConflictEventConsumer reports a subscribe with a {callback, context}
	// pair already present in the list.
	ErrorConflictEventConsumer

	// ErrorTooManyQueuingEvtDesc reports a full event queue on an asynchronous
	// post, or an exhausted retry budget while waiting for space.
	ErrorTooManyQueuingEvtDesc

	// ErrorTooLongEmptyingEvtDescQueue reports a synchronous post that could
	// not observe an empty queue within its budget.
	ErrorTooLongEmptyingEvtDescQueue

	// ErrorEvtDescQueueEmpty reports a dequeue or pull on an empty queue.
	ErrorEvtDescQueueEmpty

	// ErrorLinkBroken reports a transport-detected peer loss. The code is
	// terminal for the link.
	ErrorLinkBroken

	// ErrorTimeout reports an operation abandoned after its time budget. The
	// operation is considered not to have happened.
	ErrorTimeout

	// ErrorNoData reports a non-blocking data receive on a drained link.
	ErrorNoData

	// ErrorBufferFull reports a non-blocking data send against a full
	// per-link data ring.
	ErrorBufferFull

	// ErrorBufferTooSmall reports an output slice too small to hold the
	// result; the slice is filled as far as it goes.
	ErrorBufferTooSmall

	// ErrorTooManyLink reports an accept bookkeeping table at capacity, or a
	// link registry holding the maximum number of live links.
	ErrorTooManyLink

	// ErrorBug reports a violated internal invariant: an unreachable branch,
	// negative queue indices, an illegal state transition. The process state
	// must be considered corrupt.
	ErrorBug
)

var isCodeError = false

// IsCodeError returns true if the package codes were already registered in
// the liberr message map when init ran.
func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = liberr.ExistInMapMessage(ErrorInvalidParam)
	liberr.RegisterIdFctMessage(ErrorInvalidParam, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case liberr.UnknownError:
		return ""
	case ErrorInvalidParam:
		return "at least one given parameter is invalid"
	case ErrorNotExistLink:
		return "link id is unknown or already closed"
	case ErrorNotExistService:
		return "service id or uri is not online"
	case ErrorNotSupport:
		return "operation not supported by transport or link role"
	case ErrorNoEventConsumer:
		return "no event consumer subscribed"
	case ErrorTooManyEventConsumer:
		return "too many event consumers subscribed"
	case ErrorConflictEventConsumer:
		return "event consumer already subscribed with same callback and context"
	case ErrorTooManyQueuingEvtDesc:
		return "too many queuing event descriptors"
	case ErrorTooLongEmptyingEvtDescQueue:
		return "too long waiting for event descriptor queue to empty"
	case ErrorEvtDescQueueEmpty:
		return "event descriptor queue is empty"
	case ErrorLinkBroken:
		return "link broken by transport"
	case ErrorTimeout:
		return "operation timed out"
	case ErrorNoData:
		return "no data available on link"
	case ErrorBufferFull:
		return "data buffer is full"
	case ErrorBufferTooSmall:
		return "given buffer is too small"
	case ErrorTooManyLink:
		return "too many links"
	case ErrorBug:
		return "internal invariant violated"
	}

	return ""
}

// IsCode returns true if err is a liberr.Error carrying the given code,
// directly or through its parent chain.
func IsCode(err error, code liberr.CodeError) bool {
	if err == nil {
		return false
	}

	var e liberr.Error
	if errors.As(err, &e) {
		return e.IsCode(code)
	}

	return false
}
