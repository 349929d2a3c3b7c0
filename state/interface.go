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

// Package state implements the per-link state block: connection state,
// operation state and the role-specific sub-state, all guarded by one mutex.
//
// The operation state is independent of the connection state: Enter and Leave
// never look at the connection state, so a link of any connection state can
// go busy. The
// sub-state is Default unless the operation state is BusyCmd or BusyDat.
// Transitions outside the legal table are programming errors and come back as
// result.ErrorBug.
package state

import (
	"time"

	liberr "github.com/nabbar/golib/errors"
)

// ConnState is the connection-level (L1) state of a link.
type ConnState uint8

const (
	ConnDisconnected ConnState = iota
	ConnConnecting
	ConnConnected
	ConnDisconnecting
	ConnBroken
)

func (c ConnState) String() string {
	switch c {
	case ConnConnecting:
		return "connecting"
	case ConnConnected:
		return "connected"
	case ConnDisconnecting:
		return "disconnecting"
	case ConnBroken:
		return "broken"
	}
	return "disconnected"
}

// OpState is the operation-level (L2) state of a link.
type OpState uint8

const (
	OpReady OpState = iota
	OpBusyCbProcEvt
	OpBusySubEvt
	OpBusyUnsubEvt
	OpBusyCmd
	OpBusyDat
)

func (s OpState) String() string {
	switch s {
	case OpBusyCbProcEvt:
		return "busy-cb-proc-evt"
	case OpBusySubEvt:
		return "busy-sub-evt"
	case OpBusyUnsubEvt:
		return "busy-unsub-evt"
	case OpBusyCmd:
		return "busy-cmd"
	case OpBusyDat:
		return "busy-dat"
	}
	return "ready"
}

// SubState is the role-specific (L3) detail carried during BusyCmd / BusyDat.
type SubState uint8

const (
	SubDefault SubState = iota
	SubCmdSending
	SubCmdAwaitingAck
	SubDatSending
	SubDatReceiving
)

func (s SubState) String() string {
	switch s {
	case SubCmdSending:
		return "cmd-sending"
	case SubCmdAwaitingAck:
		return "cmd-awaiting-ack"
	case SubDatSending:
		return "dat-sending"
	case SubDatReceiving:
		return "dat-receiving"
	}
	return "default"
}

// Machine is the per-link state block.
//
// Enter moves Ready to the given busy state and Leave moves it back; both
// validate against the legal transition table and report anything else as
// result.ErrorBug. For BusyCmd and BusyDat the sub-state is set by Enter and
// reset to SubDefault by Leave.
type Machine interface {
	// ConnState returns the connection-level state.
	ConnState() ConnState

	// SetConnState replaces the connection-level state.
	SetConnState(c ConnState)

	// OpState returns the operation-level state.
	OpState() OpState

	// SubState returns the role-specific sub-state.
	SubState() SubState

	// State returns the operation state and sub-state in one read under the
	// mutex.
	State() (OpState, SubState)

	// IsReady returns true when the operation state is OpReady.
	IsReady() bool

	// Enter transitions Ready into the given busy state, recording sub for
	// BusyCmd / BusyDat. Any other source state returns result.ErrorBug.
	Enter(op OpState, sub SubState) liberr.Error

	// Leave transitions the given busy state back to Ready and resets the
	// sub-state. A mismatching current state returns result.ErrorBug.
	Leave(op OpState) liberr.Error

	// MarkSending flips the data-side is-sending flag and stamps the last
	// operation time.
	MarkSending(on bool)

	// MarkReceiving flips the data-side is-receiving flag and stamps the
	// last operation time.
	MarkReceiving(on bool)

	// IsSending returns the data-side is-sending flag.
	IsSending() bool

	// IsReceiving returns the data-side is-receiving flag.
	IsReceiving() bool

	// LastOperation returns the time of the last data-side operation.
	LastOperation() time.Time
}

// New returns a Machine in state {ConnDisconnected, OpReady, SubDefault}.
func New() Machine {
	return &mac{}
}
