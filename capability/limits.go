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

package capability

import (
	liberr "github.com/nabbar/golib/errors"

	iocres "github.com/nabbar/ioclib/result"
)

// Static limits of the substrate. These are compile-time constants surfaced
// through GetCapability, not tunables.
const (
	// MaxSrvNum is the maximum number of services online at once.
	MaxSrvNum = 16

	// MaxCliNum is the maximum number of accepted clients per service.
	MaxCliNum = 32

	// MaxQueuingEvtDesc is the event queue depth of a link or auto-link.
	MaxQueuingEvtDesc = 64

	// MaxEvtConsumer is the subscriber list capacity of a link or auto-link.
	MaxEvtConsumer = 16

	// MaxAutoAcceptLink bounds the auto-accept bookkeeping table.
	MaxAutoAcceptLink = 16

	// MaxManualAcceptLink bounds the manual-accept bookkeeping table.
	MaxManualAcceptLink = 32

	// MaxBroadcastLink bounds the broadcast fan-out table.
	MaxBroadcastLink = 3

	// MaxDataQueueSize is the per-link data queue size, in bytes, reported
	// by the capability query. The FIFO transport bounds its data ring by
	// chunk count (Config.QueueSize), not by this byte figure.
	MaxDataQueueSize = 128 << 10
)

// CapID selects which capability block a query returns.
type CapID uint8

const (
	CapConlesModeEvent CapID = iota + 1
	CapConetModeEvent
	CapConetModeData
	CapConetModeCommand
)

func (c CapID) String() string {
	switch c {
	case CapConlesModeEvent:
		return "conles-mode-event"
	case CapConetModeEvent:
		return "conet-mode-event"
	case CapConetModeData:
		return "conet-mode-data"
	case CapConetModeCommand:
		return "conet-mode-command"
	}
	return "unknown"
}

// Description is the answer to a capability query.
type Description struct {
	CapID CapID

	// MaxSrvNum / MaxCliNum apply to every connection-oriented block.
	MaxSrvNum uint16
	MaxCliNum uint16

	// Event-mode fields.
	MaxQueuingEvtDesc uint16
	MaxEvtConsumer    uint16

	// Data-mode field.
	MaxDataQueueSize uint32
}

// GetCapability returns the static limits for the given block id; an unknown
// id returns result.ErrorNotSupport.
func GetCapability(id CapID) (Description, liberr.Error) {
	switch id {
	case CapConlesModeEvent:
		return Description{
			CapID:             id,
			MaxQueuingEvtDesc: MaxQueuingEvtDesc,
			MaxEvtConsumer:    MaxEvtConsumer,
		}, nil

	case CapConetModeEvent:
		return Description{
			CapID:             id,
			MaxSrvNum:         MaxSrvNum,
			MaxCliNum:         MaxCliNum,
			MaxQueuingEvtDesc: MaxQueuingEvtDesc,
			MaxEvtConsumer:    MaxEvtConsumer,
		}, nil

	case CapConetModeData:
		return Description{
			CapID:            id,
			MaxSrvNum:        MaxSrvNum,
			MaxCliNum:        MaxCliNum,
			MaxDataQueueSize: MaxDataQueueSize,
		}, nil

	case CapConetModeCommand:
		return Description{
			CapID:     id,
			MaxSrvNum: MaxSrvNum,
			MaxCliNum: MaxCliNum,
		}, nil
	}

	return Description{}, iocres.ErrorNotSupport.Error(nil)
}
