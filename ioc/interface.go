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

	liberr "github.com/nabbar/golib/errors"
	liblog "github.com/nabbar/golib/logger"

	libcap "github.com/nabbar/ioclib/capability"
	iocmsg "github.com/nabbar/ioclib/message"
	iocstt "github.com/nabbar/ioclib/state"
	iocsub "github.com/nabbar/ioclib/subscriber"
)

// IOC is one substrate runtime: registries, protocol table, seq-id counter
// and the connection-less auto-link bus with its dispatch goroutine.
type IOC interface {

	// OnlineService publishes a service under its URI and returns its id.
	// A URI already online returns result.ErrorInvalidParam; an unknown
	// protocol returns result.ErrorNotSupport. Auto-accept and broadcast
	// services start their accept daemon before the call returns.
	OnlineService(args SrvArgs) (SrvID, liberr.Error)

	// OfflineService stops the service's daemons, force-closes every link it
	// still tracks, runs the transport offline hook and frees the id.
	OfflineService(id SrvID) liberr.Error

	// AcceptClient accepts one pending connect on a manual service and
	// records the new link in the manual-accept table. A nil option blocks
	// until a connect arrives.
	AcceptClient(id SrvID, opt *iocmsg.Option) (LinkID, liberr.Error)

	// GetServiceLinkIDs copies the ids of the links accepted by the
	// service's daemons into buf and returns how many were written. A buf
	// too small returns result.ErrorBufferTooSmall with buf filled as far
	// as it goes.
	GetServiceLinkIDs(id SrvID, buf []LinkID) (int, liberr.Error)

	// ConnectService connects to an online service, taking on the single
	// role of args.Usage. The role must be the complement of a capability
	// the service advertises, else result.ErrorInvalidParam. A nil option
	// blocks until the service accepts.
	ConnectService(args ConnArgs, opt *iocmsg.Option) (LinkID, liberr.Error)

	// CloseLink tears the link down: transport state, peer back-reference,
	// pending callbacks. It is idempotent-safe: a second close returns
	// result.ErrorNotExistLink without corrupting anything. After it
	// returns, no callback registered on the link runs again.
	CloseLink(id LinkID) liberr.Error

	// GetLinkState reads the link's operation state and sub-state in one
	// mutex-held read. AutoLinkID reads the bus state.
	GetLinkState(id LinkID) (iocstt.OpState, iocstt.SubState, liberr.Error)

	// PostEvt stamps the descriptor's seq-id and timestamp, then posts it:
	// to the Conles bus for AutoLinkID, through the link's transport
	// otherwise. The option selects sync/async dispatch and the blocking
	// policy applied when the queue is full or busy.
	PostEvt(id LinkID, evt *iocmsg.EvtDesc, opt *iocmsg.Option) liberr.Error

	// SubEvt installs a subscriber on the link or on the auto-link.
	SubEvt(id LinkID, args iocsub.SubArgs) liberr.Error

	// UnsubEvt removes the subscriber matching the {callback, context} pair.
	UnsubEvt(id LinkID, args iocsub.UnsubArgs) liberr.Error

	// PullEvt dequeues one pending event on a polling consumer link.
	PullEvt(id LinkID, evt *iocmsg.EvtDesc, opt *iocmsg.Option) liberr.Error

	// BroadcastEvt posts the event to every link in the service's broadcast
	// table; an empty table returns result.ErrorNoEventConsumer.
	BroadcastEvt(id SrvID, evt *iocmsg.EvtDesc, opt *iocmsg.Option) liberr.Error

	// ForceProcEvt wakes the bus dispatch goroutine and polls until the
	// auto-link queue is empty or ctx is done.
	ForceProcEvt(ctx context.Context)

	// WakeupProcEvt signals the bus dispatch goroutine once, without
	// blocking. A latency hint only.
	WakeupProcEvt()

	// SendDat sends one ordered chunk on a sender link. Success means the
	// chunk was delivered to the receiver callback or enqueued on the
	// receiver ring, never that it was dropped.
	SendDat(id LinkID, dat *iocmsg.DatDesc, opt *iocmsg.Option) liberr.Error

	// RecvDat receives into dat.Data on a polling receiver link; dat.Used
	// reports the bytes written. A drained link returns result.ErrorNoData
	// under a non-blocking option.
	RecvDat(id LinkID, dat *iocmsg.DatDesc, opt *iocmsg.Option) liberr.Error

	// FlushDat returns once everything sent on the link before the call is
	// delivered or dequeueable.
	FlushDat(id LinkID, opt *iocmsg.Option) liberr.Error

	// ExecCmd runs one request/response exchange from an initiator link;
	// the descriptor's Status and Result report the outcome.
	ExecCmd(id LinkID, cmd *iocmsg.CmdDesc, opt *iocmsg.Option) liberr.Error

	// WaitCmd receives a pending command on an executor link, for
	// transports that deliver commands by polling.
	WaitCmd(id LinkID, cmd *iocmsg.CmdDesc, opt *iocmsg.Option) liberr.Error

	// AckCmd completes a command received through WaitCmd.
	AckCmd(id LinkID, cmd *iocmsg.CmdDesc, opt *iocmsg.Option) liberr.Error

	// GetCapability reports the static limits of the given block.
	GetCapability(id libcap.CapID) (libcap.Description, liberr.Error)

	// RegisterProtocol adds a transport to the protocol table. A name
	// already registered returns result.ErrorInvalidParam.
	RegisterProtocol(p Protocol) liberr.Error

	// GetLink resolves a live link for a transport implementation; a
	// closed or unknown id returns result.ErrorNotExistLink.
	GetLink(id LinkID) (LinkObject, liberr.Error)

	// SetMetrics replaces the metrics sink; nil restores the no-op sink.
	SetMetrics(m Metrics)

	// Close flushes the bus, stops the dispatch goroutine and offlines
	// every service. Later calls are not refused as such: ids of closed links
	// and services report NotExist, while OnlineService and the auto-link
	// calls still run; the dispatch goroutine is not restarted.
	Close() liberr.Error
}

// New builds a runtime from the configuration and starts the auto-link
// dispatch goroutine under ctx. A nil log means silent.
func New(ctx context.Context, cfg Config, log liblog.FuncLog) (IOC, liberr.Error) {
	if e := cfg.Validate(); e != nil {
		return nil, e
	}

	r, e := newRuntime(ctx, cfg.withDefault(), log)
	if e != nil {
		return nil, e
	}

	return r, nil
}
