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
	liberr "github.com/nabbar/golib/errors"

	libcap "github.com/nabbar/ioclib/capability"
	iocmsg "github.com/nabbar/ioclib/message"
	iocres "github.com/nabbar/ioclib/result"
	iocstt "github.com/nabbar/ioclib/state"
	iocsub "github.com/nabbar/ioclib/subscriber"
)

// ServiceObject is the view of a service a transport protocol works with.
type ServiceObject interface {
	// ID returns the service id.
	ID() SrvID

	// URI returns the endpoint name.
	URI() URI

	// Args returns the online arguments.
	Args() SrvArgs

	// ProtoPriv returns the transport-private state attached to the service.
	ProtoPriv() interface{}

	// SetProtoPriv attaches transport-private state to the service.
	SetProtoPriv(v interface{})
}

// LinkObject is the view of a link a transport protocol works with.
type LinkObject interface {
	// ID returns the link id.
	ID() LinkID

	// URI returns the endpoint the link belongs to.
	URI() URI

	// Usage returns the single role of the link.
	Usage() libcap.Usage

	// SetUsage binds the negotiated role; the accept path of a transport
	// calls it before the link becomes visible.
	SetUsage(u libcap.Usage)

	// UsageArgs returns the role-specific callbacks of this endpoint.
	UsageArgs() UsageArgs

	// Machine returns the per-link state block.
	Machine() iocstt.Machine

	// Subscribers returns the per-link subscriber list.
	Subscribers() iocsub.List

	// ProtoPriv returns the transport-private state attached to the link.
	ProtoPriv() interface{}

	// SetProtoPriv attaches transport-private state to the link.
	SetProtoPriv(v interface{})
}

// Protocol is the operation table the substrate requires of every transport.
//
// A transport that does not support an operation leaves the default of
// UnimplementedProtocol in place, which returns result.ErrorNotSupport; the
// facade relies on that instead of probing for presence.
type Protocol interface {
	// Name returns the URI protocol name the transport registers under.
	Name() string

	OnlineService(s ServiceObject) liberr.Error
	OfflineService(s ServiceObject) liberr.Error

	ConnectService(l LinkObject, args ConnArgs, opt *iocmsg.Option) liberr.Error
	AcceptClient(s ServiceObject, l LinkObject, opt *iocmsg.Option) liberr.Error
	CloseLink(l LinkObject) liberr.Error

	SubEvt(l LinkObject, args iocsub.SubArgs) liberr.Error
	UnsubEvt(l LinkObject, args iocsub.UnsubArgs) liberr.Error
	PostEvt(l LinkObject, evt *iocmsg.EvtDesc, opt *iocmsg.Option) liberr.Error
	PullEvt(l LinkObject, evt *iocmsg.EvtDesc, opt *iocmsg.Option) liberr.Error

	SendData(l LinkObject, dat *iocmsg.DatDesc, opt *iocmsg.Option) liberr.Error
	RecvData(l LinkObject, dat *iocmsg.DatDesc, opt *iocmsg.Option) liberr.Error
	FlushData(l LinkObject, opt *iocmsg.Option) liberr.Error

	ExecCmd(l LinkObject, cmd *iocmsg.CmdDesc, opt *iocmsg.Option) liberr.Error
	WaitCmd(l LinkObject, cmd *iocmsg.CmdDesc, opt *iocmsg.Option) liberr.Error
	AckCmd(l LinkObject, cmd *iocmsg.CmdDesc, opt *iocmsg.Option) liberr.Error
}

// UnimplementedProtocol is the embeddable base of every transport: each
// method returns result.ErrorNotSupport, so a transport only overrides the
// operations it actually provides.
type UnimplementedProtocol struct{}

func (UnimplementedProtocol) OnlineService(ServiceObject) liberr.Error {
	return iocres.ErrorNotSupport.Error(nil)
}

func (UnimplementedProtocol) OfflineService(ServiceObject) liberr.Error {
	return iocres.ErrorNotSupport.Error(nil)
}

func (UnimplementedProtocol) ConnectService(LinkObject, ConnArgs, *iocmsg.Option) liberr.Error {
	return iocres.ErrorNotSupport.Error(nil)
}

func (UnimplementedProtocol) AcceptClient(ServiceObject, LinkObject, *iocmsg.Option) liberr.Error {
	return iocres.ErrorNotSupport.Error(nil)
}

func (UnimplementedProtocol) CloseLink(LinkObject) liberr.Error {
	return iocres.ErrorNotSupport.Error(nil)
}

func (UnimplementedProtocol) SubEvt(LinkObject, iocsub.SubArgs) liberr.Error {
	return iocres.ErrorNotSupport.Error(nil)
}

func (UnimplementedProtocol) UnsubEvt(LinkObject, iocsub.UnsubArgs) liberr.Error {
	return iocres.ErrorNotSupport.Error(nil)
}

func (UnimplementedProtocol) PostEvt(LinkObject, *iocmsg.EvtDesc, *iocmsg.Option) liberr.Error {
	return iocres.ErrorNotSupport.Error(nil)
}

func (UnimplementedProtocol) PullEvt(LinkObject, *iocmsg.EvtDesc, *iocmsg.Option) liberr.Error {
	return iocres.ErrorNotSupport.Error(nil)
}

func (UnimplementedProtocol) SendData(LinkObject, *iocmsg.DatDesc, *iocmsg.Option) liberr.Error {
	return iocres.ErrorNotSupport.Error(nil)
}

func (UnimplementedProtocol) RecvData(LinkObject, *iocmsg.DatDesc, *iocmsg.Option) liberr.Error {
	return iocres.ErrorNotSupport.Error(nil)
}

func (UnimplementedProtocol) FlushData(LinkObject, *iocmsg.Option) liberr.Error {
	return iocres.ErrorNotSupport.Error(nil)
}

func (UnimplementedProtocol) ExecCmd(LinkObject, *iocmsg.CmdDesc, *iocmsg.Option) liberr.Error {
	return iocres.ErrorNotSupport.Error(nil)
}

func (UnimplementedProtocol) WaitCmd(LinkObject, *iocmsg.CmdDesc, *iocmsg.Option) liberr.Error {
	return iocres.ErrorNotSupport.Error(nil)
}

func (UnimplementedProtocol) AckCmd(LinkObject, *iocmsg.CmdDesc, *iocmsg.Option) liberr.Error {
	return iocres.ErrorNotSupport.Error(nil)
}
