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
	"sync/atomic"

	liberr "github.com/nabbar/golib/errors"

	libcap "github.com/nabbar/ioclib/capability"
	iocmsg "github.com/nabbar/ioclib/message"
	iocres "github.com/nabbar/ioclib/result"
	iocstt "github.com/nabbar/ioclib/state"
	iocsub "github.com/nabbar/ioclib/subscriber"
)

type lnk struct {
	id  LinkID
	uri URI
	srv SrvID
	mth Protocol

	usg *atomic.Uint32 // libcap.Usage
	arg UsageArgs
	mac iocstt.Machine
	sub iocsub.List
	prv *atomic.Value
}

func (l *lnk) ID() LinkID {
	return l.id
}

func (l *lnk) URI() URI {
	return l.uri
}

func (l *lnk) Usage() libcap.Usage {
	return libcap.Usage(l.usg.Load())
}

func (l *lnk) SetUsage(u libcap.Usage) {
	l.usg.Store(uint32(u))
}

func (l *lnk) UsageArgs() UsageArgs {
	return l.arg
}

func (l *lnk) Machine() iocstt.Machine {
	return l.mac
}

func (l *lnk) Subscribers() iocsub.List {
	return l.sub
}

func (l *lnk) ProtoPriv() interface{} {
	return l.prv.Load()
}

func (l *lnk) SetProtoPriv(v interface{}) {
	l.prv.Store(v)
}

// newLink allocates and registers a link object. The id space starts right
// after the reserved auto-link id and never reuses an id; the live-slot
// bitset bounds the number of links alive at once.
func (o *ioc) newLink(uri URI, usage libcap.Usage, arg UsageArgs, srv SrvID, mth Protocol) (*lnk, liberr.Error) {
	o.lm.Lock()
	defer o.lm.Unlock()

	if o.liv.Count() >= o.cfg.MaxLink {
		return nil, iocres.ErrorTooManyLink.Error(nil)
	}

	o.lid++

	l := &lnk{
		id:  LinkID(o.lid),
		uri: uri,
		srv: srv,
		mth: mth,
		usg: new(atomic.Uint32),
		arg: arg,
		mac: iocstt.New(),
		sub: iocsub.New(o.cfg.MaxSubscriber),
		prv: new(atomic.Value),
	}
	l.SetUsage(usage)

	o.lnk[l.id] = l
	o.liv.Set(uint(l.id))

	return l, nil
}

// dropLink unregisters a link; it returns the object so the caller can
// finish tearing it down outside the registry lock.
func (o *ioc) dropLink(id LinkID) *lnk {
	o.lm.Lock()
	defer o.lm.Unlock()

	l, ok := o.lnk[id]
	if !ok {
		return nil
	}

	delete(o.lnk, id)
	o.liv.Clear(uint(id))

	return l
}

func (o *ioc) getLink(id LinkID) (*lnk, liberr.Error) {
	o.lm.RLock()
	defer o.lm.RUnlock()

	if l, ok := o.lnk[id]; ok {
		return l, nil
	}

	return nil, iocres.ErrorNotExistLink.Error(nil)
}

// GetLink is the transport-facing resolver: peers are held as link ids and
// re-resolved on each call, never as pointers.
func (o *ioc) GetLink(id LinkID) (LinkObject, liberr.Error) {
	return o.getLink(id)
}

func (o *ioc) ConnectService(args ConnArgs, opt *iocmsg.Option) (LinkID, liberr.Error) {
	if !args.Usage.IsSingleRole() {
		return InvalidID, iocres.ErrorInvalidParam.Error(nil)
	}

	s, err := o.getServiceByURI(args.URI)
	if err != nil {
		return InvalidID, err
	}

	if _, err = libcap.Negotiate(s.arg.Capabilities, args.Usage); err != nil {
		return InvalidID, err
	}

	l, err := o.newLink(args.URI, args.Usage, args.UsageArgs, s.id, s.mth)
	if err != nil {
		return InvalidID, err
	}

	l.mac.SetConnState(iocstt.ConnConnecting)

	if opt == nil {
		opt = &iocmsg.Option{Wait: iocmsg.Block}
	}

	if err = s.mth.ConnectService(l, args, opt); err != nil {
		o.dropLink(l.id)
		o.logErr("connect failed on "+args.URI.String(), err)
		return InvalidID, err
	}

	l.mac.SetConnState(iocstt.ConnConnected)

	return l.id, nil
}

func (o *ioc) CloseLink(id LinkID) liberr.Error {
	if id == AutoLinkID {
		return iocres.ErrorNotSupport.Error(nil)
	}

	l := o.dropLink(id)
	if l == nil {
		return iocres.ErrorNotExistLink.Error(nil)
	}

	l.mac.SetConnState(iocstt.ConnDisconnecting)

	if e := l.mth.CloseLink(l); e != nil && !iocres.IsCode(e, iocres.ErrorNotSupport) {
		o.logErr("transport close failed", e)
	}

	// Clear takes the list mutex, so an in-flight dispatch on this link has
	// finished before close returns and no callback can run afterwards.
	l.sub.Clear()

	if s, err := o.getService(l.srv); err == nil {
		s.forgetLink(id)
	}

	l.mac.SetConnState(iocstt.ConnDisconnected)

	return nil
}

func (o *ioc) GetLinkState(id LinkID) (iocstt.OpState, iocstt.SubState, liberr.Error) {
	if id == AutoLinkID {
		op, sb := o.bus.mac.State()
		return op, sb, nil
	}

	l, err := o.getLink(id)
	if err != nil {
		return iocstt.OpReady, iocstt.SubDefault, err
	}

	op, sb := l.mac.State()
	return op, sb, nil
}
