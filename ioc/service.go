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
	"sync"
	"sync/atomic"
	"time"

	liberr "github.com/nabbar/golib/errors"
	librun "github.com/nabbar/golib/runner/startStop"

	libcap "github.com/nabbar/ioclib/capability"
	iocmsg "github.com/nabbar/ioclib/message"
	iocres "github.com/nabbar/ioclib/result"
	iocstt "github.com/nabbar/ioclib/state"
)

// acceptTable is one of the three accept bookkeeping structures of a
// service, each guarded by its own mutex.
type acceptTable struct {
	m   sync.Mutex
	max int
	ids []LinkID
}

func (t *acceptTable) add(id LinkID) liberr.Error {
	t.m.Lock()
	defer t.m.Unlock()

	if len(t.ids) >= t.max {
		return iocres.ErrorTooManyLink.Error(nil)
	}

	t.ids = append(t.ids, id)
	return nil
}

func (t *acceptTable) remove(id LinkID) {
	t.m.Lock()
	defer t.m.Unlock()

	for i := range t.ids {
		if t.ids[i] == id {
			t.ids = append(t.ids[:i], t.ids[i+1:]...)
			return
		}
	}
}

func (t *acceptTable) list() []LinkID {
	t.m.Lock()
	defer t.m.Unlock()

	ids := make([]LinkID, len(t.ids))
	copy(ids, t.ids)
	return ids
}

type srv struct {
	id  SrvID
	arg SrvArgs
	mth Protocol
	prv *atomic.Value

	manual    acceptTable
	auto      acceptTable
	broadcast acceptTable

	dmn *atomic.Value // librun.StartStop
}

func (s *srv) ID() SrvID {
	return s.id
}

func (s *srv) URI() URI {
	return s.arg.URI
}

func (s *srv) Args() SrvArgs {
	return s.arg
}

func (s *srv) ProtoPriv() interface{} {
	return s.prv.Load()
}

func (s *srv) SetProtoPriv(v interface{}) {
	s.prv.Store(v)
}

func (s *srv) forgetLink(id LinkID) {
	s.manual.remove(id)
	s.auto.remove(id)
	s.broadcast.remove(id)
}

func (s *srv) trackedLinks() []LinkID {
	ids := s.manual.list()
	ids = append(ids, s.auto.list()...)
	ids = append(ids, s.broadcast.list()...)
	return ids
}

func (s *srv) runner() librun.StartStop {
	if r, ok := s.dmn.Load().(librun.StartStop); ok {
		return r
	}
	return nil
}

func (o *ioc) OnlineService(args SrvArgs) (SrvID, liberr.Error) {
	if args.URI.Proto == "" || args.URI.Host == "" || args.Capabilities == libcap.UsageNone {
		return InvalidID, iocres.ErrorInvalidParam.Error(nil)
	}

	mth, err := o.getProtocol(args.URI.Proto)
	if err != nil {
		return InvalidID, err
	}

	o.sm.Lock()

	if uint(len(o.srv)) >= uint(libcap.MaxSrvNum) {
		o.sm.Unlock()
		return InvalidID, iocres.ErrorInvalidParam.Error(nil)
	}

	if _, ok := o.uri[args.URI.String()]; ok {
		o.sm.Unlock()
		return InvalidID, iocres.ErrorInvalidParam.Error(nil)
	}

	o.sid++

	s := &srv{
		id:        SrvID(o.sid),
		arg:       args,
		mth:       mth,
		prv:       new(atomic.Value),
		manual:    acceptTable{max: libcap.MaxManualAcceptLink},
		auto:      acceptTable{max: libcap.MaxAutoAcceptLink},
		broadcast: acceptTable{max: libcap.MaxBroadcastLink},
		dmn:       new(atomic.Value),
	}

	o.srv[s.id] = s
	o.uri[args.URI.String()] = s.id
	o.sm.Unlock()

	if err = mth.OnlineService(s); err != nil {
		o.sm.Lock()
		delete(o.srv, s.id)
		delete(o.uri, args.URI.String())
		o.sm.Unlock()
		return InvalidID, err
	}

	if args.Flags.Has(SrvFlagAutoAccept) || args.Flags.Has(SrvFlagBroadcastEvent) {
		r := librun.New(func(ctx context.Context) error {
			o.acceptDaemon(ctx, s)
			return nil
		}, nil)

		s.dmn.Store(r)

		if e := r.Start(o.ctx); e != nil {
			_ = o.OfflineService(s.id)
			return InvalidID, iocres.ErrorBug.Error(e)
		}
	}

	o.logInf("service online", "uri", args.URI.String(), "id", s.id)

	return s.id, nil
}

// acceptDaemon accepts incoming connects in a loop, records them in the
// auto-accept or broadcast table and runs the user hook.
func (o *ioc) acceptDaemon(ctx context.Context, s *srv) {
	opt := &iocmsg.Option{Wait: iocmsg.Timed, Timeout: 100 * time.Millisecond}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		l, err := o.acceptOne(s, opt)
		if err != nil {
			if iocres.IsCode(err, iocres.ErrorNotExistService) {
				return
			}
			continue
		}

		tbl := &s.auto
		if s.arg.Flags.Has(SrvFlagBroadcastEvent) {
			tbl = &s.broadcast
		}

		if e := tbl.add(l.id); e != nil {
			o.logErr("accept table full, closing link", e)
			_ = o.CloseLink(l.id)
			continue
		}

		if s.arg.OnAccept != nil {
			s.arg.OnAccept(s.id, l.id, s.arg.AcceptPriv)
		}
	}
}

// acceptOne creates the service-side link and hands it to the transport
// accept; the transport binds the negotiated role before returning.
func (o *ioc) acceptOne(s *srv, opt *iocmsg.Option) (*lnk, liberr.Error) {
	l, err := o.newLink(s.arg.URI, libcap.UsageNone, s.arg.UsageArgs, s.id, s.mth)
	if err != nil {
		return nil, err
	}

	if err = s.mth.AcceptClient(s, l, opt); err != nil {
		o.dropLink(l.id)
		return nil, err
	}

	l.mac.SetConnState(iocstt.ConnConnected)

	return l, nil
}

func (o *ioc) AcceptClient(id SrvID, opt *iocmsg.Option) (LinkID, liberr.Error) {
	s, err := o.getService(id)
	if err != nil {
		return InvalidID, err
	}

	if opt == nil {
		opt = &iocmsg.Option{Wait: iocmsg.Block}
	}

	l, err := o.acceptOne(s, opt)
	if err != nil {
		return InvalidID, err
	}

	if err = s.manual.add(l.id); err != nil {
		_ = o.CloseLink(l.id)
		return InvalidID, err
	}

	return l.id, nil
}

func (o *ioc) GetServiceLinkIDs(id SrvID, buf []LinkID) (int, liberr.Error) {
	s, err := o.getService(id)
	if err != nil {
		return 0, err
	}

	ids := s.auto.list()
	ids = append(ids, s.broadcast.list()...)

	n := copy(buf, ids)
	if n < len(ids) {
		return n, iocres.ErrorBufferTooSmall.Error(nil)
	}

	return n, nil
}

func (o *ioc) OfflineService(id SrvID) liberr.Error {
	o.sm.Lock()
	s, ok := o.srv[id]
	if ok {
		delete(o.srv, id)
		delete(o.uri, s.arg.URI.String())
	}
	o.sm.Unlock()

	if !ok {
		return iocres.ErrorNotExistService.Error(nil)
	}

	if r := s.runner(); r != nil && r.IsRunning() {
		ctx, cnl := context.WithTimeout(context.Background(), time.Second)
		_ = r.Stop(ctx)
		cnl()
	}

	// accepted links that still exist are closed forcibly: offline must
	// release every resource the service created.
	for _, lid := range s.trackedLinks() {
		_ = o.CloseLink(lid)
	}

	if e := s.mth.OfflineService(s); e != nil && !iocres.IsCode(e, iocres.ErrorNotSupport) {
		o.logErr("transport offline failed", e)
	}

	o.logInf("service offline", "uri", s.arg.URI.String(), "id", s.id)

	return nil
}

func (o *ioc) getService(id SrvID) (*srv, liberr.Error) {
	o.sm.RLock()
	defer o.sm.RUnlock()

	if s, ok := o.srv[id]; ok {
		return s, nil
	}

	return nil, iocres.ErrorNotExistService.Error(nil)
}

func (o *ioc) getServiceByURI(u URI) (*srv, liberr.Error) {
	o.sm.RLock()
	defer o.sm.RUnlock()

	if id, ok := o.uri[u.String()]; ok {
		if s, ok := o.srv[id]; ok {
			return s, nil
		}
	}

	return nil, iocres.ErrorNotExistService.Error(nil)
}
