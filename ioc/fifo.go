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
	"sync"
	"sync/atomic"
	"time"

	liberr "github.com/nabbar/golib/errors"

	libcap "github.com/nabbar/ioclib/capability"
	iocmsg "github.com/nabbar/ioclib/message"
	iocque "github.com/nabbar/ioclib/queue"
	iocres "github.com/nabbar/ioclib/result"
	iocstt "github.com/nabbar/ioclib/state"
	iocsub "github.com/nabbar/ioclib/subscriber"
)

// protoFifo is the in-process transport: a connect pairs two link objects,
// one at the service and one at the client, each holding its peer's link id.
// Peers are re-resolved through the registry on every call, so a closed peer
// surfaces as result.ErrorLinkBroken instead of a dangling reference.
//
// Events dispatch by direct callback on the caller's thread, data delivers
// through the receiver callback or a bounded polled ring, and commands run
// the executor handler synchronously.
type protoFifo struct {
	UnimplementedProtocol

	r *ioc
}

func newProtoFifo(r *ioc) *protoFifo {
	return &protoFifo{r: r}
}

func (p *protoFifo) Name() string {
	return ProtoFifo
}

// fifoSrv is the service-side private state: the queue of connects waiting
// for an accept.
type fifoSrv struct {
	closed *atomic.Bool
	pend   chan *fifoConn
}

// fifoConn is one connect waiting to be paired; err is set before done is
// closed when the pairing fails.
type fifoConn struct {
	cli  LinkID
	done chan struct{}
	err  liberr.Error
}

// fifoLnk is the link-side private state: the peer back-reference and the
// polled rings.
type fifoLnk struct {
	peer *atomic.Uint64

	evt iocque.Queue[iocmsg.EvtDesc]

	datMux sync.Mutex
	dat    iocque.Queue[iocmsg.DatDesc]
	cur    iocmsg.DatDesc
	curOff int
	sig    chan struct{}
}

func (p *protoFifo) newFifoLnk() *fifoLnk {
	return &fifoLnk{
		peer: new(atomic.Uint64),
		evt:  iocque.New[iocmsg.EvtDesc](p.r.cfg.QueueSize),
		dat:  iocque.New[iocmsg.DatDesc](p.r.cfg.QueueSize),
		sig:  make(chan struct{}, 1),
	}
}

func (p *protoFifo) lnkPriv(l LinkObject) (*fifoLnk, liberr.Error) {
	if v, ok := l.ProtoPriv().(*fifoLnk); ok && v != nil {
		return v, nil
	}
	return nil, iocres.ErrorBug.Error(nil)
}

// peerOf re-resolves the peer link through the registry; a cleared or
// unresolvable peer means the link is broken.
func (p *protoFifo) peerOf(l LinkObject) (LinkObject, *fifoLnk, liberr.Error) {
	v, err := p.lnkPriv(l)
	if err != nil {
		return nil, nil, err
	}

	pid := v.peer.Load()
	if pid == 0 {
		return nil, nil, iocres.ErrorLinkBroken.Error(nil)
	}

	peer, err := p.r.getLink(LinkID(pid))
	if err != nil {
		return nil, nil, iocres.ErrorLinkBroken.Error(err)
	}

	pv, err := p.lnkPriv(peer)
	if err != nil {
		return nil, nil, err
	}

	return peer, pv, nil
}

func (p *protoFifo) OnlineService(s ServiceObject) liberr.Error {
	if s.URI().Host != HostLocalProcess {
		return iocres.ErrorInvalidParam.Error(nil)
	}

	sp := &fifoSrv{
		closed: new(atomic.Bool),
		pend:   make(chan *fifoConn, libcap.MaxCliNum),
	}
	s.SetProtoPriv(sp)

	return nil
}

func (p *protoFifo) OfflineService(s ServiceObject) liberr.Error {
	sp, ok := s.ProtoPriv().(*fifoSrv)
	if !ok || sp == nil {
		return nil
	}

	sp.closed.Store(true)

	for {
		select {
		case c := <-sp.pend:
			c.err = iocres.ErrorNotExistService.Error(nil)
			close(c.done)
		default:
			return nil
		}
	}
}

func (p *protoFifo) ConnectService(l LinkObject, args ConnArgs, opt *iocmsg.Option) liberr.Error {
	s, err := p.r.getServiceByURI(args.URI)
	if err != nil {
		return err
	}

	sp, ok := s.ProtoPriv().(*fifoSrv)
	if !ok || sp == nil || sp.closed.Load() {
		return iocres.ErrorNotExistService.Error(nil)
	}

	l.SetProtoPriv(p.newFifoLnk())

	c := &fifoConn{
		cli:  l.ID(),
		done: make(chan struct{}),
	}

	select {
	case sp.pend <- c:
	default:
		return iocres.ErrorTooManyLink.Error(nil)
	}

	// wait for the accept side; Block re-checks the service periodically so
	// an offline while waiting cannot wedge the caller.
	var deadline time.Time
	if b := opt.Budget(); b > 0 {
		deadline = time.Now().Add(b)
	} else if b == 0 {
		deadline = time.Now().Add(100 * time.Millisecond)
	}

	for {
		select {
		case <-c.done:
			if c.err != nil {
				return c.err
			}
			return nil

		case <-time.After(50 * time.Millisecond):
			if sp.closed.Load() {
				return iocres.ErrorNotExistService.Error(nil)
			}
			if !deadline.IsZero() && time.Now().After(deadline) {
				return iocres.ErrorTimeout.Error(nil)
			}
		}
	}
}

func (p *protoFifo) AcceptClient(s ServiceObject, l LinkObject, opt *iocmsg.Option) liberr.Error {
	sp, ok := s.ProtoPriv().(*fifoSrv)
	if !ok || sp == nil {
		return iocres.ErrorBug.Error(nil)
	}

	var c *fifoConn

	switch {
	case opt.Budget() < 0:
		select {
		case c = <-sp.pend:
		case <-p.r.ctx.Done():
			return iocres.ErrorTimeout.Error(nil)
		}

	case opt.Budget() > 0:
		select {
		case c = <-sp.pend:
		case <-time.After(opt.Budget()):
			return iocres.ErrorTimeout.Error(nil)
		case <-p.r.ctx.Done():
			return iocres.ErrorTimeout.Error(nil)
		}

	default:
		select {
		case c = <-sp.pend:
		default:
			return iocres.ErrorTimeout.Error(nil)
		}
	}

	cli, err := p.r.getLink(c.cli)
	if err != nil {
		c.err = iocres.ErrorLinkBroken.Error(nil)
		close(c.done)
		return iocres.ErrorLinkBroken.Error(err)
	}

	cv, err := p.lnkPriv(cli)
	if err != nil {
		c.err = err
		close(c.done)
		return err
	}

	l.SetUsage(libcap.Complement(cli.Usage()))
	lp := p.newFifoLnk()
	lp.peer.Store(uint64(c.cli))
	l.SetProtoPriv(lp)

	cv.peer.Store(uint64(l.ID()))

	close(c.done)
	return nil
}

func (p *protoFifo) CloseLink(l LinkObject) liberr.Error {
	v, err := p.lnkPriv(l)
	if err != nil {
		return nil
	}

	pid := v.peer.Swap(0)
	if pid == 0 {
		return nil
	}

	// clear the peer's back-reference so its next call reports LinkBroken
	if peer, e := p.r.getLink(LinkID(pid)); e == nil {
		if pv, e2 := p.lnkPriv(peer); e2 == nil {
			pv.peer.Store(0)
		}
	}

	return nil
}

func (p *protoFifo) SubEvt(l LinkObject, args iocsub.SubArgs) liberr.Error {
	return l.Subscribers().Insert(args, l.Machine())
}

func (p *protoFifo) UnsubEvt(l LinkObject, args iocsub.UnsubArgs) liberr.Error {
	return l.Subscribers().Remove(args, l.Machine())
}

func (p *protoFifo) PostEvt(l LinkObject, evt *iocmsg.EvtDesc, opt *iocmsg.Option) liberr.Error {
	peer, pv, err := p.peerOf(l)
	if err != nil {
		return err
	}

	if cnt := peer.Subscribers().Dispatch(evt, peer.Machine()); cnt > 0 {
		return nil
	}

	if !peer.Subscribers().IsEmpty() {
		// subscribed, but no filter matched
		return iocres.ErrorNoEventConsumer.Error(nil)
	}

	if !peer.Usage().Has(libcap.EvtConsumer) {
		return iocres.ErrorNoEventConsumer.Error(nil)
	}

	// polling consumer: queue for PullEvt
	return p.backpressure(opt, func() liberr.Error {
		return pv.evt.EnqueueLast(*evt)
	}, iocres.ErrorTooManyQueuingEvtDesc)
}

func (p *protoFifo) PullEvt(l LinkObject, evt *iocmsg.EvtDesc, opt *iocmsg.Option) liberr.Error {
	v, err := p.lnkPriv(l)
	if err != nil {
		return err
	}

	var deadline time.Time
	if b := opt.Budget(); b > 0 {
		deadline = time.Now().Add(b)
	}

	for {
		if d, e := v.evt.DequeueFirst(); e == nil {
			*evt = d
			return nil
		}

		if !opt.MayBlock() {
			return iocres.ErrorEvtDescQueueEmpty.Error(nil)
		}

		if !deadline.IsZero() && time.Now().After(deadline) {
			return iocres.ErrorEvtDescQueueEmpty.Error(nil)
		}

		time.Sleep(p.r.cfg.BackoffStep)
	}
}

func (p *protoFifo) SendData(l LinkObject, dat *iocmsg.DatDesc, opt *iocmsg.Option) liberr.Error {
	peer, pv, err := p.peerOf(l)
	if err != nil {
		dat.Status = iocmsg.DatStatusFailed
		return err
	}

	dat.Status = iocmsg.DatStatusSending

	if cb := peer.UsageArgs().CbRecvDat; cb != nil {
		return p.sendByCallback(l, peer, pv, dat, cb)
	}

	// polling receiver: the ring owns a copy of the bytes, so success means
	// the chunk is dequeueable whatever the sender does with its buffer.
	cp := *dat
	cp.Data = append([]byte(nil), dat.Bytes()...)
	cp.Used = len(cp.Data)
	cp.Status = iocmsg.DatStatusReceived

	sent := l.Machine().Enter(iocstt.OpBusyDat, iocstt.SubDatSending) == nil
	l.Machine().MarkSending(true)

	err = p.backpressure(opt, func() liberr.Error {
		return pv.dat.EnqueueLast(cp)
	}, iocres.ErrorBufferFull)

	l.Machine().MarkSending(false)
	if sent {
		_ = l.Machine().Leave(iocstt.OpBusyDat)
	}

	if err != nil {
		dat.Status = iocmsg.DatStatusFailed
		return err
	}

	select {
	case pv.sig <- struct{}{}:
	default:
	}

	dat.Status = iocmsg.DatStatusReceived
	return nil
}

func (p *protoFifo) sendByCallback(l, peer LinkObject, pv *fifoLnk, dat *iocmsg.DatDesc, cb FuncRecvDat) liberr.Error {
	// one delivery at a time per receiver
	pv.datMux.Lock()
	defer pv.datMux.Unlock()

	sent := l.Machine().Enter(iocstt.OpBusyDat, iocstt.SubDatSending) == nil
	l.Machine().MarkSending(true)

	rcvd := peer.Machine().Enter(iocstt.OpBusyDat, iocstt.SubDatReceiving) == nil
	peer.Machine().MarkReceiving(true)

	cp := *dat
	cp.Status = iocmsg.DatStatusReceived

	err := cb(peer.ID(), &cp, peer.UsageArgs().CbRecvPriv)

	peer.Machine().MarkReceiving(false)
	if rcvd {
		_ = peer.Machine().Leave(iocstt.OpBusyDat)
	}

	l.Machine().MarkSending(false)
	if sent {
		_ = l.Machine().Leave(iocstt.OpBusyDat)
	}

	if err != nil {
		dat.Status = iocmsg.DatStatusFailed
		return err
	}

	dat.Status = iocmsg.DatStatusReceived
	return nil
}

func (p *protoFifo) RecvData(l LinkObject, dat *iocmsg.DatDesc, opt *iocmsg.Option) liberr.Error {
	v, err := p.lnkPriv(l)
	if err != nil {
		return err
	}

	if len(dat.Data) < 1 {
		return iocres.ErrorInvalidParam.Error(nil)
	}

	var deadline time.Time
	if b := opt.Budget(); b > 0 {
		deadline = time.Now().Add(b)
	}

	for {
		v.datMux.Lock()

		if v.curOff >= v.cur.Size() {
			if d, e := v.dat.DequeueFirst(); e == nil {
				v.cur = d
				v.curOff = 0
			}
		}

		if v.curOff < v.cur.Size() {
			rcvd := l.Machine().Enter(iocstt.OpBusyDat, iocstt.SubDatReceiving) == nil
			l.Machine().MarkReceiving(true)

			n := copy(dat.Data, v.cur.Bytes()[v.curOff:])
			v.curOff += n
			dat.Used = n
			dat.Status = iocmsg.DatStatusReceived

			l.Machine().MarkReceiving(false)
			if rcvd {
				_ = l.Machine().Leave(iocstt.OpBusyDat)
			}

			v.datMux.Unlock()
			return nil
		}

		v.datMux.Unlock()

		if !opt.MayBlock() {
			return iocres.ErrorNoData.Error(nil)
		}

		if !deadline.IsZero() && time.Now().After(deadline) {
			return iocres.ErrorTimeout.Error(nil)
		}

		select {
		case <-v.sig:
		case <-time.After(p.r.cfg.ForceProcPoll):
		}
	}
}

// FlushData has nothing to drain: SendData only ever returns success once
// the chunk is delivered to the callback or sitting in the ring.
func (p *protoFifo) FlushData(LinkObject, *iocmsg.Option) liberr.Error {
	return nil
}

func (p *protoFifo) ExecCmd(l LinkObject, cmd *iocmsg.CmdDesc, opt *iocmsg.Option) liberr.Error {
	peer, _, err := p.peerOf(l)
	if err != nil {
		cmd.Status = iocmsg.CmdStatusFailed
		return err
	}

	cb := peer.UsageArgs().CbExecCmd
	if cb == nil {
		return iocres.ErrorNotSupport.Error(nil)
	}

	sent := l.Machine().Enter(iocstt.OpBusyCmd, iocstt.SubCmdSending) == nil
	cmd.Status = iocmsg.CmdStatusSending

	exec := peer.Machine().Enter(iocstt.OpBusyCmd, iocstt.SubDefault) == nil

	err = cb(peer.ID(), cmd, peer.UsageArgs().CbExecPriv)

	if exec {
		_ = peer.Machine().Leave(iocstt.OpBusyCmd)
	}

	if err != nil {
		cmd.Status = iocmsg.CmdStatusFailed
		if cmd.Result == 0 {
			cmd.Result = int32(err.Code())
		}
	} else {
		cmd.Status = iocmsg.CmdStatusSucceed
	}

	if sent {
		_ = l.Machine().Leave(iocstt.OpBusyCmd)
	}

	return err
}

// backpressure applies the option's blocking policy to a bounded enqueue:
// fail fast, wait with a budget, or wait until space.
func (p *protoFifo) backpressure(opt *iocmsg.Option, try func() liberr.Error, full liberr.CodeError) liberr.Error {
	err := try()
	if err == nil || !iocres.IsCode(err, iocres.ErrorTooManyQueuingEvtDesc) {
		return err
	}

	if !opt.MayBlock() {
		return full.Error(nil)
	}

	var deadline time.Time
	if b := opt.Budget(); b > 0 {
		deadline = time.Now().Add(b)
	}

	for {
		time.Sleep(p.r.cfg.BackoffStep)

		if err = try(); err == nil {
			return nil
		} else if !iocres.IsCode(err, iocres.ErrorTooManyQueuingEvtDesc) {
			return err
		}

		if !deadline.IsZero() && time.Now().After(deadline) {
			return iocres.ErrorTimeout.Error(nil)
		}
	}
}
