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

	libcap "github.com/nabbar/ioclib/capability"
	iocmsg "github.com/nabbar/ioclib/message"
	iocres "github.com/nabbar/ioclib/result"
	iocsub "github.com/nabbar/ioclib/subscriber"
)

func (o *ioc) PostEvt(id LinkID, evt *iocmsg.EvtDesc, opt *iocmsg.Option) liberr.Error {
	if evt == nil {
		return iocres.ErrorInvalidParam.Error(nil)
	}

	opt = iocmsg.OptionOrDefault(opt)
	o.stamp(&evt.MsgDesc)

	if id == AutoLinkID {
		return o.bus.post(evt, opt)
	}

	l, err := o.getLink(id)
	if err != nil {
		return err
	}

	if !l.Usage().Has(libcap.EvtProducer) {
		return iocres.ErrorNotSupport.Error(nil)
	}

	o.metrics().IncPosted()

	return l.mth.PostEvt(l, evt, opt)
}

func (o *ioc) SubEvt(id LinkID, args iocsub.SubArgs) liberr.Error {
	if id == AutoLinkID {
		return o.bus.subEvt(args)
	}

	l, err := o.getLink(id)
	if err != nil {
		return err
	}

	if !l.Usage().Has(libcap.EvtConsumer) {
		return iocres.ErrorNotSupport.Error(nil)
	}

	return l.mth.SubEvt(l, args)
}

func (o *ioc) UnsubEvt(id LinkID, args iocsub.UnsubArgs) liberr.Error {
	if id == AutoLinkID {
		return o.bus.unsubEvt(args)
	}

	l, err := o.getLink(id)
	if err != nil {
		return err
	}

	if !l.Usage().Has(libcap.EvtConsumer) {
		return iocres.ErrorNotSupport.Error(nil)
	}

	return l.mth.UnsubEvt(l, args)
}

func (o *ioc) PullEvt(id LinkID, evt *iocmsg.EvtDesc, opt *iocmsg.Option) liberr.Error {
	if evt == nil {
		return iocres.ErrorInvalidParam.Error(nil)
	}

	if id == AutoLinkID {
		// the auto-link delivers through its dispatch goroutine only
		return iocres.ErrorNotSupport.Error(nil)
	}

	l, err := o.getLink(id)
	if err != nil {
		return err
	}

	if !l.Usage().Has(libcap.EvtConsumer) {
		return iocres.ErrorNotSupport.Error(nil)
	}

	return l.mth.PullEvt(l, evt, iocmsg.OptionOrDefault(opt))
}

func (o *ioc) BroadcastEvt(id SrvID, evt *iocmsg.EvtDesc, opt *iocmsg.Option) liberr.Error {
	if evt == nil {
		return iocres.ErrorInvalidParam.Error(nil)
	}

	s, err := o.getService(id)
	if err != nil {
		return err
	}

	if !s.arg.Flags.Has(SrvFlagBroadcastEvent) {
		return iocres.ErrorNotSupport.Error(nil)
	}

	ids := s.broadcast.list()
	if len(ids) < 1 {
		return iocres.ErrorNoEventConsumer.Error(nil)
	}

	opt = iocmsg.OptionOrDefault(opt)
	o.stamp(&evt.MsgDesc)
	o.metrics().IncPosted()

	var (
		sent bool
		last liberr.Error
	)

	for _, lid := range ids {
		l, e := o.getLink(lid)
		if e != nil {
			last = e
			continue
		}

		if e = l.mth.PostEvt(l, evt, opt); e != nil {
			last = e
			continue
		}

		sent = true
	}

	if sent {
		return nil
	}

	return last
}

func (o *ioc) ForceProcEvt(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}

	o.bus.forceProc(ctx)
}

func (o *ioc) WakeupProcEvt() {
	o.bus.wakeupProc()
}
