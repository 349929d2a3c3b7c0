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
)

func (o *ioc) ExecCmd(id LinkID, cmd *iocmsg.CmdDesc, opt *iocmsg.Option) liberr.Error {
	if cmd == nil {
		return iocres.ErrorInvalidParam.Error(nil)
	}

	l, err := o.getLink(id)
	if err != nil {
		return err
	}

	if !l.Usage().Has(libcap.CmdInitiator) {
		return iocres.ErrorNotSupport.Error(nil)
	}

	o.stamp(&cmd.MsgDesc)

	return l.mth.ExecCmd(l, cmd, iocmsg.OptionOrDefault(opt))
}

func (o *ioc) WaitCmd(id LinkID, cmd *iocmsg.CmdDesc, opt *iocmsg.Option) liberr.Error {
	if cmd == nil {
		return iocres.ErrorInvalidParam.Error(nil)
	}

	l, err := o.getLink(id)
	if err != nil {
		return err
	}

	if !l.Usage().Has(libcap.CmdExecutor) {
		return iocres.ErrorNotSupport.Error(nil)
	}

	return l.mth.WaitCmd(l, cmd, iocmsg.OptionOrDefault(opt))
}

func (o *ioc) AckCmd(id LinkID, cmd *iocmsg.CmdDesc, opt *iocmsg.Option) liberr.Error {
	if cmd == nil {
		return iocres.ErrorInvalidParam.Error(nil)
	}

	l, err := o.getLink(id)
	if err != nil {
		return err
	}

	if !l.Usage().Has(libcap.CmdExecutor) {
		return iocres.ErrorNotSupport.Error(nil)
	}

	return l.mth.AckCmd(l, cmd, iocmsg.OptionOrDefault(opt))
}
