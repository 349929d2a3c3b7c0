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

package state

import (
	"fmt"
	"sync"
	"time"

	liberr "github.com/nabbar/golib/errors"

	iocres "github.com/nabbar/ioclib/result"
)

type mac struct {
	m sync.Mutex

	cn ConnState
	op OpState
	sb SubState

	snd bool
	rcv bool
	lst time.Time
}

func (o *mac) ConnState() ConnState {
	o.m.Lock()
	defer o.m.Unlock()

	return o.cn
}

func (o *mac) SetConnState(c ConnState) {
	o.m.Lock()
	defer o.m.Unlock()

	o.cn = c
}

func (o *mac) OpState() OpState {
	o.m.Lock()
	defer o.m.Unlock()

	return o.op
}

func (o *mac) SubState() SubState {
	o.m.Lock()
	defer o.m.Unlock()

	return o.sb
}

func (o *mac) State() (OpState, SubState) {
	o.m.Lock()
	defer o.m.Unlock()

	return o.op, o.sb
}

func (o *mac) IsReady() bool {
	o.m.Lock()
	defer o.m.Unlock()

	return o.op == OpReady
}

func (o *mac) Enter(op OpState, sub SubState) liberr.Error {
	o.m.Lock()
	defer o.m.Unlock()

	if o.op != OpReady || op == OpReady {
		//nolint #goerr113
		return iocres.ErrorBug.Error(fmt.Errorf("illegal transition %s -> %s", o.op, op))
	}

	o.op = op

	if op == OpBusyCmd || op == OpBusyDat {
		o.sb = sub
	} else {
		o.sb = SubDefault
	}

	return nil
}

func (o *mac) Leave(op OpState) liberr.Error {
	o.m.Lock()
	defer o.m.Unlock()

	if o.op != op || op == OpReady {
		//nolint #goerr113
		return iocres.ErrorBug.Error(fmt.Errorf("illegal transition %s -> ready (expected %s)", o.op, op))
	}

	o.op = OpReady
	o.sb = SubDefault

	return nil
}

func (o *mac) MarkSending(on bool) {
	o.m.Lock()
	defer o.m.Unlock()

	o.snd = on
	o.lst = time.Now()
}

func (o *mac) MarkReceiving(on bool) {
	o.m.Lock()
	defer o.m.Unlock()

	o.rcv = on
	o.lst = time.Now()
}

func (o *mac) IsSending() bool {
	o.m.Lock()
	defer o.m.Unlock()

	return o.snd
}

func (o *mac) IsReceiving() bool {
	o.m.Lock()
	defer o.m.Unlock()

	return o.rcv
}

func (o *mac) LastOperation() time.Time {
	o.m.Lock()
	defer o.m.Unlock()

	return o.lst
}
