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

// Package capability defines the link roles, the producer/consumer complement
// rule applied at connect and accept time, and the static limits the
// substrate reports through the capability query.
package capability

import (
	"strings"

	liberr "github.com/nabbar/golib/errors"

	iocres "github.com/nabbar/ioclib/result"
)

// Usage is a bitset of link roles. A service advertises the union of the
// roles it accepts; a link carries exactly one role.
type Usage uint8

const (
	EvtProducer Usage = 1 << iota
	EvtConsumer
	CmdInitiator
	CmdExecutor
	DatSender
	DatReceiver
)

// UsageNone is the zero Usage.
const UsageNone Usage = 0

func (u Usage) String() string {
	var s []string

	for _, p := range []struct {
		u Usage
		n string
	}{
		{EvtProducer, "evt-producer"},
		{EvtConsumer, "evt-consumer"},
		{CmdInitiator, "cmd-initiator"},
		{CmdExecutor, "cmd-executor"},
		{DatSender, "dat-sender"},
		{DatReceiver, "dat-receiver"},
	} {
		if u.Has(p.u) {
			s = append(s, p.n)
		}
	}

	if len(s) < 1 {
		return "none"
	}

	return strings.Join(s, "|")
}

// Has returns true when every bit of r is set in u.
func (u Usage) Has(r Usage) bool {
	return r != UsageNone && u&r == r
}

// IsSingleRole returns true when exactly one role bit is set.
func (u Usage) IsSingleRole() bool {
	return u != UsageNone && u&(u-1) == UsageNone
}

// Complement returns the peer role for each role bit of u: producer and
// consumer swap, initiator and executor swap, sender and receiver swap.
func Complement(u Usage) Usage {
	var c Usage

	if u.Has(EvtProducer) {
		c |= EvtConsumer
	}
	if u.Has(EvtConsumer) {
		c |= EvtProducer
	}
	if u.Has(CmdInitiator) {
		c |= CmdExecutor
	}
	if u.Has(CmdExecutor) {
		c |= CmdInitiator
	}
	if u.Has(DatSender) {
		c |= DatReceiver
	}
	if u.Has(DatReceiver) {
		c |= DatSender
	}

	return c
}

// Negotiate applies the complement rule at connect / accept time: the client
// must request exactly one role, and the service must advertise that role's
// complement. The returned usage is the role the service-side link takes on.
func Negotiate(srvCap Usage, cliUsage Usage) (Usage, liberr.Error) {
	if !cliUsage.IsSingleRole() {
		return UsageNone, iocres.ErrorInvalidParam.Error(nil)
	}

	srvUsage := Complement(cliUsage)
	if !srvCap.Has(srvUsage) {
		return UsageNone, iocres.ErrorInvalidParam.Error(nil)
	}

	return srvUsage, nil
}
