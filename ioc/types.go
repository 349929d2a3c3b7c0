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
	"fmt"

	liberr "github.com/nabbar/golib/errors"

	libcap "github.com/nabbar/ioclib/capability"
	iocmsg "github.com/nabbar/ioclib/message"
)

// SrvID identifies an online service. Zero is never a valid id.
type SrvID uint64

// LinkID identifies a link. Zero is never a valid id.
type LinkID uint64

const (
	// InvalidID is the zero id, valid for neither services nor links.
	InvalidID = 0

	// AutoLinkID is the reserved link id of the process-wide connection-less
	// auto-link (the Conles event bus).
	AutoLinkID LinkID = 1
)

// Reserved URI constants.
const (
	// ProtoFifo is the in-process FIFO transport protocol name.
	ProtoFifo = "fifo"

	// HostLocalProcess is the only host the FIFO transport accepts.
	HostLocalProcess = "localprocess"
)

// URI names a service endpoint. Uniqueness while online is on the whole
// {Proto, Host, Path, Port} tuple; Port is only meaningful for networked
// protocols.
type URI struct {
	Proto string `mapstructure:"proto" json:"proto" yaml:"proto" toml:"proto" validate:"required"`
	Host  string `mapstructure:"host" json:"host" yaml:"host" toml:"host" validate:"required"`
	Path  string `mapstructure:"path" json:"path" yaml:"path" toml:"path"`
	Port  uint16 `mapstructure:"port" json:"port" yaml:"port" toml:"port"`
}

func (u URI) String() string {
	if u.Port > 0 {
		return fmt.Sprintf("%s://%s:%d/%s", u.Proto, u.Host, u.Port, u.Path)
	}
	return fmt.Sprintf("%s://%s/%s", u.Proto, u.Host, u.Path)
}

// SrvFlag carries the optional service behaviors.
type SrvFlag uint8

const (
	// SrvFlagAutoAccept makes the service accept incoming connects from a
	// daemon goroutine instead of explicit AcceptClient calls.
	SrvFlagAutoAccept SrvFlag = 1 << iota

	// SrvFlagBroadcastEvent makes the service accept links into the
	// broadcast table so BroadcastEvt can fan a post out to all of them.
	// It implies daemon-driven accepting like SrvFlagAutoAccept.
	SrvFlagBroadcastEvent
)

// Has returns true when every bit of f is set.
func (s SrvFlag) Has(f SrvFlag) bool {
	return f != 0 && s&f == f
}

// FuncAccept is the hook an auto-accept service invokes once per accepted
// link, with the private context given in SrvArgs.
type FuncAccept func(srv SrvID, link LinkID, priv interface{})

// FuncExecCmd is the executor-side command handler. It fills cmd.Output and
// cmd.Result and returns nil for a succeeded command.
type FuncExecCmd func(link LinkID, cmd *iocmsg.CmdDesc, priv interface{}) liberr.Error

// FuncRecvDat is the receiver-side data callback. The descriptor it receives
// is only valid for the duration of the call.
type FuncRecvDat func(link LinkID, dat *iocmsg.DatDesc, priv interface{}) liberr.Error

// UsageArgs carries the role-specific callbacks a link endpoint registers at
// connect or online time. Unused slots stay nil: a data receiver with a nil
// CbRecvDat is a polling receiver.
type UsageArgs struct {
	CbExecCmd  FuncExecCmd
	CbExecPriv interface{}

	CbRecvDat  FuncRecvDat
	CbRecvPriv interface{}
}

// SrvArgs describes a service to online.
type SrvArgs struct {
	// URI is the endpoint name; its Proto selects the transport.
	URI URI

	// Capabilities is the union of roles the service accepts from clients'
	// complements.
	Capabilities libcap.Usage

	// Flags selects auto-accept and broadcast behavior.
	Flags SrvFlag

	// UsageArgs applies to every service-side link the service accepts.
	UsageArgs UsageArgs

	// OnAccept, when set on an auto-accept or broadcast service, runs once
	// per accepted link with AcceptPriv.
	OnAccept   FuncAccept
	AcceptPriv interface{}
}

// ConnArgs describes a client connect.
type ConnArgs struct {
	// URI is the endpoint to connect to.
	URI URI

	// Usage is the single role this link takes on.
	Usage libcap.Usage

	// UsageArgs carries the role-specific callbacks of this endpoint.
	UsageArgs UsageArgs
}
