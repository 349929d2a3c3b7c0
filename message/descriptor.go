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

package message

import "time"

// MsgDesc holds the metadata common to events, commands and data chunks.
// Both fields are stamped by the public facade at post time, never by the
// caller.
type MsgDesc struct {
	// SeqID is a process-wide monotonic counter value.
	SeqID uint64 `mapstructure:"seq_id" json:"seq_id" yaml:"seq_id" toml:"seq_id" cbor:"1,keyasint"`

	// TimeStamp is the wall time captured at post.
	TimeStamp time.Time `mapstructure:"timestamp" json:"timestamp" yaml:"timestamp" toml:"timestamp" cbor:"2,keyasint"`
}

// EvtDesc describes a one-way event notification.
type EvtDesc struct {
	MsgDesc `mapstructure:",squash" cbor:"3,keyasint"`

	// EvtID is the class/name pair subscribers filter on.
	EvtID EvtID `mapstructure:"evt_id" json:"evt_id" yaml:"evt_id" toml:"evt_id" cbor:"4,keyasint"`

	// Value is a caller-defined word carried with the event.
	Value uint64 `mapstructure:"evt_value" json:"evt_value" yaml:"evt_value" toml:"evt_value" cbor:"5,keyasint"`

	// Payload is an optional opaque payload; the substrate never looks at it.
	Payload []byte `mapstructure:"payload" json:"payload,omitempty" yaml:"payload,omitempty" toml:"payload" cbor:"6,keyasint,omitempty"`
}

// CmdStatus tracks the lifecycle of a command descriptor.
type CmdStatus uint8

const (
	CmdStatusInitialized CmdStatus = iota
	CmdStatusSending
	CmdStatusSucceed
	CmdStatusFailed
	CmdStatusTimeout
)

func (s CmdStatus) String() string {
	switch s {
	case CmdStatusInitialized:
		return "initialized"
	case CmdStatusSending:
		return "sending"
	case CmdStatusSucceed:
		return "succeed"
	case CmdStatusFailed:
		return "failed"
	case CmdStatusTimeout:
		return "timeout"
	}
	return "unknown"
}

// CmdDesc describes one request/response exchange. The initiator fills CmdID,
// Input and Timeout; the executor fills Output and Result; the substrate
// drives Status.
type CmdDesc struct {
	MsgDesc `mapstructure:",squash" cbor:"3,keyasint"`

	// CmdID identifies the command class to the executor.
	CmdID uint64 `mapstructure:"cmd_id" json:"cmd_id" yaml:"cmd_id" toml:"cmd_id" cbor:"4,keyasint"`

	// Input is the request payload.
	Input []byte `mapstructure:"input" json:"input,omitempty" yaml:"input,omitempty" toml:"input" cbor:"5,keyasint,omitempty"`

	// Output is the response payload, filled by the executor.
	Output []byte `mapstructure:"output" json:"output,omitempty" yaml:"output,omitempty" toml:"output" cbor:"6,keyasint,omitempty"`

	// Status is the command lifecycle state, driven by the substrate.
	Status CmdStatus `mapstructure:"status" json:"status" yaml:"status" toml:"status" cbor:"7,keyasint"`

	// Result is the executor's result code, meaningful once Status is
	// CmdStatusSucceed or CmdStatusFailed.
	Result int32 `mapstructure:"result" json:"result" yaml:"result" toml:"result" cbor:"8,keyasint"`

	// Timeout is the exchange budget carried with the command. The built-in
	// FIFO transport runs the executor synchronously and does not apply it.
	Timeout time.Duration `mapstructure:"timeout" json:"timeout" yaml:"timeout" toml:"timeout" cbor:"9,keyasint"`
}

// DatStatus tracks the lifecycle of a data descriptor.
type DatStatus uint8

const (
	DatStatusInitialized DatStatus = iota
	DatStatusSending
	DatStatusReceived
	DatStatusFailed
)

func (s DatStatus) String() string {
	switch s {
	case DatStatusInitialized:
		return "initialized"
	case DatStatusSending:
		return "sending"
	case DatStatusReceived:
		return "received"
	case DatStatusFailed:
		return "failed"
	}
	return "unknown"
}

// DatDesc describes one ordered chunk of a data stream.
//
// On send, Data is the chunk to transmit and Used its meaningful length (zero
// means the whole slice). On receive, Data is the caller's buffer; Used is set
// to the number of bytes actually written into it.
type DatDesc struct {
	MsgDesc `mapstructure:",squash" cbor:"3,keyasint"`

	// Data is the chunk on send, the destination buffer on receive.
	Data []byte `mapstructure:"data" json:"data,omitempty" yaml:"data,omitempty" toml:"data" cbor:"4,keyasint,omitempty"`

	// Used is the number of meaningful bytes in Data.
	Used int `mapstructure:"used" json:"used" yaml:"used" toml:"used" cbor:"5,keyasint"`

	// Status is the chunk lifecycle state, driven by the substrate.
	Status DatStatus `mapstructure:"status" json:"status" yaml:"status" toml:"status" cbor:"6,keyasint"`

	// Result is the transport result code for this chunk.
	Result int32 `mapstructure:"result" json:"result" yaml:"result" toml:"result" cbor:"7,keyasint"`
}

// Size returns the meaningful length of the chunk: Used when set, the whole
// slice otherwise.
func (d *DatDesc) Size() int {
	if d.Used > 0 && d.Used <= len(d.Data) {
		return d.Used
	}
	return len(d.Data)
}

// Bytes returns the meaningful part of the chunk.
func (d *DatDesc) Bytes() []byte {
	return d.Data[:d.Size()]
}
