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

// Mode selects how a call is dispatched.
type Mode uint8

const (
	// Async queues the message for the dispatch thread.
	Async Mode = iota

	// Sync dispatches on the caller's thread.
	Sync
)

func (m Mode) String() string {
	if m == Sync {
		return "sync"
	}
	return "async"
}

// Wait selects the behavior when the call would block.
type Wait uint8

const (
	// NonBlock fails immediately when the operation would block.
	NonBlock Wait = iota

	// Block waits until the operation can proceed.
	Block

	// Timed waits up to the Option's Timeout budget.
	Timed
)

func (w Wait) String() string {
	switch w {
	case Block:
		return "block"
	case Timed:
		return "timed"
	}
	return "nonblock"
}

// Option qualifies a single call with its dispatch mode and blocking policy.
// A nil *Option means DefaultOption(), except where a call documents another
// default (connecting and accepting treat nil as Block).
type Option struct {
	// Mode selects caller-thread (Sync) or queued (Async) dispatch.
	Mode Mode `mapstructure:"mode" json:"mode" yaml:"mode" toml:"mode"`

	// Wait selects the blocking policy.
	Wait Wait `mapstructure:"wait" json:"wait" yaml:"wait" toml:"wait"`

	// Timeout is the time budget when Wait is Timed. A zero or negative
	// budget downgrades Timed to NonBlock.
	Timeout time.Duration `mapstructure:"timeout" json:"timeout" yaml:"timeout" toml:"timeout"`
}

// DefaultOption returns the option applied when the caller passes nil:
// asynchronous, non-blocking.
func DefaultOption() *Option {
	return &Option{
		Mode: Async,
		Wait: NonBlock,
	}
}

// OptionOrDefault returns opt, or DefaultOption() when opt is nil.
func OptionOrDefault(opt *Option) *Option {
	if opt == nil {
		return DefaultOption()
	}
	return opt
}

// MayBlock returns true when the option allows the call to wait: Block, or
// Timed with a positive budget.
func (o *Option) MayBlock() bool {
	switch o.Wait {
	case Block:
		return true
	case Timed:
		return o.Timeout > 0
	}
	return false
}

// Budget returns the remaining-wait budget: the Timeout for Timed, a negative
// sentinel for Block (unbounded), zero for NonBlock.
func (o *Option) Budget() time.Duration {
	switch o.Wait {
	case Block:
		return -1
	case Timed:
		if o.Timeout > 0 {
			return o.Timeout
		}
	}
	return 0
}

// IsSync returns true for caller-thread dispatch.
func (o *Option) IsSync() bool {
	return o.Mode == Sync
}
