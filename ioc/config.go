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
	"time"

	"github.com/go-playground/validator/v10"

	liberr "github.com/nabbar/golib/errors"

	libcap "github.com/nabbar/ioclib/capability"
	iocres "github.com/nabbar/ioclib/result"
)

// Config carries the runtime tunables. The zero value of any field takes the
// default below; limits reported by the capability query stay the static
// constants of the capability package.
type Config struct {
	// QueueSize is the event queue depth of the auto-link and of each
	// polling link ring.
	QueueSize uint64 `mapstructure:"queue_size" json:"queue_size" yaml:"queue_size" toml:"queue_size" validate:"omitempty,lte=65536"`

	// MaxSubscriber is the subscriber list capacity per link and for the
	// auto-link.
	MaxSubscriber int `mapstructure:"max_subscriber" json:"max_subscriber" yaml:"max_subscriber" toml:"max_subscriber" validate:"omitempty,lte=4096"`

	// MaxLink is the maximum number of live links in the registry.
	MaxLink uint `mapstructure:"max_link" json:"max_link" yaml:"max_link" toml:"max_link" validate:"omitempty,lte=65536"`

	// DispatchDeadline is the auto-link dispatch goroutine's wait deadline:
	// the queue is drained at least this often even without a wakeup signal.
	DispatchDeadline time.Duration `mapstructure:"dispatch_deadline" json:"dispatch_deadline" yaml:"dispatch_deadline" toml:"dispatch_deadline"`

	// BackoffStep is the sleep applied per retry while a may-block post
	// waits for queue space.
	BackoffStep time.Duration `mapstructure:"backoff_step" json:"backoff_step" yaml:"backoff_step" toml:"backoff_step"`

	// ForceProcPoll is the gap between emptiness polls in ForceProcEvt.
	ForceProcPoll time.Duration `mapstructure:"force_proc_poll" json:"force_proc_poll" yaml:"force_proc_poll" toml:"force_proc_poll"`
}

const (
	defaultDispatchDeadline = 10 * time.Millisecond
	defaultBackoffStep      = 9 * time.Microsecond
	defaultForceProcPoll    = time.Millisecond
	defaultMaxLink          = 256
)

func (c Config) withDefault() Config {
	if c.QueueSize == 0 {
		c.QueueSize = libcap.MaxQueuingEvtDesc
	}
	if c.MaxSubscriber == 0 {
		c.MaxSubscriber = libcap.MaxEvtConsumer
	}
	if c.MaxLink == 0 {
		c.MaxLink = defaultMaxLink
	}
	if c.DispatchDeadline <= 0 {
		c.DispatchDeadline = defaultDispatchDeadline
	}
	if c.BackoffStep <= 0 {
		c.BackoffStep = defaultBackoffStep
	}
	if c.ForceProcPoll <= 0 {
		c.ForceProcPoll = defaultForceProcPoll
	}
	return c
}

// Validate checks the configuration constraints and returns one error
// carrying a parent per violated field.
func (c Config) Validate() liberr.Error {
	val := validator.New()
	err := val.Struct(c)

	if e, ok := err.(*validator.InvalidValidationError); ok {
		return iocres.ErrorInvalidParam.Error(e)
	}

	out := iocres.ErrorInvalidParam.Error(nil)

	if err != nil {
		for _, e := range err.(validator.ValidationErrors) {
			//nolint goerr113
			out.AddParent(fmt.Errorf("config field '%s' is not validated by constraint '%s'", e.Field(), e.ActualTag()))
		}
	}

	if out.HasParent() {
		return out
	}

	return nil
}
