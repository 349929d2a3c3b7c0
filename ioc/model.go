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

	"github.com/bits-and-blooms/bitset"

	liberr "github.com/nabbar/golib/errors"
	liblog "github.com/nabbar/golib/logger"

	iocmsg "github.com/nabbar/ioclib/message"
	iocres "github.com/nabbar/ioclib/result"
)

type ioc struct {
	ctx context.Context
	cfg Config
	log liblog.FuncLog

	seq *atomic.Uint64
	met *atomic.Value // Metrics
	cls *atomic.Bool

	pm  sync.RWMutex
	pro map[string]Protocol

	sm  sync.RWMutex
	srv map[SrvID]*srv
	uri map[string]SrvID
	sid uint64

	lm  sync.RWMutex
	lnk map[LinkID]*lnk
	liv *bitset.BitSet
	lid uint64

	bus *conles
}

func newRuntime(ctx context.Context, cfg Config, log liblog.FuncLog) (*ioc, liberr.Error) {
	if ctx == nil {
		ctx = context.Background()
	}

	o := &ioc{
		ctx: ctx,
		cfg: cfg,
		log: log,
		seq: new(atomic.Uint64),
		met: new(atomic.Value),
		cls: new(atomic.Bool),
		pro: make(map[string]Protocol),
		srv: make(map[SrvID]*srv),
		uri: make(map[string]SrvID),
		lnk: make(map[LinkID]*lnk),
		liv: bitset.New(uint(cfg.MaxLink)),
		lid: uint64(AutoLinkID),
	}

	o.met.Store(metricsBox{m: &nopMetrics{}})
	o.pro[ProtoFifo] = newProtoFifo(o)
	o.bus = newConles(o)

	if e := o.bus.start(ctx); e != nil {
		return nil, e
	}

	return o, nil
}

func (o *ioc) logger() liblog.Logger {
	if o.log == nil {
		return nil
	}
	return o.log()
}

func (o *ioc) logErr(msg string, err error) {
	if l := o.logger(); l != nil {
		l.Error(msg, nil, err)
	}
}

func (o *ioc) logInf(msg string, args ...interface{}) {
	if l := o.logger(); l != nil {
		l.Info(msg, nil, args...)
	}
}

// metricsBox keeps the atomic.Value concrete type stable whatever sink the
// caller installs.
type metricsBox struct {
	m Metrics
}

func (o *ioc) metrics() Metrics {
	if b, ok := o.met.Load().(metricsBox); ok && b.m != nil {
		return b.m
	}
	return &nopMetrics{}
}

func (o *ioc) SetMetrics(m Metrics) {
	if m == nil {
		m = &nopMetrics{}
	}
	o.met.Store(metricsBox{m: m})
}

// stamp assigns the process-wide monotonic seq-id and the wall timestamp to a
// descriptor about to be posted.
func (o *ioc) stamp(m *iocmsg.MsgDesc) {
	m.SeqID = o.seq.Add(1)
	m.TimeStamp = time.Now()
}

func (o *ioc) RegisterProtocol(p Protocol) liberr.Error {
	if p == nil || p.Name() == "" {
		return iocres.ErrorInvalidParam.Error(nil)
	}

	o.pm.Lock()
	defer o.pm.Unlock()

	if _, ok := o.pro[p.Name()]; ok {
		return iocres.ErrorInvalidParam.Error(nil)
	}

	o.pro[p.Name()] = p
	return nil
}

func (o *ioc) getProtocol(name string) (Protocol, liberr.Error) {
	o.pm.RLock()
	defer o.pm.RUnlock()

	if p, ok := o.pro[name]; ok {
		return p, nil
	}

	return nil, iocres.ErrorNotSupport.Error(nil)
}

func (o *ioc) Close() liberr.Error {
	if !o.cls.CompareAndSwap(false, true) {
		return nil
	}

	ctx, cnl := context.WithTimeout(context.Background(), time.Second)
	defer cnl()

	o.bus.forceProc(ctx)
	o.bus.stop(ctx)

	o.sm.RLock()
	ids := make([]SrvID, 0, len(o.srv))
	for id := range o.srv {
		ids = append(ids, id)
	}
	o.sm.RUnlock()

	for _, id := range ids {
		_ = o.OfflineService(id)
	}

	o.lm.RLock()
	lds := make([]LinkID, 0, len(o.lnk))
	for id := range o.lnk {
		lds = append(lds, id)
	}
	o.lm.RUnlock()

	for _, id := range lds {
		_ = o.CloseLink(id)
	}

	o.logInf("ioc runtime closed")
	return nil
}
