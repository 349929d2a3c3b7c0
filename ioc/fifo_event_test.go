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

// fifo_event_test.go exercises the FIFO transport event path: delivery by
// direct callback, role negotiation at connect, polled consumption and the
// close-link guarantees.
package ioc_test

import (
	"sync/atomic"
	"time"

	liberr "github.com/nabbar/golib/errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	libcap "github.com/nabbar/ioclib/capability"
	libioc "github.com/nabbar/ioclib/ioc"
	iocmsg "github.com/nabbar/ioclib/message"
	iocres "github.com/nabbar/ioclib/result"
	iocsub "github.com/nabbar/ioclib/subscriber"
)

var _ = Describe("FIFO Transport Events", func() {
	var (
		r   libioc.IOC
		evK iocmsg.EvtID
	)

	BeforeEach(func() {
		r = newTestRuntime()
		evK = iocmsg.NewEvtID(2, 200)
	})

	AfterEach(func() {
		Expect(r.Close()).ToNot(HaveOccurred())
	})

	Context("event delivery through a connected pair", func() {
		It("should hand the posted event to the consumer callback exactly once", func() {
			uri := fifoURI()
			_, acc := onlineAutoAccept(r, libioc.SrvArgs{
				URI:          uri,
				Capabilities: libcap.EvtProducer,
			})

			cli, err := r.ConnectService(libioc.ConnArgs{URI: uri, Usage: libcap.EvtConsumer}, optBlock())
			Expect(err).ToNot(HaveOccurred())

			srvLnk := waitAccepted(acc)

			var (
				cnt  = new(atomic.Int64)
				seen = new(atomic.Uint64)
			)

			Expect(r.SubEvt(cli, iocsub.SubArgs{
				CbProcEvt: func(evt *iocmsg.EvtDesc, priv interface{}) liberr.Error {
					cnt.Add(1)
					seen.Store(evt.Value)
					Expect(evt.EvtID).To(Equal(evK))
					return nil
				},
				EvtIDs: []iocmsg.EvtID{evK},
			})).ToNot(HaveOccurred())

			Expect(r.PostEvt(srvLnk, &iocmsg.EvtDesc{EvtID: evK, Value: 42}, optNonBlock())).ToNot(HaveOccurred())

			Expect(cnt.Load()).To(Equal(int64(1)))
			Expect(seen.Load()).To(Equal(uint64(42)))
		})

		It("should refuse a post whose filter matches no subscriber", func() {
			uri := fifoURI()
			_, acc := onlineAutoAccept(r, libioc.SrvArgs{
				URI:          uri,
				Capabilities: libcap.EvtProducer,
			})

			cli, err := r.ConnectService(libioc.ConnArgs{URI: uri, Usage: libcap.EvtConsumer}, optBlock())
			Expect(err).ToNot(HaveOccurred())

			srvLnk := waitAccepted(acc)

			Expect(r.SubEvt(cli, iocsub.SubArgs{
				CbProcEvt: func(evt *iocmsg.EvtDesc, priv interface{}) liberr.Error { return nil },
				EvtIDs:    []iocmsg.EvtID{iocmsg.NewEvtID(9, 9)},
			})).ToNot(HaveOccurred())

			err = r.PostEvt(srvLnk, &iocmsg.EvtDesc{EvtID: evK}, optNonBlock())
			Expect(iocres.IsCode(err, iocres.ErrorNoEventConsumer)).To(BeTrue())
		})
	})

	Context("role negotiation at connect", func() {
		It("should refuse a non complementary usage and accept the complement", func() {
			uri := fifoURI()
			_, _ = onlineAutoAccept(r, libioc.SrvArgs{
				URI:          uri,
				Capabilities: libcap.EvtProducer,
			})

			_, err := r.ConnectService(libioc.ConnArgs{URI: uri, Usage: libcap.EvtProducer}, optBlock())
			Expect(iocres.IsCode(err, iocres.ErrorInvalidParam)).To(BeTrue())

			cli, err := r.ConnectService(libioc.ConnArgs{URI: uri, Usage: libcap.EvtConsumer}, optBlock())
			Expect(err).ToNot(HaveOccurred())
			Expect(cli).ToNot(Equal(libioc.LinkID(libioc.InvalidID)))
		})

		It("should enforce the role on each operation", func() {
			uri := fifoURI()
			_, acc := onlineAutoAccept(r, libioc.SrvArgs{
				URI:          uri,
				Capabilities: libcap.EvtProducer,
			})

			cli, err := r.ConnectService(libioc.ConnArgs{URI: uri, Usage: libcap.EvtConsumer}, optBlock())
			Expect(err).ToNot(HaveOccurred())

			srvLnk := waitAccepted(acc)

			// a consumer cannot post, a producer cannot subscribe
			err = r.PostEvt(cli, &iocmsg.EvtDesc{EvtID: evK}, optNonBlock())
			Expect(iocres.IsCode(err, iocres.ErrorNotSupport)).To(BeTrue())

			err = r.SubEvt(srvLnk, iocsub.SubArgs{
				CbProcEvt: func(evt *iocmsg.EvtDesc, priv interface{}) liberr.Error { return nil },
				EvtIDs:    []iocmsg.EvtID{evK},
			})
			Expect(iocres.IsCode(err, iocres.ErrorNotSupport)).To(BeTrue())
		})
	})

	Context("polled consumption", func() {
		It("should queue events for an unsubscribed consumer and serve PullEvt", func() {
			uri := fifoURI()
			_, acc := onlineAutoAccept(r, libioc.SrvArgs{
				URI:          uri,
				Capabilities: libcap.EvtProducer,
			})

			cli, err := r.ConnectService(libioc.ConnArgs{URI: uri, Usage: libcap.EvtConsumer}, optBlock())
			Expect(err).ToNot(HaveOccurred())

			srvLnk := waitAccepted(acc)

			for i := uint64(1); i <= 3; i++ {
				Expect(r.PostEvt(srvLnk, &iocmsg.EvtDesc{EvtID: evK, Value: i}, optNonBlock())).ToNot(HaveOccurred())
			}

			for i := uint64(1); i <= 3; i++ {
				var evt iocmsg.EvtDesc
				Expect(r.PullEvt(cli, &evt, optNonBlock())).ToNot(HaveOccurred())
				Expect(evt.Value).To(Equal(i))
			}

			var evt iocmsg.EvtDesc
			err = r.PullEvt(cli, &evt, optNonBlock())
			Expect(iocres.IsCode(err, iocres.ErrorEvtDescQueueEmpty)).To(BeTrue())
		})
	})

	Context("closing a link", func() {
		It("should make every later call fail and never invoke the callback again", func() {
			uri := fifoURI()
			_, acc := onlineAutoAccept(r, libioc.SrvArgs{
				URI:          uri,
				Capabilities: libcap.EvtProducer,
			})

			cli, err := r.ConnectService(libioc.ConnArgs{URI: uri, Usage: libcap.EvtConsumer}, optBlock())
			Expect(err).ToNot(HaveOccurred())

			srvLnk := waitAccepted(acc)

			cnt := new(atomic.Int64)
			Expect(r.SubEvt(cli, iocsub.SubArgs{
				CbProcEvt: func(evt *iocmsg.EvtDesc, priv interface{}) liberr.Error {
					cnt.Add(1)
					return nil
				},
				EvtIDs: []iocmsg.EvtID{evK},
			})).ToNot(HaveOccurred())

			Expect(r.CloseLink(cli)).ToNot(HaveOccurred())

			err = r.CloseLink(cli)
			Expect(iocres.IsCode(err, iocres.ErrorNotExistLink)).To(BeTrue())

			err = r.PostEvt(cli, &iocmsg.EvtDesc{EvtID: evK}, optNonBlock())
			Expect(iocres.IsCode(err, iocres.ErrorNotExistLink)).To(BeTrue())

			// the surviving peer reports the break
			err = r.PostEvt(srvLnk, &iocmsg.EvtDesc{EvtID: evK}, optNonBlock())
			Expect(iocres.IsCode(err, iocres.ErrorLinkBroken)).To(BeTrue())

			Consistently(cnt.Load, 50*time.Millisecond, 10*time.Millisecond).Should(Equal(int64(0)))
		})
	})
})
