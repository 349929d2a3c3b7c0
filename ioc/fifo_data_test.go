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

// fifo_data_test.go exercises the FIFO transport data path: the no-drop
// guarantee through the receiver callback, polled receiving with buffer
// fragmentation, and the drained refusal.
package ioc_test

import (
	"bytes"
	"sync"

	liberr "github.com/nabbar/golib/errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	libcap "github.com/nabbar/ioclib/capability"
	libioc "github.com/nabbar/ioclib/ioc"
	iocmsg "github.com/nabbar/ioclib/message"
	iocres "github.com/nabbar/ioclib/result"
)

var _ = Describe("FIFO Transport Data", func() {
	var r libioc.IOC

	BeforeEach(func() {
		r = newTestRuntime()
	})

	AfterEach(func() {
		Expect(r.Close()).ToNot(HaveOccurred())
	})

	Context("callback receiver", func() {
		It("should deliver every byte in order with no drop", func() {
			var (
				mu  sync.Mutex
				buf bytes.Buffer
			)

			uri := fifoURI()
			_, acc := onlineAutoAccept(r, libioc.SrvArgs{
				URI:          uri,
				Capabilities: libcap.DatSender,
			})

			_, err := r.ConnectService(libioc.ConnArgs{
				URI:   uri,
				Usage: libcap.DatReceiver,
				UsageArgs: libioc.UsageArgs{
					CbRecvDat: func(link libioc.LinkID, dat *iocmsg.DatDesc, priv interface{}) liberr.Error {
						mu.Lock()
						defer mu.Unlock()
						buf.Write(dat.Bytes())
						return nil
					},
				},
			}, optBlock())
			Expect(err).ToNot(HaveOccurred())

			srvLnk := waitAccepted(acc)

			for _, chunk := range []string{"ABC", "DE"} {
				d := &iocmsg.DatDesc{Data: []byte(chunk)}
				Expect(r.SendDat(srvLnk, d, optNonBlock())).ToNot(HaveOccurred())
				Expect(d.Status).To(Equal(iocmsg.DatStatusReceived))
			}

			Expect(r.FlushDat(srvLnk, optNonBlock())).ToNot(HaveOccurred())

			mu.Lock()
			defer mu.Unlock()
			Expect(buf.Len()).To(Equal(5))
			Expect(buf.String()).To(Equal("ABCDE"))
		})

		It("should return the sender link to ready once the callback delivery returns", func() {
			var inCb chan struct{}

			uri := fifoURI()
			_, acc := onlineAutoAccept(r, libioc.SrvArgs{
				URI:          uri,
				Capabilities: libcap.DatSender,
			})

			inCb = make(chan struct{})

			_, err := r.ConnectService(libioc.ConnArgs{
				URI:   uri,
				Usage: libcap.DatReceiver,
				UsageArgs: libioc.UsageArgs{
					CbRecvDat: func(link libioc.LinkID, dat *iocmsg.DatDesc, priv interface{}) liberr.Error {
						close(inCb)
						return nil
					},
				},
			}, optBlock())
			Expect(err).ToNot(HaveOccurred())

			srvLnk := waitAccepted(acc)

			Expect(r.SendDat(srvLnk, &iocmsg.DatDesc{Data: []byte("X")}, optNonBlock())).ToNot(HaveOccurred())
			Eventually(inCb).Should(BeClosed())

			// after the call the link is ready again
			op, _, err := r.GetLinkState(srvLnk)
			Expect(err).ToNot(HaveOccurred())
			Expect(op.String()).To(Equal("ready"))
		})
	})

	Context("polling receiver", func() {
		It("should reassemble the stream through a small buffer and then refuse", func() {
			uri := fifoURI()
			_, acc := onlineAutoAccept(r, libioc.SrvArgs{
				URI:          uri,
				Capabilities: libcap.DatSender,
			})

			cli, err := r.ConnectService(libioc.ConnArgs{
				URI:   uri,
				Usage: libcap.DatReceiver,
			}, optBlock())
			Expect(err).ToNot(HaveOccurred())

			srvLnk := waitAccepted(acc)

			for _, chunk := range []string{"ABC", "DE"} {
				Expect(r.SendDat(srvLnk, &iocmsg.DatDesc{Data: []byte(chunk)}, optNonBlock())).ToNot(HaveOccurred())
			}
			Expect(r.FlushDat(srvLnk, optNonBlock())).ToNot(HaveOccurred())

			var got bytes.Buffer

			for {
				d := iocmsg.DatDesc{Data: make([]byte, 2)}
				e := r.RecvDat(cli, &d, optNonBlock())
				if e != nil {
					Expect(iocres.IsCode(e, iocres.ErrorNoData)).To(BeTrue())
					break
				}
				Expect(d.Used).To(BeNumerically(">", 0))
				got.Write(d.Data[:d.Used])
			}

			Expect(got.String()).To(Equal("ABCDE"))
		})

		It("should keep the ring copy when the sender reuses its buffer", func() {
			uri := fifoURI()
			_, acc := onlineAutoAccept(r, libioc.SrvArgs{
				URI:          uri,
				Capabilities: libcap.DatSender,
			})

			cli, err := r.ConnectService(libioc.ConnArgs{
				URI:   uri,
				Usage: libcap.DatReceiver,
			}, optBlock())
			Expect(err).ToNot(HaveOccurred())

			srvLnk := waitAccepted(acc)

			scratch := []byte("AAA")
			Expect(r.SendDat(srvLnk, &iocmsg.DatDesc{Data: scratch}, optNonBlock())).ToNot(HaveOccurred())
			copy(scratch, "ZZZ")

			d := iocmsg.DatDesc{Data: make([]byte, 8)}
			Expect(r.RecvDat(cli, &d, optNonBlock())).ToNot(HaveOccurred())
			Expect(string(d.Data[:d.Used])).To(Equal("AAA"))
		})
	})

	Context("validation", func() {
		It("should refuse an empty send and a wrong role", func() {
			uri := fifoURI()
			_, acc := onlineAutoAccept(r, libioc.SrvArgs{
				URI:          uri,
				Capabilities: libcap.DatSender,
			})

			cli, err := r.ConnectService(libioc.ConnArgs{
				URI:   uri,
				Usage: libcap.DatReceiver,
			}, optBlock())
			Expect(err).ToNot(HaveOccurred())

			srvLnk := waitAccepted(acc)

			err = r.SendDat(srvLnk, &iocmsg.DatDesc{}, optNonBlock())
			Expect(iocres.IsCode(err, iocres.ErrorInvalidParam)).To(BeTrue())

			err = r.SendDat(cli, &iocmsg.DatDesc{Data: []byte("x")}, optNonBlock())
			Expect(iocres.IsCode(err, iocres.ErrorNotSupport)).To(BeTrue())

			err = r.RecvDat(srvLnk, &iocmsg.DatDesc{Data: make([]byte, 4)}, optNonBlock())
			Expect(iocres.IsCode(err, iocres.ErrorNotSupport)).To(BeTrue())
		})
	})
})
