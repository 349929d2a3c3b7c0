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

// fifo_command_test.go exercises the FIFO transport command path: the
// synchronous request/response relay, the descriptor lifecycle and the
// unsupported polled-command slots.
package ioc_test

import (
	liberr "github.com/nabbar/golib/errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	libcap "github.com/nabbar/ioclib/capability"
	libioc "github.com/nabbar/ioclib/ioc"
	iocmsg "github.com/nabbar/ioclib/message"
	iocres "github.com/nabbar/ioclib/result"
)

var _ = Describe("FIFO Transport Commands", func() {
	var r libioc.IOC

	BeforeEach(func() {
		r = newTestRuntime()
	})

	AfterEach(func() {
		Expect(r.Close()).ToNot(HaveOccurred())
	})

	Context("initiator to executor", func() {
		It("should run the handler synchronously and fill the output", func() {
			uri := fifoURI()
			_, acc := onlineAutoAccept(r, libioc.SrvArgs{
				URI:          uri,
				Capabilities: libcap.CmdInitiator,
			})

			// the client side is the executor
			_, err := r.ConnectService(libioc.ConnArgs{
				URI:   uri,
				Usage: libcap.CmdExecutor,
				UsageArgs: libioc.UsageArgs{
					CbExecCmd: func(link libioc.LinkID, cmd *iocmsg.CmdDesc, priv interface{}) liberr.Error {
						cmd.Output = append([]byte("pong-"), cmd.Input...)
						return nil
					},
				},
			}, optBlock())
			Expect(err).ToNot(HaveOccurred())

			srvLnk := waitAccepted(acc)

			cmd := &iocmsg.CmdDesc{CmdID: 7, Input: []byte("ping")}
			Expect(r.ExecCmd(srvLnk, cmd, optNonBlock())).ToNot(HaveOccurred())

			Expect(cmd.Status).To(Equal(iocmsg.CmdStatusSucceed))
			Expect(string(cmd.Output)).To(Equal("pong-ping"))
			Expect(cmd.SeqID).To(BeNumerically(">", 0))
		})

		It("should surface a failing handler on the descriptor", func() {
			uri := fifoURI()
			_, acc := onlineAutoAccept(r, libioc.SrvArgs{
				URI:          uri,
				Capabilities: libcap.CmdInitiator,
			})

			_, err := r.ConnectService(libioc.ConnArgs{
				URI:   uri,
				Usage: libcap.CmdExecutor,
				UsageArgs: libioc.UsageArgs{
					CbExecCmd: func(link libioc.LinkID, cmd *iocmsg.CmdDesc, priv interface{}) liberr.Error {
						return iocres.ErrorInvalidParam.Error(nil)
					},
				},
			}, optBlock())
			Expect(err).ToNot(HaveOccurred())

			srvLnk := waitAccepted(acc)

			cmd := &iocmsg.CmdDesc{CmdID: 8}
			err = r.ExecCmd(srvLnk, cmd, optNonBlock())
			Expect(err).To(HaveOccurred())
			Expect(cmd.Status).To(Equal(iocmsg.CmdStatusFailed))
			Expect(cmd.Result).ToNot(Equal(int32(0)))
		})

		It("should refuse exec toward a peer with no handler", func() {
			uri := fifoURI()
			_, acc := onlineAutoAccept(r, libioc.SrvArgs{
				URI:          uri,
				Capabilities: libcap.CmdInitiator,
			})

			_, err := r.ConnectService(libioc.ConnArgs{
				URI:   uri,
				Usage: libcap.CmdExecutor,
			}, optBlock())
			Expect(err).ToNot(HaveOccurred())

			srvLnk := waitAccepted(acc)

			err = r.ExecCmd(srvLnk, &iocmsg.CmdDesc{CmdID: 9}, optNonBlock())
			Expect(iocres.IsCode(err, iocres.ErrorNotSupport)).To(BeTrue())
		})
	})

	Context("polled command slots", func() {
		It("should report wait and ack as unsupported on FIFO", func() {
			uri := fifoURI()
			_, _ = onlineAutoAccept(r, libioc.SrvArgs{
				URI:          uri,
				Capabilities: libcap.CmdInitiator,
			})

			cli, err := r.ConnectService(libioc.ConnArgs{
				URI:   uri,
				Usage: libcap.CmdExecutor,
			}, optBlock())
			Expect(err).ToNot(HaveOccurred())

			err = r.WaitCmd(cli, &iocmsg.CmdDesc{}, optNonBlock())
			Expect(iocres.IsCode(err, iocres.ErrorNotSupport)).To(BeTrue())

			err = r.AckCmd(cli, &iocmsg.CmdDesc{}, optNonBlock())
			Expect(iocres.IsCode(err, iocres.ErrorNotSupport)).To(BeTrue())
		})

		It("should enforce the initiator role on exec", func() {
			uri := fifoURI()
			_, _ = onlineAutoAccept(r, libioc.SrvArgs{
				URI:          uri,
				Capabilities: libcap.CmdInitiator,
			})

			cli, err := r.ConnectService(libioc.ConnArgs{
				URI:   uri,
				Usage: libcap.CmdExecutor,
			}, optBlock())
			Expect(err).ToNot(HaveOccurred())

			err = r.ExecCmd(cli, &iocmsg.CmdDesc{}, optNonBlock())
			Expect(iocres.IsCode(err, iocres.ErrorNotSupport)).To(BeTrue())
		})
	})
})
