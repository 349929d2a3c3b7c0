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

// machine_test.go verifies the legal transition table, the busy sub-state
// coupling and the rejection of illegal transitions.
package state_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	iocres "github.com/nabbar/ioclib/result"
	iocstt "github.com/nabbar/ioclib/state"
)

var _ = Describe("Link State Machine", func() {
	var m iocstt.Machine

	BeforeEach(func() {
		m = iocstt.New()
	})

	Context("initial state", func() {
		It("should be disconnected, ready, default", func() {
			Expect(m.ConnState()).To(Equal(iocstt.ConnDisconnected))
			Expect(m.OpState()).To(Equal(iocstt.OpReady))
			Expect(m.SubState()).To(Equal(iocstt.SubDefault))
			Expect(m.IsReady()).To(BeTrue())
		})
	})

	Context("legal round trips", func() {
		It("should enter and leave every busy state", func() {
			for _, op := range []iocstt.OpState{
				iocstt.OpBusySubEvt,
				iocstt.OpBusyUnsubEvt,
				iocstt.OpBusyCbProcEvt,
			} {
				Expect(m.Enter(op, iocstt.SubDefault)).ToNot(HaveOccurred())
				Expect(m.OpState()).To(Equal(op))
				Expect(m.SubState()).To(Equal(iocstt.SubDefault))
				Expect(m.Leave(op)).ToNot(HaveOccurred())
				Expect(m.IsReady()).To(BeTrue())
			}
		})

		It("should carry the sub-state through a command", func() {
			Expect(m.Enter(iocstt.OpBusyCmd, iocstt.SubCmdSending)).ToNot(HaveOccurred())

			op, sb := m.State()
			Expect(op).To(Equal(iocstt.OpBusyCmd))
			Expect(sb).To(Equal(iocstt.SubCmdSending))

			Expect(m.Leave(iocstt.OpBusyCmd)).ToNot(HaveOccurred())
			Expect(m.SubState()).To(Equal(iocstt.SubDefault))
		})

		It("should carry the sub-state through a data transfer", func() {
			Expect(m.Enter(iocstt.OpBusyDat, iocstt.SubDatReceiving)).ToNot(HaveOccurred())

			op, sb := m.State()
			Expect(op).To(Equal(iocstt.OpBusyDat))
			Expect(sb).To(Equal(iocstt.SubDatReceiving))

			Expect(m.Leave(iocstt.OpBusyDat)).ToNot(HaveOccurred())
			Expect(m.SubState()).To(Equal(iocstt.SubDefault))
		})

		It("should ignore the sub-state for non cmd/dat busy states", func() {
			Expect(m.Enter(iocstt.OpBusySubEvt, iocstt.SubDatSending)).ToNot(HaveOccurred())
			Expect(m.SubState()).To(Equal(iocstt.SubDefault))
			Expect(m.Leave(iocstt.OpBusySubEvt)).ToNot(HaveOccurred())
		})
	})

	Context("illegal transitions", func() {
		It("should reject entering from a busy state", func() {
			Expect(m.Enter(iocstt.OpBusyCmd, iocstt.SubCmdSending)).ToNot(HaveOccurred())

			err := m.Enter(iocstt.OpBusyDat, iocstt.SubDatSending)
			Expect(err).To(HaveOccurred())
			Expect(iocres.IsCode(err, iocres.ErrorBug)).To(BeTrue())

			// state untouched by the rejected transition
			op, sb := m.State()
			Expect(op).To(Equal(iocstt.OpBusyCmd))
			Expect(sb).To(Equal(iocstt.SubCmdSending))
		})

		It("should reject leaving a state it is not in", func() {
			err := m.Leave(iocstt.OpBusyCmd)
			Expect(err).To(HaveOccurred())
			Expect(iocres.IsCode(err, iocres.ErrorBug)).To(BeTrue())
			Expect(m.IsReady()).To(BeTrue())
		})

		It("should reject entering ready", func() {
			err := m.Enter(iocstt.OpReady, iocstt.SubDefault)
			Expect(err).To(HaveOccurred())
			Expect(iocres.IsCode(err, iocres.ErrorBug)).To(BeTrue())
		})
	})

	Context("connection state", func() {
		It("should move independently of the operation state", func() {
			m.SetConnState(iocstt.ConnConnected)
			Expect(m.Enter(iocstt.OpBusyDat, iocstt.SubDatSending)).ToNot(HaveOccurred())
			Expect(m.ConnState()).To(Equal(iocstt.ConnConnected))
			Expect(m.Leave(iocstt.OpBusyDat)).ToNot(HaveOccurred())
			Expect(m.ConnState()).To(Equal(iocstt.ConnConnected))
		})
	})

	Context("data-side bookkeeping", func() {
		It("should track the flags and the last operation time", func() {
			Expect(m.IsSending()).To(BeFalse())
			Expect(m.LastOperation().IsZero()).To(BeTrue())

			m.MarkSending(true)
			Expect(m.IsSending()).To(BeTrue())
			Expect(m.LastOperation().IsZero()).To(BeFalse())

			m.MarkSending(false)
			m.MarkReceiving(true)
			Expect(m.IsSending()).To(BeFalse())
			Expect(m.IsReceiving()).To(BeTrue())
		})
	})
})
