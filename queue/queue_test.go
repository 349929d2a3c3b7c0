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

// queue_test.go verifies the FIFO ordering, the full and empty refusals, and
// the counter invariants of the bounded ring.
package queue_test

import (
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	iocmsg "github.com/nabbar/ioclib/message"
	iocque "github.com/nabbar/ioclib/queue"
	iocres "github.com/nabbar/ioclib/result"
)

var _ = Describe("Bounded FIFO Queue", func() {
	var q iocque.Queue[iocmsg.EvtDesc]

	BeforeEach(func() {
		q = iocque.New[iocmsg.EvtDesc](8)
	})

	Context("construction", func() {
		It("should apply the default capacity on zero", func() {
			d := iocque.New[iocmsg.EvtDesc](0)
			Expect(d.Capacity()).To(Equal(uint64(iocque.DefaultCapacity)))
		})

		It("should start empty", func() {
			Expect(q.IsEmpty()).To(BeTrue())
			Expect(q.Len()).To(Equal(uint64(0)))
		})
	})

	Context("FIFO ordering", func() {
		It("should return dequeued descriptors identical and in enqueue order", func() {
			for i := uint64(1); i <= 8; i++ {
				e := iocmsg.EvtDesc{
					EvtID: iocmsg.NewEvtID(1, uint32(i)),
					Value: i,
				}
				e.SeqID = i
				Expect(q.EnqueueLast(e)).ToNot(HaveOccurred())
			}

			for i := uint64(1); i <= 4; i++ {
				d, err := q.DequeueFirst()
				Expect(err).ToNot(HaveOccurred())
				Expect(d.SeqID).To(Equal(i))
				Expect(d.Value).To(Equal(i))
				Expect(d.EvtID.Name()).To(Equal(uint32(i)))
			}

			Expect(q.Len()).To(Equal(uint64(4)))
		})

		It("should keep ordering across wrap-around", func() {
			for i := uint64(1); i <= 8; i++ {
				e := iocmsg.EvtDesc{Value: i}
				Expect(q.EnqueueLast(e)).ToNot(HaveOccurred())
			}

			for i := uint64(1); i <= 5; i++ {
				d, err := q.DequeueFirst()
				Expect(err).ToNot(HaveOccurred())
				Expect(d.Value).To(Equal(i))
			}

			for i := uint64(9); i <= 13; i++ {
				Expect(q.EnqueueLast(iocmsg.EvtDesc{Value: i})).ToNot(HaveOccurred())
			}

			for i := uint64(6); i <= 13; i++ {
				d, err := q.DequeueFirst()
				Expect(err).ToNot(HaveOccurred())
				Expect(d.Value).To(Equal(i))
			}

			Expect(q.IsEmpty()).To(BeTrue())
		})
	})

	Context("full queue", func() {
		It("should refuse the extra enqueue and leave the counters alone", func() {
			for i := 0; i < 8; i++ {
				Expect(q.EnqueueLast(iocmsg.EvtDesc{})).ToNot(HaveOccurred())
			}

			qd, pd := q.Counters()

			err := q.EnqueueLast(iocmsg.EvtDesc{Value: 99})
			Expect(err).To(HaveOccurred())
			Expect(iocres.IsCode(err, iocres.ErrorTooManyQueuingEvtDesc)).To(BeTrue())

			qd2, pd2 := q.Counters()
			Expect(qd2).To(Equal(qd))
			Expect(pd2).To(Equal(pd))
		})
	})

	Context("empty queue", func() {
		It("should refuse the dequeue and leave the counters alone", func() {
			qd, pd := q.Counters()

			_, err := q.DequeueFirst()
			Expect(err).To(HaveOccurred())
			Expect(iocres.IsCode(err, iocres.ErrorEvtDescQueueEmpty)).To(BeTrue())

			qd2, pd2 := q.Counters()
			Expect(qd2).To(Equal(qd))
			Expect(pd2).To(Equal(pd))
		})
	})

	Context("concurrent access", func() {
		It("should keep queued minus proced within the capacity", func() {
			var wg sync.WaitGroup

			for w := 0; w < 4; w++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < 200; i++ {
						_ = q.EnqueueLast(iocmsg.EvtDesc{})
					}
				}()
			}

			for w := 0; w < 4; w++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < 200; i++ {
						_, _ = q.DequeueFirst()
					}
				}()
			}

			wg.Wait()

			qd, pd := q.Counters()
			Expect(qd).To(BeNumerically(">=", pd))
			Expect(qd - pd).To(BeNumerically("<=", q.Capacity()))
		})
	})
})
