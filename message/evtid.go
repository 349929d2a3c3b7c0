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

import "fmt"

// EvtID identifies an event as a class-id / name-id pair packed into one
// 64-bit word: the class occupies the high 32 bits, the name the low 32 bits.
// Subscription filters match on the whole pair.
type EvtID uint64

// NewEvtID packs a class id and a name id into an EvtID.
func NewEvtID(class, name uint32) EvtID {
	return EvtID(uint64(class)<<32 | uint64(name))
}

// Class returns the class-id half of the event id.
func (e EvtID) Class() uint32 {
	return uint32(e >> 32)
}

// Name returns the name-id half of the event id.
func (e EvtID) Name() uint32 {
	return uint32(e)
}

// Uint64 returns the packed event id.
func (e EvtID) Uint64() uint64 {
	return uint64(e)
}

func (e EvtID) String() string {
	return fmt.Sprintf("%d:%d", e.Class(), e.Name())
}
