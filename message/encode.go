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

import (
	"github.com/fxamacker/cbor/v2"
	liberr "github.com/nabbar/golib/errors"

	iocres "github.com/nabbar/ioclib/result"
)

// The wire image is deterministic CBOR (core deterministic encoding, integer
// field keys) so two encodings of the same descriptor are byte-identical and a
// networked transport can frame descriptors verbatim.

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	if encMode, err = cbor.CoreDetEncOptions().EncMode(); err != nil {
		panic(err)
	}

	if decMode, err = (cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthForbidden,
	}).DecMode(); err != nil {
		panic(err)
	}
}

func encodeBinary(v interface{}) ([]byte, liberr.Error) {
	b, e := encMode.Marshal(v)
	if e != nil {
		return nil, iocres.ErrorInvalidParam.Error(e)
	}
	return b, nil
}

func decodeBinary(p []byte, v interface{}) liberr.Error {
	if len(p) < 1 {
		return iocres.ErrorInvalidParam.Error(nil)
	}
	if e := decMode.Unmarshal(p, v); e != nil {
		return iocres.ErrorInvalidParam.Error(e)
	}
	return nil
}

// EncodeBinary returns the CBOR wire image of the event descriptor.
func (e *EvtDesc) EncodeBinary() ([]byte, liberr.Error) {
	return encodeBinary(e)
}

// DecodeBinary fills the event descriptor from a CBOR wire image.
func (e *EvtDesc) DecodeBinary(p []byte) liberr.Error {
	return decodeBinary(p, e)
}

// EncodeBinary returns the CBOR wire image of the command descriptor.
func (c *CmdDesc) EncodeBinary() ([]byte, liberr.Error) {
	return encodeBinary(c)
}

// DecodeBinary fills the command descriptor from a CBOR wire image.
func (c *CmdDesc) DecodeBinary(p []byte) liberr.Error {
	return decodeBinary(p, c)
}

// EncodeBinary returns the CBOR wire image of the data descriptor.
func (d *DatDesc) EncodeBinary() ([]byte, liberr.Error) {
	return encodeBinary(d)
}

// DecodeBinary fills the data descriptor from a CBOR wire image.
func (d *DatDesc) DecodeBinary(p []byte) liberr.Error {
	return decodeBinary(p, d)
}
