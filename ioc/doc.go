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

// Package ioc is the inter-object communication substrate: named services,
// point-to-point links carrying events, commands and data streams, a
// pluggable transport protocol layer with a built-in in-process FIFO
// transport, and a process-wide connection-less (Conles) event bus reachable
// through the reserved auto-link id.
//
// A runtime is created with New and holds the service and link registries,
// the protocol table and the auto-link bus with its dispatch goroutine. All
// public operations return liberr.Error values from the result package; nil
// means success.
//
// Connection-oriented use: a server onlines a service under a URI, a client
// connects to that URI choosing one role, and the accept creates the
// service-side link with the complementary role. Connection-less use: post,
// subscribe and unsubscribe against AutoLinkID, and a dedicated dispatch
// goroutine fans events out to the subscriber list in order.
package ioc
