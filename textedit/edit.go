// Copyright 2023 Jesus Ruiz. All rights reserved.
// Use of this source code is governed by an Apache-2.0
// license that can be found in the LICENSE file.

// Package textedit extends rsc.io/edit to implement efficient buffered
// editing of byte slices: many queued operations, a single allocation when
// the result is built.
package textedit

import (
	"bytes"

	"rsc.io/edit"
)

// A Buffer is a queue of edits to apply to a given byte slice.
type Buffer struct {
	ed  edit.Buffer
	buf []byte
}

// NewBuffer returns a new buffer to accumulate changes to an initial data
// slice. The returned buffer keeps a reference to the data, so the caller
// must not modify it until the Buffer is done being used.
func NewBuffer(buf []byte) *Buffer {
	b := &Buffer{}
	b.buf = buf // only read for our internal queries, never written
	b.ed = *edit.NewBuffer(buf)
	return b
}

// FindAll finds all non-overlapping instances of item in buf.
func FindAll(buf []byte, item string) []int {
	found := []int{}

	if len(item) == 0 {
		return found
	}

	realOffset := 0

	for {
		i := bytes.Index(buf, []byte(item))
		if i == -1 {
			return found
		}
		found = append(found, i+realOffset)
		buf = buf[i+len(item):]
		realOffset = realOffset + i + len(item)
	}
}

// DeleteAllString queues the deletion of every instance of s.
func (b *Buffer) DeleteAllString(s string) {
	hits := FindAll(b.buf, s)
	for _, hit := range hits {
		b.ed.Delete(hit, hit+len(s))
	}
}

// ReplaceAllString queues the replacement of every instance of old with new.
func (b *Buffer) ReplaceAllString(old string, new string) {
	hits := FindAll(b.buf, old)
	for _, hit := range hits {
		b.ed.Replace(hit, hit+len(old), new)
	}
}

// ReplaceRefs queues the replacement of every "{name}" style reference,
// delimited by the open and close markers, whose name the resolve function
// recognizes. Unrecognized references are left as written and do not stop
// the scan.
func (b *Buffer) ReplaceRefs(open, close string, resolve func(name string) (string, bool)) {
	if len(open) == 0 || len(close) == 0 {
		return
	}
	buf := b.buf
	offset := 0
	for {
		i := bytes.Index(buf, []byte(open))
		if i == -1 {
			return
		}
		j := bytes.Index(buf[i+len(open):], []byte(close))
		if j == -1 {
			return
		}
		name := string(buf[i+len(open) : i+len(open)+j])
		end := i + len(open) + j + len(close)
		if value, ok := resolve(name); ok {
			b.ed.Replace(offset+i, offset+end, value)
			buf = buf[end:]
			offset += end
		} else {
			// Step past the open marker only, so a reference starting
			// inside this span is still found
			buf = buf[i+len(open):]
			offset += i + len(open)
		}
	}
}

// Bytes returns a new byte slice containing the original data with the
// queued edits applied.
func (b *Buffer) Bytes() []byte {
	return b.ed.Bytes()
}

// String returns a string containing the original data with the queued
// edits applied.
func (b *Buffer) String() string {
	return string(b.ed.Bytes())
}
