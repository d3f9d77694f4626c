/*
 * EliasDB
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package codec

import (
	"bytes"
	"time"

	"github.com/google/uuid"
	"github.com/krotik/common/pools"
)

/*
bufferPool recycles the byte buffers used while building composite keys,
the same way storage.BufferPool recycles record buffers in the teacher's
storage package.
*/
var bufferPool = pools.NewByteBufferPool()

/*
signBit is xored into the big-endian representation of a nanosecond
timestamp so that byte-lexicographic order equals chronological order
across the int64 sign boundary (plain two's-complement big-endian would
otherwise sort every negative timestamp after every positive one).
*/
const signBit = uint64(1) << 63

/*
MaxDateTime is the largest instant representable by the DateTime
component encoding.
*/
var MaxDateTime = time.Unix(0, 0).Add(time.Duration(int64(^uint64(0)>>1)) * time.Nanosecond).UTC()

/*
MinDateTime is the smallest instant representable by the DateTime
component encoding.
*/
var MinDateTime = time.Unix(0, 0).Add(time.Duration(-int64(^uint64(0)>>1) - 1) * time.Nanosecond).UTC()

/*
GetBuffer returns a pooled buffer reset for building a new key.
*/
func GetBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

/*
PutBuffer returns a buffer obtained from GetBuffer to the pool.
*/
func PutBuffer(buf *bytes.Buffer) {
	bufferPool.Put(buf)
}

/*
EncodeUUID appends the 16 raw bytes of id to buf.
*/
func EncodeUUID(buf *bytes.Buffer, id uuid.UUID) {
	buf.Write(id[:])
}

/*
DecodeUUID reads 16 raw bytes from c and returns them as a uuid.UUID.
*/
func DecodeUUID(c *Cursor) (uuid.UUID, error) {
	b, err := c.Next(16)
	if err != nil {
		return uuid.UUID{}, ErrMalformedUUID
	}

	var id uuid.UUID
	copy(id[:], b)

	return id, nil
}

/*
encodeShortString appends a one-byte length prefix followed by the raw
bytes of s. It is shared by EncodeType and EncodeFixedLengthString since
both components have the same on-disk shape.
*/
func encodeShortString(buf *bytes.Buffer, s string) error {
	if len(s) > MaxComponentLength {
		return ErrValueTooLong
	}

	buf.WriteByte(byte(len(s)))
	buf.WriteString(s)

	return nil
}

/*
decodeShortString reads a one-byte length prefix followed by that many
bytes and returns them as a string.
*/
func decodeShortString(c *Cursor) (string, error) {
	lb, err := c.Next(1)
	if err != nil {
		return "", ErrShortBuffer
	}

	l := int(lb[0])

	b, err := c.Next(l)
	if err != nil {
		return "", ErrShortBuffer
	}

	return string(b), nil
}

/*
EncodeType appends a length-prefixed Type component to buf. Fails with
ErrValueTooLong if t is longer than MaxComponentLength bytes.
*/
func EncodeType(buf *bytes.Buffer, t string) error {
	return encodeShortString(buf, t)
}

/*
DecodeType reads a Type component from c.
*/
func DecodeType(c *Cursor) (string, error) {
	return decodeShortString(c)
}

/*
EncodeFixedLengthString appends a length-prefixed property-name component
to buf. Fails with ErrValueTooLong if name is longer than
MaxComponentLength bytes.
*/
func EncodeFixedLengthString(buf *bytes.Buffer, name string) error {
	return encodeShortString(buf, name)
}

/*
DecodeFixedLengthString reads a property-name component from c.
*/
func DecodeFixedLengthString(c *Cursor) (string, error) {
	return decodeShortString(c)
}

/*
EncodeDateTime appends an 8-byte, order-preserving big-endian encoding of
t (as a nanosecond count since the Unix epoch) to buf.
*/
func EncodeDateTime(buf *bytes.Buffer, t time.Time) {
	nanos := t.UnixNano()
	v := uint64(nanos) ^ signBit

	b := [8]byte{
		byte(v >> 56), byte(v >> 48), byte(v >> 40), byte(v >> 32),
		byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v),
	}

	buf.Write(b[:])
}

/*
DecodeDateTime reads an 8-byte DateTime component from c.
*/
func DecodeDateTime(c *Cursor) (time.Time, error) {
	b, err := c.Next(8)
	if err != nil {
		return time.Time{}, ErrShortBuffer
	}

	v := (uint64(b[0]) << 56) | (uint64(b[1]) << 48) | (uint64(b[2]) << 40) | (uint64(b[3]) << 32) |
		(uint64(b[4]) << 24) | (uint64(b[5]) << 16) | (uint64(b[6]) << 8) | uint64(b[7])

	nanos := int64(v ^ signBit)

	return time.Unix(0, nanos).UTC(), nil
}

/*
Cursor reads components sequentially from a fixed byte slice, the
decode-side counterpart to the bytes.Buffer used for building keys.
*/
type Cursor struct {
	data []byte
	pos  int
}

/*
NewCursor creates a Cursor over data.
*/
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

/*
Next returns the next n bytes and advances the cursor, or ErrShortBuffer
if fewer than n bytes remain.
*/
func (c *Cursor) Next(n int) ([]byte, error) {
	if c.pos+n > len(c.data) {
		return nil, ErrShortBuffer
	}

	b := c.data[c.pos : c.pos+n]
	c.pos += n

	return b, nil
}

/*
Remaining returns the number of unread bytes left in the cursor.
*/
func (c *Cursor) Remaining() int {
	return len(c.data) - c.pos
}
