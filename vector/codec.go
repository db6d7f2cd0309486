// Copyright 2023 Sneller, Inc.
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.

package vector

import (
	"encoding/binary"
	"fmt"
	"math"
	"runtime"

	"github.com/klauspost/compress/zstd"

	"github.com/SnellerInc/colfn/types"
)

// Columns are framed as
//
//	magic (4 bytes) | uvarint(raw length) | zstd block
//
// where the raw payload is
//
//	type encoding | uvarint(n) | null words | values
//
// and the value section depends on the representation
// category (little-endian fixed-width words, a bitmap,
// or offsets+blob).

var frameMagic = [4]byte{'c', 'o', 'l', '1'}

var (
	zstdEnc *zstd.Encoder
	zstdDec *zstd.Decoder
)

func init() {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1))
	if err != nil {
		panic(err)
	}
	zstdEnc = enc
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(runtime.GOMAXPROCS(0)))
	if err != nil {
		panic(err)
	}
	zstdDec = dec
}

// Encode appends the framed encoding of c to dst
// and returns the extended buffer.
func Encode(dst []byte, c *Column) []byte {
	raw := types.Encode(nil, c.typ)
	raw = binary.AppendUvarint(raw, uint64(c.n))
	for _, w := range c.nulls {
		raw = binary.LittleEndian.AppendUint64(raw, w)
	}
	switch c.typ.Kind() {
	case types.KindInt:
		for _, v := range c.ints {
			raw = binary.LittleEndian.AppendUint64(raw, uint64(v))
		}
	case types.KindFloat:
		for _, v := range c.floats {
			raw = binary.LittleEndian.AppendUint64(raw, math.Float64bits(v))
		}
	case types.KindBool:
		for _, w := range c.bools {
			raw = binary.LittleEndian.AppendUint64(raw, w)
		}
	case types.KindBytes:
		for _, o := range c.offs {
			raw = binary.AppendUvarint(raw, uint64(o))
		}
		raw = append(raw, c.blob...)
	case types.KindRef:
		panic("vector: Encode of a reference column")
	}
	dst = append(dst, frameMagic[:]...)
	dst = binary.AppendUvarint(dst, uint64(len(raw)))
	return zstdEnc.EncodeAll(raw, dst)
}

// Decode decodes one framed Column from buf.
func Decode(buf []byte) (*Column, error) {
	if len(buf) < len(frameMagic) || string(buf[:4]) != string(frameMagic[:]) {
		return nil, fmt.Errorf("vector: bad column frame magic")
	}
	buf = buf[4:]
	rawlen, n := binary.Uvarint(buf)
	if n <= 0 {
		return nil, fmt.Errorf("vector: truncated column frame")
	}
	raw, err := zstdDec.DecodeAll(buf[n:], make([]byte, 0, rawlen))
	if err != nil {
		return nil, fmt.Errorf("vector: decompressing column: %w", err)
	}
	if uint64(len(raw)) != rawlen {
		return nil, fmt.Errorf("vector: column frame is %d bytes; header says %d", len(raw), rawlen)
	}
	typ, raw, err := types.Decode(raw)
	if err != nil {
		return nil, err
	}
	count, n := binary.Uvarint(raw)
	if n <= 0 {
		return nil, fmt.Errorf("vector: truncated column body")
	}
	raw = raw[n:]
	// every position occupies at least one bit of
	// the null bitmap, so a well-formed frame can
	// never claim more positions than this; checked
	// before any count-sized allocation
	if count > uint64(len(raw))*8 {
		return nil, fmt.Errorf("vector: column frame claims %d positions in %d bytes", count, len(raw))
	}
	c := &Column{typ: typ, n: int(count)}
	c.nulls, raw, err = readWords(raw, (int(count)+63)>>6)
	if err != nil {
		return nil, err
	}
	switch typ.Kind() {
	case types.KindInt:
		var words bitmap
		words, raw, err = readWords(raw, int(count))
		if err != nil {
			return nil, err
		}
		c.ints = make([]int64, count)
		for i, w := range words {
			c.ints[i] = int64(w)
		}
	case types.KindFloat:
		var words bitmap
		words, raw, err = readWords(raw, int(count))
		if err != nil {
			return nil, err
		}
		c.floats = make([]float64, count)
		for i, w := range words {
			c.floats[i] = math.Float64frombits(w)
		}
	case types.KindBool:
		c.bools, raw, err = readWords(raw, (int(count)+63)>>6)
		if err != nil {
			return nil, err
		}
	case types.KindBytes:
		c.offs = make([]uint32, count+1)
		prev := uint64(0)
		for i := range c.offs {
			o, n := binary.Uvarint(raw)
			if n <= 0 {
				return nil, fmt.Errorf("vector: truncated column offsets")
			}
			// offsets must start at zero and be
			// non-decreasing, or the column's own
			// accessors would slice out of range
			if o < prev || o > uint64(len(raw)) {
				return nil, fmt.Errorf("vector: bad column offset %d at position %d", o, i)
			}
			if i == 0 && o != 0 {
				return nil, fmt.Errorf("vector: column offsets start at %d, not 0", o)
			}
			c.offs[i] = uint32(o)
			prev = o
			raw = raw[n:]
		}
		want := int(c.offs[count])
		if len(raw) < want {
			return nil, fmt.Errorf("vector: column blob is %d bytes; offsets say %d", len(raw), want)
		}
		c.blob = raw[:want]
		raw = raw[want:]
	case types.KindRef:
		return nil, fmt.Errorf("vector: cannot decode a reference column")
	}
	if len(raw) != 0 {
		return nil, fmt.Errorf("vector: %d trailing bytes after column payload", len(raw))
	}
	return c, nil
}

func readWords(buf []byte, n int) (bitmap, []byte, error) {
	if n < 0 || len(buf)/8 < n {
		return nil, buf, fmt.Errorf("vector: column body is %d bytes; need %d words", len(buf), n)
	}
	w := make(bitmap, n)
	for i := range w {
		w[i] = binary.LittleEndian.Uint64(buf[i*8:])
	}
	return w, buf[n*8:], nil
}
