package classfile

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrMalformed is returned for input that is not a valid class file.
var ErrMalformed = errors.New("malformed class file")

// byteReader is a big-endian cursor. Reading past the end sets a sticky
// error and yields zeros.
type byteReader struct {
	data []byte
	pos  int
	err  error
}

func (r *byteReader) need(n int) bool {
	if r.err != nil {
		return false
	}

	if n < 0 || r.pos+n > len(r.data) {
		r.err = fmt.Errorf("%w: unexpected end of data at offset %d", ErrMalformed, r.pos)
		return false
	}

	return true
}

func (r *byteReader) u1() uint8 {
	if !r.need(1) {
		return 0
	}

	v := r.data[r.pos]
	r.pos++

	return v
}

func (r *byteReader) u2() uint16 {
	if !r.need(2) {
		return 0
	}

	v := binary.BigEndian.Uint16(r.data[r.pos:])
	r.pos += 2

	return v
}

func (r *byteReader) u4() uint32 {
	if !r.need(4) {
		return 0
	}

	v := binary.BigEndian.Uint32(r.data[r.pos:])
	r.pos += 4

	return v
}

func (r *byteReader) u8() uint64 {
	if !r.need(8) {
		return 0
	}

	v := binary.BigEndian.Uint64(r.data[r.pos:])
	r.pos += 8

	return v
}

func (r *byteReader) bytes(n int) []byte {
	if !r.need(n) {
		return nil
	}

	v := r.data[r.pos : r.pos+n]
	r.pos += n

	return v
}

// byteWriter appends big-endian values.
type byteWriter struct {
	buf []byte
}

func (w *byteWriter) u1(v int) {
	w.buf = append(w.buf, byte(v))
}

func (w *byteWriter) u2(v int) {
	w.buf = binary.BigEndian.AppendUint16(w.buf, uint16(v))
}

func (w *byteWriter) u4(v uint32) {
	w.buf = binary.BigEndian.AppendUint32(w.buf, v)
}

func (w *byteWriter) u8(v uint64) {
	w.buf = binary.BigEndian.AppendUint64(w.buf, v)
}

func (w *byteWriter) bytes(b []byte) {
	w.buf = append(w.buf, b...)
}

func (w *byteWriter) len() int {
	return len(w.buf)
}
