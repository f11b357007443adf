package binary

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/jcalabro/leb128"

	"github.com/wippyai/wasm-core/errors"
)

const (
	maxVarU32Len = 5
	maxVarU64Len = 10
)

// Reader decodes WASM primitives from a byte slice.
// Offsets reported in errors are absolute: a Reader produced by Sub keeps
// counting from its parent's position.
type Reader struct {
	data []byte
	pos  int
	base int
}

// NewReader creates a Reader over data whose first byte sits at offset base
// in the enclosing input.
func NewReader(data []byte, base int) *Reader {
	return &Reader{data: data, base: base}
}

// Position returns the absolute offset of the next unread byte.
func (r *Reader) Position() int {
	return r.base + r.pos
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	return len(r.data) - r.pos
}

// EOF reports whether every byte has been consumed.
func (r *Reader) EOF() bool {
	return r.pos >= len(r.data)
}

func (r *Reader) need(what string, n int) error {
	if n < 0 || r.Len() < n {
		return errors.Truncated(r.Position(), what, n, r.Len())
	}
	return nil
}

// ReadByte reads a single byte.
func (r *Reader) ReadByte() (byte, error) {
	if err := r.need("byte", 1); err != nil {
		return 0, err
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadBytes reads exactly n bytes. The result aliases the input.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if err := r.need("bytes", n); err != nil {
		return nil, err
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// Sub consumes exactly n bytes and returns a Reader bounded to them.
func (r *Reader) Sub(n int) (*Reader, error) {
	start := r.Position()
	b, err := r.ReadBytes(n)
	if err != nil {
		return nil, err
	}
	return NewReader(b, start), nil
}

// ReadRemaining consumes and returns all unread bytes.
func (r *Reader) ReadRemaining() []byte {
	b := r.data[r.pos:]
	r.pos = len(r.data)
	return b
}

// Expect consumes len(tag) bytes and fails unless they equal tag.
func (r *Reader) Expect(tag []byte) error {
	at := r.Position()
	if err := r.need("tag", len(tag)); err != nil {
		return err
	}
	actual := r.data[r.pos : r.pos+len(tag)]
	if !bytes.Equal(actual, tag) {
		return errors.New(errors.PhaseDecode, errors.KindTagMismatch).
			At(at).
			Want(fmt.Sprintf("% x", tag)).
			Got(fmt.Sprintf("% x", actual)).
			Build()
	}
	r.pos += len(tag)
	return nil
}

// ReadU32LE reads a little-endian uint32 (fixed 4 bytes).
func (r *Reader) ReadU32LE() (uint32, error) {
	if err := r.need("u32le", 4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

// varint locates the terminating byte of a LEB128 value starting at the
// current position and returns its encoded length.
func (r *Reader) varint(what string, maxLen int) (int, error) {
	rest := r.data[r.pos:]
	for i := 0; i < len(rest) && i < maxLen; i++ {
		if rest[i]&0x80 == 0 {
			return i + 1, nil
		}
	}
	if len(rest) < maxLen {
		return 0, errors.Truncated(r.Position(), what, len(rest)+1, len(rest))
	}
	return 0, errors.Overflow(r.Position(), what)
}

// ReadVarU32 reads an unsigned LEB128 encoded uint32.
func (r *Reader) ReadVarU32() (uint32, error) {
	at := r.Position()
	v, err := r.readVarU("varuint32", maxVarU32Len)
	if err != nil {
		return 0, err
	}
	if v > math.MaxUint32 {
		return 0, errors.Overflow(at, "varuint32")
	}
	return uint32(v), nil
}

// ReadVarU64 reads an unsigned LEB128 encoded uint64.
func (r *Reader) ReadVarU64() (uint64, error) {
	return r.readVarU("varuint64", maxVarU64Len)
}

func (r *Reader) readVarU(what string, maxLen int) (uint64, error) {
	at := r.Position()
	n, err := r.varint(what, maxLen)
	if err != nil {
		return 0, err
	}
	enc := r.data[r.pos : r.pos+n]
	v, err := leb128.DecodeU64(bytes.NewReader(enc))
	if err != nil {
		return 0, errors.New(errors.PhaseDecode, errors.KindOverflow).At(at).Detail("%s", what).Cause(err).Build()
	}
	// The tenth byte carries only bit 63.
	if n == maxVarU64Len && enc[n-1] > 0x01 {
		return 0, errors.Overflow(at, what)
	}
	r.pos += n
	return v, nil
}

// ReadVarS32 reads a signed LEB128 encoded int32.
func (r *Reader) ReadVarS32() (int32, error) {
	at := r.Position()
	v, err := r.readVarS("varint32", maxVarU32Len)
	if err != nil {
		return 0, err
	}
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, errors.Overflow(at, "varint32")
	}
	return int32(v), nil
}

// ReadVarS64 reads a signed LEB128 encoded int64.
func (r *Reader) ReadVarS64() (int64, error) {
	return r.readVarS("varint64", maxVarU64Len)
}

func (r *Reader) readVarS(what string, maxLen int) (int64, error) {
	at := r.Position()
	n, err := r.varint(what, maxLen)
	if err != nil {
		return 0, err
	}
	enc := r.data[r.pos : r.pos+n]
	v, err := leb128.DecodeS64(bytes.NewReader(enc))
	if err != nil {
		return 0, errors.New(errors.PhaseDecode, errors.KindOverflow).At(at).Detail("%s", what).Cause(err).Build()
	}
	// The tenth byte carries bit 63; its unused bits must repeat the sign.
	if n == maxVarU64Len && enc[n-1] != 0x00 && enc[n-1] != 0x7F {
		return 0, errors.Overflow(at, what)
	}
	r.pos += n
	return v, nil
}

// ReadName reads a length-prefixed byte string.
func (r *Reader) ReadName() (string, error) {
	n, err := r.ReadVarU32()
	if err != nil {
		return "", err
	}
	b, err := r.ReadBytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
