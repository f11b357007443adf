package binary

import (
	"bytes"
	"errors"
	"math"
	"testing"

	werrors "github.com/wippyai/wasm-core/errors"
)

func TestReaderReadByte(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03}
	r := NewReader(data, 0)

	for i, want := range data {
		if r.Position() != i {
			t.Errorf("position before read %d: got %d, want %d", i, r.Position(), i)
		}
		b, err := r.ReadByte()
		if err != nil {
			t.Fatalf("ReadByte %d: %v", i, err)
		}
		if b != want {
			t.Errorf("ReadByte %d: got 0x%02x, want 0x%02x", i, b, want)
		}
	}

	if !r.EOF() {
		t.Error("expected EOF after reading all bytes")
	}

	_, err := r.ReadByte()
	if !errors.Is(err, werrors.ErrTruncated) {
		t.Errorf("expected truncated, got %v", err)
	}
}

func TestReaderReadBytes(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05}
	r := NewReader(data, 0)

	got, err := r.ReadBytes(3)
	if err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}
	if !bytes.Equal(got, []byte{0x01, 0x02, 0x03}) {
		t.Errorf("ReadBytes: got %v, want [1 2 3]", got)
	}

	if r.Position() != 3 {
		t.Errorf("position: got %d, want 3", r.Position())
	}

	_, err = r.ReadBytes(10)
	if !errors.Is(err, werrors.ErrTruncated) {
		t.Errorf("expected truncated for reading past end, got %v", err)
	}
	if r.Position() != 3 {
		t.Errorf("failed read moved position to %d", r.Position())
	}
}

func TestReaderReadBytesNegative(t *testing.T) {
	r := NewReader([]byte{0x01}, 0)
	if _, err := r.ReadBytes(-1); err == nil {
		t.Error("expected error for negative length")
	}
}

func TestReaderSub(t *testing.T) {
	r := NewReader([]byte{0xaa, 0x01, 0x02, 0x03, 0xbb}, 100)
	if _, err := r.ReadByte(); err != nil {
		t.Fatal(err)
	}

	sub, err := r.Sub(3)
	if err != nil {
		t.Fatalf("Sub: %v", err)
	}
	if sub.Position() != 101 {
		t.Errorf("sub position: got %d, want 101", sub.Position())
	}
	if sub.Len() != 3 {
		t.Errorf("sub len: got %d, want 3", sub.Len())
	}
	if r.Position() != 104 {
		t.Errorf("parent position: got %d, want 104", r.Position())
	}

	sub.ReadBytes(3)
	_, err = sub.ReadByte()
	var e *werrors.Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *errors.Error, got %v", err)
	}
	if e.Offset != 104 {
		t.Errorf("error offset: got %d, want 104", e.Offset)
	}

	b, _ := r.ReadByte()
	if b != 0xbb {
		t.Errorf("parent continued at 0x%02x, want 0xbb", b)
	}
}

func TestReaderExpect(t *testing.T) {
	r := NewReader([]byte{0x00, 0x61, 0x73, 0x6d, 0x01}, 0)
	if err := r.Expect([]byte("\x00asm")); err != nil {
		t.Fatalf("Expect: %v", err)
	}
	if r.Position() != 4 {
		t.Errorf("position: got %d, want 4", r.Position())
	}

	r = NewReader([]byte{0x00, 0x61, 0x73, 0x00}, 0)
	err := r.Expect([]byte("\x00asm"))
	if !errors.Is(err, werrors.ErrTagMismatch) {
		t.Errorf("expected tag mismatch, got %v", err)
	}
	if r.Position() != 0 {
		t.Errorf("mismatched tag consumed input, position %d", r.Position())
	}

	r = NewReader([]byte{0x00, 0x61}, 0)
	if err := r.Expect([]byte("\x00asm")); !errors.Is(err, werrors.ErrTruncated) {
		t.Errorf("expected truncated, got %v", err)
	}
}

func TestReaderReadVarU32(t *testing.T) {
	tests := []struct {
		encoded []byte
		want    uint32
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x01}, 1},
		{[]byte{0x7f}, 127},
		{[]byte{0x80, 0x01}, 128},
		{[]byte{0xff, 0x01}, 255},
		{[]byte{0xe5, 0x8e, 0x26}, 624485},
		{[]byte{0x80, 0x80, 0x00}, 0},
		{[]byte{0xff, 0xff, 0xff, 0xff, 0x0f}, 0xFFFFFFFF},
	}

	for _, tt := range tests {
		r := NewReader(tt.encoded, 0)
		got, err := r.ReadVarU32()
		if err != nil {
			t.Errorf("ReadVarU32(%v): %v", tt.encoded, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ReadVarU32(%v): got %d, want %d", tt.encoded, got, tt.want)
		}
		if !r.EOF() {
			t.Errorf("ReadVarU32(%v): %d bytes left over", tt.encoded, r.Len())
		}
	}
}

func TestReaderReadVarU32StopsAtTerminator(t *testing.T) {
	r := NewReader([]byte{0x78, 0x10, 0x0f}, 0)
	v, err := r.ReadVarU32()
	if err != nil {
		t.Fatal(err)
	}
	if v != 120 || r.Position() != 1 {
		t.Errorf("got %d at position %d, want 120 at 1", v, r.Position())
	}
}

func TestReaderReadVarU32Overflow(t *testing.T) {
	tests := map[string][]byte{
		"six bytes":       {0x80, 0x80, 0x80, 0x80, 0x80, 0x01},
		"too wide":        {0xff, 0xff, 0xff, 0xff, 0x1f},
		"five continuing": {0x80, 0x80, 0x80, 0x80, 0x80},
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			r := NewReader(data, 0)
			_, err := r.ReadVarU32()
			if !errors.Is(err, werrors.ErrOverflow) {
				t.Errorf("expected overflow, got %v", err)
			}
		})
	}
}

func TestReaderReadVarU32Truncated(t *testing.T) {
	tests := map[string][]byte{
		"empty":        {},
		"continuation": {0x80},
		"two bytes":    {0xff, 0xff},
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			r := NewReader(data, 7)
			_, err := r.ReadVarU32()
			if !errors.Is(err, werrors.ErrTruncated) {
				t.Fatalf("expected truncated, got %v", err)
			}
			var e *werrors.Error
			errors.As(err, &e)
			if e.Offset != 7 {
				t.Errorf("offset: got %d, want 7", e.Offset)
			}
		})
	}
}

func TestReaderReadVarU64(t *testing.T) {
	tests := []struct {
		encoded []byte
		want    uint64
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x01}, 1},
		{[]byte{0xff, 0xff, 0xff, 0xff, 0x0f}, 0xFFFFFFFF},
		{[]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01}, math.MaxUint64},
		{[]byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x01}, 1 << 63},
		{[]byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x00}, 0},
	}

	for _, tt := range tests {
		r := NewReader(tt.encoded, 0)
		got, err := r.ReadVarU64()
		if err != nil {
			t.Errorf("ReadVarU64(%v): %v", tt.encoded, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ReadVarU64(%v): got %d, want %d", tt.encoded, got, tt.want)
		}
	}
}

func TestReaderReadVarS32(t *testing.T) {
	tests := []struct {
		encoded []byte
		want    int32
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x01}, 1},
		{[]byte{0x7f}, -1},
		{[]byte{0x3f}, 63},
		{[]byte{0x40}, -64},
		{[]byte{0xc0, 0x00}, 64},
		{[]byte{0xbf, 0x7f}, -65},
		{[]byte{0xff, 0xff, 0xff, 0xff, 0x07}, math.MaxInt32},
		{[]byte{0x80, 0x80, 0x80, 0x80, 0x78}, math.MinInt32},
	}

	for _, tt := range tests {
		r := NewReader(tt.encoded, 0)
		got, err := r.ReadVarS32()
		if err != nil {
			t.Errorf("ReadVarS32(%v): %v", tt.encoded, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ReadVarS32(%v): got %d, want %d", tt.encoded, got, tt.want)
		}
	}
}

func TestReaderReadVarS64(t *testing.T) {
	tests := []struct {
		encoded []byte
		want    int64
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x01}, 1},
		{[]byte{0x7f}, -1},
		{[]byte{0x3f}, 63},
		{[]byte{0x40}, -64},
		{[]byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x7f}, math.MinInt64},
		{[]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x00}, math.MaxInt64},
		{[]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x7f}, -1},
	}

	for _, tt := range tests {
		r := NewReader(tt.encoded, 0)
		got, err := r.ReadVarS64()
		if err != nil {
			t.Errorf("ReadVarS64(%v): %v", tt.encoded, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ReadVarS64(%v): got %d, want %d", tt.encoded, got, tt.want)
		}
	}
}

func TestReaderReadName(t *testing.T) {
	w := NewWriter()
	w.WriteName("hello")
	data := w.Bytes()

	r := NewReader(data, 0)
	got, err := r.ReadName()
	if err != nil {
		t.Fatalf("ReadName: %v", err)
	}
	if got != "hello" {
		t.Errorf("ReadName: got %q, want %q", got, "hello")
	}
}

func TestReaderReadNameTruncated(t *testing.T) {
	r := NewReader([]byte{0x05, 'a', 'b'}, 0)
	if _, err := r.ReadName(); !errors.Is(err, werrors.ErrTruncated) {
		t.Errorf("expected truncated, got %v", err)
	}
}

func TestReaderReadU32LE(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04}
	r := NewReader(data, 0)
	got, err := r.ReadU32LE()
	if err != nil {
		t.Fatalf("ReadU32LE: %v", err)
	}
	want := uint32(0x04030201)
	if got != want {
		t.Errorf("ReadU32LE: got 0x%08x, want 0x%08x", got, want)
	}

	r = NewReader([]byte{0x01, 0x02, 0x03}, 0)
	if _, err := r.ReadU32LE(); !errors.Is(err, werrors.ErrTruncated) {
		t.Errorf("expected truncated, got %v", err)
	}
}

func TestReaderReadRemaining(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05}
	r := NewReader(data, 0)
	r.ReadBytes(2)

	remaining := r.ReadRemaining()
	if !bytes.Equal(remaining, []byte{0x03, 0x04, 0x05}) {
		t.Errorf("ReadRemaining: got %v, want [3 4 5]", remaining)
	}
	if !r.EOF() {
		t.Error("expected EOF after ReadRemaining")
	}
}

func TestWriterRoundTrip(t *testing.T) {
	w := NewWriter()
	w.WriteU32LE(0x6d736100)
	w.WriteU32(624485)
	w.WriteU64(math.MaxUint64)
	w.WriteS32(-65)
	w.WriteS64(math.MinInt64)
	w.WriteSized([]byte{0xaa, 0xbb})

	r := NewReader(w.Bytes(), 0)
	if v, err := r.ReadU32LE(); err != nil || v != 0x6d736100 {
		t.Errorf("ReadU32LE: %x, %v", v, err)
	}
	if v, err := r.ReadVarU32(); err != nil || v != 624485 {
		t.Errorf("ReadVarU32: %d, %v", v, err)
	}
	if v, err := r.ReadVarU64(); err != nil || v != math.MaxUint64 {
		t.Errorf("ReadVarU64: %d, %v", v, err)
	}
	if v, err := r.ReadVarS32(); err != nil || v != -65 {
		t.Errorf("ReadVarS32: %d, %v", v, err)
	}
	if v, err := r.ReadVarS64(); err != nil || v != math.MinInt64 {
		t.Errorf("ReadVarS64: %d, %v", v, err)
	}
	n, _ := r.ReadVarU32()
	payload, err := r.ReadBytes(int(n))
	if err != nil || !bytes.Equal(payload, []byte{0xaa, 0xbb}) {
		t.Errorf("sized payload: %v, %v", payload, err)
	}
	if !r.EOF() {
		t.Errorf("%d bytes left over", r.Len())
	}
}

func TestReaderReadVar64Overflow(t *testing.T) {
	nine := bytes.Repeat([]byte{0x80}, 9)
	tenth := func(b byte) []byte { return append(bytes.Clone(nine), b) }

	unsigned := map[string][]byte{
		"bit 64 set":     tenth(0x02),
		"high bits set":  tenth(0x7f),
		"all ones":       append(bytes.Repeat([]byte{0xff}, 9), 0x7f),
		"eleven bytes":   append(tenth(0x80), 0x00),
		"ten continuing": tenth(0x80),
	}
	for name, data := range unsigned {
		t.Run("u64 "+name, func(t *testing.T) {
			r := NewReader(data, 3)
			_, err := r.ReadVarU64()
			if !errors.Is(err, werrors.ErrOverflow) {
				t.Fatalf("expected overflow, got %v", err)
			}
			var e *werrors.Error
			errors.As(err, &e)
			if e.Offset != 3 {
				t.Errorf("offset: got %d, want 3", e.Offset)
			}
		})
	}

	signed := map[string][]byte{
		"positive spill": tenth(0x01),
		"negative spill": tenth(0x7e),
		"mixed sign":     tenth(0x40),
		"eleven bytes":   append(tenth(0xff), 0x00),
	}
	for name, data := range signed {
		t.Run("s64 "+name, func(t *testing.T) {
			r := NewReader(data, 0)
			_, err := r.ReadVarS64()
			if !errors.Is(err, werrors.ErrOverflow) {
				t.Errorf("expected overflow, got %v", err)
			}
		})
	}
}
