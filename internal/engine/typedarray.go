package engine

import (
	"encoding/binary"
	"fmt"
	"math"
)

// TypedArrayKind identifies the element type a TypedArray view
// interprets its backing buffer's bytes as.
type TypedArrayKind uint8

const (
	KindInt8 TypedArrayKind = iota
	KindUint8
	KindUint8Clamped
	KindInt16
	KindUint16
	KindInt32
	KindUint32
	KindFloat32
	KindFloat64
)

// BytesPerElement returns the element size in bytes for k.
func (k TypedArrayKind) BytesPerElement() int {
	switch k {
	case KindInt8, KindUint8, KindUint8Clamped:
		return 1
	case KindInt16, KindUint16:
		return 2
	case KindInt32, KindUint32, KindFloat32:
		return 4
	case KindFloat64:
		return 8
	}
	return 1
}

// TypedArrayData is the payload of a KindTypedArray object: a view
// (kind, byte offset, element length) over an ArrayBuffer object.
type TypedArrayData struct {
	Kind       TypedArrayKind
	Buffer     Value // the backing ArrayBuffer object value
	ByteOffset int
	Length     int // element count, not byte count
}

// NewTypedArray creates a view of the given kind over buffer starting at
// byteOffset, spanning length elements.
func NewTypedArray(proto Value, kind TypedArrayKind, buffer Value, byteOffset, length int) *Object {
	return &Object{
		Kind: KindTypedArray, shape: RootShape, prototype: proto, extensible: true,
		TypedArr: &TypedArrayData{Kind: kind, Buffer: buffer, ByteOffset: byteOffset, Length: length},
	}
}

func (t *TypedArrayData) bufData() *ArrayBufferData {
	if !t.Buffer.IsObject() || t.Buffer.obj.Buffer == nil {
		return nil
	}
	return t.Buffer.obj.Buffer
}

// Get reads element i, applying the kind's byte-to-number decoding.
func (t *TypedArrayData) Get(i int) (float64, error) {
	buf := t.bufData()
	if buf == nil || buf.IsDetached() {
		return 0, fmt.Errorf("TypeError: operation on a detached ArrayBuffer")
	}
	if i < 0 || i >= t.Length {
		return 0, fmt.Errorf("RangeError: typed array index out of range")
	}
	size := t.Kind.BytesPerElement()
	offset := t.ByteOffset + i*size
	b := buf.bytes[offset : offset+size]
	switch t.Kind {
	case KindInt8:
		return float64(int8(b[0])), nil
	case KindUint8, KindUint8Clamped:
		return float64(b[0]), nil
	case KindInt16:
		return float64(int16(binary.LittleEndian.Uint16(b))), nil
	case KindUint16:
		return float64(binary.LittleEndian.Uint16(b)), nil
	case KindInt32:
		return float64(int32(binary.LittleEndian.Uint32(b))), nil
	case KindUint32:
		return float64(binary.LittleEndian.Uint32(b)), nil
	case KindFloat32:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b))), nil
	case KindFloat64:
		return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
	}
	return 0, nil
}

// Set writes value into element i, applying the kind's ToNumber coercion
// and (for Uint8Clamped) the round-half-to-even clamping rule.
func (t *TypedArrayData) Set(i int, value float64) error {
	buf := t.bufData()
	if buf == nil || buf.IsDetached() {
		return fmt.Errorf("TypeError: operation on a detached ArrayBuffer")
	}
	if i < 0 || i >= t.Length {
		return fmt.Errorf("RangeError: typed array index out of range")
	}
	size := t.Kind.BytesPerElement()
	offset := t.ByteOffset + i*size
	b := buf.bytes[offset : offset+size]
	switch t.Kind {
	case KindInt8:
		b[0] = byte(int8(int64(value)))
	case KindUint8:
		b[0] = byte(uint8(int64(value)))
	case KindUint8Clamped:
		b[0] = clampUint8(value)
	case KindInt16:
		binary.LittleEndian.PutUint16(b, uint16(int16(int64(value))))
	case KindUint16:
		binary.LittleEndian.PutUint16(b, uint16(int64(value)))
	case KindInt32:
		binary.LittleEndian.PutUint32(b, uint32(int32(int64(value))))
	case KindUint32:
		binary.LittleEndian.PutUint32(b, uint32(int64(value)))
	case KindFloat32:
		binary.LittleEndian.PutUint32(b, math.Float32bits(float32(value)))
	case KindFloat64:
		binary.LittleEndian.PutUint64(b, math.Float64bits(value))
	}
	return nil
}

// clampUint8 implements the Uint8ClampedArray coercion: values are
// clamped to [0,255] and, when exactly halfway between two integers,
// rounded to the nearest even integer rather than always rounding up.
func clampUint8(f float64) byte {
	if math.IsNaN(f) || f <= 0 {
		return 0
	}
	if f >= 255 {
		return 255
	}
	floor := math.Floor(f)
	diff := f - floor
	switch {
	case diff < 0.5:
		return byte(floor)
	case diff > 0.5:
		return byte(floor + 1)
	default:
		if int64(floor)%2 == 0 {
			return byte(floor)
		}
		return byte(floor + 1)
	}
}
