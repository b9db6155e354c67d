package engine

import (
	"encoding/binary"
	"fmt"
	"math"
)

// DataViewData is the payload of a KindDataView object: an unopinionated
// byte-offset/length view over an ArrayBuffer that reads/writes any
// numeric type at any byte offset with an explicit endianness, unlike a
// TypedArray's fixed element kind.
type DataViewData struct {
	Buffer     Value
	ByteOffset int
	ByteLength int
}

// NewDataView creates a view over buffer.
func NewDataView(proto Value, buffer Value, byteOffset, byteLength int) *Object {
	return &Object{
		Kind: KindDataView, shape: RootShape, prototype: proto, extensible: true,
		DataView: &DataViewData{Buffer: buffer, ByteOffset: byteOffset, ByteLength: byteLength},
	}
}

func (d *DataViewData) bufData() *ArrayBufferData {
	if !d.Buffer.IsObject() || d.Buffer.obj.Buffer == nil {
		return nil
	}
	return d.Buffer.obj.Buffer
}

func (d *DataViewData) slice(offset, size int) ([]byte, error) {
	buf := d.bufData()
	if buf == nil || buf.IsDetached() {
		return nil, fmt.Errorf("TypeError: operation on a detached ArrayBuffer")
	}
	if offset < 0 || offset+size > d.ByteLength {
		return nil, fmt.Errorf("RangeError: offset is outside the bounds of the DataView")
	}
	start := d.ByteOffset + offset
	return buf.bytes[start : start+size], nil
}

func order(littleEndian bool) binary.ByteOrder {
	if littleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

func (d *DataViewData) GetUint8(offset int) (byte, error) {
	b, err := d.slice(offset, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *DataViewData) SetUint8(offset int, v byte) error {
	b, err := d.slice(offset, 1)
	if err != nil {
		return err
	}
	b[0] = v
	return nil
}

func (d *DataViewData) GetInt16(offset int, littleEndian bool) (int16, error) {
	b, err := d.slice(offset, 2)
	if err != nil {
		return 0, err
	}
	return int16(order(littleEndian).Uint16(b)), nil
}

func (d *DataViewData) SetInt16(offset int, v int16, littleEndian bool) error {
	b, err := d.slice(offset, 2)
	if err != nil {
		return err
	}
	order(littleEndian).PutUint16(b, uint16(v))
	return nil
}

func (d *DataViewData) GetUint32(offset int, littleEndian bool) (uint32, error) {
	b, err := d.slice(offset, 4)
	if err != nil {
		return 0, err
	}
	return order(littleEndian).Uint32(b), nil
}

func (d *DataViewData) SetUint32(offset int, v uint32, littleEndian bool) error {
	b, err := d.slice(offset, 4)
	if err != nil {
		return err
	}
	order(littleEndian).PutUint32(b, v)
	return nil
}

func (d *DataViewData) GetFloat64(offset int, littleEndian bool) (float64, error) {
	b, err := d.slice(offset, 8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(order(littleEndian).Uint64(b)), nil
}

func (d *DataViewData) SetFloat64(offset int, v float64, littleEndian bool) error {
	b, err := d.slice(offset, 8)
	if err != nil {
		return err
	}
	order(littleEndian).PutUint64(b, math.Float64bits(v))
	return nil
}
