package engine

import "fmt"

// ArrayBufferData is the payload of a KindArrayBuffer object: a raw byte
// slice plus a detached flag. Detaching (via a structured-clone transfer
// in a full engine; exposed here as an explicit Detach call for hosts
// that need it) invalidates every TypedArray/DataView view over it.
type ArrayBufferData struct {
	bytes    []byte
	detached bool
}

// NewArrayBuffer allocates a zero-filled buffer of byteLength bytes.
func NewArrayBuffer(proto Value, byteLength int) *Object {
	return &Object{
		Kind: KindArrayBuffer, shape: RootShape, prototype: proto, extensible: true,
		Buffer: &ArrayBufferData{bytes: make([]byte, byteLength)},
	}
}

func (b *ArrayBufferData) ByteLength() int { return len(b.bytes) }
func (b *ArrayBufferData) IsDetached() bool { return b.detached }
func (b *ArrayBufferData) Bytes() []byte    { return b.bytes }

// Detach invalidates the buffer; every view's length reads as 0
// thereafter.
func (b *ArrayBufferData) Detach() {
	b.bytes = nil
	b.detached = true
}

// Slice implements ArrayBuffer.prototype.slice: a fresh, independent
// copy of the given byte range.
func (b *ArrayBufferData) Slice(start, end int) ([]byte, error) {
	if b.detached {
		return nil, fmt.Errorf("TypeError: cannot slice a detached ArrayBuffer")
	}
	if start < 0 {
		start = 0
	}
	if end > len(b.bytes) {
		end = len(b.bytes)
	}
	if start > end {
		start = end
	}
	out := make([]byte, end-start)
	copy(out, b.bytes[start:end])
	return out, nil
}
