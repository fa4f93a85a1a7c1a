package proto

import "encoding/binary"

// cursor walks a frame payload with bounds checking. Every read is validated
// against the remaining bytes and fails with ErrTruncatedField instead of
// touching memory past the buffer.
type cursor struct {
	buf []byte
	off int
}

func newCursor(buf []byte) *cursor {
	return &cursor{buf: buf}
}

func (c *cursor) remaining() int {
	return len(c.buf) - c.off
}

func (c *cursor) uint16() (uint16, error) {
	if c.remaining() < 2 {
		return 0, ErrTruncatedField
	}
	v := binary.LittleEndian.Uint16(c.buf[c.off:])
	c.off += 2
	return v, nil
}

// str reads one length-prefixed UTF-8 field.
func (c *cursor) str() (string, error) {
	length, err := c.uint16()
	if err != nil {
		return "", err
	}
	if c.remaining() < int(length) {
		return "", ErrTruncatedField
	}
	s := string(c.buf[c.off : c.off+int(length)])
	c.off += int(length)
	return s, nil
}

func putUint16(buf []byte, off int, v uint16) int {
	binary.LittleEndian.PutUint16(buf[off:], v)
	return off + 2
}

func putString(buf []byte, off int, s string) int {
	off = putUint16(buf, off, uint16(len(s)))
	copy(buf[off:], s)
	return off + len(s)
}

func stringLen(s string) int {
	return 2 + len(s)
}
