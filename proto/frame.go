package proto

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

// Wire layout of one frame:
// +-------+--------+---------+----...----+
// | MAGIC |  LEN   | OPCODE  |  PAYLOAD  |
// |  (4)  | u16 LE |   (1)   |  (LEN-1)  |
// +-------+--------+---------+----...----+
// LEN counts the opcode byte plus the payload.
var Magic = [4]byte{0xF0, 0x0D, 0xBE, 0xEF}

const (
	FrameHeaderLen = 7
	MaxPayloadLen  = 0xFFFF - 1
)

var (
	ErrNilBuf          = errors.New("Nil buffer.")
	ErrBufferTooShort  = errors.New("Buffer is too short.")
	ErrFrameTooShort   = errors.New("Frame is shorter than a frame header.")
	ErrBadMagic        = errors.New("Frame magic mismatch.")
	ErrLengthMismatch  = errors.New("Frame length does not match received bytes.")
	ErrTruncatedField  = errors.New("Field is truncated.")
	ErrPayloadTooLarge = errors.New("Payload exceeds frame capacity.")
	ErrUnknownOpCode   = errors.New("Unknown opcode.")
)

type Frame struct {
	OpCode  uint8
	Payload []byte
}

func (f *Frame) Len() int {
	return FrameHeaderLen + len(f.Payload)
}

func EncodeFrame(f *Frame) ([]byte, error) {
	if len(f.Payload) > MaxPayloadLen {
		return nil, ErrPayloadTooLarge
	}
	buf := make([]byte, f.Len())
	copy(buf[0:4], Magic[:])
	binary.LittleEndian.PutUint16(buf[4:6], uint16(1+len(f.Payload)))
	buf[6] = f.OpCode
	copy(buf[FrameHeaderLen:], f.Payload)
	return buf, nil
}

// DecodeFrame parses one complete frame held in raw. The declared length
// must cover exactly the bytes present; an inconsistent frame is rejected
// whole, never partially trusted.
func DecodeFrame(raw []byte) (*Frame, error) {
	if raw == nil {
		return nil, ErrNilBuf
	}
	if len(raw) < FrameHeaderLen {
		return nil, ErrFrameTooShort
	}
	if !bytes.Equal(raw[0:4], Magic[:]) {
		return nil, ErrBadMagic
	}
	length := binary.LittleEndian.Uint16(raw[4:6])
	if length < 1 || int(length) != len(raw)-6 {
		return nil, ErrLengthMismatch
	}
	f := &Frame{OpCode: raw[6], Payload: make([]byte, length-1)}
	copy(f.Payload, raw[FrameHeaderLen:])
	return f, nil
}

// ReadFrame reads exactly one frame from a stream, header first.
func ReadFrame(r io.Reader) (*Frame, error) {
	hdr := make([]byte, FrameHeaderLen)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return nil, err
	}
	if !bytes.Equal(hdr[0:4], Magic[:]) {
		return nil, ErrBadMagic
	}
	length := binary.LittleEndian.Uint16(hdr[4:6])
	if length < 1 {
		return nil, ErrLengthMismatch
	}
	f := &Frame{OpCode: hdr[6], Payload: make([]byte, length-1)}
	if _, err := io.ReadFull(r, f.Payload); err != nil {
		return nil, err
	}
	return f, nil
}

func WriteFrame(w io.Writer, f *Frame) error {
	buf, err := EncodeFrame(f)
	if err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}
