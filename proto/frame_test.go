package proto

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeFrameLayout(t *testing.T) {
	f := &Frame{OpCode: OP_JOIN, Payload: []byte{0x03, 0x00, 'b', 'o', 'b'}}
	raw, err := EncodeFrame(f)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xF0, 0x0D, 0xBE, 0xEF, 0x06, 0x00, 0x01, 0x03, 0x00, 'b', 'o', 'b'}, raw)
}

func TestEncodeFrameEmptyPayload(t *testing.T) {
	raw, err := EncodeFrame(&Frame{OpCode: OP_EXIT})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xF0, 0x0D, 0xBE, 0xEF, 0x01, 0x00, 0x06}, raw)
}

func TestEncodeFrameTooLarge(t *testing.T) {
	_, err := EncodeFrame(&Frame{OpCode: OP_POST, Payload: make([]byte, MaxPayloadLen+1)})
	assert.Equal(t, ErrPayloadTooLarge, err)
}

func TestDecodeFrameRoundTrip(t *testing.T) {
	payloads := [][]byte{nil, {}, {0x01}, []byte("hello world"), make([]byte, MaxPayloadLen)}
	for _, payload := range payloads {
		raw, err := EncodeFrame(&Frame{OpCode: OP_GROUP_POST, Payload: payload})
		require.NoError(t, err)
		f, err := DecodeFrame(raw)
		require.NoError(t, err)
		assert.Equal(t, OP_GROUP_POST, f.OpCode)
		assert.Equal(t, len(payload), len(f.Payload))
		assert.Equal(t, append([]byte{}, payload...), f.Payload)
	}
}

func TestDecodeFrameNil(t *testing.T) {
	_, err := DecodeFrame(nil)
	assert.Equal(t, ErrNilBuf, err)
}

func TestDecodeFrameShort(t *testing.T) {
	full := []byte{0xF0, 0x0D, 0xBE, 0xEF, 0x01, 0x00, 0x06}
	for cut := 0; cut < FrameHeaderLen; cut++ {
		_, err := DecodeFrame(full[:cut])
		assert.Equal(t, ErrFrameTooShort, err, "cut=%v", cut)
	}
}

func TestDecodeFrameBadMagic(t *testing.T) {
	raw := []byte{0xF0, 0x0D, 0xBE, 0xEE, 0x01, 0x00, 0x06}
	_, err := DecodeFrame(raw)
	assert.Equal(t, ErrBadMagic, err)
}

func TestDecodeFrameOverstatedLength(t *testing.T) {
	// Header claims two bytes after the opcode but none follow.
	raw := []byte{0xF0, 0x0D, 0xBE, 0xEF, 0x03, 0x00, 0x02}
	_, err := DecodeFrame(raw)
	assert.Equal(t, ErrLengthMismatch, err)

	// Length 2 with nothing after the opcode byte.
	raw = []byte{0xF0, 0x0D, 0xBE, 0xEF, 0x02, 0x00, 0x01}
	_, err = DecodeFrame(raw)
	assert.Equal(t, ErrLengthMismatch, err)
}

func TestDecodeFrameUnderstatedLength(t *testing.T) {
	raw := []byte{0xF0, 0x0D, 0xBE, 0xEF, 0x01, 0x00, 0x02, 0xAA, 0xBB}
	_, err := DecodeFrame(raw)
	assert.Equal(t, ErrLengthMismatch, err)
}

func TestDecodeFrameZeroLength(t *testing.T) {
	raw := []byte{0xF0, 0x0D, 0xBE, 0xEF, 0x00, 0x00, 0x06}
	_, err := DecodeFrame(raw)
	assert.Equal(t, ErrLengthMismatch, err)
}

func TestReadFrameStream(t *testing.T) {
	buf := &bytes.Buffer{}
	frames := []*Frame{
		{OpCode: OP_JOIN, Payload: []byte{0x03, 0x00, 'b', 'o', 'b'}},
		{OpCode: OP_USERS},
		{OpCode: OP_POST, Payload: []byte("payload bytes")},
	}
	for _, f := range frames {
		require.NoError(t, WriteFrame(buf, f))
	}
	for _, want := range frames {
		got, err := ReadFrame(buf)
		require.NoError(t, err)
		assert.Equal(t, want.OpCode, got.OpCode)
		assert.Equal(t, len(want.Payload), len(got.Payload))
	}
	_, err := ReadFrame(buf)
	assert.Equal(t, io.EOF, err)
}

func TestReadFrameTruncatedPayload(t *testing.T) {
	raw, err := EncodeFrame(&Frame{OpCode: OP_POST, Payload: []byte("abcdef")})
	require.NoError(t, err)
	_, err = ReadFrame(bytes.NewReader(raw[:len(raw)-2]))
	assert.Equal(t, io.ErrUnexpectedEOF, err)
}

func TestReadFrameBadMagic(t *testing.T) {
	raw := []byte{0x00, 0x0D, 0xBE, 0xEF, 0x01, 0x00, 0x06}
	_, err := ReadFrame(bytes.NewReader(raw))
	assert.Equal(t, ErrBadMagic, err)
}
