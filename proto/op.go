package proto

// Opcode values are fixed by the wire protocol. The 0xAx variants carry an
// explicit group id; the low ones operate on the permanent public group.
const (
	OP_JOIN          = uint8(0x01)
	OP_POST          = uint8(0x02)
	OP_USERS         = uint8(0x03)
	OP_LEAVE         = uint8(0x04)
	OP_MESSAGE       = uint8(0x05)
	OP_EXIT          = uint8(0x06)
	OP_GROUPS        = uint8(0x07)
	OP_GROUP_JOIN    = uint8(0xA1)
	OP_GROUP_POST    = uint8(0xA2)
	OP_GROUP_USERS   = uint8(0xA3)
	OP_GROUP_LEAVE   = uint8(0xA4)
	OP_GROUP_MESSAGE = uint8(0xA5)
	OP_ERROR         = uint8(0xFF)
)

var opCodeNames = map[uint8]string{
	OP_JOIN:          "Join",
	OP_POST:          "Post",
	OP_USERS:         "Users",
	OP_LEAVE:         "Leave",
	OP_MESSAGE:       "Message",
	OP_EXIT:          "Exit",
	OP_GROUPS:        "Groups",
	OP_GROUP_JOIN:    "GroupJoin",
	OP_GROUP_POST:    "GroupPost",
	OP_GROUP_USERS:   "GroupUsers",
	OP_GROUP_LEAVE:   "GroupLeave",
	OP_GROUP_MESSAGE: "GroupMessage",
	OP_ERROR:         "Error",
}

func OpCodeName(op uint8) string {
	name, ok := opCodeNames[op]
	if !ok {
		return "Unknown"
	}
	return name
}

// ProtocolUnit is one typed opcode payload.
type ProtocolUnit interface {
	Marshal(buf []byte) error
	Unmarshal(raw []byte) error
	Len() int
	OpCode() uint8
}

// MarshalFrame packs a protocol unit into a complete frame.
func MarshalFrame(u ProtocolUnit) (*Frame, error) {
	payload := make([]byte, u.Len())
	if err := u.Marshal(payload); err != nil {
		return nil, err
	}
	return &Frame{OpCode: u.OpCode(), Payload: payload}, nil
}
