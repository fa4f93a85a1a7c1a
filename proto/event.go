package proto

// Events travel server to client. Join/Leave reuse their request opcode on
// the event direction with their own schemas.

/////////////////////////////////////////////////////////
// JoinEvent : [username]
/////////////////////////////////////////////////////////
type JoinEvent struct {
	Username string
}

func (e *JoinEvent) Marshal(buf []byte) error {
	if len(buf) < e.Len() {
		return ErrBufferTooShort
	}
	putString(buf, 0, e.Username)
	return nil
}

func (e *JoinEvent) Unmarshal(raw []byte) error {
	var err error
	cur := newCursor(raw)
	e.Username, err = cur.str()
	return err
}

func (e *JoinEvent) Len() int {
	return stringLen(e.Username)
}

func (e *JoinEvent) OpCode() uint8 {
	return OP_JOIN
}

/////////////////////////////////////////////////////////
// GroupJoinEvent : [username, group_id, group_name]
/////////////////////////////////////////////////////////
type GroupJoinEvent struct {
	Username  string
	GroupID   string
	GroupName string
}

func (e *GroupJoinEvent) Marshal(buf []byte) error {
	if len(buf) < e.Len() {
		return ErrBufferTooShort
	}
	off := putString(buf, 0, e.Username)
	off = putString(buf, off, e.GroupID)
	putString(buf, off, e.GroupName)
	return nil
}

func (e *GroupJoinEvent) Unmarshal(raw []byte) error {
	var err error
	cur := newCursor(raw)
	if e.Username, err = cur.str(); err != nil {
		return err
	}
	if e.GroupID, err = cur.str(); err != nil {
		return err
	}
	e.GroupName, err = cur.str()
	return err
}

func (e *GroupJoinEvent) Len() int {
	return stringLen(e.Username) + stringLen(e.GroupID) + stringLen(e.GroupName)
}

func (e *GroupJoinEvent) OpCode() uint8 {
	return OP_GROUP_JOIN
}

/////////////////////////////////////////////////////////
// PostEvent : [post_id, sender, date, subject]
/////////////////////////////////////////////////////////
type PostEvent struct {
	PostID  string
	Sender  string
	Date    string
	Subject string
}

func (e *PostEvent) Marshal(buf []byte) error {
	if len(buf) < e.Len() {
		return ErrBufferTooShort
	}
	off := putString(buf, 0, e.PostID)
	off = putString(buf, off, e.Sender)
	off = putString(buf, off, e.Date)
	putString(buf, off, e.Subject)
	return nil
}

func (e *PostEvent) Unmarshal(raw []byte) error {
	var err error
	cur := newCursor(raw)
	if e.PostID, err = cur.str(); err != nil {
		return err
	}
	if e.Sender, err = cur.str(); err != nil {
		return err
	}
	if e.Date, err = cur.str(); err != nil {
		return err
	}
	e.Subject, err = cur.str()
	return err
}

func (e *PostEvent) Len() int {
	return stringLen(e.PostID) + stringLen(e.Sender) + stringLen(e.Date) + stringLen(e.Subject)
}

func (e *PostEvent) OpCode() uint8 {
	return OP_POST
}

/////////////////////////////////////////////////////////
// GroupPostEvent : [post_id, sender, date, subject, group_id, group_name]
/////////////////////////////////////////////////////////
type GroupPostEvent struct {
	PostID    string
	Sender    string
	Date      string
	Subject   string
	GroupID   string
	GroupName string
}

func (e *GroupPostEvent) Marshal(buf []byte) error {
	if len(buf) < e.Len() {
		return ErrBufferTooShort
	}
	off := putString(buf, 0, e.PostID)
	off = putString(buf, off, e.Sender)
	off = putString(buf, off, e.Date)
	off = putString(buf, off, e.Subject)
	off = putString(buf, off, e.GroupID)
	putString(buf, off, e.GroupName)
	return nil
}

func (e *GroupPostEvent) Unmarshal(raw []byte) error {
	var err error
	cur := newCursor(raw)
	if e.PostID, err = cur.str(); err != nil {
		return err
	}
	if e.Sender, err = cur.str(); err != nil {
		return err
	}
	if e.Date, err = cur.str(); err != nil {
		return err
	}
	if e.Subject, err = cur.str(); err != nil {
		return err
	}
	if e.GroupID, err = cur.str(); err != nil {
		return err
	}
	e.GroupName, err = cur.str()
	return err
}

func (e *GroupPostEvent) Len() int {
	return stringLen(e.PostID) + stringLen(e.Sender) + stringLen(e.Date) +
		stringLen(e.Subject) + stringLen(e.GroupID) + stringLen(e.GroupName)
}

func (e *GroupPostEvent) OpCode() uint8 {
	return OP_GROUP_POST
}

/////////////////////////////////////////////////////////
// UsersEvent : [count, username*count]
/////////////////////////////////////////////////////////
type UsersEvent struct {
	Usernames []string
}

func (e *UsersEvent) Marshal(buf []byte) error {
	if len(buf) < e.Len() {
		return ErrBufferTooShort
	}
	off := putUint16(buf, 0, uint16(len(e.Usernames)))
	for _, name := range e.Usernames {
		off = putString(buf, off, name)
	}
	return nil
}

func (e *UsersEvent) Unmarshal(raw []byte) error {
	cur := newCursor(raw)
	count, err := cur.uint16()
	if err != nil {
		return err
	}
	e.Usernames = make([]string, 0, count)
	for i := uint16(0); i < count; i++ {
		name, err := cur.str()
		if err != nil {
			return err
		}
		e.Usernames = append(e.Usernames, name)
	}
	return nil
}

func (e *UsersEvent) Len() int {
	total := 2
	for _, name := range e.Usernames {
		total += stringLen(name)
	}
	return total
}

func (e *UsersEvent) OpCode() uint8 {
	return OP_USERS
}

/////////////////////////////////////////////////////////
// GroupUsersEvent : [count, username*count, group_id, group_name]
/////////////////////////////////////////////////////////
type GroupUsersEvent struct {
	Usernames []string
	GroupID   string
	GroupName string
}

func (e *GroupUsersEvent) Marshal(buf []byte) error {
	if len(buf) < e.Len() {
		return ErrBufferTooShort
	}
	off := putUint16(buf, 0, uint16(len(e.Usernames)))
	for _, name := range e.Usernames {
		off = putString(buf, off, name)
	}
	off = putString(buf, off, e.GroupID)
	putString(buf, off, e.GroupName)
	return nil
}

func (e *GroupUsersEvent) Unmarshal(raw []byte) error {
	cur := newCursor(raw)
	count, err := cur.uint16()
	if err != nil {
		return err
	}
	e.Usernames = make([]string, 0, count)
	for i := uint16(0); i < count; i++ {
		name, err := cur.str()
		if err != nil {
			return err
		}
		e.Usernames = append(e.Usernames, name)
	}
	if e.GroupID, err = cur.str(); err != nil {
		return err
	}
	e.GroupName, err = cur.str()
	return err
}

func (e *GroupUsersEvent) Len() int {
	total := 2
	for _, name := range e.Usernames {
		total += stringLen(name)
	}
	return total + stringLen(e.GroupID) + stringLen(e.GroupName)
}

func (e *GroupUsersEvent) OpCode() uint8 {
	return OP_GROUP_USERS
}

/////////////////////////////////////////////////////////
// LeaveEvent : [username]
/////////////////////////////////////////////////////////
type LeaveEvent struct {
	Username string
}

func (e *LeaveEvent) Marshal(buf []byte) error {
	if len(buf) < e.Len() {
		return ErrBufferTooShort
	}
	putString(buf, 0, e.Username)
	return nil
}

func (e *LeaveEvent) Unmarshal(raw []byte) error {
	var err error
	cur := newCursor(raw)
	e.Username, err = cur.str()
	return err
}

func (e *LeaveEvent) Len() int {
	return stringLen(e.Username)
}

func (e *LeaveEvent) OpCode() uint8 {
	return OP_LEAVE
}

/////////////////////////////////////////////////////////
// GroupLeaveEvent : [username, group_id, group_name]
/////////////////////////////////////////////////////////
type GroupLeaveEvent struct {
	Username  string
	GroupID   string
	GroupName string
}

func (e *GroupLeaveEvent) Marshal(buf []byte) error {
	if len(buf) < e.Len() {
		return ErrBufferTooShort
	}
	off := putString(buf, 0, e.Username)
	off = putString(buf, off, e.GroupID)
	putString(buf, off, e.GroupName)
	return nil
}

func (e *GroupLeaveEvent) Unmarshal(raw []byte) error {
	var err error
	cur := newCursor(raw)
	if e.Username, err = cur.str(); err != nil {
		return err
	}
	if e.GroupID, err = cur.str(); err != nil {
		return err
	}
	e.GroupName, err = cur.str()
	return err
}

func (e *GroupLeaveEvent) Len() int {
	return stringLen(e.Username) + stringLen(e.GroupID) + stringLen(e.GroupName)
}

func (e *GroupLeaveEvent) OpCode() uint8 {
	return OP_GROUP_LEAVE
}

/////////////////////////////////////////////////////////
// MessageEvent : [body]
// Replies to both Message and GroupMessage requests.
/////////////////////////////////////////////////////////
type MessageEvent struct {
	Body string
}

func (e *MessageEvent) Marshal(buf []byte) error {
	if len(buf) < e.Len() {
		return ErrBufferTooShort
	}
	putString(buf, 0, e.Body)
	return nil
}

func (e *MessageEvent) Unmarshal(raw []byte) error {
	var err error
	cur := newCursor(raw)
	e.Body, err = cur.str()
	return err
}

func (e *MessageEvent) Len() int {
	return stringLen(e.Body)
}

func (e *MessageEvent) OpCode() uint8 {
	return OP_MESSAGE
}

/////////////////////////////////////////////////////////
// GroupsEvent : [count, (group_id, group_name)*count]
/////////////////////////////////////////////////////////
type GroupEntry struct {
	ID   string
	Name string
}

type GroupsEvent struct {
	Groups []GroupEntry
}

func (e *GroupsEvent) Marshal(buf []byte) error {
	if len(buf) < e.Len() {
		return ErrBufferTooShort
	}
	off := putUint16(buf, 0, uint16(len(e.Groups)))
	for _, entry := range e.Groups {
		off = putString(buf, off, entry.ID)
		off = putString(buf, off, entry.Name)
	}
	return nil
}

func (e *GroupsEvent) Unmarshal(raw []byte) error {
	cur := newCursor(raw)
	count, err := cur.uint16()
	if err != nil {
		return err
	}
	e.Groups = make([]GroupEntry, 0, count)
	for i := uint16(0); i < count; i++ {
		var entry GroupEntry
		if entry.ID, err = cur.str(); err != nil {
			return err
		}
		if entry.Name, err = cur.str(); err != nil {
			return err
		}
		e.Groups = append(e.Groups, entry)
	}
	return nil
}

func (e *GroupsEvent) Len() int {
	total := 2
	for _, entry := range e.Groups {
		total += stringLen(entry.ID) + stringLen(entry.Name)
	}
	return total
}

func (e *GroupsEvent) OpCode() uint8 {
	return OP_GROUPS
}

/////////////////////////////////////////////////////////
// ErrorEvent : [message]
/////////////////////////////////////////////////////////
type ErrorEvent struct {
	Message string
}

func (e *ErrorEvent) Marshal(buf []byte) error {
	if len(buf) < e.Len() {
		return ErrBufferTooShort
	}
	putString(buf, 0, e.Message)
	return nil
}

func (e *ErrorEvent) Unmarshal(raw []byte) error {
	var err error
	cur := newCursor(raw)
	e.Message, err = cur.str()
	return err
}

func (e *ErrorEvent) Len() int {
	return stringLen(e.Message)
}

func (e *ErrorEvent) OpCode() uint8 {
	return OP_ERROR
}

// UnmarshalEvent decodes the server-to-client unit carried by a frame.
func UnmarshalEvent(f *Frame) (ProtocolUnit, error) {
	var unit ProtocolUnit
	switch f.OpCode {
	case OP_JOIN:
		unit = &JoinEvent{}
	case OP_GROUP_JOIN:
		unit = &GroupJoinEvent{}
	case OP_POST:
		unit = &PostEvent{}
	case OP_GROUP_POST:
		unit = &GroupPostEvent{}
	case OP_USERS:
		unit = &UsersEvent{}
	case OP_GROUP_USERS:
		unit = &GroupUsersEvent{}
	case OP_LEAVE:
		unit = &LeaveEvent{}
	case OP_GROUP_LEAVE:
		unit = &GroupLeaveEvent{}
	case OP_MESSAGE:
		unit = &MessageEvent{}
	case OP_GROUPS:
		unit = &GroupsEvent{}
	case OP_ERROR:
		unit = &ErrorEvent{}
	default:
		return nil, ErrUnknownOpCode
	}
	if err := unit.Unmarshal(f.Payload); err != nil {
		return nil, err
	}
	return unit, nil
}
