package proto

// Requests travel client to server. Field order is part of the wire
// contract and must not change.

/////////////////////////////////////////////////////////
// Join : [username]
/////////////////////////////////////////////////////////
type JoinRequest struct {
	Username string
}

func (r *JoinRequest) Marshal(buf []byte) error {
	if len(buf) < r.Len() {
		return ErrBufferTooShort
	}
	putString(buf, 0, r.Username)
	return nil
}

func (r *JoinRequest) Unmarshal(raw []byte) error {
	var err error
	cur := newCursor(raw)
	r.Username, err = cur.str()
	return err
}

func (r *JoinRequest) Len() int {
	return stringLen(r.Username)
}

func (r *JoinRequest) OpCode() uint8 {
	return OP_JOIN
}

/////////////////////////////////////////////////////////
// GroupJoin : [group_id, username]
/////////////////////////////////////////////////////////
type GroupJoinRequest struct {
	GroupID  string
	Username string
}

func (r *GroupJoinRequest) Marshal(buf []byte) error {
	if len(buf) < r.Len() {
		return ErrBufferTooShort
	}
	off := putString(buf, 0, r.GroupID)
	putString(buf, off, r.Username)
	return nil
}

func (r *GroupJoinRequest) Unmarshal(raw []byte) error {
	var err error
	cur := newCursor(raw)
	if r.GroupID, err = cur.str(); err != nil {
		return err
	}
	r.Username, err = cur.str()
	return err
}

func (r *GroupJoinRequest) Len() int {
	return stringLen(r.GroupID) + stringLen(r.Username)
}

func (r *GroupJoinRequest) OpCode() uint8 {
	return OP_GROUP_JOIN
}

/////////////////////////////////////////////////////////
// Post : [subject, body]
/////////////////////////////////////////////////////////
type PostRequest struct {
	Subject string
	Body    string
}

func (r *PostRequest) Marshal(buf []byte) error {
	if len(buf) < r.Len() {
		return ErrBufferTooShort
	}
	off := putString(buf, 0, r.Subject)
	putString(buf, off, r.Body)
	return nil
}

func (r *PostRequest) Unmarshal(raw []byte) error {
	var err error
	cur := newCursor(raw)
	if r.Subject, err = cur.str(); err != nil {
		return err
	}
	r.Body, err = cur.str()
	return err
}

func (r *PostRequest) Len() int {
	return stringLen(r.Subject) + stringLen(r.Body)
}

func (r *PostRequest) OpCode() uint8 {
	return OP_POST
}

/////////////////////////////////////////////////////////
// GroupPost : [group_id, subject, body]
/////////////////////////////////////////////////////////
type GroupPostRequest struct {
	GroupID string
	Subject string
	Body    string
}

func (r *GroupPostRequest) Marshal(buf []byte) error {
	if len(buf) < r.Len() {
		return ErrBufferTooShort
	}
	off := putString(buf, 0, r.GroupID)
	off = putString(buf, off, r.Subject)
	putString(buf, off, r.Body)
	return nil
}

func (r *GroupPostRequest) Unmarshal(raw []byte) error {
	var err error
	cur := newCursor(raw)
	if r.GroupID, err = cur.str(); err != nil {
		return err
	}
	if r.Subject, err = cur.str(); err != nil {
		return err
	}
	r.Body, err = cur.str()
	return err
}

func (r *GroupPostRequest) Len() int {
	return stringLen(r.GroupID) + stringLen(r.Subject) + stringLen(r.Body)
}

func (r *GroupPostRequest) OpCode() uint8 {
	return OP_GROUP_POST
}

/////////////////////////////////////////////////////////
// Users / Leave / Exit / Groups : empty payloads
/////////////////////////////////////////////////////////
type UsersRequest struct{}

func (r *UsersRequest) Marshal(buf []byte) error   { return nil }
func (r *UsersRequest) Unmarshal(raw []byte) error { return nil }
func (r *UsersRequest) Len() int                   { return 0 }
func (r *UsersRequest) OpCode() uint8              { return OP_USERS }

type LeaveRequest struct{}

func (r *LeaveRequest) Marshal(buf []byte) error   { return nil }
func (r *LeaveRequest) Unmarshal(raw []byte) error { return nil }
func (r *LeaveRequest) Len() int                   { return 0 }
func (r *LeaveRequest) OpCode() uint8              { return OP_LEAVE }

type ExitRequest struct{}

func (r *ExitRequest) Marshal(buf []byte) error   { return nil }
func (r *ExitRequest) Unmarshal(raw []byte) error { return nil }
func (r *ExitRequest) Len() int                   { return 0 }
func (r *ExitRequest) OpCode() uint8              { return OP_EXIT }

type GroupsRequest struct{}

func (r *GroupsRequest) Marshal(buf []byte) error   { return nil }
func (r *GroupsRequest) Unmarshal(raw []byte) error { return nil }
func (r *GroupsRequest) Len() int                   { return 0 }
func (r *GroupsRequest) OpCode() uint8              { return OP_GROUPS }

/////////////////////////////////////////////////////////
// GroupUsers : [group_id]
/////////////////////////////////////////////////////////
type GroupUsersRequest struct {
	GroupID string
}

func (r *GroupUsersRequest) Marshal(buf []byte) error {
	if len(buf) < r.Len() {
		return ErrBufferTooShort
	}
	putString(buf, 0, r.GroupID)
	return nil
}

func (r *GroupUsersRequest) Unmarshal(raw []byte) error {
	var err error
	cur := newCursor(raw)
	r.GroupID, err = cur.str()
	return err
}

func (r *GroupUsersRequest) Len() int {
	return stringLen(r.GroupID)
}

func (r *GroupUsersRequest) OpCode() uint8 {
	return OP_GROUP_USERS
}

/////////////////////////////////////////////////////////
// GroupLeave : [group_id]
/////////////////////////////////////////////////////////
type GroupLeaveRequest struct {
	GroupID string
}

func (r *GroupLeaveRequest) Marshal(buf []byte) error {
	if len(buf) < r.Len() {
		return ErrBufferTooShort
	}
	putString(buf, 0, r.GroupID)
	return nil
}

func (r *GroupLeaveRequest) Unmarshal(raw []byte) error {
	var err error
	cur := newCursor(raw)
	r.GroupID, err = cur.str()
	return err
}

func (r *GroupLeaveRequest) Len() int {
	return stringLen(r.GroupID)
}

func (r *GroupLeaveRequest) OpCode() uint8 {
	return OP_GROUP_LEAVE
}

/////////////////////////////////////////////////////////
// Message : [post_id]
/////////////////////////////////////////////////////////
type MessageRequest struct {
	PostID string
}

func (r *MessageRequest) Marshal(buf []byte) error {
	if len(buf) < r.Len() {
		return ErrBufferTooShort
	}
	putString(buf, 0, r.PostID)
	return nil
}

func (r *MessageRequest) Unmarshal(raw []byte) error {
	var err error
	cur := newCursor(raw)
	r.PostID, err = cur.str()
	return err
}

func (r *MessageRequest) Len() int {
	return stringLen(r.PostID)
}

func (r *MessageRequest) OpCode() uint8 {
	return OP_MESSAGE
}

/////////////////////////////////////////////////////////
// GroupMessage : [group_id, post_id]
/////////////////////////////////////////////////////////
type GroupMessageRequest struct {
	GroupID string
	PostID  string
}

func (r *GroupMessageRequest) Marshal(buf []byte) error {
	if len(buf) < r.Len() {
		return ErrBufferTooShort
	}
	off := putString(buf, 0, r.GroupID)
	putString(buf, off, r.PostID)
	return nil
}

func (r *GroupMessageRequest) Unmarshal(raw []byte) error {
	var err error
	cur := newCursor(raw)
	if r.GroupID, err = cur.str(); err != nil {
		return err
	}
	r.PostID, err = cur.str()
	return err
}

func (r *GroupMessageRequest) Len() int {
	return stringLen(r.GroupID) + stringLen(r.PostID)
}

func (r *GroupMessageRequest) OpCode() uint8 {
	return OP_GROUP_MESSAGE
}
