package server

import "errors"

// Wire-visible errors keep the message texts of the legacy protocol.
var (
	ErrAlreadyMember = errors.New("Already joined.")
	ErrNotMember     = errors.New("Not a member of the group.")
	ErrGroupNotFound = errors.New("Group ID not found.")
	ErrPostNotFound  = errors.New("Message ID not found.")
)

var (
	ErrSessionClosed = errors.New("Session closed.")
	ErrQueueOverflow = errors.New("Outbound queue overflow.")
)
