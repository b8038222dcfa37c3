package model

import "time"

// NoticeKind classifies a user-facing notice.
type NoticeKind int

const (
	// NoticeInfo confirms a completed action.
	NoticeInfo NoticeKind = iota
	// NoticeAlert reports a validation or server-reported failure.
	NoticeAlert
	// NoticeConnectivity reports a transport failure.
	NoticeConnectivity
)

// Notice is a message surfaced to the user in the status bar. Notices
// never block the interface.
type Notice struct {
	Kind      NoticeKind
	Message   string
	CreatedAt time.Time
}

// IsError reports whether the notice describes a failure.
func (n Notice) IsError() bool {
	return n.Kind != NoticeInfo
}
