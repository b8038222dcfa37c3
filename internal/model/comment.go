package model

// Comment is a remark attached to a task. Comments are deleted with their
// task; the author is nulled when the user is deleted.
type Comment struct {
	ID        int64   `json:"id" db:"id"`
	TaskID    int64   `json:"task_id,omitempty" db:"task_id"`
	Text      string  `json:"comment_text" db:"comment_text"`
	UserName  *string `json:"user_name" db:"user_name"`
	IsAlert   bool    `json:"is_alert,omitempty" db:"is_alert"`
	Media     *string `json:"media_attachments,omitempty" db:"media_attachments"`
	CreatedAt string  `json:"created_at" db:"created_at"`
}

// Author returns the author's display name, or a placeholder when the
// author has been deleted.
func (c Comment) Author() string {
	if c.UserName == nil || *c.UserName == "" {
		return "Unknown"
	}
	return *c.UserName
}
