package models

// Role is the closed set of user roles.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// AutoReplyDisabled 小于 0 表示关闭自动回复
const AutoReplyDisabled = -1

// MaxAutoCommentDelay is the largest accepted delay, one year in seconds.
// Binding tags on request structs repeat this value.
const MaxAutoCommentDelay = 365 * 24 * 60 * 60

type User struct {
	ID               uint   `gorm:"primaryKey" json:"id"`
	Email            string `gorm:"uniqueIndex;not null" json:"email"`
	Password         string `gorm:"not null" json:"-"`                           // Hash
	Role             Role   `gorm:"size:20;default:'user';not null" json:"role"` // user, admin
	AutoCommentDelay *int   `gorm:"default:-1" json:"auto_comment_delay"`        // 秒；nil 或负数表示关闭
	// No timestamps: users are never deleted and the API does not expose them
}

// AutoReplyDelay returns the configured delay in seconds and whether auto-reply is enabled.
func (u *User) AutoReplyDelay() (int, bool) {
	if u == nil || u.AutoCommentDelay == nil || *u.AutoCommentDelay < 0 {
		return 0, false
	}
	return *u.AutoCommentDelay, true
}
