package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole(t *testing.T) {
	assert.True(t, RoleUser.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("root").Valid())
	assert.True(t, RoleAdmin.IsAdmin())
	assert.False(t, RoleUser.IsAdmin())
}

func TestAutoReplyDelay(t *testing.T) {
	intPtr := func(v int) *int { return &v }

	cases := []struct {
		name    string
		user    *User
		delay   int
		enabled bool
	}{
		{"nil user", nil, 0, false},
		{"unset", &User{}, 0, false},
		{"negative", &User{AutoCommentDelay: intPtr(-1)}, 0, false},
		{"zero", &User{AutoCommentDelay: intPtr(0)}, 0, true},
		{"positive", &User{AutoCommentDelay: intPtr(30)}, 30, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, ok := tc.user.AutoReplyDelay()
			assert.Equal(t, tc.enabled, ok)
			assert.Equal(t, tc.delay, d)
		})
	}
}
