package main

import (
	"bytes"
	"context"
	"testing"

	"poshts/internal/db"
	"poshts/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, name string) *db.Store {
	g, err := db.Open("sqlite", "file:"+name+"?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(g))
	t.Cleanup(func() { _ = db.Close(g) })
	return db.NewStore(g)
}

func TestPromoteAdmin(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, "ctl_promote")
	user := &models.User{Email: "ops@example.com", Password: "h", Role: models.RoleUser}
	require.NoError(t, store.CreateUser(ctx, user))

	var out bytes.Buffer
	require.NoError(t, promoteAdmin(ctx, store, " OPS@example.com", &out))
	assert.Contains(t, out.String(), "is now an admin")

	got, err := store.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, got.Role)

	out.Reset()
	require.NoError(t, promoteAdmin(ctx, store, "ops@example.com", &out))
	assert.Contains(t, out.String(), "already an admin")

	assert.Error(t, promoteAdmin(ctx, store, "nobody@example.com", &out))
}

func TestSetAutoReply(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, "ctl_autoreply")
	require.NoError(t, store.CreateUser(ctx, &models.User{Email: "w@example.com", Password: "h", Role: models.RoleUser}))

	var out bytes.Buffer
	require.NoError(t, setAutoReply(ctx, store, "w@example.com", 45, &out))
	assert.Contains(t, out.String(), "after 45s")

	out.Reset()
	require.NoError(t, setAutoReply(ctx, store, "w@example.com", -1, &out))
	assert.Contains(t, out.String(), "disabled")
}
