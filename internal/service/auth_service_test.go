package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func register(t *testing.T, env *testEnv, username string) {
	t.Helper()
	_, err := env.auth.Register(context.Background(), RegisterInput{
		Username: username, Email: username + "@example.com", Password1: "s3cretpass", Password2: "s3cretpass",
	})
	require.NoError(t, err)
}

func TestRegisterAndLogin(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	register(t, env, "alice")

	token, user, err := env.auth.Login(ctx, "alice", "s3cretpass")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "s3cretpass", user.Password)

	_, _, err = env.auth.Login(ctx, "alice", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = env.auth.Login(ctx, "nobody", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegister_Validation(t *testing.T) {
	env := newEnv(t)
	register(t, env, "alice")

	var verr *ValidationError
	_, err := env.auth.Register(context.Background(), RegisterInput{
		Username: "alice", Email: "a@example.com", Password1: "s3cretpass", Password2: "s3cretpass",
	})
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "username")

	_, err = env.auth.Register(context.Background(), RegisterInput{
		Username: "bob", Email: "b@example.com", Password1: "s3cretpass", Password2: "different1",
	})
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "password2")
}

func TestUpdateProfile(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	register(t, env, "alice")
	register(t, env, "bob")
	_, user, err := env.auth.Login(ctx, "alice", "s3cretpass")
	require.NoError(t, err)

	_, err = env.users.EditForm(ctx, "someone-else", "alice")
	assert.ErrorIs(t, err, ErrForbidden)

	var verr *ValidationError
	_, err = env.users.UpdateProfile(ctx, user.ID, "alice", ProfileInput{Username: "bob", Email: "a@example.com"}, nil)
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "username")

	updated, err := env.users.UpdateProfile(ctx, user.ID, "alice", ProfileInput{
		Username: "alice", Email: "a@example.com", FirstName: "Alice", Biography: "hi",
	}, bytes.NewReader(pngImage(t, 40, 40)))
	require.NoError(t, err)
	firstAvatar := user.ID + "_alice_profileimage.jpg"
	assert.Equal(t, firstAvatar, updated.Image)
	assert.True(t, env.store.Has(firstAvatar))

	updated, err = env.users.UpdateProfile(ctx, user.ID, "alice", ProfileInput{
		Username: "alice2", Email: "a@example.com", FirstName: "Alice",
	}, bytes.NewReader(pngImage(t, 40, 40)))
	require.NoError(t, err)
	assert.Equal(t, user.ID+"_alice2_profileimage.jpg", updated.Image)
	env.stop()
	assert.False(t, env.store.Has(firstAvatar))
	assert.True(t, env.store.Has(updated.Image))

	form, err := env.users.EditForm(ctx, user.ID, "alice2")
	require.NoError(t, err)
	assert.Equal(t, "Alice", form.FirstName)
	assert.Equal(t, "/media/"+updated.Image, form.Image)

	view, err := env.users.Profile(ctx, "", "alice2", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, "alice2", view.User.Username)
	assert.False(t, view.IsSelf)
	assert.False(t, view.IsFollowing)
}
