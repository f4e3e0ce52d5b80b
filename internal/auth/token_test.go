package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	raw, err := issuer.Issue(Principal{UserID: "u1", Username: "alice"})
	require.NoError(t, err)

	p, err := issuer.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "u1", p.UserID)
	assert.Equal(t, "alice", p.Username)
	assert.True(t, p.Authenticated())
}

func TestTokenIssuer_RejectsForeignSecretAndExpiry(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	raw, err := issuer.Issue(Principal{UserID: "u1", Username: "alice"})
	require.NoError(t, err)

	_, err = NewTokenIssuer("other", time.Hour).Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	later := NewTokenIssuer("secret", time.Hour)
	later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = later.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Parse("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPrincipalContext(t *testing.T) {
	assert.False(t, FromContext(context.Background()).Authenticated())

	ctx := WithPrincipal(context.Background(), Principal{UserID: "u1"})
	assert.Equal(t, "u1", FromContext(ctx).UserID)
}
