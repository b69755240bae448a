package local

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/khata-app/khata/internal/gateway"
)

func openTestAuth(t *testing.T) *Auth {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "khata.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewAuth(db)
}

func TestSignUpThenSignIn(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	a := openTestAuth(t)

	s, err := a.SignUp(ctx, "Asha@Example.com", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, s.UserID)
	require.Equal(t, "asha@example.com", s.Email)
	require.Equal(t, s, a.Current())

	require.NoError(t, a.SignOut(ctx))
	require.Nil(t, a.Current())

	again, err := a.SignIn(ctx, "asha@example.com", "secret1")
	require.NoError(t, err)
	require.Equal(t, s.UserID, again.UserID)
	require.False(t, again.CreatedAt.IsZero())
}

func TestSignUpRejections(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	a := openTestAuth(t)

	_, err := a.SignUp(ctx, "not-an-email", "secret1")
	require.ErrorIs(t, err, gateway.ErrInvalidEmail)

	_, err = a.SignUp(ctx, "a@b.com", "short")
	require.ErrorIs(t, err, gateway.ErrWeakPassword)

	_, err = a.SignUp(ctx, "a@b.com", "secret1")
	require.NoError(t, err)
	_, err = a.SignUp(ctx, "A@B.COM", "secret2")
	require.ErrorIs(t, err, gateway.ErrEmailInUse)
}

func TestSignInRejections(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	a := openTestAuth(t)

	_, err := a.SignIn(ctx, "ghost@b.com", "whatever")
	require.ErrorIs(t, err, gateway.ErrUserNotFound)

	_, err = a.SignUp(ctx, "a@b.com", "secret1")
	require.NoError(t, err)
	_, err = a.SignIn(ctx, "a@b.com", "wrongpass")
	require.ErrorIs(t, err, gateway.ErrWrongPassword)
}

func TestOnSessionChangeFiresOnEveryTransition(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	a := openTestAuth(t)

	var seen []*gateway.Session
	a.OnSessionChange(func(s *gateway.Session) { seen = append(seen, s) })
	require.Len(t, seen, 1, "fires immediately with current state")
	require.Nil(t, seen[0])

	_, err := a.SignUp(ctx, "a@b.com", "secret1")
	require.NoError(t, err)
	require.Len(t, seen, 2)
	require.NotNil(t, seen[1])

	require.NoError(t, a.SignOut(ctx))
	require.Len(t, seen, 3)
	require.Nil(t, seen[2])
}
