package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	v := New("room-secret")

	token, err := v.Sign("user-42")
	require.NoError(t, err)

	userID, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", userID)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := New("secret-a").Sign("user-42")
	require.NoError(t, err)

	_, err = New("secret-b").Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	_, err := New("s").Verify("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = New("s").Verify("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
