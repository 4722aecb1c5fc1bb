package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	secret := []byte("super-secret")

	tok, err := GenerateToken("adv@example.com", secret, time.Hour)
	require.NoError(t, err)

	subject, err := SubjectFromToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, "adv@example.com", subject)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	secret := []byte("secret")

	tok, err := GenerateToken("adv@example.com", secret, -time.Second)
	require.NoError(t, err)

	_, err = SubjectFromToken(tok, secret)
	assert.Error(t, err)
}

func TestWrongSecretIsRejected(t *testing.T) {
	tok, err := GenerateToken("adv@example.com", []byte("right"), time.Hour)
	require.NoError(t, err)

	_, err = SubjectFromToken(tok, []byte("wrong"))
	assert.Error(t, err)
}

func TestMalformedTokenIsRejected(t *testing.T) {
	_, err := SubjectFromToken("not.a.jwt", []byte("k"))
	assert.Error(t, err)
}
