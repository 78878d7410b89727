package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	codec := JWTCodec{Secret: []byte("test-secret")}

	token, err := codec.Issue("user-42", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", subject)
}

func TestJWTRejectsExpired(t *testing.T) {
	codec := JWTCodec{Secret: []byte("test-secret")}

	token, err := codec.Issue("user-42", -time.Minute)
	require.NoError(t, err)

	_, err = codec.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	issuer := JWTCodec{Secret: []byte("secret-a")}
	verifier := JWTCodec{Secret: []byte("secret-b")}

	token, err := issuer.Issue("user-42", time.Hour)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestJWTRejectsGarbage(t *testing.T) {
	codec := JWTCodec{Secret: []byte("test-secret")}
	_, err := codec.Verify("definitely.not.ajwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestJWTRequiresSecret(t *testing.T) {
	var codec JWTCodec
	_, err := codec.Issue("user-42", time.Hour)
	assert.ErrorIs(t, err, ErrSecretRequired)
}

func TestBcryptHasher(t *testing.T) {
	hasher := BcryptHasher{Cost: 4}

	hash, err := hasher.Hash("battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "battery staple", hash)

	assert.NoError(t, hasher.Compare(hash, "battery staple"))
	assert.Error(t, hasher.Compare(hash, "wrong"))
}
