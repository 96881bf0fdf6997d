package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestIssue_ClaimsVerifiable(t *testing.T) {
	tok, err := Issue("test-secret", 42, "admin", 1)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	// Parse the way the route middleware does: HS256 only, same secret.
	parsed, err := gojwt.Parse(tok, func(t *gojwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	}, gojwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	mc, ok := parsed.Claims.(gojwt.MapClaims)
	require.True(t, ok)
	require.EqualValues(t, 42, mc["sub"])
	require.Equal(t, "admin", mc["role"])

	exp, ok := mc["exp"].(float64)
	require.True(t, ok)
	require.Greater(t, int64(exp), time.Now().Unix())
}

func TestIssue_RejectedWithWrongSecret(t *testing.T) {
	tok, err := Issue("test-secret", 7, "user", 1)
	require.NoError(t, err)

	_, err = gojwt.Parse(tok, func(t *gojwt.Token) (interface{}, error) {
		return []byte("other-secret"), nil
	}, gojwt.WithValidMethods([]string{"HS256"}))
	require.Error(t, err)
}
