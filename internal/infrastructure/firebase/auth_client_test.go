package firebase

import (
	"context"
	"fmt"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helperhub/internal/domain/entity"
)

type stubVerifier map[string]*auth.Token

func (s stubVerifier) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	tok, ok := s[idToken]
	if !ok {
		return nil, fmt.Errorf("invalid token")
	}
	return tok, nil
}

func TestVerifyTokenMapsRoleClaim(t *testing.T) {
	client := &AuthClient{client: stubVerifier{
		"helper": {UID: "h1", Claims: map[string]interface{}{RoleClaim: "helper"}},
		"plain":  {UID: "u1", Claims: map[string]interface{}{}},
		"bogus":  {UID: "u2", Claims: map[string]interface{}{RoleClaim: "root"}},
	}}
	ctx := context.Background()

	account, err := client.VerifyToken(ctx, "helper")
	require.NoError(t, err)
	assert.Equal(t, entity.Account{ID: "h1", Role: entity.RoleHelper}, account)

	account, err = client.VerifyToken(ctx, "plain")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, account.Role)

	account, err = client.VerifyToken(ctx, "bogus")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, account.Role)

	_, err = client.VerifyToken(ctx, "missing")
	assert.Error(t, err)
}
