package firebase

import (
	"context"
	"fmt"

	fbapp "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"helperhub/internal/domain/entity"
)

// RoleClaim is the custom claim carrying the account role on Firebase ID tokens.
const RoleClaim = "role"

// idTokenVerifier is the slice of *auth.Client the verifier needs.
type idTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// AuthClient accepts Firebase ID tokens as an alternative to locally signed ones.
type AuthClient struct {
	client idTokenVerifier
}

func NewAuthClient(ctx context.Context, projectID, credentialsPath string) (*AuthClient, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	app, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth: %w", err)
	}

	return &AuthClient{client: client}, nil
}

// VerifyToken maps a verified ID token to an account. Tokens without a role claim are plain users.
func (f *AuthClient) VerifyToken(ctx context.Context, token string) (entity.Account, error) {
	result, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return entity.Account{}, err
	}

	role, _ := result.Claims[RoleClaim].(string)
	switch role {
	case entity.RoleHelper, entity.RoleAdmin:
	default:
		role = entity.RoleUser
	}

	return entity.Account{ID: result.UID, Role: role}, nil
}
