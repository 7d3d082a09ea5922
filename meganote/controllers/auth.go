// meganote/controllers/auth.go
package controllers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"meganote/meganote/services/security"
	"meganote/meganote/sources/psql/dao"
	"meganote/meganote/sources/psql/models"
	"meganote/meganote/utils/apperrors"
	"meganote/meganote/utils/logging"
	"meganote/meganote/utils/metrics"
)

const maxUsernameBytes = 255

// UserStore is the credential store.
type UserStore interface {
	CreateUser(ctx context.Context, username, passwordDigest string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id int) (*models.User, error)
}

type UserRef struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

type Session struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AuthController registers users and exchanges credentials for session tokens.
type AuthController struct {
	users  UserStore
	hasher security.PasswordHasher
	tokens security.TokenIssuer

	// digest verified against when the username is unknown
	dummyDigest string
}

func NewAuthController(users UserStore, hasher security.PasswordHasher, tokens security.TokenIssuer) *AuthController {
	dummy, _ := hasher.Hash("meganote-timing-equalizer")
	return &AuthController{
		users:       users,
		hasher:      hasher,
		tokens:      tokens,
		dummyDigest: dummy,
	}
}

func validateCredentials(username, password string) error {
	switch {
	case username == "" || password == "":
		return fmt.Errorf("%w: username and password are required", apperrors.ErrInvalidInput)
	case len(username) > maxUsernameBytes:
		return fmt.Errorf("%w: username is too long", apperrors.ErrInvalidInput)
	case len(password) > security.MaxPasswordBytes:
		return fmt.Errorf("%w: password is too long", apperrors.ErrInvalidInput)
	}
	return nil
}

func (c *AuthController) Register(ctx context.Context, username, password string) (*UserRef, error) {
	defer logging.LogDuration(ctx, "AuthController.Register")()

	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}
	digest, err := c.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user, err := c.users.CreateUser(ctx, username, digest)
	if errors.Is(err, dao.ErrDuplicateKey) {
		return nil, apperrors.ErrDuplicateUsername
	}
	if err != nil {
		return nil, err
	}
	metrics.UsersRegistered.Inc()
	return &UserRef{ID: user.ID, Username: user.Username}, nil
}

// Login never tells an unknown username apart from a wrong password: both
// run one digest comparison and return ErrInvalidCredentials.
func (c *AuthController) Login(ctx context.Context, username, password string) (*Session, error) {
	defer logging.LogDuration(ctx, "AuthController.Login")()

	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", apperrors.ErrInvalidInput)
	}
	user, err := c.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		c.hasher.Verify(password, c.dummyDigest)
		metrics.Logins.WithLabelValues("rejected").Inc()
		return nil, apperrors.ErrInvalidCredentials
	}
	if !c.hasher.Verify(password, user.PasswordDigest) {
		metrics.Logins.WithLabelValues("rejected").Inc()
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresAt, err := c.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	metrics.Logins.WithLabelValues("ok").Inc()
	return &Session{Token: token, Username: user.Username, ExpiresAt: expiresAt}, nil
}
