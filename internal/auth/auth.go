// Package auth implements account registration, login and bearer-token
// authentication.
package auth

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"wefund/internal/config"
	"wefund/pkg/domain"
	"wefund/pkg/logger"
	"wefund/pkg/serrors"
	"wefund/pkg/storage"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Claims is the JWT payload carried by access tokens. Subject holds the user
// ID; Role is duplicated into its own claim so clients can route without a
// profile fetch.
type Claims struct {
	jwt.RegisteredClaims

	Role string `json:"role"`
}

// EmailVerifier starts the email verification flow for a fresh account.
type EmailVerifier interface {
	SendEmailVerification(ctx context.Context, user domain.User) error
}

// Options configure token signing and validation.
type Options struct {
	// PrivateKeyPEM signs issued tokens.
	PrivateKeyPEM string
	// PublicKeyPEM verifies presented tokens.
	PublicKeyPEM string
	// TokenTTL is the access token lifetime.
	TokenTTL time.Duration
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		PrivateKeyPEM: cfg.JWT.PrivateKey,
		PublicKeyPEM:  cfg.JWT.PublicKey,
		TokenTTL:      cfg.JWT.TTL,
	}
}

// auth is the concrete implementation of the Auth interface.
type auth struct {
	storage    storage.Storage
	verifier   EmailVerifier
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	tokenTTL   time.Duration
}

// Register creates a member account, signs an access token for it and kicks
// off email verification. The verification email is best effort: a delivery
// problem does not fail the registration.
func (a *auth) Register(ctx context.Context, params RegisterParams) (*domain.User, string, error) {
	if params.Name == "" || params.Email == "" || params.Password == "" {
		return nil, "", serrors.With(serrors.ErrBadRequest, "name, email and password are required")
	}
	if params.Age < domain.MinRegistrationAge {
		return nil, "", serrors.With(serrors.ErrBadRequest,
			"you must be at least %d years old to register", domain.MinRegistrationAge)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("could not hash password: %w", err)
	}

	user, err := a.storage.StoreUser(ctx, domain.User{
		Name:              params.Name,
		Email:             params.Email,
		PasswordHash:      string(hash),
		Age:               params.Age,
		PhoneNumber:       params.PhoneNumber,
		Role:              domain.RoleMember,
		KYCStatus:         domain.KYCStatusNotSubmitted,
		VerificationLevel: domain.VerificationLevelUnverified,
	})
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, "", serrors.With(serrors.ErrConflict, "email already registered")
		}

		return nil, "", fmt.Errorf("could not store user: %w", err)
	}

	if a.verifier != nil {
		if err := a.verifier.SendEmailVerification(ctx, *user); err != nil {
			logger.Warn(ctx, "could not start email verification", zap.Error(err))
		}
	}

	token, err := a.sign(*user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Login verifies credentials. Unknown emails and wrong passwords yield the
// same unauthorized error so the response does not leak which one it was.
func (a *auth) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := a.storage.UserByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("could not fetch user: %w", err)
	}
	if user == nil {
		return nil, "", serrors.With(serrors.ErrUnauthorized, "invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", serrors.With(serrors.ErrUnauthorized, "invalid email or password")
	}
	if user.Blocked {
		return nil, "", serrors.With(serrors.ErrForbidden, "account is blocked")
	}

	token, err := a.sign(*user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Authenticate parses and verifies the token, then checks the account still
// exists and is not blocked.
func (a *auth) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return a.publicKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, serrors.With(serrors.ErrUnauthorized, "invalid token")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, serrors.With(serrors.ErrUnauthorized, "invalid token subject")
	}

	user, err := a.storage.UserByID(ctx, domain.UserID(userID))
	if err != nil {
		return nil, fmt.Errorf("could not fetch user: %w", err)
	}
	if user == nil {
		return nil, serrors.With(serrors.ErrUnauthorized, "unknown user")
	}
	if user.Blocked {
		return nil, serrors.With(serrors.ErrForbidden, "account is blocked")
	}

	return user, nil
}

func (a *auth) UpdateProfile(ctx context.Context,
	userID domain.UserID, params UpdateProfileParams,
) (*domain.User, error) {
	if params.Name != nil && *params.Name == "" {
		return nil, serrors.With(serrors.ErrBadRequest, "name cannot be empty")
	}
	if params.Age != nil && *params.Age < domain.MinRegistrationAge {
		return nil, serrors.With(serrors.ErrBadRequest,
			"age must be at least %d", domain.MinRegistrationAge)
	}

	user, err := a.storage.UpdateUser(ctx, userID, storage.UserUpdates{
		Name:        params.Name,
		Age:         params.Age,
		PhoneNumber: params.PhoneNumber,
	})
	if err != nil {
		return nil, fmt.Errorf("could not update user: %w", err)
	}
	if user == nil {
		return nil, serrors.KindOnly(serrors.ErrNotFound)
	}

	return user, nil
}

func (a *auth) sign(user domain.User) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.UUID(user.ID).String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
		Role: string(user.Role),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(a.privateKey)
	if err != nil {
		return "", fmt.Errorf("could not sign token: %w", err)
	}

	return signed, nil
}

// New creates a new Auth backed by the provided storage. verifier may be nil
// when email verification is disabled.
func New(storage storage.Storage, verifier EmailVerifier, options Options) (Auth, error) {
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(options.PrivateKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("could not parse RSA private key: %w", err)
	}
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM([]byte(options.PublicKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("could not parse RSA public key: %w", err)
	}

	return &auth{
		storage:    storage,
		verifier:   verifier,
		privateKey: privateKey,
		publicKey:  publicKey,
		tokenTTL:   options.TokenTTL,
	}, nil
}
