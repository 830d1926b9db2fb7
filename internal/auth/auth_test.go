package auth_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"wefund/internal/auth"
	"wefund/internal/storagetest"
	"wefund/pkg/domain"
	"wefund/pkg/serrors"
	"wefund/pkg/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testKeyPair(t *testing.T) (string, string) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	privPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	pubBytes, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: pubBytes,
	})

	return string(privPEM), string(pubPEM)
}

func newTestAuth(t *testing.T, fake *storagetest.FakeStorage) auth.Auth {
	t.Helper()

	priv, pub := testKeyPair(t)
	a, err := auth.New(fake, nil, auth.Options{
		PrivateKeyPEM: priv,
		PublicKeyPEM:  pub,
		TokenTTL:      time.Hour,
	})
	require.NoError(t, err)

	return a
}

func TestAuth_RegisterAndAuthenticate(t *testing.T) {
	userID := domain.UserID(uuid.New())
	users := map[domain.UserID]*domain.User{}
	fake := &storagetest.FakeStorage{
		StoreUserFunc: func(_ context.Context, user domain.User) (*domain.User, error) {
			user.ID = userID
			users[userID] = &user

			return &user, nil
		},
		UserByIDFunc: func(_ context.Context, id domain.UserID) (*domain.User, error) {
			return users[id], nil
		},
	}
	a := newTestAuth(t, fake)

	user, token, err := a.Register(context.Background(), auth.RegisterParams{
		Name:     "Jane Doe",
		Email:    "jane@example.com",
		Password: "s3cret-pass",
		Age:      25,
	})
	require.NoError(t, err)
	require.Equal(t, domain.RoleMember, user.Role)
	require.Equal(t, domain.VerificationLevelUnverified, user.VerificationLevel)
	require.NotEqual(t, "s3cret-pass", user.PasswordHash)
	require.NotEmpty(t, token)

	authed, err := a.Authenticate(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, user.ID, authed.ID)
}

func TestAuth_Register_Underage(t *testing.T) {
	a := newTestAuth(t, &storagetest.FakeStorage{})

	_, _, err := a.Register(context.Background(), auth.RegisterParams{
		Name:     "Kid",
		Email:    "kid@example.com",
		Password: "pass",
		Age:      domain.MinRegistrationAge - 1,
	})
	require.ErrorIs(t, err, serrors.ErrBadRequest)
}

func TestAuth_Register_DuplicateEmail(t *testing.T) {
	fake := &storagetest.FakeStorage{
		StoreUserFunc: func(context.Context, domain.User) (*domain.User, error) {
			return nil, storage.ErrDuplicate
		},
	}
	a := newTestAuth(t, fake)

	_, _, err := a.Register(context.Background(), auth.RegisterParams{
		Name:     "Jane Doe",
		Email:    "jane@example.com",
		Password: "s3cret-pass",
		Age:      25,
	})
	require.ErrorIs(t, err, serrors.ErrConflict)
}

func TestAuth_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("right-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &domain.User{
		ID:           domain.UserID(uuid.New()),
		Email:        "jane@example.com",
		PasswordHash: string(hash),
	}
	fake := &storagetest.FakeStorage{
		UserByEmailFunc: func(_ context.Context, email string) (*domain.User, error) {
			if email == stored.Email {
				return stored, nil
			}

			return nil, nil
		},
	}
	a := newTestAuth(t, fake)

	t.Run("success", func(t *testing.T) {
		user, token, err := a.Login(context.Background(), "jane@example.com", "right-pass")
		require.NoError(t, err)
		require.Equal(t, stored.ID, user.ID)
		require.NotEmpty(t, token)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := a.Login(context.Background(), "jane@example.com", "wrong-pass")
		require.ErrorIs(t, err, serrors.ErrUnauthorized)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := a.Login(context.Background(), "nobody@example.com", "right-pass")
		require.ErrorIs(t, err, serrors.ErrUnauthorized)
	})

	t.Run("blocked account", func(t *testing.T) {
		stored.Blocked = true
		defer func() { stored.Blocked = false }()

		_, _, err := a.Login(context.Background(), "jane@example.com", "right-pass")
		require.ErrorIs(t, err, serrors.ErrForbidden)
	})
}

func TestAuth_UpdateProfile(t *testing.T) {
	userID := domain.UserID(uuid.New())
	stored := &domain.User{ID: userID, Name: "Jane Doe", Age: 25}
	fake := &storagetest.FakeStorage{
		UpdateUserFunc: func(_ context.Context, id domain.UserID, updates storage.UserUpdates) (*domain.User, error) {
			if id != userID {
				return nil, nil
			}
			if updates.Name != nil {
				stored.Name = *updates.Name
			}
			if updates.Age != nil {
				stored.Age = *updates.Age
			}
			if updates.PhoneNumber != nil {
				stored.PhoneNumber = *updates.PhoneNumber
			}

			return stored, nil
		},
	}
	a := newTestAuth(t, fake)

	t.Run("success", func(t *testing.T) {
		name := "Jane Smith"
		phone := "678111222"
		user, err := a.UpdateProfile(context.Background(), userID, auth.UpdateProfileParams{
			Name:        &name,
			PhoneNumber: &phone,
		})
		require.NoError(t, err)
		require.Equal(t, "Jane Smith", user.Name)
		require.Equal(t, "678111222", user.PhoneNumber)
		require.Equal(t, 25, user.Age)
	})

	t.Run("empty name", func(t *testing.T) {
		name := ""
		_, err := a.UpdateProfile(context.Background(), userID, auth.UpdateProfileParams{Name: &name})
		require.ErrorIs(t, err, serrors.ErrBadRequest)
	})

	t.Run("underage", func(t *testing.T) {
		age := domain.MinRegistrationAge - 1
		_, err := a.UpdateProfile(context.Background(), userID, auth.UpdateProfileParams{Age: &age})
		require.ErrorIs(t, err, serrors.ErrBadRequest)
	})

	t.Run("unknown user", func(t *testing.T) {
		name := "Someone"
		_, err := a.UpdateProfile(context.Background(), domain.UserID(uuid.New()),
			auth.UpdateProfileParams{Name: &name})
		require.ErrorIs(t, err, serrors.ErrNotFound)
	})
}

func TestAuth_Authenticate_InvalidToken(t *testing.T) {
	a := newTestAuth(t, &storagetest.FakeStorage{})

	_, err := a.Authenticate(context.Background(), "not-a-token")
	require.ErrorIs(t, err, serrors.ErrUnauthorized)
}

func TestAuth_Authenticate_BlockedUser(t *testing.T) {
	userID := domain.UserID(uuid.New())
	blocked := false
	fake := &storagetest.FakeStorage{
		StoreUserFunc: func(_ context.Context, user domain.User) (*domain.User, error) {
			user.ID = userID

			return &user, nil
		},
		UserByIDFunc: func(context.Context, domain.UserID) (*domain.User, error) {
			return &domain.User{ID: userID, Blocked: blocked}, nil
		},
	}
	a := newTestAuth(t, fake)

	_, token, err := a.Register(context.Background(), auth.RegisterParams{
		Name:     "Jane Doe",
		Email:    "jane@example.com",
		Password: "s3cret-pass",
		Age:      25,
	})
	require.NoError(t, err)

	blocked = true
	_, err = a.Authenticate(context.Background(), token)
	require.ErrorIs(t, err, serrors.ErrForbidden)
}
