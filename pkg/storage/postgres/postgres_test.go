package postgres_test

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"wefund/pkg/domain"
	"wefund/pkg/storage/postgres"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	testUser     = "postgres"
	testPassword = "postgres"
	testDB       = "testdb"
)

type postgresContainer struct {
	Container testcontainers.Container
	Host      string
	Port      int
}

func startPostgresContainer(ctx context.Context) (*postgresContainer, error) {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:17",
		ExposedPorts: []string{"5432"},
		Env: map[string]string{
			"POSTGRES_USER":     testUser,
			"POSTGRES_PASSWORD": testPassword,
			"POSTGRES_DB":       testDB,
		},
		WaitingFor: wait.ForListeningPort("5432"),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("could not start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get container host: %w", err)
	}

	mappedPort, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return nil, fmt.Errorf("could not get mapped port: %w", err)
	}

	return &postgresContainer{
		Container: container,
		Host:      host,
		Port:      mappedPort.Int(),
	}, nil
}

func runMigrations(db *sql.DB, migrationsDir string) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("could not set dialect: %w", err)
	}

	if err := goose.Up(db, migrationsDir); err != nil {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupTestDB(t *testing.T) (*postgres.PgSQL, func()) {
	t.Helper()
	ctx := context.Background()

	// start container
	pgContainer, err := startPostgresContainer(ctx)
	require.NoError(t, err)

	// create postgres instance
	pgSQL, err := postgres.New(ctx, postgres.Options{
		Username:           testUser,
		Password:           testPassword,
		Host:               pgContainer.Host,
		Port:               pgContainer.Port,
		Database:           testDB,
		SslMode:            "disable",
		ConnMaxLifetime:    time.Minute,
		ConnMaxIdleTime:    time.Minute,
		MaxOpenConnections: 5,
		MaxIdleConnections: 5,
	})
	require.NoError(t, err)

	// run migrations
	migrationsDir := filepath.Join("..", "..", "..", "migrations")
	err = runMigrations(pgSQL.DB.(*sql.DB), migrationsDir)
	require.NoError(t, err)

	return pgSQL, func() {
		_ = pgSQL.Close()
		_ = pgContainer.Container.Terminate(ctx)
	}
}

// storeTestUser inserts a user with the given email and wallet balance.
func storeTestUser(t *testing.T, pg *postgres.PgSQL, email string, balance int64) *domain.User {
	t.Helper()

	user, err := pg.StoreUser(context.Background(), domain.User{
		Name:              "Test User",
		Email:             email,
		PasswordHash:      "x",
		Age:               25,
		Role:              domain.RoleMember,
		WalletBalance:     balance,
		KYCStatus:         domain.KYCStatusNotSubmitted,
		VerificationLevel: domain.VerificationLevelUnverified,
	})
	require.NoError(t, err)
	require.NotNil(t, user)

	return user
}

// storeTestProject inserts an open, verified project with the given goal.
func storeTestProject(t *testing.T, pg *postgres.PgSQL, owner domain.UserID, goal int64) *domain.Project {
	t.Helper()

	project, err := pg.StoreProject(context.Background(), domain.Project{
		OwnerID:       owner,
		Title:         "Solar Farm",
		Description:   "Community solar installation",
		ROI:           12.5,
		Duration:      "12 months",
		Category:      "energy",
		FundingGoal:   goal,
		MinInvestment: 100,
		RiskLevel:     domain.RiskLevelMedium,
		Status:        domain.ProjectStatusOpen,
		Verified:      true,
	})
	require.NoError(t, err)
	require.NotNil(t, project)

	return project
}
