package postgres_test

import (
	"context"
	"testing"
	"time"

	"wefund/pkg/domain"
	"wefund/pkg/storage"

	"github.com/stretchr/testify/require"
)

func TestPgSQL_ApplyFunding_FundedTransition(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	owner := storeTestUser(t, pg, "owner@example.com", 0)
	project := storeTestProject(t, pg, owner.ID, 1000)

	// partial funding keeps the project open
	updated, err := pg.ApplyFunding(ctx, project.ID, 400)
	require.NoError(t, err)
	require.NotNil(t, updated)
	require.Equal(t, domain.ProjectStatusOpen, updated.Status)
	require.EqualValues(t, 400, updated.FundedAmount)
	require.Equal(t, 1, updated.InvestorCount)

	// reaching the goal flips the status in the same statement
	updated, err = pg.ApplyFunding(ctx, project.ID, 600)
	require.NoError(t, err)
	require.NotNil(t, updated)
	require.Equal(t, domain.ProjectStatusFunded, updated.Status)
	require.EqualValues(t, 1000, updated.FundedAmount)

	// funded projects no longer accept funding
	updated, err = pg.ApplyFunding(ctx, project.ID, 100)
	require.NoError(t, err)
	require.Nil(t, updated)
}

func TestPgSQL_Projects_PublicFilter(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	owner := storeTestUser(t, pg, "owner2@example.com", 0)

	open := storeTestProject(t, pg, owner.ID, 1000)

	// pending, unverified project should be hidden from the public list
	_, err := pg.StoreProject(ctx, domain.Project{
		OwnerID:     owner.ID,
		Title:       "Hidden",
		Description: "Not yet vetted",
		ROI:         5,
		Duration:    "6 months",
		Category:    "agriculture",
		FundingGoal: 500,
		RiskLevel:   domain.RiskLevelLow,
		Status:      domain.ProjectStatusPending,
	})
	require.NoError(t, err)

	page, err := pg.Projects(ctx, storage.ProjectListFilter{PublicOnly: true}, time.Time{}, 10)
	require.NoError(t, err)
	require.Len(t, page.Projects, 1)
	require.Equal(t, open.ID, page.Projects[0].ID)

	// unfiltered listing sees both
	all, err := pg.Projects(ctx, storage.ProjectListFilter{}, time.Time{}, 10)
	require.NoError(t, err)
	require.Len(t, all.Projects, 2)
}

func TestPgSQL_UpdateProject_Review(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	owner := storeTestUser(t, pg, "owner3@example.com", 0)
	admin := storeTestUser(t, pg, "admin@example.com", 0)
	project := storeTestProject(t, pg, owner.ID, 1000)

	verified := true
	updated, err := pg.UpdateProject(ctx, project.ID, storage.ProjectUpdates{
		Status:   domain.ProjectStatusOpen,
		Verified: &verified,
		Review: &domain.Review{
			Notes:          "solid plan",
			RiskRating:     2,
			ViabilityScore: 8,
			ReviewedBy:     admin.ID,
		},
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	require.NotNil(t, updated.Review)
	require.Equal(t, "solid plan", updated.Review.Notes)
	require.Equal(t, 2, updated.Review.RiskRating)
	require.Equal(t, 8, updated.Review.ViabilityScore)
	require.False(t, updated.Review.ReviewedAt.IsZero())
}

func TestPgSQL_DeleteProject_SoftDelete(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	owner := storeTestUser(t, pg, "owner4@example.com", 0)
	project := storeTestProject(t, pg, owner.ID, 1000)

	deleted, err := pg.DeleteProject(ctx, project.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted)

	// gone from reads
	fetched, err := pg.ProjectByID(ctx, project.ID)
	require.NoError(t, err)
	require.Nil(t, fetched)

	// second delete is a no-op
	deleted, err = pg.DeleteProject(ctx, project.ID)
	require.NoError(t, err)
	require.Nil(t, deleted)
}
