package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/autoreviewer/internal/domain/model"
)

func TestFilterConfigRepo_LoadSectionsEmpty(t *testing.T) {
	db := setupTestDB(t)
	seedDirectory(t, db, "acme/api")
	repo := NewFilterConfigRepo(db)

	sections, err := repo.LoadSections(context.Background(), "acme/api")
	require.NoError(t, err)
	assert.Empty(t, sections)
}

func TestFilterConfigRepo_ReplaceAndLoadPreservesOrder(t *testing.T) {
	db := setupTestDB(t)
	seedDirectory(t, db, "acme/api")
	repo := NewFilterConfigRepo(db)
	ctx := context.Background()

	want := []model.FilterSection{
		{Filter: "*", Reviewers: []string{"alice"}},
		{Filter: "branch:release", Reviewers: []string{"group:leads", "bob"}},
		{Filter: "file:^docs/.*", Reviewers: []string{"carol"}},
	}
	require.NoError(t, repo.ReplaceSections(ctx, "acme/api", want))

	got, err := repo.LoadSections(ctx, "acme/api")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFilterConfigRepo_SectionWithoutReviewers(t *testing.T) {
	db := setupTestDB(t)
	seedDirectory(t, db, "acme/api")
	repo := NewFilterConfigRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceSections(ctx, "acme/api", []model.FilterSection{
		{Filter: "branch:main"},
	}))

	got, err := repo.LoadSections(ctx, "acme/api")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Empty(t, got[0].Reviewers)
}

func TestFilterConfigRepo_ReplaceOverwrites(t *testing.T) {
	db := setupTestDB(t)
	seedDirectory(t, db, "acme/api")
	repo := NewFilterConfigRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceSections(ctx, "acme/api", []model.FilterSection{
		{Filter: "*", Reviewers: []string{"alice", "bob"}},
	}))
	require.NoError(t, repo.ReplaceSections(ctx, "acme/api", []model.FilterSection{
		{Filter: "branch:release", Reviewers: []string{"carol"}},
	}))

	got, err := repo.LoadSections(ctx, "acme/api")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "branch:release", got[0].Filter)
	assert.Equal(t, []string{"carol"}, got[0].Reviewers)
}

func TestFilterConfigRepo_ProjectsAreIsolated(t *testing.T) {
	db := setupTestDB(t)
	dir := seedDirectory(t, db, "acme/api")
	require.NoError(t, dir.AddProject(context.Background(), "acme/web"))
	repo := NewFilterConfigRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceSections(ctx, "acme/api", []model.FilterSection{
		{Filter: "*", Reviewers: []string{"alice"}},
	}))

	got, err := repo.LoadSections(ctx, "acme/web")
	require.NoError(t, err)
	assert.Empty(t, got)
}
