package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hnguyen/recruitmail/internal/model"
	"github.com/hnguyen/recruitmail/internal/store"
	"github.com/hnguyen/recruitmail/tests/testutil"
)

func sampleCandidates() []model.Candidate {
	return []model.Candidate{
		{
			ID: 1, Name: "Ana Petrov", Email: "ana@example.com",
			Titles: []string{"Backend Engineer"},
			Skills: []string{"go", "postgres"},
			YearsExp: 6, Tags: []string{"shortlist"},
			CreatedAt: time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC),
		},
		{
			ID: 2, Name: "Ben Okafor", Email: "ben@example.com",
			Titles: []string{"Data Engineer"},
			Skills: []string{"python", "spark"},
			YearsExp: 3,
			CreatedAt: time.Date(2026, 1, 12, 9, 0, 0, 0, time.UTC),
		},
	}
}

func TestCandidateRoundTrip(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertCandidates(ctx, sampleCandidates()))

	got, err := s.GetCandidateByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Ana Petrov", got.Name)
	assert.Equal(t, []string{"go", "postgres"}, got.Skills)
	assert.Equal(t, []string{"shortlist"}, got.Tags)
	assert.Equal(t, 6.0, got.YearsExp)
}

func TestCandidateUpsertKeyedByID(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertCandidates(ctx, sampleCandidates()))
	require.NoError(t, s.UpsertCandidates(ctx, sampleCandidates()))

	all, err := s.GetCandidates(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCandidateSearch(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertCandidates(ctx, sampleCandidates()))

	bySkill, err := s.GetCandidates(ctx, "spark")
	require.NoError(t, err)
	require.Len(t, bySkill, 1)
	assert.Equal(t, "Ben Okafor", bySkill[0].Name)

	byTitle, err := s.GetCandidates(ctx, "Backend")
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	assert.Equal(t, "Ana Petrov", byTitle[0].Name)
}

func TestSetCandidateNotesAndTags(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertCandidates(ctx, sampleCandidates()))

	require.NoError(t, s.SetCandidateNotes(ctx, 2, "strong pipeline fit"))
	require.NoError(t, s.SetCandidateTags(ctx, 2, []string{"interview", "remote"}))

	got, err := s.GetCandidateByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "strong pipeline fit", got.Notes)
	assert.Equal(t, []string{"interview", "remote"}, got.Tags)
}

func TestCandidateNotFound(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	_, err := s.GetCandidateByID(ctx, 99)
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, s.SetCandidateNotes(ctx, 99, "x"), store.ErrNotFound)
	assert.ErrorIs(t, s.SetCandidateTags(ctx, 99, nil), store.ErrNotFound)
}
