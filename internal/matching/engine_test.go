package matching

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	apperrors "caregiver-matcher/internal/common/errors"
	"caregiver-matcher/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(concurrency int, now time.Time) *Engine {
	e := NewEngine(concurrency)
	e.now = func() time.Time { return now }
	return e
}

func TestEngine_Score_BuildsResults(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	e := newTestEngine(2, now)

	results, err := e.Score(context.Background(), "req_1", createTestRequirements(),
		[]models.CaregiverProfile{createTestCaregiver("caregiver_001")}, DefaultAlgorithm())
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, "match_req_1_caregiver_001", r.MatchID)
	assert.Equal(t, "client_001", r.ClientID)
	assert.Equal(t, 0.85, r.OverallScore)
	assert.Equal(t, 0.86, r.Confidence)
	assert.Equal(t, 60, r.Breakdown.QualificationScore)
	assert.Equal(t, 100, r.Breakdown.LocationScore)
	assert.Equal(t, models.MatchStatusPending, r.Status)
	assert.Equal(t, now, r.MatchedAt)
	assert.Equal(t, now.Add(24*time.Hour), r.ExpiresAt)
	assert.Equal(t, 75.0, r.EstimatedCost.HourlyRate)
	assert.Equal(t, 3000.0, r.EstimatedCost.TotalEstimate)
}

func TestEngine_Score_PreservesCandidateOrder(t *testing.T) {
	e := NewEngine(4)

	candidates := make([]models.CaregiverProfile, 50)
	for i := range candidates {
		candidates[i] = createTestCaregiver(fmt.Sprintf("cg_%02d", i))
		candidates[i].PersonalInfo.YearsOfExperience = float64(i % 15)
	}

	results, err := e.Score(context.Background(), "req", createTestRequirements(), candidates, DefaultAlgorithm())
	require.NoError(t, err)
	require.Len(t, results, len(candidates))
	for i, r := range results {
		assert.Equal(t, candidates[i].CaregiverID, r.CaregiverID)
	}
}

func TestEngine_Score_IsDeterministic(t *testing.T) {
	now := time.Now()
	candidates := []models.CaregiverProfile{createTestCaregiver("a"), createTestCaregiver("b")}
	candidates[1].Pricing.BaseHourlyRate = 120

	first, err := newTestEngine(1, now).Score(context.Background(), "req", createTestRequirements(), candidates, DefaultAlgorithm())
	require.NoError(t, err)
	second, err := newTestEngine(8, now).Score(context.Background(), "req", createTestRequirements(), candidates, DefaultAlgorithm())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEngine_Score_NonFiniteIsScoringError(t *testing.T) {
	bad := createTestCaregiver("broken")
	bad.Location.BaseLocation.Coordinates.Latitude = math.NaN()

	results, err := NewEngine(2).Score(context.Background(), "req", createTestRequirements(),
		[]models.CaregiverProfile{createTestCaregiver("ok"), bad}, DefaultAlgorithm())

	assert.Nil(t, results)
	assert.ErrorIs(t, err, apperrors.ErrScoring)
}

func TestEngine_Score_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := NewEngine(2).Score(ctx, "req", createTestRequirements(),
		[]models.CaregiverProfile{createTestCaregiver("a")}, DefaultAlgorithm())

	assert.Nil(t, results)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_Score_NoCandidates(t *testing.T) {
	results, err := NewEngine(0).Score(context.Background(), "req", createTestRequirements(), nil, DefaultAlgorithm())
	require.NoError(t, err)
	assert.Empty(t, results)
}
