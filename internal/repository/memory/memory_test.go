package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"caregiver-matcher/internal/common/logger"
	"caregiver-matcher/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func portlandRequirements() models.ClientRequirements {
	return models.ClientRequirements{
		ClientID: "client_001",
		Location: models.ClientLocation{
			Coordinates: models.Coordinates{Latitude: 45.52, Longitude: -122.68},
			Radius:      25,
		},
	}
}

func TestSeeded_ReturnsBothPortlandCaregivers(t *testing.T) {
	repo := NewSeeded(logger.NewTestLogger(t))

	got, err := repo.GetCandidates(context.Background(), portlandRequirements())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "caregiver_001", got[0].CaregiverID)
	assert.Equal(t, "Sarah Johnson", got[0].FullName())
	assert.Equal(t, "caregiver_002", got[1].CaregiverID)
}

func TestGetCandidates_FiltersByServiceRadius(t *testing.T) {
	repo := NewSeeded(logger.NewNoOpLogger())

	// Salem is ~45 miles south: outside both service radii.
	req := portlandRequirements()
	req.Location.Coordinates = models.Coordinates{Latitude: 44.9429, Longitude: -123.0351}

	got, err := repo.GetCandidates(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetCandidates_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSeeded(logger.NewNoOpLogger()).GetCandidates(ctx, portlandRequirements())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSeedCaregivers_Schedules(t *testing.T) {
	seed := SeedCaregivers()

	sarah := seed[0].Availability.Schedule
	assert.True(t, sarah["monday"].Available)
	assert.False(t, sarah["saturday"].Available)
	assert.NotNil(t, sarah["sunday"].TimeSlots)

	maria := seed[1].Availability.Schedule
	assert.True(t, maria["sunday"].Available)
	assert.Equal(t, "10:00", maria["saturday"].TimeSlots[0].StartTime)
	assert.Equal(t, "20:00", maria["friday"].TimeSlots[0].EndTime)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "caregivers.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
	  {"caregiverId": "cg_file", "location": {"baseLocation": {"coordinates": {"latitude": 45.52, "longitude": -122.68}}, "serviceRadius": 5}}
	]`), 0o644))

	repo, err := LoadFile(path, logger.NewNoOpLogger())
	require.NoError(t, err)

	got, err := repo.GetCandidates(context.Background(), portlandRequirements())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "cg_file", got[0].CaregiverID)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{`), 0o644))
	_, err = LoadFile(bad, logger.NewNoOpLogger())
	assert.Error(t, err)
}
