package postgres

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"testing"

	"caregiver-matcher/internal/common/database"
	"caregiver-matcher/internal/common/logger"
	"caregiver-matcher/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

const selectCaregivers = `SELECT caregiver_id, profile FROM caregivers WHERE latitude BETWEEN \$1 AND \$2 AND longitude BETWEEN \$3 AND \$4`

func setupMockDB(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	client := database.NewPostgresFromDB(db)
	return NewRepository(client.DB, logger.NewTestLogger(t)), mock
}

func profileJSON(t *testing.T, lat, lon, radius float64) []byte {
	t.Helper()
	data, err := json.Marshal(models.CaregiverProfile{
		PersonalInfo: models.CaregiverPersonalInfo{FirstName: "Test", YearsOfExperience: 4},
		Location: models.CaregiverLocation{
			BaseLocation:  models.BaseLocation{Coordinates: models.Coordinates{Latitude: lat, Longitude: lon}},
			ServiceRadius: radius,
		},
	})
	require.NoError(t, err)
	return data
}

func requirements() models.ClientRequirements {
	return models.ClientRequirements{
		ClientID: "client_001",
		Location: models.ClientLocation{
			Coordinates: models.Coordinates{Latitude: 45.5152, Longitude: -122.6784},
			Radius:      25,
		},
	}
}

// ==========================
// Tests
// ==========================

func TestGetCandidates_Success(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery(selectCaregivers).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"caregiver_id", "profile"}).
			AddRow("cg_near", profileJSON(t, 45.52, -122.68, 20)).
			AddRow("cg_small_radius", profileJSON(t, 45.80, -122.68, 5)).
			AddRow("cg_corrupt", []byte(`{not json`)))

	got, err := repo.GetCandidates(context.Background(), requirements())
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "cg_near", got[0].CaregiverID)
	assert.Equal(t, 4.0, got[0].PersonalInfo.YearsOfExperience)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCandidates_BoundingBoxArgs(t *testing.T) {
	repo, mock := setupMockDB(t)
	repo.WithMaxServiceRadius(10)

	mock.ExpectQuery(selectCaregivers).
		WithArgs(
			floatBetween(45.36, 45.37),
			floatBetween(45.65, 45.67),
			floatBetween(-122.89, -122.88),
			floatBetween(-122.48, -122.47),
		).
		WillReturnRows(sqlmock.NewRows([]string{"caregiver_id", "profile"}))

	got, err := repo.GetCandidates(context.Background(), requirements())
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCandidates_AntimeridianSplitsLongitude(t *testing.T) {
	repo, mock := setupMockDB(t)
	repo.WithMaxServiceRadius(10)

	req := requirements()
	req.Location.Coordinates = models.Coordinates{Latitude: -17.7134, Longitude: 179.95}

	mock.ExpectQuery(`SELECT caregiver_id, profile FROM caregivers WHERE latitude BETWEEN \$1 AND \$2 AND \(longitude BETWEEN \$3 AND \$4 OR longitude BETWEEN \$5 AND \$6\)`).
		WithArgs(
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			floatBetween(179.79, 179.80),
			180.0,
			-180.0,
			floatBetween(-179.90, -179.89),
		).
		WillReturnRows(sqlmock.NewRows([]string{"caregiver_id", "profile"}).
			AddRow("cg_east", profileJSON(t, -17.71, 179.99, 10)).
			AddRow("cg_west", profileJSON(t, -17.71, -179.95, 10)))

	got, err := repo.GetCandidates(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "cg_east", got[0].CaregiverID)
	assert.Equal(t, "cg_west", got[1].CaregiverID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCandidates_QueryError(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery(selectCaregivers).
		WillReturnError(errors.New("dial tcp 10.0.0.5:5432: connection refused"))

	_, err := repo.GetCandidates(context.Background(), requirements())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}

type floatRange struct{ lo, hi float64 }

func floatBetween(lo, hi float64) sqlmock.Argument { return floatRange{lo, hi} }

func (f floatRange) Match(v driver.Value) bool {
	x, ok := v.(float64)
	return ok && x >= f.lo && x <= f.hi
}
