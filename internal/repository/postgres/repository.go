// Package postgres loads candidate caregivers from the caregivers table.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"caregiver-matcher/internal/common/logger"
	"caregiver-matcher/internal/common/observability"
	"caregiver-matcher/internal/matching"
	"caregiver-matcher/internal/models"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jmoiron/sqlx"
)

const (
	TableCaregivers = "caregivers"

	// DefaultMaxServiceRadius bounds the prefilter box. Caregivers whose service
	// radius exceeds it are only found when they live inside the box.
	DefaultMaxServiceRadius = 50.0
)

type caregiverRow struct {
	CaregiverID string `db:"caregiver_id"`
	Profile     []byte `db:"profile"`
}

// Repository reads profiles stored as JSONB alongside indexed latitude and
// longitude columns.
type Repository struct {
	db               *sqlx.DB
	maxServiceRadius float64
	logger           logger.Logger
}

func NewRepository(db *sqlx.DB, log logger.Logger) *Repository {
	return &Repository{
		db:               db,
		maxServiceRadius: DefaultMaxServiceRadius,
		logger:           log.WithFields(map[string]interface{}{"repository": "postgres"}),
	}
}

// WithMaxServiceRadius overrides the prefilter radius in miles.
func (r *Repository) WithMaxServiceRadius(miles float64) *Repository {
	if miles > 0 {
		r.maxServiceRadius = miles
	}
	return r
}

func (r *Repository) GetCandidates(ctx context.Context, req models.ClientRequirements) ([]models.CaregiverProfile, error) {
	ctx, span := observability.StartSpan(ctx, "postgres.Repository.GetCandidates")
	defer span.End()

	minLat, maxLat, minLon, maxLon := matching.BoundingBox(req.Location.Coordinates, r.maxServiceRadius)

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("caregiver_id", "profile")
	sb.From(TableCaregivers)
	sb.Where(
		sb.Between("latitude", minLat, maxLat),
		longitudeCond(sb, minLon, maxLon),
	)
	sb.OrderBy("caregiver_id")

	query, args := sb.Build()

	var rows []caregiverRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query caregivers: %w", err)
	}

	out := make([]models.CaregiverProfile, 0, len(rows))
	for _, row := range rows {
		var cg models.CaregiverProfile
		if err := json.Unmarshal(row.Profile, &cg); err != nil {
			r.logger.Warn("Skipping caregiver with unreadable profile", map[string]interface{}{
				"caregiverId": row.CaregiverID,
				"error":       err.Error(),
			})
			continue
		}
		cg.CaregiverID = row.CaregiverID

		if matching.Distance(req.Location.Coordinates, cg.Location.BaseLocation.Coordinates) > cg.Location.ServiceRadius {
			continue
		}
		out = append(out, cg)
	}

	r.logger.Debug("Candidates selected", map[string]interface{}{
		"rows":     len(rows),
		"selected": len(out),
	})
	return out, nil
}

// longitudeCond matches the [minLon, maxLon] band, splitting it in two when it
// crosses the antimeridian.
func longitudeCond(sb *sqlbuilder.SelectBuilder, minLon, maxLon float64) string {
	switch {
	case minLon < -180:
		return sb.Or(
			sb.Between("longitude", minLon+360, 180.0),
			sb.Between("longitude", -180.0, maxLon),
		)
	case maxLon > 180:
		return sb.Or(
			sb.Between("longitude", minLon, 180.0),
			sb.Between("longitude", -180.0, maxLon-360),
		)
	default:
		return sb.Between("longitude", minLon, maxLon)
	}
}
