// Package memory serves candidates from a fixed in-process list.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"caregiver-matcher/internal/common/logger"
	"caregiver-matcher/internal/matching"
	"caregiver-matcher/internal/models"
)

// Repository filters a static caregiver list by each caregiver's own service
// radius around the client's location.
type Repository struct {
	caregivers []models.CaregiverProfile
	logger     logger.Logger
}

func NewRepository(caregivers []models.CaregiverProfile, log logger.Logger) *Repository {
	return &Repository{
		caregivers: caregivers,
		logger:     log.WithFields(map[string]interface{}{"repository": "memory"}),
	}
}

// NewSeeded returns a repository holding SeedCaregivers.
func NewSeeded(log logger.Logger) *Repository {
	return NewRepository(SeedCaregivers(), log)
}

// LoadFile reads a JSON array of caregiver profiles.
func LoadFile(path string, log logger.Logger) (*Repository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var caregivers []models.CaregiverProfile
	if err := json.Unmarshal(data, &caregivers); err != nil {
		return nil, fmt.Errorf("parse caregivers file %s: %w", path, err)
	}
	return NewRepository(caregivers, log), nil
}

func (r *Repository) GetCandidates(ctx context.Context, req models.ClientRequirements) ([]models.CaregiverProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]models.CaregiverProfile, 0, len(r.caregivers))
	for _, cg := range r.caregivers {
		if matching.Distance(req.Location.Coordinates, cg.Location.BaseLocation.Coordinates) <= cg.Location.ServiceRadius {
			out = append(out, cg)
		}
	}

	r.logger.Debug("Candidates selected", map[string]interface{}{
		"total":    len(r.caregivers),
		"selected": len(out),
	})
	return out, nil
}
