// Package search finds candidate caregivers in an Elasticsearch index with a
// geo_distance filter.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"caregiver-matcher/internal/common/logger"
	"caregiver-matcher/internal/common/observability"
	"caregiver-matcher/internal/matching"
	"caregiver-matcher/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const (
	DefaultMaxServiceRadius = 50.0
	DefaultSize             = 500
)

var ErrMissingIndex = errors.New("index name is required")

// GeoPoint is the geo_point field indexed next to each profile.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Document is the indexed shape: the profile plus its base location as a
// geo_point.
type Document struct {
	models.CaregiverProfile
	GeoPoint GeoPoint `json:"geoPoint"`
}

// NewDocument builds the document stored for cg.
func NewDocument(cg models.CaregiverProfile) Document {
	c := cg.Location.BaseLocation.Coordinates
	return Document{CaregiverProfile: cg, GeoPoint: GeoPoint{Lat: c.Latitude, Lon: c.Longitude}}
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string   `json:"_id"`
			Source Document `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

type Repository struct {
	client           *elasticsearch.Client
	index            string
	maxServiceRadius float64
	size             int
	logger           logger.Logger
}

func NewRepository(client *elasticsearch.Client, index string, maxServiceRadius float64, log logger.Logger) *Repository {
	if maxServiceRadius <= 0 {
		maxServiceRadius = DefaultMaxServiceRadius
	}
	return &Repository{
		client:           client,
		index:            index,
		maxServiceRadius: maxServiceRadius,
		size:             DefaultSize,
		logger:           log.WithFields(map[string]interface{}{"repository": "elasticsearch", "index": index}),
	}
}

// BuildQuery returns the search body for req. The geo filter is coarse; each
// caregiver's own service radius is checked after the hits come back.
func (r *Repository) BuildQuery(req models.ClientRequirements) map[string]interface{} {
	c := req.Location.Coordinates
	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": []interface{}{
					map[string]interface{}{
						"geo_distance": map[string]interface{}{
							"distance": fmt.Sprintf("%gmi", r.maxServiceRadius),
							"geoPoint": map[string]interface{}{
								"lat": c.Latitude,
								"lon": c.Longitude,
							},
						},
					},
				},
			},
		},
		"sort": []interface{}{
			map[string]interface{}{"caregiverId": "asc"},
		},
	}
}

func (r *Repository) GetCandidates(ctx context.Context, req models.ClientRequirements) ([]models.CaregiverProfile, error) {
	if r.index == "" {
		return nil, ErrMissingIndex
	}

	ctx, span := observability.StartSpan(ctx, "search.Repository.GetCandidates")
	defer span.End()

	body, err := json.Marshal(r.BuildQuery(req))
	if err != nil {
		return nil, fmt.Errorf("encode search query: %w", err)
	}

	size := r.size
	sr := esapi.SearchRequest{
		Index: []string{r.index},
		Body:  strings.NewReader(string(body)),
		Size:  &size,
	}

	res, err := sr.Do(ctx, r.client)
	if err != nil {
		return nil, fmt.Errorf("search caregivers: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		if res.StatusCode >= 500 {
			return nil, fmt.Errorf("search caregivers: service unavailable: %s", res.Status())
		}
		return nil, fmt.Errorf("search caregivers failed: %s", res.String())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	out := make([]models.CaregiverProfile, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		cg := hit.Source.CaregiverProfile
		if cg.CaregiverID == "" {
			cg.CaregiverID = hit.ID
		}
		if matching.Distance(req.Location.Coordinates, cg.Location.BaseLocation.Coordinates) > cg.Location.ServiceRadius {
			continue
		}
		out = append(out, cg)
	}

	r.logger.Debug("Candidates selected", map[string]interface{}{
		"totalHits": parsed.Hits.Total.Value,
		"selected":  len(out),
	})
	return out, nil
}
