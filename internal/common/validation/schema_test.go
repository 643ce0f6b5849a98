package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() map[string]interface{} {
	return map[string]interface{}{
		"requestId":  "req_001",
		"maxResults": 5,
		"clientRequirements": map[string]interface{}{
			"clientId": "client_001",
			"location": map[string]interface{}{
				"radius": 25,
				"coordinates": map[string]interface{}{
					"latitude":  45.5152,
					"longitude": -122.6784,
				},
			},
			"schedule": map[string]interface{}{
				"timeSlots": []interface{}{
					map[string]interface{}{"dayOfWeek": 1, "startTime": "09:00", "endTime": "12:00"},
				},
			},
		},
	}
}

func TestBundledSchemasCompile(t *testing.T) {
	for _, name := range []string{SchemaMatchingRequest, SchemaMatchFeedback} {
		_, err := Load(name)
		assert.NoError(t, err, name)
	}

	_, err := Load("missing")
	assert.Error(t, err)
}

func TestMatchingRequestSchema(t *testing.T) {
	v := MustLoad(SchemaMatchingRequest)

	tests := []struct {
		name    string
		mutate  func(doc map[string]interface{})
		valid   bool
		field   string
		errCode string
	}{
		{
			name:   "valid request",
			mutate: func(doc map[string]interface{}) {},
			valid:  true,
		},
		{
			name: "latitude out of range",
			mutate: func(doc map[string]interface{}) {
				loc := doc["clientRequirements"].(map[string]interface{})["location"].(map[string]interface{})
				loc["coordinates"].(map[string]interface{})["latitude"] = 95.0
			},
			field: "clientRequirements.location.coordinates.latitude",
		},
		{
			name:    "missing request id",
			mutate:  func(doc map[string]interface{}) { delete(doc, "requestId") },
			errCode: "REQUIRED",
		},
		{
			name:   "negative max results",
			mutate: func(doc map[string]interface{}) { doc["maxResults"] = -1 },
			field:  "maxResults",
		},
		{
			name: "bad time format",
			mutate: func(doc map[string]interface{}) {
				slots := doc["clientRequirements"].(map[string]interface{})["schedule"].(map[string]interface{})["timeSlots"].([]interface{})
				slots[0].(map[string]interface{})["startTime"] = "9am"
			},
			field: "clientRequirements.schedule.timeSlots.0.startTime",
		},
		{
			name: "hour and minute out of range",
			mutate: func(doc map[string]interface{}) {
				slots := doc["clientRequirements"].(map[string]interface{})["schedule"].(map[string]interface{})["timeSlots"].([]interface{})
				slots[0].(map[string]interface{})["startTime"] = "99:99"
			},
			field: "clientRequirements.schedule.timeSlots.0.startTime",
		},
		{
			name: "past end of day",
			mutate: func(doc map[string]interface{}) {
				slots := doc["clientRequirements"].(map[string]interface{})["schedule"].(map[string]interface{})["timeSlots"].([]interface{})
				slots[0].(map[string]interface{})["endTime"] = "24:30"
			},
			field: "clientRequirements.schedule.timeSlots.0.endTime",
		},
		{
			name: "slot ending at midnight",
			mutate: func(doc map[string]interface{}) {
				slots := doc["clientRequirements"].(map[string]interface{})["schedule"].(map[string]interface{})["timeSlots"].([]interface{})
				slots[0].(map[string]interface{})["startTime"] = "9:00"
				slots[0].(map[string]interface{})["endTime"] = "24:00"
			},
			valid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validRequest()
			tt.mutate(doc)

			result, err := v.Validate(doc)
			require.NoError(t, err)
			assert.Equal(t, tt.valid, result.Valid, result.Error())

			if tt.field != "" {
				assert.True(t, result.HasErrors(tt.field), result.Error())
			}
			if tt.errCode != "" {
				require.NotEmpty(t, result.Errors)
				assert.Equal(t, tt.errCode, result.Errors[0].Code)
			}
		})
	}
}

func TestMatchFeedbackSchema_JSON(t *testing.T) {
	v := MustLoad(SchemaMatchFeedback)

	ok, err := v.ValidateJSON([]byte(`{"matchId":"m1","clientId":"c1","caregiverId":"cg1","rating":4}`))
	require.NoError(t, err)
	assert.True(t, ok.Valid)

	bad, err := v.ValidateJSON([]byte(`{"matchId":"m1","clientId":"c1","caregiverId":"cg1","rating":9}`))
	require.NoError(t, err)
	assert.False(t, bad.Valid)
	assert.Len(t, bad.GetErrorsForField("rating"), 1)
	assert.Contains(t, bad.Error(), "rating")
}

func TestValidate_Struct(t *testing.T) {
	type feedback struct {
		MatchID     string `json:"matchId"`
		ClientID    string `json:"clientId"`
		CaregiverID string `json:"caregiverId"`
		Rating      int    `json:"rating"`
	}

	result, err := MustLoad(SchemaMatchFeedback).Validate(feedback{MatchID: "m1", ClientID: "c1", CaregiverID: "cg1"})
	require.NoError(t, err)
	assert.False(t, result.Valid)

	data, _ := json.Marshal(result)
	assert.Contains(t, string(data), `"valid":false`)
}

func TestValidate_MalformedJSON(t *testing.T) {
	_, err := MustLoad(SchemaMatchFeedback).ValidateJSON([]byte(`{"matchId":`))
	assert.Error(t, err)
}
