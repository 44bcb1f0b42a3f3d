package entities

import (
	"encoding/json"
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceRequestMarshalJSON(t *testing.T) {
	r := ServiceRequest{
		RequestID:    42,
		StatusID:     2,
		EngineerID:   null.Uint64From(7),
		Address:      "ул. Ленина, 1",
		Equipment:    "Котёл",
		AssignedTime: null.StringFrom("2024-05-06T09:30:00"),
	}

	raw, err := json.Marshal(r)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &got))

	assert.Equal(t, "ул. Ленина, 1", got["address"])
	assert.Equal(t, "ул. Ленина, 1", got["adress"])
	assert.Equal(t, "Котёл", got["equipment"])
	assert.Equal(t, "Котёл", got["techniq"])
	assert.Equal(t, "Назначена", got["status_name"])
	assert.Equal(t, "06.05.2024, 09:30", got["assigned_time_display"])
	assert.Equal(t, "", got["done_time_display"])
	assert.Nil(t, got["done_time"])
	assert.EqualValues(t, 7, got["engineer_id"])
}
