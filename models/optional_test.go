package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptional_Omitted(t *testing.T) {
	var payload struct {
		Description Optional[string] `json:"description"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{}`), &payload))

	assert.False(t, payload.Description.Set)
	assert.False(t, payload.Description.Valid)
	assert.Nil(t, payload.Description.Ptr())
}

func TestOptional_ExplicitNull(t *testing.T) {
	var payload struct {
		Description Optional[string] `json:"description"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"description": null}`), &payload))

	assert.True(t, payload.Description.Set)
	assert.False(t, payload.Description.Valid)
	assert.Nil(t, payload.Description.Ptr())
}

func TestOptional_Value(t *testing.T) {
	var payload struct {
		Description Optional[string] `json:"description"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"description": "hello"}`), &payload))

	assert.True(t, payload.Description.Set)
	assert.True(t, payload.Description.Valid)
	require.NotNil(t, payload.Description.Ptr())
	assert.Equal(t, "hello", *payload.Description.Ptr())
}

func TestOptional_TypeMismatch(t *testing.T) {
	var payload struct {
		Description Optional[string] `json:"description"`
	}
	err := json.Unmarshal([]byte(`{"description": 42}`), &payload)
	assert.Error(t, err)
}

func TestOptional_Marshal(t *testing.T) {
	out, err := json.Marshal(Optional[string]{Set: true, Valid: true, Value: "x"})
	require.NoError(t, err)
	assert.Equal(t, `"x"`, string(out))

	out, err = json.Marshal(Optional[string]{Set: true})
	require.NoError(t, err)
	assert.Equal(t, `null`, string(out))
}
