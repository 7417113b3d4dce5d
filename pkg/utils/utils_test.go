package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID_IsID(t *testing.T) {
	id := NewID()
	assert.Len(t, id, 36)
	assert.True(t, IsID(id))

	assert.False(t, IsID(""))
	assert.False(t, IsID("not-a-uuid"))
	assert.False(t, IsID("{"+id+"}"))
}

func TestOptional_Unmarshal(t *testing.T) {
	var in struct {
		Name Optional[string] `json:"name"`
		Role Optional[string] `json:"role"`
		Nick Optional[string] `json:"nick"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"name":"","role":null}`), &in))

	assert.True(t, in.Name.Set)
	assert.False(t, in.Name.Null)
	assert.Equal(t, "", in.Name.Value)

	assert.True(t, in.Role.Set)
	assert.True(t, in.Role.Null)

	assert.False(t, in.Nick.Set)
}

func TestOptional_UnmarshalTypeMismatch(t *testing.T) {
	var in struct {
		Name Optional[string] `json:"name"`
	}
	assert.Error(t, json.Unmarshal([]byte(`{"name":12}`), &in))
}

func TestOptional_Marshal(t *testing.T) {
	b, err := json.Marshal(map[string]Optional[string]{
		"a": Some("x"),
		"b": Null[string](),
		"c": {},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"x","b":null,"c":null}`, string(b))
}
