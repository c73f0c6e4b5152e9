package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeySet_ZeroValueIsEmpty(t *testing.T) {
	var s KeySet
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Has("a"))
	assert.Empty(t, s.Keys())
}

func TestNewKeySet_DropsDuplicatesKeepsFirstOrder(t *testing.T) {
	s := NewKeySet("b", "a", "b", "c", "a")
	assert.Equal(t, []string{"b", "a", "c"}, s.Keys())
	assert.Equal(t, 3, s.Len())
}

func TestKeySet_WithDoesNotMutate(t *testing.T) {
	base := NewKeySet("a")
	next := base.With("b", "a")

	assert.Equal(t, []string{"a"}, base.Keys())
	assert.Equal(t, []string{"a", "b"}, next.Keys())
}

func TestKeySet_WithoutKeepsOrder(t *testing.T) {
	base := NewKeySet("a", "b", "c", "d")
	next := base.Without("c", "a", "missing")

	assert.Equal(t, []string{"b", "d"}, next.Keys())
	assert.Equal(t, []string{"a", "b", "c", "d"}, base.Keys())
	assert.False(t, next.Has("a"))
}

func TestKeySet_WithoutAbsentKeysIsNoop(t *testing.T) {
	base := NewKeySet("a")
	assert.Equal(t, []string{"a"}, base.Without("x").Keys())
}

func TestKeySet_KeysReturnsCopy(t *testing.T) {
	s := NewKeySet("a", "b")
	keys := s.Keys()
	keys[0] = "z"
	assert.Equal(t, []string{"a", "b"}, s.Keys())
}

func TestKeySet_Equal(t *testing.T) {
	assert.True(t, NewKeySet("a", "b").Equal(NewKeySet("b", "a")))
	assert.False(t, NewKeySet("a").Equal(NewKeySet("a", "b")))
	assert.True(t, KeySet{}.Equal(NewKeySet()))
}

func TestKeySet_JSON(t *testing.T) {
	data, err := json.Marshal(NewKeySet("a", "b"))
	require.NoError(t, err)
	assert.JSONEq(t, `["a","b"]`, string(data))

	data, err = json.Marshal(KeySet{})
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))

	var s KeySet
	require.NoError(t, json.Unmarshal([]byte(`["x","y","x"]`), &s))
	assert.Equal(t, []string{"x", "y"}, s.Keys())
}
