package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/missionctl/engine/internal/codec"
	"github.com/missionctl/engine/internal/tree"
)

func TestSetDisabled_DirtyTracking(t *testing.T) {
	s := Default()
	assert.False(t, s.Disabled())
	assert.False(t, s.Dirty())

	s.SetDisabled(false)
	assert.False(t, s.Dirty(), "setting the same value is not a change")

	s.SetDisabled(true)
	assert.True(t, s.Disabled())
	assert.True(t, s.Dirty())

	s.ClearDirty()
	assert.False(t, s.Dirty())
	assert.True(t, s.Disabled(), "clearing dirty keeps the value")
}

func TestSchema_RoundTrip(t *testing.T) {
	s := Default()
	s.SetDisabled(true)

	text := tree.Write(codec.Encode(s, Schema()))
	node, err := tree.ParseOne(text)
	require.NoError(t, err)

	obj, err := codec.Decode(node, Schema())
	require.NoError(t, err)
	decoded := obj.(*Settings)
	assert.True(t, decoded.Disabled())
	assert.False(t, decoded.Dirty(), "decoded settings start clean")
}

func TestSchema_MissingFieldFallsBackToDefault(t *testing.T) {
	node, err := tree.ParseOne("Settings\n{\n}\n")
	require.NoError(t, err)

	obj, err := codec.Decode(node, Schema())
	require.NoError(t, err)
	assert.False(t, obj.(*Settings).Disabled())
}
