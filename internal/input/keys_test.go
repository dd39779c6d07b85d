package input

import (
	"testing"

	"github.com/panecast/panecast/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyKeyPrintable(t *testing.T) {
	action, ok := ClassifyKey("a", protocol.KeyPressed)
	require.True(t, ok)
	assert.Equal(t, KindChar, action.Kind)
	assert.Equal(t, "a", action.Key)
	assert.Empty(t, action.Modifiers)

	// Printable releases carry no information for the target.
	_, ok = ClassifyKey("a", protocol.KeyReleased)
	assert.False(t, ok)
}

func TestClassifyKeyShiftedPrintable(t *testing.T) {
	tests := []string{"A", "Z", "!", "?", "~", "{", "\"", "_"}

	for _, key := range tests {
		action, ok := ClassifyKey(key, protocol.KeyPressed)
		require.True(t, ok, "key %q", key)
		assert.Equal(t, KindChar, action.Kind)
		assert.Equal(t, key, action.Key)
		assert.Equal(t, []string{"Shift"}, action.Modifiers, "key %q", key)
	}
}

func TestClassifyKeyUnshiftedPrintable(t *testing.T) {
	tests := []string{"b", "7", " ", "-", "=", "[", ";", "'", ",", ".", "/", "`"}

	for _, key := range tests {
		action, ok := ClassifyKey(key, protocol.KeyPressed)
		require.True(t, ok, "key %q", key)
		assert.Empty(t, action.Modifiers, "key %q", key)
	}
}

func TestClassifyKeySpecial(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"ArrowUp", "ArrowUp"},
		{"arrowdown", "ArrowDown"},
		{"ARROWLEFT", "ArrowLeft"},
		{"Enter", "Enter"},
		{"return", "Enter"},
		{"pageup", "PageUp"},
		{"Escape", "Escape"},
		{"f1", "F1"},
		{"F12", "F12"},
		{"f24", "F24"},
	}

	for _, tt := range tests {
		action, ok := ClassifyKey(tt.key, protocol.KeyPressed)
		require.True(t, ok, "key %q", tt.key)
		assert.Equal(t, KindKeyDown, action.Kind)
		assert.Equal(t, tt.want, action.Key, "key %q", tt.key)

		action, ok = ClassifyKey(tt.key, protocol.KeyReleased)
		require.True(t, ok, "key %q", tt.key)
		assert.Equal(t, KindKeyUp, action.Kind)
		assert.Equal(t, tt.want, action.Key, "key %q", tt.key)
	}
}

func TestClassifyKeyModifier(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"Control", "Control"},
		{"ctrl", "Control"},
		{"Shift", "Shift"},
		{"Alt", "Alt"},
		{"option", "Alt"},
		{"altgr", "AltGraph"},
		{"Meta", "Meta"},
		{"command", "Meta"},
		{"cmd", "Meta"},
		{"super", "Meta"},
		{"win", "Meta"},
	}

	for _, tt := range tests {
		action, ok := ClassifyKey(tt.key, protocol.KeyPressed)
		require.True(t, ok, "key %q", tt.key)
		assert.Equal(t, KindKeyDown, action.Kind)
		assert.Equal(t, []string{tt.want}, action.Modifiers, "key %q", tt.key)
	}
}

func TestClassifyKeyUnknownIsNoOp(t *testing.T) {
	for _, key := range []string{"Hyper", "F25", "f0", "Launch1", "", "Dead"} {
		_, ok := ClassifyKey(key, protocol.KeyPressed)
		assert.False(t, ok, "key %q", key)
	}
}
