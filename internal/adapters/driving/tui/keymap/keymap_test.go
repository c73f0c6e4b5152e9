package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()

	require.NotNil(t, km)
}

func TestDefaultKeyMap_Bindings(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name    string
		binding key.Binding
		keys    []string
	}{
		{"quit", km.Quit, []string{"q", "ctrl+c"}},
		{"help", km.Help, []string{"?"}},
		{"up", km.Up, []string{"up", "k"}},
		{"down", km.Down, []string{"down", "j"}},
		{"page down", km.PageDown, []string{"pgdown"}},
		{"toggle", km.Toggle, []string{" ", "x"}},
		{"only", km.Only, []string{"o"}},
		{"all", km.All, []string{"a"}},
		{"none", km.None, []string{"n"}},
		{"invert", km.Invert, []string{"i"}},
		{"search", km.Search, []string{"/"}},
		{"commit", km.Commit, []string{"enter"}},
		{"revert", km.Revert, []string{"r"}},
		{"cancel", km.Cancel, []string{"esc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range tt.keys {
				assert.Contains(t, tt.binding.Keys(), k)
			}
			assert.NotEmpty(t, tt.binding.Help().Desc)
		})
	}
}

func TestKeyMap_SelectionKeysDoNotOverlapNavigation(t *testing.T) {
	km := DefaultKeyMap()

	selection := []key.Binding{km.Toggle, km.Only, km.All, km.None, km.Invert, km.Revert}
	navigation := []key.Binding{km.Up, km.Down, km.PageDown, km.Quit}

	for _, s := range selection {
		for _, k := range s.Keys() {
			for _, n := range navigation {
				assert.False(t, Matches(k, n), "key %q bound twice", k)
			}
		}
	}
}

func TestKeyMap_ShortHelp(t *testing.T) {
	km := DefaultKeyMap()

	help := km.ShortHelp()

	assert.Len(t, help, 5)
}

func TestKeyMap_SearchHelp(t *testing.T) {
	km := DefaultKeyMap()

	assert.Len(t, km.SearchHelp(), 2)
}

func TestKeyMap_FullHelp(t *testing.T) {
	km := DefaultKeyMap()

	groups := km.FullHelp()

	require.Len(t, groups, 4)
	assert.Len(t, groups[1], 5)
}

func TestMatches(t *testing.T) {
	km := DefaultKeyMap()

	assert.True(t, Matches("q", km.Quit))
	assert.True(t, Matches("ctrl+c", km.Quit))
	assert.True(t, Matches(" ", km.Toggle))
	assert.False(t, Matches("z", km.Quit))
	assert.False(t, Matches("", km.Quit))
}
