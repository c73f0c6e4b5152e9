package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper functions in settings.go

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Short key",
			input:    "abc123",
			expected: "****",
		},
		{
			name:     "Exactly 8 chars",
			input:    "12345678",
			expected: "****",
		},
		{
			name:     "Long key",
			input:    "sk-1234567890abcdef",
			expected: "sk-1...cdef",
		},
		{
			name:     "Very long key",
			input:    "sk-proj-1234567890abcdefghijklmnop",
			expected: "sk-p...mnop",
		},
		{
			name:     "Empty key",
			input:    "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := maskAPIKey(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestReadPassword_NonTerminal(t *testing.T) {
	assert.Equal(t, "s3cret-token", readPassword(strings.NewReader("  s3cret-token \n")))
	assert.Empty(t, readPassword(strings.NewReader("")))
}

func TestSettingsCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0)
	for _, c := range settingsCmd.Commands() {
		names = append(names, c.Name())
	}

	assert.Contains(t, names, "show")
	assert.Contains(t, names, "set")
}

func TestSettingsShow_Defaults(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	out, err := executeCommand("settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Page size: 50")
	assert.Contains(t, out, "Kind: local")
	assert.NotContains(t, out, "URL:")
}

func TestSettingsSet_Remote(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	_, err := executeCommand("settings", "set", "source.kind", "remote")
	require.Error(t, err, "remote source needs a URL first")
	_, err = executeCommand("settings", "set", "source.url", "https://elements.example.com")
	require.NoError(t, err)
	_, err = executeCommand("settings", "set", "source.kind", "remote")
	require.NoError(t, err)
	out, err := executeCommand("settings", "set", "source.token", "tok-1234567890")
	require.NoError(t, err)
	assert.Contains(t, out, "tok-...7890")

	out, err = executeCommand("settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Kind: remote")
	assert.Contains(t, out, "URL: https://elements.example.com")
	assert.Contains(t, out, "Token: tok-...7890")
	assert.NotContains(t, out, "Warning")
}

func TestSettingsSet_TokenFromStdin(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	rootCmd.SetIn(bytes.NewBufferString("piped-token-value\n"))
	defer rootCmd.SetIn(nil)

	_, err := executeCommand("settings", "set", "source.token")
	require.NoError(t, err)

	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, "piped-token-value", settings.RemoteToken)
}

func TestSettingsSet_Errors(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	_, err := executeCommand("settings", "set", "elements.page_size")
	assert.Error(t, err)

	_, err = executeCommand("settings", "set", "elements.page_size", "lots")
	assert.Error(t, err)

	_, err = executeCommand("settings", "set", "no.such.key", "1")
	assert.Error(t, err)
}

func TestSettingsShow_NotConfigured(t *testing.T) {
	SetServices(nil)

	_, err := executeCommand("settings", "show")

	assert.ErrorIs(t, err, errSettingsNotConfigured)
}
