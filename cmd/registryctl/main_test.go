package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoresCmd(t *testing.T) {
	t.Run("lists the store table", func(t *testing.T) {
		var out bytes.Buffer
		cmd := storesCmd()
		cmd.SetOut(&out)
		cmd.SetArgs([]string{})

		require.NoError(t, cmd.Execute())
		assert.Contains(t, out.String(), "amazon.")
		assert.Contains(t, out.String(), "Tata CLiQ")
	})

	t.Run("classifies urls", func(t *testing.T) {
		var out bytes.Buffer
		cmd := storesCmd()
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"https://WWW.AMAZON.in/x", "https://www.croma.com/tv"})

		require.NoError(t, cmd.Execute())
		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 3)
		assert.Contains(t, lines[1], "Amazon")
		assert.Contains(t, lines[2], "Croma")
	})
}

func TestExtractCmd_Basic(t *testing.T) {
	var out bytes.Buffer
	cmd := extractCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--basic", "https://example.com/products/deluxe-coffee-maker"})

	require.NoError(t, cmd.Execute())

	var result struct {
		URL     string `json:"url"`
		Success bool   `json:"success"`
		Data    struct {
			Title string `json:"title"`
			Store string `json:"store"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, "https://example.com/products/deluxe-coffee-maker", result.URL)
	assert.True(t, result.Success)
	assert.Equal(t, "Deluxe Coffee Maker", result.Data.Title)
	assert.Equal(t, "Example", result.Data.Store)
}

func TestExtractCmd_VerboseLogsToStderr(t *testing.T) {
	var out, errOut bytes.Buffer
	cmd := extractCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"-v", "--basic",
		"https://example.com/products/deluxe-coffee-maker",
		"https://www.croma.com/100%-cotton-towel",
	})

	require.NoError(t, cmd.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.True(t, json.Valid([]byte(line)), "stdout line is not JSON: %s", line)
	}
	assert.Contains(t, errOut.String(), "Extracting product")
	assert.NotContains(t, out.String(), "Extracting product")
}

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := versionCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "registryctl dev\n", out.String())
}
