package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the config directory at a temp dir and returns it.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("SNWATCH_AUTH_TOKEN", "")
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return filepath.Join(dir, "getsupernovae")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCommandTree(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"search", "serve", "config", "sites", "windows"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}

	search, _, _ := root.Find([]string{"search"})
	for _, flag := range []string{"date", "time", "magnitude", "days", "hours", "min-altitude", "site", "window", "offline", "format", "output", "lang"} {
		assert.NotNil(t, search.Flags().Lookup(flag), flag)
	}
	for _, flag := range []string{"config", "log-level", "log-format"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
}

func TestConfigInitAndSites(t *testing.T) {
	dir := isolate(t)

	out, err := execute(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, "sites.json"))

	out, err = execute(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "already present")

	out, err = execute(t, "sites")
	require.NoError(t, err)
	assert.Contains(t, out, "Sabadell")
	assert.NotContains(t, out, "Requena", "bootstrap writes only the first default site")

	_, err = execute(t, "sites", "add", "Teide", "--lat", "28.27", "--lon", "-16.64", "--height", "2390")
	require.NoError(t, err)
	out, err = execute(t, "sites")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[2], "Teide"), lines[2])

	_, err = execute(t, "sites", "add", "Nowhere", "--lat", "100", "--lon", "0")
	assert.Error(t, err)

	_, err = execute(t, "sites", "remove", "Teide")
	require.NoError(t, err)
	_, err = execute(t, "sites", "remove", "Teide")
	assert.Error(t, err)
}

func TestWindowsCommand(t *testing.T) {
	isolate(t)

	out, err := execute(t, "windows")
	require.NoError(t, err)
	assert.Contains(t, out, "Default")
	assert.Contains(t, out, "360.0")

	_, err = execute(t, "windows", "add", "West", "--min-alt", "15", "--min-az", "200", "--max-az", "340")
	require.NoError(t, err)
	out, err = execute(t, "windows", "add", "North", "--min-alt", "30", "--min-az", "350", "--max-az", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "match nothing")

	out, err = execute(t, "windows")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"Default", "North", "West"}, []string{
		strings.Fields(lines[1])[0], strings.Fields(lines[2])[0], strings.Fields(lines[3])[0],
	})
	assert.Equal(t, []string{"West", "15.0", "90.0", "200.0", "340.0"}, strings.Fields(lines[3]))

	_, err = execute(t, "windows", "add", "Bad", "--max-az", "400")
	assert.Error(t, err)

	_, err = execute(t, "windows", "remove", "West")
	require.NoError(t, err)
	_, err = execute(t, "windows", "remove", "West")
	assert.Error(t, err)
	out, err = execute(t, "windows")
	require.NoError(t, err)
	assert.NotContains(t, out, "West")
}

func TestConfigShowMasksToken(t *testing.T) {
	isolate(t)
	t.Setenv("SNWATCH_AUTH_TOKEN", "topsecret")

	out, err := execute(t, "config", "show")
	require.NoError(t, err)
	assert.NotContains(t, out, "topsecret")
	assert.Contains(t, out, "********")
}

func TestSearchOffline(t *testing.T) {
	page, err := os.ReadFile("../../internal/catalog/testdata/snactive.html")
	require.NoError(t, err)

	dir := isolate(t)
	cacheDir := filepath.Join(dir, "cache")
	require.NoError(t, os.MkdirAll(cacheDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(cacheDir, "snactive_1736900000.html"), page, 0644))

	args := []string{"search", "--offline", "--date", "2025-01-15", "--time", "21:00",
		"--magnitude", "18", "--days", "10", "--hours", "3", "--min-altitude", "25"}

	out, err := execute(t, args...)
	require.NoError(t, err)
	assert.Contains(t, out, "Supernovae from: 2025-01-05 to 2025-01-15 21:00")
	assert.Contains(t, out, "Name: 2025abc")
	assert.NotContains(t, out, "2025xyz")

	pdfPath := filepath.Join(dir, "tonight.pdf")
	out, err = execute(t, append(args, "--format", "pdf", "--output", pdfPath)...)
	require.NoError(t, err)
	assert.Contains(t, out, "(1 supernovae)")
	data, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	_, err = execute(t, append(args, "--format", "xml")...)
	assert.Error(t, err)

	_, err = execute(t, "search", "--offline", "--site", "Atlantis")
	assert.Error(t, err)
}
