package app

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()

	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = append([]string{"meteofetch"}, args...)

	var output bytes.Buffer
	err := Run(&output, io.Discard)
	return output.String(), err
}

func TestMainHelp(t *testing.T) {
	output, err := runApp(t, "help")

	require.NoError(t, err)
	assert.Contains(t, output, "Available Commands")
	assert.Contains(t, output, "fetch")
}

func TestMainUnknownCommand(t *testing.T) {
	_, err := runApp(t, "unknown")

	require.Error(t, err)
}

func TestVersion(t *testing.T) {
	output, err := runApp(t, "version")

	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(output))
}

func TestFetchMissingCredentials(t *testing.T) {
	t.Setenv("METEOMATICS_USERNAME", "")
	t.Setenv("METEOMATICS_PASSWORD", "")

	_, err := runApp(t, "fetch")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing credentials")
}

func TestFetchMalformedBoundingBox(t *testing.T) {
	_, err := runApp(t, "fetch",
		"--bbox", "47.0,5.0,north",
		"--grid-steps", "0.05,0.05",
		"--username", "user", "--password", "secret")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid bounding box")
}

const fetchPayload = `{"status":"OK","version":"3.0","dateGenerated":"2025-10-01T10:00:00Z",` +
	`"data":[{"parameter":"t_2m:C","coordinates":[{"lat":52.520551,"lon":13.461804,` +
	`"dates":[{"date":"2025-10-01T10:00:00Z","value":12.3},{"date":"2025-10-01T11:00:00Z","value":11.8}]}]}]}`

func TestFetchSavesArtifactAndSummarizes(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, fetchPayload)
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "resp.json")
	output, err := runApp(t, "fetch",
		"--base-url", srv.URL,
		"--username", "user", "--password", "secret",
		"--lat", "52.520551", "--lon", "13.461804",
		"--out", out)

	require.NoError(t, err)
	assert.Contains(t, gotPath, "/52.520551,13.461804/json")
	assert.Contains(t, output, "Saved raw response to "+out)
	assert.Contains(t, output, "Status: OK | API version: 3.0")
	assert.Contains(t, output, "Parameter: t_2m:C")
	assert.Contains(t, output, "Count: 2")

	// Round-trip: the pretty-printed artifact must be structurally
	// identical to the response.
	blob, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.JSONEq(t, fetchPayload, string(blob))
}

func TestFetchGridMode(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, fetchPayload)
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "resp.json")
	_, err := runApp(t, "fetch",
		"--base-url", srv.URL,
		"--username", "user", "--password", "secret",
		"--bbox", "47.0,5.0,55.0,15.0",
		"--grid-steps", "0.05,0.05",
		"--out", out)

	require.NoError(t, err)
	assert.Contains(t, gotPath, "/55.000000,5.000000_47.000000,15.000000:0.050000,0.050000/json")
}

func TestFetchNon200WritesNoArtifact(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, "boom")
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "resp.json")
	output, err := runApp(t, "fetch",
		"--base-url", srv.URL,
		"--username", "user", "--password", "secret",
		"--out", out)

	require.Error(t, err)
	assert.Contains(t, output, "HTTP 500: boom")

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "no artifact should exist after a non-200 response")
}

func TestFetchCSVSkipsSummary(t *testing.T) {
	const csvBody = "validdate;t_2m:C\n2025-10-01T10:00:00Z;12.3\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, csvBody)
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "resp.csv")
	output, err := runApp(t, "fetch",
		"--base-url", srv.URL,
		"--username", "user", "--password", "secret",
		"--format", "csv",
		"--out", out)

	require.NoError(t, err)
	assert.Contains(t, output, "Saved raw response to "+out)
	assert.NotContains(t, output, "Status:")

	blob, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, csvBody, string(blob))
}

func TestSummarizeCommand(t *testing.T) {
	file := filepath.Join(t.TempDir(), "saved.json")
	require.NoError(t, os.WriteFile(file, []byte(fetchPayload), 0o644))

	output, err := runApp(t, "summarize", "--file", file)

	require.NoError(t, err)
	assert.Contains(t, output, "Status: OK | API version: 3.0")
	assert.Contains(t, output, "Parameter: t_2m:C")
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()

	valid := filepath.Join(dir, "valid.json")
	require.NoError(t, os.WriteFile(valid, []byte(fetchPayload), 0o644))
	output, err := runApp(t, "validate", "--file", valid)
	require.NoError(t, err)
	assert.Contains(t, output, "The response is valid.")

	invalid := filepath.Join(dir, "invalid.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`{"status": "OK", "version": "3.0", "data": "nope"}`), 0o644))
	output, err = runApp(t, "validate", "--file", invalid)
	require.Error(t, err)
	assert.Contains(t, output, "The response is invalid!")
}
