package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const snapshot = `[
	{"id": 10, "name": "Elm St Market",
		"location": {"address": "12 Elm St", "city": "Boise", "state": "ID"},
		"operations": {"season": "May to October"},
		"products": {"items": ["Honey"], "production_methods": ["Organic"]},
		"payment": {"methods": ["Cash"], "food_assistance": {"snap": true}}},
	{"id": 11, "name": "Harbor Market", "location": {"state": "OR"}}
]`

// useSnapshot points the global data path at a temp file holding content.
func useSnapshot(t *testing.T, content string) string {
	t.Helper()
	logger = zap.NewNop()
	path := filepath.Join(t.TempDir(), "markets.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	dataPath = path
	t.Cleanup(func() { dataPath = "" })
	return path
}

func testCmd() (*cobra.Command, *bytes.Buffer) {
	cmd := &cobra.Command{}
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	return cmd, out
}

func TestValidateCmd(t *testing.T) {
	useSnapshot(t, snapshot)
	cmd, out := testCmd()

	require.NoError(t, runValidate(cmd, nil))
	assert.Contains(t, out.String(), "ok: 2 markets (0 with coordinates)")
}

func TestValidateCmd_Malformed(t *testing.T) {
	useSnapshot(t, `{"markets": []}`)
	cmd, _ := testCmd()

	err := runValidate(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed_source")
}

func TestStatsCmd(t *testing.T) {
	useSnapshot(t, snapshot)
	cmd, out := testCmd()

	require.NoError(t, runStats(cmd, nil))
	text := strings.ToLower(out.String())
	assert.Contains(t, text, "markets by state (2 total)")
	assert.Contains(t, text, "has_organic")
	assert.Contains(t, text, "snap")
}

func TestShowCmd(t *testing.T) {
	useSnapshot(t, snapshot)
	cmd, out := testCmd()

	require.NoError(t, runShow(cmd, []string{"10"}))
	text := out.String()
	assert.Contains(t, text, "12 Elm St, Boise, ID")
	assert.Contains(t, text, "May to October")
	assert.Contains(t, text, "SNAP")

	err := runShow(cmd, []string{"404"})
	assert.ErrorContains(t, err, "not found")
}

func TestFetchSnapshot(t *testing.T) {
	logger = zap.NewNop()
	fetchRetries = 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(snapshot))
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "data", "markets.json")
	cmd, buf := testCmd()
	require.NoError(t, fetchSnapshot(context.Background(), cmd, srv.URL, out))
	assert.Contains(t, buf.String(), "wrote 2 markets")

	written, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.JSONEq(t, snapshot, string(written))
}

func TestFetchSnapshot_RejectsInvalidPayload(t *testing.T) {
	logger = zap.NewNop()
	fetchRetries = 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`"nope"`))
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "markets.json")
	require.NoError(t, os.WriteFile(out, []byte(snapshot), 0o644))

	cmd, _ := testCmd()
	err := fetchSnapshot(context.Background(), cmd, srv.URL, out)
	assert.ErrorContains(t, err, "malformed_source")

	kept, readErr := os.ReadFile(out)
	require.NoError(t, readErr)
	assert.Equal(t, snapshot, string(kept))
}
