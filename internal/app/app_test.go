package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewConfig_DefaultsRingSize(t *testing.T) {
	cfg, err := NewConfig(Config{Frames: 4})
	require.NoError(t, err)
	require.Equal(t, 2, cfg.RingSize)
}

func TestNewConfig_RejectsZeroFrames(t *testing.T) {
	_, err := NewConfig(Config{Frames: 0})
	require.Error(t, err)
}

func TestNewConfig_PreservesExplicitRingSize(t *testing.T) {
	cfg, err := NewConfig(Config{Frames: 1, RingSize: 5})
	require.NoError(t, err)
	require.Equal(t, 5, cfg.RingSize)
}

func TestNewApp_BuildsDefaultPipeline(t *testing.T) {
	cfg, err := NewConfig(Config{Frames: 2, RingSize: 2})
	require.NoError(t, err)

	out := &bytes.Buffer{}
	a, err := NewApp(context.Background(), out, cfg)
	require.NoError(t, err)
	require.NotNil(t, a.graph)
}

func TestNewApp_LoadsDeclarativeGraph(t *testing.T) {
	dir := t.TempDir()
	graphPath := filepath.Join(dir, "graph.hcl")
	require.NoError(t, os.WriteFile(graphPath, []byte(`
node "source" "A" {
  arguments {
    width  = 8
    height = 8
  }
}

node "sink" "B" {
}

connect {
  from = "A"
  to   = "B"
}
`), 0o644))

	cfg, err := NewConfig(Config{Frames: 1, RingSize: 1, GraphPath: graphPath})
	require.NoError(t, err)

	out := &bytes.Buffer{}
	a, err := NewApp(context.Background(), out, cfg)
	require.NoError(t, err)
	require.NotNil(t, a.graph)
}

func TestNewApp_DeclarativeGraphArgumentsSeeRingSizeVariable(t *testing.T) {
	dir := t.TempDir()
	graphPath := filepath.Join(dir, "graph.hcl")
	require.NoError(t, os.WriteFile(graphPath, []byte(`
ring {
  size = 4
}

node "source" "A" {
  arguments {
    width  = ring_size * 8
    height = ring_size * 8
  }
}

node "sink" "B" {
}

connect {
  from = "A"
  to   = "B"
}
`), 0o644))

	cfg, err := NewConfig(Config{Frames: 1, RingSize: 1, GraphPath: graphPath})
	require.NoError(t, err)

	out := &bytes.Buffer{}
	a, err := NewApp(context.Background(), out, cfg)
	require.NoError(t, err)
	require.NotNil(t, a.graph)
}

func TestNewApp_RejectsUnknownNodeTypeInGraphFile(t *testing.T) {
	dir := t.TempDir()
	graphPath := filepath.Join(dir, "graph.hcl")
	require.NoError(t, os.WriteFile(graphPath, []byte(`
node "nonexistent" "A" {
}
`), 0o644))

	cfg, err := NewConfig(Config{Frames: 1, GraphPath: graphPath})
	require.NoError(t, err)

	_, err = NewApp(context.Background(), &bytes.Buffer{}, cfg)
	require.Error(t, err)
}

func TestApp_RunDrivesConfiguredFrameCount(t *testing.T) {
	cfg, err := NewConfig(Config{Frames: 3, RingSize: 2})
	require.NoError(t, err)

	out := &bytes.Buffer{}
	a, err := NewApp(context.Background(), out, cfg)
	require.NoError(t, err)

	require.NoError(t, a.Run(context.Background()))
	require.Contains(t, out.String(), "profiler report")
}

func TestApp_HealthHandlerServesOK(t *testing.T) {
	cfg, err := NewConfig(Config{Frames: 1, RingSize: 1})
	require.NoError(t, err)

	a, err := NewApp(context.Background(), &bytes.Buffer{}, cfg)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	a.healthHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "OK")
}

func TestApp_CloseHealthcheckServerWithoutStartIsANoop(t *testing.T) {
	cfg, err := NewConfig(Config{Frames: 1, RingSize: 1})
	require.NoError(t, err)

	a, err := NewApp(context.Background(), &bytes.Buffer{}, cfg)
	require.NoError(t, err)

	require.NoError(t, a.closeHealthcheckServer(context.Background()))
}
