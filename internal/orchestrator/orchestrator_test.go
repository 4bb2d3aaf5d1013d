package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mailman/internal/hooks"
	"github.com/mark3labs/mailman/internal/mergetemplate"
	"github.com/stretchr/testify/require"
)

func headless(t *testing.T, cfg Config) *Orchestrator {
	t.Helper()
	cfg.Headless = true
	if cfg.DataDir == "" {
		cfg.DataDir = filepath.Join(t.TempDir(), ".mailman")
	}

	o, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, o.Start())
	t.Cleanup(func() { _ = o.Stop() })
	return o
}

func TestGracefulShutdown(t *testing.T) {
	o := headless(t, Config{})

	runDone := make(chan error, 1)
	go func() { runDone <- o.Run() }()

	stopDone := make(chan error, 1)
	go func() { stopDone <- o.Stop() }()

	select {
	case err := <-stopDone:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Stop() did not complete within 5 seconds")
	}
	select {
	case err := <-runDone:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run() did not return after Stop()")
	}

	require.NoError(t, o.Stop(), "second Stop is a no-op")
}

func TestTemplatesSurviveRestart(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), ".mailman")

	o, err := New(Config{DataDir: dataDir, Headless: true, Owner: "ops@example.com"})
	require.NoError(t, err)
	require.NoError(t, o.Start())

	added, err := o.Store().Add(context.Background(), mergetemplate.Config{
		MergeData: mergetemplate.MergeData{Title: "Newsletter", Type: mergetemplate.TypeDocument},
	})
	require.NoError(t, err)
	_, err = o.Runs().RecordRun(context.Background(), added.ID())
	require.NoError(t, err)
	require.NoError(t, o.Stop())

	again := headless(t, Config{DataDir: dataDir})
	got, err := again.Store().Get(added.ID())
	require.NoError(t, err)
	require.Equal(t, "Newsletter", got.Title())
	require.Equal(t, "ops@example.com", got.ToConfig().Owner)

	info, err := again.Runs().Lookup(context.Background(), added.ID())
	require.NoError(t, err)
	require.Equal(t, 1, info.RunCount)
}

func TestServeMCP(t *testing.T) {
	o := headless(t, Config{ServeMCP: true})

	require.True(t, strings.HasPrefix(o.MCPURL(), "http://localhost:"))
	require.True(t, strings.HasSuffix(o.MCPURL(), "/mcp"))
	require.NotContains(t, o.MCPURL(), ":0/")

	require.NoError(t, o.Stop())
}

func TestSettingRows(t *testing.T) {
	o := headless(t, Config{Owner: "me", MinLoading: 2 * time.Second})
	rows := o.settingRows()

	labels := map[string]string{}
	for _, r := range rows {
		labels[r.Label] = r.Value
	}
	require.Equal(t, "me", labels["Owner"])
	require.Equal(t, "2s", labels["Min loading"])
	require.Empty(t, labels["MCP"])
}

func TestStart_LoadsHooks(t *testing.T) {
	dir := t.TempDir()
	content := "version: 1\nhooks:\n  post_run:\n    - command: \"echo {{id}}\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, hooks.ConfigFileName), []byte(content), 0o644))

	o := headless(t, Config{HooksDir: dir})
	require.Len(t, o.hooks.For(hooks.PostRun), 1)

	labels := map[string]string{}
	for _, r := range o.settingRows() {
		labels[r.Label] = r.Value
	}
	require.Equal(t, "0 on save, 1 on run", labels["Hooks"])
}

func TestStart_BadHooksFails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, hooks.ConfigFileName), []byte("hooks: ["), 0o644))

	o, err := New(Config{DataDir: filepath.Join(t.TempDir(), ".mailman"), HooksDir: dir, Headless: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = o.Stop() })
	require.Error(t, o.Start())
}
