package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mailman/internal/config"
	"github.com/mark3labs/mailman/internal/mergetemplate"
	"github.com/mark3labs/mailman/internal/metadata"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sample(id, title string) *mergetemplate.Template {
	return mergetemplate.New(mergetemplate.Config{
		ID: id,
		MergeData: mergetemplate.MergeData{
			Title: title,
			Sheet: "Contacts",
			Type:  mergetemplate.TypeDocument,
		},
	})
}

func TestExportFileName(t *testing.T) {
	require.Equal(t, "monthly-newsletter-abc.yaml", exportFileName(sample("abc", "Monthly Newsletter!")))
	require.Equal(t, "template-abc.yaml", exportFileName(sample("abc", "")))
}

func TestExportTemplates(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	n, err := exportTemplates(dir, []*mergetemplate.Template{
		sample("a1", "Newsletter"),
		sample("b2", "Newsletter"),
	})
	require.NoError(t, err)
	require.Equal(t, 2, n)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	data, err := os.ReadFile(filepath.Join(dir, "newsletter-a1.yaml"))
	require.NoError(t, err)
	var cfg mergetemplate.Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	require.Equal(t, "a1", cfg.ID)
	require.Equal(t, "Contacts", cfg.MergeData.Sheet)
}

func TestListRow(t *testing.T) {
	cfg := sample("x", "Invoices").ToConfig()
	cfg.Repeating = true
	row := listRow(mergetemplate.New(cfg), metadata.Info{RunCount: 4})
	require.Equal(t, []string{"x", "Invoices", "document", "yes", "4"}, row)
}

func TestConfigInitProject(t *testing.T) {
	t.Chdir(t.TempDir())
	configFlags.project = true
	configFlags.force = false
	t.Cleanup(func() { configFlags.project = false })

	require.NoError(t, runConfigInit(configInitCmd, nil))
	require.True(t, fileExists(config.ProjectPath()))

	err := runConfigInit(configInitCmd, nil)
	require.ErrorContains(t, err, "already exists")

	configFlags.force = true
	t.Cleanup(func() { configFlags.force = false })
	require.NoError(t, runConfigInit(configInitCmd, nil))
}

func TestOrchestratorConfigFromConfig(t *testing.T) {
	cfg = config.Default()
	cfg.Owner = "me"
	t.Cleanup(func() { cfg = nil })

	oc := orchestratorConfig(true)
	require.True(t, oc.Headless)
	require.Equal(t, "me", oc.Owner)
	require.Equal(t, ".mailman", oc.DataDir)
}
