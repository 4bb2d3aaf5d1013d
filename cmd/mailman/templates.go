package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/gosimple/slug"
	"github.com/mark3labs/mailman/internal/mergetemplate"
	"github.com/mark3labs/mailman/internal/metadata"
	"github.com/mark3labs/mailman/internal/preview"
	"github.com/mark3labs/mailman/internal/tui/wizard"
	"github.com/spf13/cobra"
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a template with the card wizard",
	Args:  cobra.NoArgs,
	RunE:  runNew,
}

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a template with the card wizard",
	Args:  cobra.ExactArgs(1),
	RunE:  runEdit,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List templates",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var showFlags struct {
	plain bool
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a template as YAML",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var exportCmd = &cobra.Command{
	Use:   "export <dir>",
	Short: "Write every template to <dir> as one YAML file each",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a template and its run history",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	showCmd.Flags().BoolVar(&showFlags.plain, "plain", false, "Print without syntax highlighting")
}

func runNew(cmd *cobra.Command, args []string) error {
	return runWizard(cmd.Context(), nil)
}

func runEdit(cmd *cobra.Command, args []string) error {
	orch, err := startHeadless()
	if err != nil {
		return err
	}
	t, err := orch.Store().Get(args[0])
	_ = orch.Stop()
	if err != nil {
		return fmt.Errorf("template %s: %w", args[0], err)
	}
	return runWizard(cmd.Context(), t)
}

// runWizard runs the card wizard on its own and stores the result. The
// runtime is started after the wizard so the store is not held open while
// the user types.
func runWizard(ctx context.Context, t *mergetemplate.Template) error {
	done, err := wizard.RunWizard(t, wizard.Options{EditorApp: cfg.EditorApp})
	if errors.Is(err, wizard.ErrCancelled) {
		fmt.Println("Cancelled.")
		return nil
	}
	if err != nil {
		return err
	}

	orch, err := startHeadless()
	if err != nil {
		return err
	}
	defer func() { _ = orch.Stop() }()

	var saved *mergetemplate.Template
	if done.Original == nil {
		saved, err = orch.Store().Add(ctx, done.Template.ToConfig())
	} else {
		saved, err = orch.Store().Update(ctx, done.Template)
	}
	if err != nil {
		return fmt.Errorf("failed to save template: %w", err)
	}
	fmt.Printf("Saved %q (%s)\n", saved.Title(), saved.ID())

	if done.SendNow {
		info, err := orch.Runs().RecordRun(ctx, saved.ID())
		if err != nil {
			return fmt.Errorf("saved, but sending failed: %w", err)
		}
		fmt.Printf("Queued run %d\n", info.RunCount)
	}
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	orch, err := startHeadless()
	if err != nil {
		return err
	}
	defer func() { _ = orch.Stop() }()

	templates := orch.Store().Collection().All()
	if len(templates) == 0 {
		fmt.Println("No templates yet. Run 'mailman new' to create one.")
		return nil
	}

	rows := make([][]string, 0, len(templates))
	for _, t := range templates {
		info, err := orch.Runs().Lookup(cmd.Context(), t.ID())
		if err != nil {
			return err
		}
		rows = append(rows, listRow(t, info))
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TITLE", "TYPE", "REPEAT", "RUNS").
		Rows(rows...)
	fmt.Println(tbl.String())
	return nil
}

func listRow(t *mergetemplate.Template, info metadata.Info) []string {
	repeat := "no"
	if t.Repeating() {
		repeat = "yes"
	}
	return []string{t.ID(), t.Title(), t.Type(), repeat, strconv.Itoa(info.RunCount)}
}

func runShow(cmd *cobra.Command, args []string) error {
	orch, err := startHeadless()
	if err != nil {
		return err
	}
	defer func() { _ = orch.Stop() }()

	t, err := orch.Store().Get(args[0])
	if err != nil {
		return fmt.Errorf("template %s: %w", args[0], err)
	}

	data, err := t.YAML()
	if err != nil {
		return err
	}
	if showFlags.plain {
		fmt.Print(string(data))
		return nil
	}
	fmt.Print(preview.HighlightYAML(string(data)))
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	orch, err := startHeadless()
	if err != nil {
		return err
	}
	defer func() { _ = orch.Stop() }()

	n, err := exportTemplates(args[0], orch.Store().Collection().All())
	if err != nil {
		return err
	}
	fmt.Printf("Exported %d templates to %s\n", n, args[0])
	return nil
}

// exportFileName names an export file after the title, keeping the ID so
// titles that slug the same do not collide.
func exportFileName(t *mergetemplate.Template) string {
	name := slug.Make(t.Title())
	if name == "" {
		name = "template"
	}
	return name + "-" + t.ID() + ".yaml"
}

func exportTemplates(dir string, templates []*mergetemplate.Template) (int, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("creating export directory: %w", err)
	}

	for i, t := range templates {
		data, err := t.YAML()
		if err != nil {
			return i, err
		}
		path := filepath.Join(dir, exportFileName(t))
		if err := os.WriteFile(path, data, 0644); err != nil {
			return i, fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return len(templates), nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	orch, err := startHeadless()
	if err != nil {
		return err
	}
	defer func() { _ = orch.Stop() }()

	t, err := orch.Store().Get(args[0])
	if err != nil {
		return fmt.Errorf("template %s: %w", args[0], err)
	}
	if err := orch.Store().Delete(cmd.Context(), t.ID()); err != nil {
		return err
	}
	if err := orch.Runs().Delete(cmd.Context(), t.ID()); err != nil {
		return fmt.Errorf("deleted, but clearing run history failed: %w", err)
	}
	fmt.Printf("Deleted %q\n", t.Title())
	return nil
}
