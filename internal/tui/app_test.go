package tui

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/mark3labs/mailman/internal/hooks"
	"github.com/mark3labs/mailman/internal/listview"
	"github.com/mark3labs/mailman/internal/mergetemplate"
	"github.com/mark3labs/mailman/internal/state"
	"github.com/mark3labs/mailman/internal/tui/testfixtures"
	"github.com/mark3labs/mailman/internal/tui/wizard"
	"github.com/stretchr/testify/require"
)

func key(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

func newTestApp(t *testing.T, env *testfixtures.Env) *App {
	t.Helper()
	a, err := NewApp(context.Background(), Options{
		Store:   env.Store,
		Runs:    env.Runs,
		Bus:     env.Bus,
		DataDir: env.DataDir,
		Owner:   testfixtures.FixedOwner,
		Settings: []SettingRow{
			{Label: "Data dir", Value: env.DataDir},
			{Label: "Owner", Value: testfixtures.FixedOwner},
		},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func loaded(t *testing.T) (*App, *testfixtures.Env) {
	t.Helper()
	env := testfixtures.NewEnv(t)
	env.Seed(t)
	a := newTestApp(t, env)
	a.Update(loadedMsg{})
	return a, env
}

func press(a *App, keys ...string) {
	for _, k := range keys {
		a.Update(key(k))
	}
}

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, testfixtures.DefaultWaitDuration, testfixtures.DefaultCheckInterval)
}

func TestNewApp_RequiresCollaborators(t *testing.T) {
	_, err := NewApp(context.Background(), Options{})
	require.Error(t, err)
}

func TestApp_LoadListsTemplates(t *testing.T) {
	a, _ := loaded(t)

	require.Equal(t, 2, a.list.Len())
	require.True(t, a.header.Branding())

	out := testfixtures.Rendered(a.Draw)
	require.Contains(t, out, "Monthly newsletter")
	require.Contains(t, out, "Overdue invoices")
	require.Contains(t, out, "2 templates")
}

func TestApp_EmptyListHidesBranding(t *testing.T) {
	env := testfixtures.NewEnv(t)
	a := newTestApp(t, env)
	a.Update(loadedMsg{})

	require.False(t, a.header.Branding())
	out := testfixtures.Rendered(a.Draw)
	require.Contains(t, out, "No merges yet.")
}

func TestApp_DeleteAsksFirst(t *testing.T) {
	a, env := loaded(t)

	press(a, "x")
	require.True(t, a.deleteDialog.IsVisible())
	require.Equal(t, `Delete "Monthly newsletter"?`, a.deleteDialog.Prompt())
	require.Contains(t, testfixtures.Rendered(a.Draw), "Delete template")

	press(a, "n")
	require.False(t, a.deleteDialog.IsVisible())
	require.Equal(t, 2, env.Store.Collection().Len())

	press(a, "x", "y")
	require.Equal(t, 1, env.Store.Collection().Len())
	eventually(t, func() bool { return a.list.Len() == 1 })
}

func TestApp_RunRecordsMetadata(t *testing.T) {
	a, env := loaded(t)
	id := a.list.Items()[0].Template().ID()

	press(a, "r")
	require.True(t, a.runDialog.IsVisible())
	press(a, "enter")

	info, err := env.Runs.Lookup(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, 1, info.RunCount)

	eventually(t, func() bool {
		items := a.list.Items()
		return len(items) == 2 && items[0].(*listview.TemplateItem).Info().RunCount == 1
	})
}

func TestApp_RunHooks(t *testing.T) {
	a, _ := loaded(t)
	dir := t.TempDir()
	a.opts.HooksDir = dir
	a.opts.Hooks = &hooks.Config{Hooks: hooks.HooksConfig{
		PostRun: []*hooks.HookConfig{{Command: "echo {{title}} > ran.txt", Timeout: 5}},
	}}
	tmpl := a.list.Items()[0].Template()

	require.Nil(t, a.runHooks(hooks.PostSave, tmpl))

	msg, ok := a.runHooks(hooks.PostRun, tmpl)().(hookRanMsg)
	require.True(t, ok)
	require.NoError(t, msg.err)
	require.False(t, msg.result.Failed)
	data, err := os.ReadFile(filepath.Join(dir, "ran.txt"))
	require.NoError(t, err)
	require.Equal(t, "Monthly newsletter\n", string(data))

	a.Update(hookRanMsg{event: hooks.PostRun, title: "Monthly newsletter", result: hooks.Result{Output: "[Hook command failed: not really]\n"}})
	require.False(t, a.toast.Visible())

	a.Update(hookRanMsg{event: hooks.PostRun, title: "Monthly newsletter", result: hooks.Result{Output: "exit status 1", Failed: true}})
	require.True(t, a.toast.Visible())
}

func TestApp_ToggleRepeat(t *testing.T) {
	a, _ := loaded(t)
	first := func() *mergetemplate.Template { return a.list.Items()[0].Template() }

	press(a, "t")
	require.True(t, a.repeatDialog.IsVisible())
	press(a, "y")
	eventually(t, func() bool { return first().Repeating() })

	// Switching off does not ask.
	press(a, "t")
	require.False(t, a.repeatDialog.IsVisible())
	eventually(t, func() bool { return !first().Repeating() })
}

func TestApp_SettingsAndListExcludeEachOther(t *testing.T) {
	a, _ := loaded(t)

	press(a, "s")
	require.True(t, a.settings.Visible())
	require.False(t, a.list.Visible())
	require.Contains(t, testfixtures.Rendered(a.Draw), testfixtures.FixedOwner)

	press(a, "esc")
	eventually(t, func() bool { return a.list.Visible() && !a.settings.Visible() })
}

func TestApp_EditSavesUpdate(t *testing.T) {
	a, env := loaded(t)
	orig := a.list.Items()[0].Template()

	press(a, "enter")
	require.NotNil(t, a.wizard)
	require.Contains(t, testfixtures.Rendered(a.Draw), "Edit merge")

	cfg := orig.ToConfig()
	cfg.MergeData.Title = "Renamed newsletter"
	_, cmd := a.Update(wizard.DoneMsg{Template: mergetemplate.New(cfg), Original: orig})
	require.Nil(t, a.wizard)

	msg := cmd()
	saved, ok := msg.(savedMsg)
	require.True(t, ok)
	require.NoError(t, saved.err)
	a.Update(saved)

	got, err := env.Store.Get(orig.ID())
	require.NoError(t, err)
	require.Equal(t, "Renamed newsletter", got.Title())
	require.Equal(t, 2, env.Store.Collection().Len())
}

func TestApp_CreateAddsTemplate(t *testing.T) {
	a, env := loaded(t)

	press(a, "n")
	require.NotNil(t, a.wizard)
	require.Contains(t, testfixtures.Rendered(a.Draw), "New merge")

	cfg := testfixtures.NewsletterConfig()
	cfg.MergeData.Title = "Welcome"
	_, cmd := a.Update(wizard.DoneMsg{Template: mergetemplate.New(cfg), SendNow: true})
	saved := cmd().(savedMsg)
	require.NoError(t, saved.err)
	require.True(t, saved.sendNow)

	require.Equal(t, 3, env.Store.Collection().Len())
	info, err := env.Runs.Lookup(context.Background(), saved.template.ID())
	require.NoError(t, err)
	require.Equal(t, 1, info.RunCount)
}

func TestApp_WizardCancel(t *testing.T) {
	a, _ := loaded(t)

	press(a, "d")
	require.NotNil(t, a.wizard)
	a.Update(wizard.CancelledMsg{})
	require.Nil(t, a.wizard)
}

func TestApp_Preview(t *testing.T) {
	a, _ := loaded(t)

	press(a, "down", "p")
	require.True(t, a.preview.IsVisible())
	require.Contains(t, testfixtures.Rendered(a.Draw), "Preview · Overdue invoices")

	press(a, "esc")
	require.False(t, a.preview.IsVisible())
}

func TestApp_QuitRemembersCursor(t *testing.T) {
	a, env := loaded(t)
	second := a.list.Items()[1].Template().ID()

	press(a, "down", "down")
	require.Equal(t, 1, a.cursor)

	_, cmd := a.Update(key("q"))
	require.NotNil(t, cmd)
	require.True(t, a.quitting)

	st := state.Load(env.DataDir)
	require.Equal(t, second, st.List.SelectedID)

	b := newTestApp(t, env)
	b.Update(loadedMsg{})
	require.Equal(t, 1, b.cursor)
}

func TestApp_NotifySendsChange(t *testing.T) {
	a, env := loaded(t)
	got := make(chan tea.Msg, 4)
	a.SetSender(func(msg tea.Msg) { got <- msg })

	_, err := env.Store.Add(context.Background(), testfixtures.NewsletterConfig())
	require.NoError(t, err)

	select {
	case msg := <-got:
		require.Equal(t, listChangedMsg{}, msg)
	case <-time.After(testfixtures.DefaultWaitDuration):
		require.Fail(t, "no change notification")
	}
	a.Update(listChangedMsg{})
	eventually(t, func() bool { return a.list.Len() == 3 })
}
