package card

import (
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/editor"
	"github.com/mark3labs/mailman/internal/logger"
)

// EditedMsg carries content returned from the external editor.
type EditedMsg struct {
	Card    Name
	Content string
}

// OpenEditor launches $EDITOR on content and reports the result as an
// EditedMsg addressed to the named card. Returns nil when no editor can
// be started.
func OpenEditor(app string, name Name, content string) tea.Cmd {
	tmpfile, err := os.CreateTemp("", "mailman_"+string(name)+"_*.txt")
	if err != nil {
		logger.Warn("Cannot create temp file for editor: %v", err)
		return nil
	}

	if _, err := tmpfile.WriteString(content); err != nil {
		_ = tmpfile.Close()
		_ = os.Remove(tmpfile.Name())
		return nil
	}
	_ = tmpfile.Close()

	cmd, err := editor.Command(app, tmpfile.Name())
	if err != nil {
		logger.Warn("No editor available: %v", err)
		_ = os.Remove(tmpfile.Name())
		return nil
	}

	path := tmpfile.Name()
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		defer func() { _ = os.Remove(path) }()
		if err != nil {
			logger.Warn("Editor exited with error: %v", err)
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		return EditedMsg{Card: name, Content: string(data)}
	})
}
