// Package state persists small UI preferences between runs.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mark3labs/mailman/internal/logger"
)

const fileName = "ui-state.json"

// UIState is what the list view remembers across runs.
type UIState struct {
	List ListState `json:"list"`
}

// ListState remembers the cursor of the template list.
type ListState struct {
	// SelectedID is the template under the cursor when the app closed.
	SelectedID string `json:"selected_id,omitempty"`
	// SelectedRow is the cursor row, used when SelectedID no longer exists.
	SelectedRow int `json:"selected_row"`
}

// Default returns an empty state with the cursor on the first row.
func Default() *UIState {
	return &UIState{}
}

// Path returns where the state lives inside dataDir.
func Path(dataDir string) string {
	return filepath.Join(dataDir, fileName)
}

// Load reads the state from dataDir, returning Default on any error.
func Load(dataDir string) *UIState {
	data, err := os.ReadFile(Path(dataDir))
	if errors.Is(err, fs.ErrNotExist) {
		return Default()
	}
	if err != nil {
		logger.Warn("Failed to read UI state: %v", err)
		return Default()
	}

	var st UIState
	if err := json.Unmarshal(data, &st); err != nil {
		logger.Warn("Failed to parse UI state: %v", err)
		return Default()
	}
	if st.List.SelectedRow < 0 {
		st.List.SelectedRow = 0
	}
	return &st
}

// Save writes st into dataDir, creating the directory if needed.
func Save(dataDir string, st *UIState) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling UI state: %w", err)
	}

	if err := os.WriteFile(Path(dataDir), data, 0o644); err != nil {
		return fmt.Errorf("writing UI state: %w", err)
	}
	logger.Debug("UI state saved to %s", Path(dataDir))
	return nil
}

// Resolve returns the row to select among ids: the row of SelectedID when
// present, else SelectedRow clamped to the list.
func (s ListState) Resolve(ids []string) int {
	if len(ids) == 0 {
		return 0
	}
	for i, id := range ids {
		if id != "" && id == s.SelectedID {
			return i
		}
	}
	row := s.SelectedRow
	if row >= len(ids) {
		row = len(ids) - 1
	}
	if row < 0 {
		row = 0
	}
	return row
}
