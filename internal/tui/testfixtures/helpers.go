package testfixtures

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"
	"github.com/mark3labs/mailman/internal/events"
	"github.com/mark3labs/mailman/internal/metadata"
	"github.com/mark3labs/mailman/internal/nats"
	"github.com/mark3labs/mailman/internal/store"
	"github.com/stretchr/testify/require"
)

// UpdateGolden rewrites golden files instead of comparing against them:
//
//	go test ./internal/tui/... -update
var UpdateGolden = flag.Bool("update", false, "update golden files")

// Initialize test environment
func init() {
	// Ascii profile keeps rendered output free of escape sequences.
	lipgloss.Writer.Profile = colorprofile.Ascii
}

// Canonical terminal size for all tests
const (
	TestTermWidth  = 120
	TestTermHeight = 40
)

// Conservative timeouts for Eventually checks (CI compatibility)
const (
	DefaultWaitDuration  = 5 * time.Second
	DefaultCheckInterval = 20 * time.Millisecond
)

// Env is a template store, run metadata and event bus backed by an
// embedded NATS server in a temporary directory.
type Env struct {
	DataDir string
	Store   *store.Store
	Runs    *metadata.KV
	Bus     *events.Bus
}

// NewEnv starts an embedded server and builds the collaborators on it.
// Everything is torn down when the test ends.
func NewEnv(t *testing.T) *Env {
	t.Helper()
	ctx := context.Background()
	dataDir := t.TempDir()

	e, err := nats.Start(dataDir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })

	stream, err := nats.SetupStream(ctx, e.JS)
	require.NoError(t, err)
	kv, err := nats.SetupMetadataBucket(ctx, e.JS)
	require.NoError(t, err)

	bus, err := events.New(e.Conn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = bus.Close() })

	return &Env{
		DataDir: dataDir,
		Store:   store.New(e.JS, stream, bus, store.WithOwner(FixedOwner), store.WithClock(Clock())),
		Runs:    metadata.NewKV(kv),
		Bus:     bus,
	}
}

// Seed adds every sample configuration to the store.
func (e *Env) Seed(t *testing.T) {
	t.Helper()
	for _, cfg := range Configs() {
		_, err := e.Store.Add(context.Background(), cfg)
		require.NoError(t, err)
	}
}

// Rendered draws into a canonical-size screen buffer and returns the text.
func Rendered(draw func(scr uv.Screen, area uv.Rectangle)) string {
	canvas := uv.NewScreenBuffer(TestTermWidth, TestTermHeight)
	draw(canvas, canvas.Bounds())
	return canvas.Render()
}

// GoldenPath returns the path of a golden file under testdata/.
func GoldenPath(filename string) string {
	return filepath.Join("testdata", filename)
}

// CompareGolden compares actual with the golden file at goldenPath, or
// writes it when -update is set.
func CompareGolden(t *testing.T, goldenPath, actual string) {
	t.Helper()

	if *UpdateGolden {
		if err := os.MkdirAll(filepath.Dir(goldenPath), 0o755); err != nil {
			t.Fatalf("failed to create golden dir: %v", err)
		}
		if err := os.WriteFile(goldenPath, []byte(actual), 0o644); err != nil {
			t.Fatalf("failed to update golden file: %v", err)
		}
		return
	}

	expected, err := os.ReadFile(goldenPath)
	if err != nil {
		t.Fatalf("failed to read golden file %s (run with -update to create): %v", goldenPath, err)
	}
	if string(expected) != actual {
		t.Errorf("output does not match golden file %s\n--- expected ---\n%s\n--- actual ---\n%s", goldenPath, expected, actual)
	}
}

// CompareRendered draws into a canonical-size screen buffer and compares
// its plain text with the golden file.
func CompareRendered(t *testing.T, goldenPath string, draw func(scr uv.Screen, area uv.Rectangle)) {
	t.Helper()
	canvas := uv.NewScreenBuffer(TestTermWidth, TestTermHeight)
	draw(canvas, canvas.Bounds())
	CompareGolden(t, goldenPath, Plain(canvas.String()))
}

// Plain strips escape sequences, trailing blanks on each line and
// trailing empty lines, so golden files hold only what is visible.
func Plain(s string) string {
	s = strings.ReplaceAll(ansi.Strip(s), "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n") + "\n"
}
