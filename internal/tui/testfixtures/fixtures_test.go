package testfixtures

import (
	"context"
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/stretchr/testify/require"
)

func TestConfigsAreDistinct(t *testing.T) {
	configs := Configs()
	require.Len(t, configs, 2)
	require.NotEqual(t, configs[0].MergeData.Title, configs[1].MergeData.Title)
	require.Nil(t, configs[0].MergeData.Conditional)
	require.NotNil(t, configs[1].MergeData.Conditional)
}

func TestEnvSeed(t *testing.T) {
	env := NewEnv(t)
	env.Seed(t)

	all := env.Store.Collection().All()
	require.Len(t, all, 2)
	require.Equal(t, "Monthly newsletter", all[0].Title())
	require.Equal(t, FixedOwner, all[0].ToConfig().Owner)

	info, err := env.Runs.Lookup(context.Background(), all[0].ID())
	require.NoError(t, err)
	require.Zero(t, info.RunCount)
}

func TestRendered(t *testing.T) {
	out := Rendered(func(scr uv.Screen, area uv.Rectangle) {
		uv.NewStyledString("hello").Draw(scr, area)
	})
	require.Contains(t, out, "hello")
}
