package listview

import (
	"testing"

	"github.com/mark3labs/mailman/internal/mergetemplate"
	"github.com/stretchr/testify/require"
)

func TestTemplateItem_AppendsAndCleansUp(t *testing.T) {
	t.Parallel()

	region := &Region{}
	item := NewTemplateItem(region, tmpl("a", "A"), nil).(*TemplateItem)
	require.Equal(t, 1, region.Len())

	var edits int
	item.SetEditHandler(func(*mergetemplate.Template) { edits++ })
	item.Cleanup()
	item.Edit()

	require.Equal(t, 0, region.Len())
	require.Equal(t, 0, edits)
	require.Equal(t, 1, item.Cleaned())
}

func TestTemplateItem_ToggleRepeatOff(t *testing.T) {
	t.Parallel()

	cfg := tmpl("a", "A").ToConfig()
	cfg.Repeating = true
	item := NewTemplateItem(&Region{}, mergetemplate.New(cfg), nil).(*TemplateItem)

	var off int
	dialog := &fakeDialog{}
	item.SetRepeatDialog(dialog)
	item.SetRepeatHandlers(nil, func(*mergetemplate.Template) { off++ })
	item.ToggleRepeat()

	require.Equal(t, 1, off)
	require.Empty(t, dialog.prompts)
}

func TestTemplateItem_Render(t *testing.T) {
	t.Parallel()

	item := NewTemplateItem(&Region{}, tmpl("a", "Newsletter"), fakeMetadata{})
	out := item.Render(80)
	require.Contains(t, out, "Newsletter")
	require.Contains(t, out, "to <<Email>>")
	require.Contains(t, out, "ran 3×")
}

func TestRegion_HiddenRendersNothing(t *testing.T) {
	t.Parallel()

	r := &Region{}
	r.Append(emptyState{})
	require.NotEmpty(t, r.Render(40))
	r.SetHidden(true)
	require.Equal(t, "", r.Render(40))
	r.Remove(emptyState{})
	require.Equal(t, 0, r.Len())
}
