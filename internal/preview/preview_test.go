package preview

import (
	"strings"
	"testing"

	"github.com/mark3labs/mailman/internal/mergetemplate"
	"github.com/stretchr/testify/require"
)

func sample(conditional *string) *mergetemplate.Template {
	return mergetemplate.New(mergetemplate.Config{
		ID: "cn2abc",
		MergeData: mergetemplate.MergeData{
			Title:       "Campaign A",
			Sheet:       "Contacts",
			HeaderRow:   "1",
			Conditional: conditional,
			Type:        mergetemplate.TypeDocument,
			Data: mergetemplate.Data{
				To:         "<<Email>>",
				CC:         "lead@example.com",
				Subject:    "Hello <<Name>>",
				DocumentID: "1AbC",
			},
		},
	})
}

func TestMarkdown(t *testing.T) {
	t.Parallel()

	md := Markdown(sample(nil))
	require.Contains(t, md, "# Campaign A")
	require.Contains(t, md, "| CC | `lead@example.com` |")
	require.NotContains(t, md, "BCC")
	require.NotContains(t, md, "Only when")
	require.Contains(t, md, "## Columns used\n\nEmail, Name\n")

	md = Markdown(sample(mergetemplate.Conditional("<<Status>> == open")))
	require.Contains(t, md, "`<<Status>> == open`")
	require.Contains(t, md, "Email, Name, Status")
}

func TestRender(t *testing.T) {
	t.Parallel()

	out := Render(sample(nil), 200)
	require.Contains(t, out, "Campaign A")
	require.False(t, strings.HasSuffix(out, "\n"))
}

func TestDiff(t *testing.T) {
	t.Parallel()

	before := sample(nil)
	cfg := before.ToConfig()
	cfg.MergeData.Data.Subject = "Hi <<Name>>"
	after := mergetemplate.New(cfg)

	diff, err := Diff(before, after)
	require.NoError(t, err)
	require.Contains(t, diff, "-        subject: Hello <<Name>>")
	require.Contains(t, diff, "+        subject: Hi <<Name>>")

	same, err := Diff(before, before)
	require.NoError(t, err)
	require.Empty(t, same)
}

func TestDiff_NilBefore(t *testing.T) {
	t.Parallel()

	diff, err := Diff(nil, sample(nil))
	require.NoError(t, err)
	require.Contains(t, diff, "+    title: Campaign A")
}

func TestHighlightYAML(t *testing.T) {
	t.Parallel()

	out := HighlightYAML("title: Campaign A\n")
	require.Contains(t, out, "\x1b[")
	require.Contains(t, out, "Campaign")
}
