package cardflow

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/mark3labs/mailman/internal/card"
	"github.com/mark3labs/mailman/internal/mergetemplate"
	"github.com/mark3labs/mailman/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func newController(t *testing.T) (*Controller, card.Registry) {
	t.Helper()
	r := fakeRegistry()
	c, err := New(r)
	require.NoError(t, err)
	return c, r
}

func TestNew_ContractViolations(t *testing.T) {
	t.Parallel()

	_, err := New(nil)
	require.True(t, errors.Is(err, ErrNilRegistry))

	r := fakeRegistry()
	delete(r, card.Subject)
	_, err = New(r)
	require.True(t, errors.Is(err, ErrMissingCard))
	require.Contains(t, err.Error(), "subject")

	r = fakeRegistry()
	r[card.Conditional] = &fakeCard{name: card.Conditional}
	_, err = New(r)
	require.True(t, errors.Is(err, ErrNotToggle))
}

func TestNew_ShowsOnlyHead(t *testing.T) {
	t.Parallel()

	r := fakeRegistry()
	for _, cd := range r {
		cd.Show()
	}

	c, err := New(r)
	require.NoError(t, err)

	require.Equal(t, []card.Name{card.Title}, r.Visible())
	require.True(t, c.IsFirst())
	require.False(t, c.IsLast())
	require.Equal(t, Node{Index: 0, Name: card.Title}, c.Active())
}

func TestController_NavigationExample(t *testing.T) {
	t.Parallel()

	c, r := newController(t)
	require.True(t, c.IsFirst())

	for i := 0; i < len(DocumentFlow)-1; i++ {
		node, ok := c.Next()
		require.True(t, ok)
		require.Equal(t, DocumentFlow[i+1], node.Name)
		require.Equal(t, []card.Name{node.Name}, r.Visible())
	}
	require.True(t, c.IsLast())

	node, ok := c.Next()
	require.False(t, ok)
	require.Equal(t, Node{}, node)
	require.True(t, c.IsLast())
	require.Equal(t, []card.Name{card.SendNow}, r.Visible())

	node, ok = c.Back()
	require.True(t, ok)
	require.Equal(t, card.Conditional, node.Name)
	require.False(t, c.IsLast())
	require.Equal(t, []card.Name{card.Conditional}, r.Visible())
}

func TestController_BackAtHeadIsNoop(t *testing.T) {
	t.Parallel()

	c, r := newController(t)
	title := r[card.Title].(*fakeCard)
	shows := title.shows

	node, ok := c.Back()
	require.False(t, ok)
	require.Equal(t, Node{}, node)
	require.True(t, c.IsFirst())
	require.Equal(t, shows, title.shows)
	require.Equal(t, []card.Name{card.Title}, r.Visible())
}

func TestController_BackHidesPrevious(t *testing.T) {
	t.Parallel()

	c, r := newController(t)
	c.Next()
	c.Next()
	row := r[card.Row].(*fakeCard)
	hides := row.hides

	node, ok := c.Back()
	require.True(t, ok)
	require.Equal(t, Node{Index: 1, Name: card.Sheet}, node)
	require.Equal(t, hides+1, row.hides)
	require.Equal(t, []card.Name{card.Sheet}, r.Visible())
}

func TestController_SingleCardFlowIsFirstAndLast(t *testing.T) {
	t.Parallel()

	c, _ := newController(t)
	c.sequence = NewSequence(card.Title)
	c.cursor, _ = c.sequence.Head()

	require.True(t, c.IsFirst())
	require.True(t, c.IsLast())
	_, ok := c.Next()
	require.False(t, ok)
}

func TestController_ValidateStateTitle(t *testing.T) {
	t.Parallel()

	c, r := newController(t)

	r[card.Title].SetValue("")
	require.False(t, c.ValidateState())

	r[card.Title].SetValue("Campaign A")
	require.True(t, c.ValidateState())
}

func TestController_InstallsNonEmptyValidators(t *testing.T) {
	t.Parallel()

	_, r := newController(t)
	for _, name := range []card.Name{card.Title, card.Sheet, card.Row, card.DocumentSelector} {
		require.NotNil(t, r[name].Validation(), name)
		require.False(t, card.IsValid(r[name]), name)
	}
	for _, name := range []card.Name{card.To, card.Subject, card.SendNow} {
		require.Nil(t, r[name].Validation(), name)
	}
}

func TestController_CardWithoutValidationIsValid(t *testing.T) {
	t.Parallel()

	c, _ := newController(t)
	for c.Active().Name != card.Subject {
		c.Next()
	}
	require.True(t, c.ValidateState())
}

func TestController_NextDoesNotEnforceValidation(t *testing.T) {
	t.Parallel()

	c, _ := newController(t)
	require.False(t, c.ValidateState())

	_, ok := c.Next()
	require.True(t, ok)
}

func TestController_ConditionalValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		enabled bool
		value   string
		want    bool
	}{
		{"disabled empty", false, "", true},
		{"disabled with value", false, "<<Status>> == sent", true},
		{"enabled empty", true, "", false},
		{"enabled whitespace", true, "   ", true},
		{"enabled with value", true, "<<Status>> == sent", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, r := newController(t)
			cond := r[card.Conditional].(*fakeToggle)
			if tt.enabled {
				cond.Check()
			}
			cond.SetValue(tt.value)
			require.Equal(t, tt.want, card.IsValid(cond))
		})
	}
}

func sampleConfig(conditional *string) mergetemplate.Config {
	return mergetemplate.Config{
		ID:        "cn2abc",
		Owner:     "ops@example.com",
		CreatedAt: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 1, 16, 10, 30, 0, 0, time.UTC),
		Repeating: true,
		MergeData: mergetemplate.MergeData{
			Title:       "Campaign A",
			Sheet:       "Contacts",
			HeaderRow:   "2",
			Conditional: conditional,
			Type:        mergetemplate.TypeDocument,
			Data: mergetemplate.Data{
				To:         "<<Email>>",
				CC:         "lead@example.com",
				BCC:        "archive@example.com",
				Subject:    "Hello <<Name>>",
				DocumentID: "1AbC",
			},
		},
	}
}

func TestController_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, cond := range []*string{nil, mergetemplate.Conditional("<<Status>> == open")} {
		c, r := newController(t)
		want := sampleConfig(cond)

		c.SetMergeTemplate(mergetemplate.New(want))
		require.Equal(t, cond != nil, r[card.Conditional].(card.Toggle).Enabled())
		require.Equal(t, card.Recipients{To: "<<Email>>", CC: "lead@example.com", BCC: "archive@example.com"}, r[card.To].Value())
		require.Equal(t, card.DocumentRef{ID: "1AbC"}, r[card.DocumentSelector].Value())

		got := c.MergeTemplate().ToConfig()
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestController_RoundTripWithWidgets(t *testing.T) {
	t.Parallel()

	c, err := New(card.NewDocumentRegistry(card.Widgets("")))
	require.NoError(t, err)

	for _, cond := range []*string{nil, mergetemplate.Conditional("<<Status>> == open")} {
		want := sampleConfig(cond)
		c.SetMergeTemplate(mergetemplate.New(want))
		if diff := cmp.Diff(want, c.MergeTemplate().ToConfig()); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestController_SetMergeTemplateKeepsCursor(t *testing.T) {
	t.Parallel()

	c, r := newController(t)
	c.Next()
	c.Next()

	c.SetMergeTemplate(mergetemplate.New(sampleConfig(nil)))
	require.Equal(t, card.Row, c.Active().Name)
	require.Equal(t, []card.Name{card.Row}, r.Visible())
}

func TestController_MergeTemplateForcesDocumentType(t *testing.T) {
	t.Parallel()

	c, _ := newController(t)
	cfg := sampleConfig(nil)
	cfg.MergeData.Type = mergetemplate.TypeEmail
	c.SetMergeTemplate(mergetemplate.New(cfg))

	got := c.MergeTemplate()
	require.Equal(t, mergetemplate.TypeDocument, got.Type())
	require.Equal(t, "cn2abc", got.ID())
	require.True(t, got.Repeating())
}

func TestController_MergeTemplateReturnsNewObject(t *testing.T) {
	t.Parallel()

	c, r := newController(t)
	orig := mergetemplate.New(sampleConfig(nil))
	c.SetMergeTemplate(orig)

	r[card.Title].SetValue("Campaign B")
	got := c.MergeTemplate()

	require.Equal(t, "Campaign B", got.Title())
	require.Equal(t, "Campaign A", orig.Title())
}

func TestController_DisabledConditionalIsNil(t *testing.T) {
	t.Parallel()

	c, r := newController(t)
	c.SetMergeTemplate(mergetemplate.New(sampleConfig(mergetemplate.Conditional("x"))))

	r[card.Conditional].(card.Toggle).Uncheck()
	require.Nil(t, c.MergeTemplate().ToConfig().MergeData.Conditional)
}

func TestController_SendNow(t *testing.T) {
	t.Parallel()

	c, r := newController(t)
	require.False(t, c.SendNow())
	r[card.SendNow].SetValue(true)
	require.True(t, c.SendNow())
}

func TestController_RecordsNavigationMetrics(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	c, err := New(fakeRegistry(), WithMetrics(m))
	require.NoError(t, err)

	c.Next()
	c.Next()
	c.Back()
	c.Back()
	c.Back() // no-op

	expected := `
# HELP mailman_card_navigations_total Card flow navigations by direction.
# TYPE mailman_card_navigations_total counter
mailman_card_navigations_total{direction="back"} 2
mailman_card_navigations_total{direction="next"} 2
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "mailman_card_navigations_total"))
}
