package cardflow

import "github.com/mark3labs/mailman/internal/card"

type fakeCard struct {
	name     card.Name
	visible  bool
	value    any
	validate card.Validation
	shows    int
	hides    int
}

func (f *fakeCard) Name() card.Name { return f.name }

func (f *fakeCard) Show() {
	f.visible = true
	f.shows++
}

func (f *fakeCard) Hide() {
	f.visible = false
	f.hides++
}

func (f *fakeCard) Visible() bool                    { return f.visible }
func (f *fakeCard) Value() any                       { return f.value }
func (f *fakeCard) SetValue(v any)                   { f.value = v }
func (f *fakeCard) SetValidation(fn card.Validation) { f.validate = fn }
func (f *fakeCard) Validation() card.Validation      { return f.validate }

type fakeToggle struct {
	fakeCard
	enabled bool
}

func (f *fakeToggle) Check()        { f.enabled = true }
func (f *fakeToggle) Uncheck()      { f.enabled = false }
func (f *fakeToggle) Enabled() bool { return f.enabled }

func fakeRegistry() card.Registry {
	r := card.Registry{}
	for _, name := range DocumentFlow {
		if name == card.Conditional {
			r[name] = &fakeToggle{fakeCard: fakeCard{name: name}}
			continue
		}
		r[name] = &fakeCard{name: name}
	}
	return r
}
