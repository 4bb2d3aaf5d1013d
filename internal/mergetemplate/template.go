// Package mergetemplate defines the merge template configured by the card
// flow and listed by the template view.
package mergetemplate

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Merge types.
const (
	TypeDocument = "document"
	TypeEmail    = "email"
)

// Data holds the delivery fields of a merge.
type Data struct {
	To         string `json:"to" yaml:"to"`
	CC         string `json:"cc" yaml:"cc"`
	BCC        string `json:"bcc" yaml:"bcc"`
	Subject    string `json:"subject" yaml:"subject"`
	DocumentID string `json:"documentID" yaml:"documentID"`
}

// MergeData is the part of a template the card flow edits.
type MergeData struct {
	Title     string `json:"title" yaml:"title"`
	Sheet     string `json:"sheet" yaml:"sheet"`
	HeaderRow string `json:"headerRow" yaml:"headerRow"`
	// Conditional is nil when the merge runs for every row.
	Conditional *string `json:"conditional" yaml:"conditional"`
	Type        string  `json:"type" yaml:"type"`
	Data        Data    `json:"data" yaml:"data"`
}

// Config is the serializable form of a template. Fields outside MergeData
// belong to the caller and survive an edit untouched.
type Config struct {
	ID        string    `json:"id,omitempty" yaml:"id,omitempty"`
	Owner     string    `json:"owner,omitempty" yaml:"owner,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
	Repeating bool      `json:"repeating" yaml:"repeating"`
	MergeData MergeData `json:"mergeData" yaml:"mergeData"`
}

// Template wraps a Config. It is treated as immutable once built: edits
// produce a new Template.
type Template struct {
	cfg Config
}

// New builds a template from a configuration.
func New(cfg Config) *Template {
	return &Template{cfg: cfg.Clone()}
}

// ToConfig returns a copy of the template's configuration.
func (t *Template) ToConfig() Config {
	if t == nil {
		return Config{}
	}
	return t.cfg.Clone()
}

// ID returns the template identifier.
func (t *Template) ID() string { return t.cfg.ID }

// Title returns the merge title.
func (t *Template) Title() string { return t.cfg.MergeData.Title }

// Type returns the merge type.
func (t *Template) Type() string { return t.cfg.MergeData.Type }

// Repeating reports whether the merge is scheduled to repeat.
func (t *Template) Repeating() bool { return t.cfg.Repeating }

// Clone returns a copy that shares nothing mutable with c.
func (c Config) Clone() Config {
	out := c
	if c.MergeData.Conditional != nil {
		cond := *c.MergeData.Conditional
		out.MergeData.Conditional = &cond
	}
	return out
}

// Conditional returns a pointer to s, for building configs inline.
func Conditional(s string) *string {
	return &s
}

// MarshalJSON encodes the template as its configuration.
func (t *Template) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.cfg)
}

// UnmarshalJSON decodes a configuration into the template.
func (t *Template) UnmarshalJSON(data []byte) error {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("decoding merge template: %w", err)
	}
	t.cfg = cfg
	return nil
}

// YAML renders the configuration as YAML, used for previews and exports.
func (t *Template) YAML() ([]byte, error) {
	data, err := yaml.Marshal(t.cfg)
	if err != nil {
		return nil, fmt.Errorf("encoding merge template: %w", err)
	}
	return data, nil
}
