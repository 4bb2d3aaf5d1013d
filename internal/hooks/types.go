package hooks

// Config is the top-level configuration loaded from .mailman.hooks.yml.
type Config struct {
	Version int         `yaml:"version"`
	Hooks   HooksConfig `yaml:"hooks"`
}

// HooksConfig lists the hooks per merge event.
type HooksConfig struct {
	PostSave []*HookConfig `yaml:"post_save"`
	PostRun  []*HookConfig `yaml:"post_run"`
}

// HookConfig defines a single hook's configuration.
type HookConfig struct {
	Command string `yaml:"command"`
	Timeout int    `yaml:"timeout"` // seconds, default 30
}

// DefaultTimeout is the default timeout for hook execution in seconds.
const DefaultTimeout = 30

// Event names a point in a merge's life where hooks run.
type Event string

const (
	PostSave Event = "post_save"
	PostRun  Event = "post_run"
)

// For returns the hooks configured for e. A nil Config has none.
func (c *Config) For(e Event) []*HookConfig {
	if c == nil {
		return nil
	}
	switch e {
	case PostSave:
		return c.Hooks.PostSave
	case PostRun:
		return c.Hooks.PostRun
	}
	return nil
}
