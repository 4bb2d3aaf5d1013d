// Package hooks runs user shell commands after a merge is saved or run.
package hooks

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/mark3labs/mailman/internal/logger"
	"github.com/mark3labs/mailman/internal/mergetemplate"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the hooks configuration file.
const ConfigFileName = ".mailman.hooks.yml"

// LoadConfig loads the hooks configuration from dir.
// Returns nil if the config file doesn't exist (hooks are optional).
// Returns an error only if the file exists but cannot be parsed.
func LoadConfig(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ConfigFileName)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("No hooks config found at %s", configPath)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read hooks config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse hooks config: %w", err)
	}

	logger.Debug("Loaded hooks config from %s (version: %d)", configPath, cfg.Version)
	return &cfg, nil
}

// Variables are expanded in hook commands as {{id}}, {{title}},
// {{sheet}} and {{type}}.
type Variables struct {
	ID    string
	Title string
	Sheet string
	Type  string
}

// VariablesFor returns the variables describing t.
func VariablesFor(t *mergetemplate.Template) Variables {
	cfg := t.ToConfig()
	return Variables{
		ID:    cfg.ID,
		Title: cfg.MergeData.Title,
		Sheet: cfg.MergeData.Sheet,
		Type:  cfg.MergeData.Type,
	}
}

// Result is the outcome of one or more hooks. Failed is set when any
// command exited non-zero or timed out; Output then describes the problem.
type Result struct {
	Output string
	Failed bool
}

// Execute runs a hook command and returns its output.
// On failure or timeout the result is marked failed and the error is nil.
// Only context cancellation is returned as an error.
func Execute(ctx context.Context, hook *HookConfig, dir string, vars Variables) (Result, error) {
	if hook == nil || hook.Command == "" {
		return Result{}, nil
	}

	command := expandVariables(hook.Command, vars)
	logger.Debug("Executing hook command: %s", command)

	timeout := hook.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	execCtx, cancel := context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
	defer cancel()

	cmd := exec.CommandContext(execCtx, "sh", "-c", command)
	cmd.Dir = dir
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	if ctx.Err() != nil {
		return Result{}, ctx.Err()
	}

	if execCtx.Err() == context.DeadlineExceeded {
		logger.Warn("Hook command timed out after %ds: %s", timeout, command)
		return Result{
			Output: fmt.Sprintf("[Hook timed out after %ds]\nPartial output:\n%s", timeout, stdout.String()),
			Failed: true,
		}, nil
	}

	if err != nil {
		logger.Warn("Hook command failed: %v", err)
		output := stdout.String()
		if stderr.Len() > 0 {
			output += "\n[stderr]\n" + stderr.String()
		}
		return Result{Output: fmt.Sprintf("[Hook command failed: %v]\n%s", err, output), Failed: true}, nil
	}

	output := stdout.String()
	if stderr.Len() > 0 {
		logger.Debug("Hook stderr: %s", stderr.String())
		output += "\n[stderr]\n" + stderr.String()
	}

	logger.Debug("Hook executed successfully, output length: %d bytes", len(output))
	return Result{Output: output}, nil
}

// ExecuteAll runs hooks in order and joins their non-empty outputs with a
// blank line. The result is failed when any hook failed.
func ExecuteAll(ctx context.Context, hooks []*HookConfig, dir string, vars Variables) (Result, error) {
	var (
		outputs []string
		failed  bool
	)
	for _, h := range hooks {
		res, err := Execute(ctx, h, dir, vars)
		if err != nil {
			return Result{}, err
		}
		failed = failed || res.Failed
		if res.Output != "" {
			outputs = append(outputs, res.Output)
		}
	}
	return Result{Output: strings.Join(outputs, "\n"), Failed: failed}, nil
}

func expandVariables(command string, vars Variables) string {
	return strings.NewReplacer(
		"{{id}}", vars.ID,
		"{{title}}", vars.Title,
		"{{sheet}}", vars.Sheet,
		"{{type}}", vars.Type,
	).Replace(command)
}
