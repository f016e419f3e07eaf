// SPDX-License-Identifier: MPL-2.0

package process

import (
	"maps"
	"os"
	"slices"
)

type (
	// EnvBuilder builds the environment handed to a child process.
	//
	// The result contains every entry of base, in order, except entries whose
	// name appears in overrides; the overrides follow, sorted by name. An
	// override therefore replaces an inherited variable instead of shadowing it.
	EnvBuilder interface {
		Build(base []string, overrides map[string]string) []string
	}

	// DefaultEnvBuilder implements EnvBuilder with override-wins semantics.
	DefaultEnvBuilder struct{}

	// MockEnvBuilder is a test helper that returns a fixed environment.
	MockEnvBuilder struct {
		// Env is returned from Build regardless of its inputs.
		Env []string
	}
)

// NewDefaultEnvBuilder creates a new DefaultEnvBuilder.
func NewDefaultEnvBuilder() *DefaultEnvBuilder {
	return &DefaultEnvBuilder{}
}

// Build merges overrides into base.
func (b *DefaultEnvBuilder) Build(base []string, overrides map[string]string) []string {
	env := make([]string, 0, len(base)+len(overrides))
	for _, entry := range base {
		name, _, ok := splitEnvEntry(entry)
		if ok {
			if _, replaced := overrides[name]; replaced {
				continue
			}
		}
		env = append(env, entry)
	}

	for _, name := range slices.Sorted(maps.Keys(overrides)) {
		env = append(env, name+"="+overrides[name])
	}
	return env
}

// Build returns a copy of the configured environment.
func (m *MockEnvBuilder) Build(_ []string, _ map[string]string) []string {
	return slices.Clone(m.Env)
}

// Snapshot returns a copy of the current process environment.
// It is the default base for EnvBuilder when callers do not supply one.
func Snapshot() []string {
	return os.Environ()
}

// EnvToMap converts KEY=VALUE entries to a map. Later entries win.
// Entries without a name (such as Windows "=C:=C:\" drive entries) are skipped.
func EnvToMap(env []string) map[string]string {
	result := make(map[string]string, len(env))
	for _, entry := range env {
		name, value, ok := splitEnvEntry(entry)
		if !ok {
			continue
		}
		result[name] = value
	}
	return result
}

// splitEnvEntry splits a KEY=VALUE entry. It reports false for malformed
// entries and for entries whose name is empty.
func splitEnvEntry(entry string) (name, value string, ok bool) {
	for i := 0; i < len(entry); i++ {
		if entry[i] == '=' {
			if i == 0 {
				return "", "", false
			}
			return entry[:i], entry[i+1:], true
		}
	}
	return "", "", false
}
