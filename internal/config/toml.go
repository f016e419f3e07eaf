// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"

	"cuelang.org/go/cue/cuecontext"
	"github.com/pelletier/go-toml/v2"
)

// decodeTOML parses a TOML config and validates it against the same #Config
// schema as CUE files.
func decodeTOML(data []byte, path string) (map[string]any, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return nil, fmt.Errorf("%s:%d:%d: %s", path, row, col, decodeErr.Error())
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	ctx := cuecontext.New()
	value := ctx.Encode(raw)
	if value.Err() != nil {
		return nil, formatCUEError(value.Err(), path)
	}
	return validateAgainstSchema(ctx, value, path)
}

// GenerateTOML generates a TOML representation of the configuration.
func GenerateTOML(cfg *Config) ([]byte, error) {
	out, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config as TOML: %w", err)
	}
	return append([]byte("# chandeploy configuration file\n\n"), out...), nil
}
