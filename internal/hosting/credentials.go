// SPDX-License-Identifier: MPL-2.0

package hosting

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/chandeploy/chandeploy/pkg/types"
)

// ErrInvalidCredentials is returned when inline credentials are not a JSON object.
var ErrInvalidCredentials = errors.New("invalid service account credentials")

// WriteCredentialsFile writes inline service account JSON to a new file in dir
// (the OS temp dir when empty) and returns its path with a cleanup function
// that removes it. The file is created with mode 0600.
func WriteCredentialsFile(dir, content string) (types.FilesystemPath, func() error, error) {
	trimmed := bytes.TrimSpace([]byte(content))
	if len(trimmed) == 0 || trimmed[0] != '{' || !json.Valid(trimmed) {
		return "", nil, fmt.Errorf("%w: expected a JSON object", ErrInvalidCredentials)
	}

	f, err := os.CreateTemp(dir, "chandeploy-gac-*.json")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create credentials file: %w", err)
	}
	path := f.Name()

	if _, err := f.Write(trimmed); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", nil, fmt.Errorf("failed to write credentials file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, fmt.Errorf("failed to write credentials file: %w", err)
	}

	cleanup := func() error {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove credentials file: %w", err)
		}
		return nil
	}
	return types.FilesystemPath(path), cleanup, nil
}
