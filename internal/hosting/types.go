// SPDX-License-Identifier: MPL-2.0

package hosting

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	// StatusSuccess marks a result whose Result map lists the deployed sites.
	StatusSuccess Status = "success"
	// StatusError marks a result whose Error field carries the tool's message.
	StatusError Status = "error"
)

var (
	// ErrDeployFailed is the sentinel wrapped by ToolError.
	ErrDeployFailed = errors.New("deploy failed")
	// ErrInvalidDeployConfig is the sentinel wrapped by InvalidDeployConfigError.
	ErrInvalidDeployConfig = errors.New("invalid deploy config")
)

type (
	// Status discriminates the two result shapes printed by the deploy tool.
	Status string

	// DeployConfig holds the caller-supplied channel deploy parameters.
	DeployConfig struct {
		// ProjectID selects the Firebase project. Empty uses the tool's default project.
		ProjectID string `json:"projectId,omitempty" yaml:"projectId,omitempty"`
		// Expires is accepted for compatibility and never forwarded to the tool.
		Expires string `json:"expires,omitempty" yaml:"expires,omitempty"`
		// ChannelID names the preview channel to deploy to.
		ChannelID string `json:"channelId" yaml:"channelId"`
	}

	// InvalidDeployConfigError is returned when a DeployConfig cannot be deployed.
	InvalidDeployConfigError struct {
		Reason string
	}

	// SiteDeploy describes one deployed site.
	SiteDeploy struct {
		Site       string `json:"site" yaml:"site"`
		Target     string `json:"target,omitempty" yaml:"target,omitempty"`
		URL        string `json:"url" yaml:"url"`
		ExpireTime string `json:"expireTime" yaml:"expireTime"`
	}

	// SuccessResult is printed when every site deployed.
	SuccessResult struct {
		Status Status                `json:"status" yaml:"status"`
		Result map[string]SiteDeploy `json:"result" yaml:"result"`
	}

	// ErrorResult is printed when the tool ran but the deployment failed.
	ErrorResult struct {
		Status Status `json:"status" yaml:"status"`
		Error  string `json:"error" yaml:"error"`
	}

	// Result is the decoded tool output. Exactly one of Success and Failure is
	// non-nil, selected by Status.
	Result struct {
		Status  Status
		Success *SuccessResult
		Failure *ErrorResult
	}

	// ToolError reports a deployment the tool itself marked as failed.
	ToolError struct {
		Message string
	}
)

// Validate returns an error if the configuration cannot be turned into a deploy invocation.
func (c DeployConfig) Validate() error {
	if strings.TrimSpace(c.ChannelID) == "" {
		return &InvalidDeployConfigError{Reason: "channel id must not be empty"}
	}
	if strings.HasPrefix(c.ChannelID, "-") {
		return &InvalidDeployConfigError{Reason: fmt.Sprintf("channel id %q must not start with '-'", c.ChannelID)}
	}
	if c.ProjectID != "" && strings.TrimSpace(c.ProjectID) == "" {
		return &InvalidDeployConfigError{Reason: "project id must not be whitespace-only"}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidDeployConfigError) Error() string {
	return "invalid deploy config: " + e.Reason
}

// Unwrap returns ErrInvalidDeployConfig for errors.Is() compatibility.
func (e *InvalidDeployConfigError) Unwrap() error { return ErrInvalidDeployConfig }

// String returns the string representation of the Status.
func (s Status) String() string { return string(s) }

// IsSuccess reports whether the deployment succeeded.
func (r *Result) IsSuccess() bool {
	return r != nil && r.Status == StatusSuccess && r.Success != nil
}

// Err returns nil for a successful result and a *ToolError otherwise.
func (r *Result) Err() error {
	if r.IsSuccess() {
		return nil
	}
	if r == nil || r.Failure == nil {
		return &ToolError{Message: "no result"}
	}
	return &ToolError{Message: r.Failure.Error}
}

// Value returns the active branch, for encoders that should see the tool's own shape.
func (r *Result) Value() any {
	if r.IsSuccess() {
		return r.Success
	}
	return r.Failure
}

// MarshalJSON encodes the active branch in the tool's wire format.
func (r *Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Value())
}

// Error implements the error interface.
func (e *ToolError) Error() string {
	return "deploy failed: " + e.Message
}

// Unwrap returns ErrDeployFailed for errors.Is() compatibility.
func (e *ToolError) Unwrap() error { return ErrDeployFailed }
