// SPDX-License-Identifier: MPL-2.0

package hosting

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"unicode/utf8"
)

// ErrMalformedResult is the sentinel wrapped by DecodeError.
var ErrMalformedResult = errors.New("malformed deploy result")

type (
	// DecodeError reports tool output that is not a well-formed result document.
	DecodeError struct {
		// Reason describes which rule the output broke.
		Reason string
		// Output is the raw stdout that failed to decode.
		Output []byte
		// Err is the underlying JSON error, if any.
		Err error
	}

	envelope struct {
		Status *Status         `json:"status"`
		Result json.RawMessage `json:"result"`
		Error  *string         `json:"error"`
	}

	wireSite struct {
		Site       *string `json:"site"`
		Target     *string `json:"target"`
		URL        *string `json:"url"`
		ExpireTime *string `json:"expireTime"`
	}
)

// DecodeResult parses deploy tool stdout into a Result.
//
// The status field selects the branch. "success" requires a non-empty result
// object whose sites all carry site, url and expireTime; "error" requires a
// non-empty error string. Anything else, including invalid UTF-8, yields a
// *DecodeError.
func DecodeResult(data []byte) (*Result, error) {
	if !utf8.Valid(data) {
		return nil, &DecodeError{Reason: "output is not valid UTF-8", Output: data}
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, &DecodeError{Reason: "output does not decode as a result document", Output: data, Err: err}
	}

	if env.Status == nil {
		return nil, &DecodeError{Reason: "missing status field", Output: data}
	}

	switch *env.Status {
	case StatusSuccess:
		return decodeSuccess(data, env.Result)
	case StatusError:
		if env.Error == nil || *env.Error == "" {
			return nil, &DecodeError{Reason: `status "error" without an error message`, Output: data}
		}
		return &Result{
			Status:  StatusError,
			Failure: &ErrorResult{Status: StatusError, Error: *env.Error},
		}, nil
	default:
		return nil, &DecodeError{Reason: fmt.Sprintf("unknown status %q", *env.Status), Output: data}
	}
}

func decodeSuccess(data []byte, raw json.RawMessage) (*Result, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, &DecodeError{Reason: `status "success" without a result object`, Output: data}
	}

	var sites map[string]wireSite
	if err := json.Unmarshal(raw, &sites); err != nil {
		return nil, &DecodeError{Reason: "result is not an object of site records", Output: data, Err: err}
	}
	if len(sites) == 0 {
		return nil, &DecodeError{Reason: "result lists no sites", Output: data}
	}

	result := make(map[string]SiteDeploy, len(sites))
	for _, key := range slices.Sorted(maps.Keys(sites)) {
		site, err := sites[key].toSiteDeploy()
		if err != nil {
			return nil, &DecodeError{Reason: fmt.Sprintf("site %q: %s", key, err), Output: data}
		}
		result[key] = site
	}

	return &Result{
		Status:  StatusSuccess,
		Success: &SuccessResult{Status: StatusSuccess, Result: result},
	}, nil
}

func (w wireSite) toSiteDeploy() (SiteDeploy, error) {
	var missing []string
	if w.Site == nil || *w.Site == "" {
		missing = append(missing, "site")
	}
	if w.URL == nil || *w.URL == "" {
		missing = append(missing, "url")
	}
	if w.ExpireTime == nil || *w.ExpireTime == "" {
		missing = append(missing, "expireTime")
	}
	if len(missing) > 0 {
		return SiteDeploy{}, fmt.Errorf("missing %v", missing)
	}

	site := SiteDeploy{Site: *w.Site, URL: *w.URL, ExpireTime: *w.ExpireTime}
	if w.Target != nil {
		site.Target = *w.Target
	}
	return site, nil
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrMalformedResult, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrMalformedResult, e.Reason)
}

// Unwrap returns ErrMalformedResult and the underlying JSON error, if any.
func (e *DecodeError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrMalformedResult, e.Err}
	}
	return []error{ErrMalformedResult}
}
