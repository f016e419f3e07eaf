// SPDX-License-Identifier: MPL-2.0

package hosting

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestDecodeResult_Success(t *testing.T) {
	t.Parallel()

	out := `{"status":"success","result":{"site-a":{"site":"site-a","url":"https://x","expireTime":"2020-01-01T00:00:00Z"}}}`

	res, err := DecodeResult([]byte(out))
	if err != nil {
		t.Fatalf("DecodeResult() unexpected error: %v", err)
	}
	if res.Status != StatusSuccess || !res.IsSuccess() {
		t.Fatalf("Status = %q, want success", res.Status)
	}
	if res.Failure != nil {
		t.Error("Failure branch should be nil on success")
	}
	site, ok := res.Success.Result["site-a"]
	if !ok {
		t.Fatal(`Result["site-a"] missing`)
	}
	if site.URL != "https://x" {
		t.Errorf("URL = %q, want %q", site.URL, "https://x")
	}
	if site.Target != "" {
		t.Errorf("Target = %q, want empty", site.Target)
	}
	if err := res.Err(); err != nil {
		t.Errorf("Err() = %v, want nil", err)
	}
}

func TestDecodeResult_SuccessWithTarget(t *testing.T) {
	t.Parallel()

	out := `{"status":"success","result":{
		"app":{"site":"my-app","target":"web","url":"https://my-app--pr1.web.app","expireTime":"2021-02-03T04:05:06Z"},
		"docs":{"site":"my-docs","url":"https://my-docs--pr1.web.app","expireTime":"2021-02-03T04:05:06Z"}}}`

	res, err := DecodeResult([]byte(out))
	if err != nil {
		t.Fatalf("DecodeResult() unexpected error: %v", err)
	}
	if got := len(res.Success.Result); got != 2 {
		t.Fatalf("len(Result) = %d, want 2", got)
	}
	if got := res.Success.Result["app"].Target; got != "web" {
		t.Errorf("Target = %q, want %q", got, "web")
	}
}

func TestDecodeResult_Error(t *testing.T) {
	t.Parallel()

	res, err := DecodeResult([]byte(`{"status":"error","error":"boom"}`))
	if err != nil {
		t.Fatalf("DecodeResult() unexpected error: %v", err)
	}
	if res.Status != StatusError {
		t.Fatalf("Status = %q, want error", res.Status)
	}
	if res.IsSuccess() {
		t.Error("IsSuccess() = true for error result")
	}
	if res.Failure.Error != "boom" {
		t.Errorf("Error = %q, want %q", res.Failure.Error, "boom")
	}

	toolErr := res.Err()
	if !errors.Is(toolErr, ErrDeployFailed) {
		t.Errorf("Err() = %v, want ErrDeployFailed", toolErr)
	}
	if !strings.Contains(toolErr.Error(), "boom") {
		t.Errorf("Err() message = %q, want it to mention boom", toolErr)
	}
}

func TestDecodeResult_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		out        string
		wantReason string
	}{
		{"empty output", "", "does not decode as a result document"},
		{"syntax error", `{"status":`, "does not decode as a result document"},
		{"array", `[]`, "does not decode as a result document"},
		{"null", `null`, "missing status"},
		{"no status", `{"result":{}}`, "missing status"},
		{"numeric status", `{"status":1}`, "does not decode as a result document"},
		{"unknown status", `{"status":"pending"}`, `unknown status "pending"`},
		{"success without result", `{"status":"success"}`, "without a result object"},
		{"success with null result", `{"status":"success","result":null}`, "without a result object"},
		{"success with empty result", `{"status":"success","result":{}}`, "lists no sites"},
		{"success with array result", `{"status":"success","result":[]}`, "not an object of site records"},
		{"site missing url", `{"status":"success","result":{"a":{"site":"a","expireTime":"t"}}}`, `site "a": missing [url]`},
		{"site missing everything", `{"status":"success","result":{"a":{}}}`, "missing [site url expireTime]"},
		{"site with empty url", `{"status":"success","result":{"a":{"site":"a","url":"","expireTime":"t"}}}`, "missing [url]"},
		{"error without message", `{"status":"error"}`, "without an error message"},
		{"error with empty message", `{"status":"error","error":""}`, "without an error message"},
		{"invalid utf8", "{\"status\":\"error\",\"error\":\"\xff\"}", "not valid UTF-8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := DecodeResult([]byte(tt.out))
			if err == nil {
				t.Fatalf("DecodeResult(%q) = %+v, want error", tt.out, res)
			}
			if !errors.Is(err, ErrMalformedResult) {
				t.Errorf("error should wrap ErrMalformedResult, got: %v", err)
			}

			var decErr *DecodeError
			if !errors.As(err, &decErr) {
				t.Fatalf("error should be *DecodeError, got %T", err)
			}
			if !strings.Contains(decErr.Reason, tt.wantReason) {
				t.Errorf("Reason = %q, want it to contain %q", decErr.Reason, tt.wantReason)
			}
			if string(decErr.Output) != tt.out {
				t.Errorf("Output = %q, want raw tool output", decErr.Output)
			}
		})
	}
}

func TestDecodeError_UnwrapsJSONError(t *testing.T) {
	t.Parallel()

	_, err := DecodeResult([]byte(`{"status":`))

	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Errorf("error should expose *json.SyntaxError, got %v", err)
	}
}

func TestResult_MarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
	}{
		{"success", `{"status":"success","result":{"site-a":{"site":"site-a","target":"web","url":"https://x","expireTime":"2020-01-01T00:00:00Z"}}}`},
		{"error", `{"status":"error","error":"boom"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := DecodeResult([]byte(tt.in))
			if err != nil {
				t.Fatalf("DecodeResult() unexpected error: %v", err)
			}
			got, err := json.Marshal(res)
			if err != nil {
				t.Fatalf("json.Marshal() unexpected error: %v", err)
			}
			if string(got) != tt.in {
				t.Errorf("json.Marshal() = %s, want %s", got, tt.in)
			}
		})
	}
}

func TestResult_ErrOnNil(t *testing.T) {
	t.Parallel()

	var res *Result
	if res.IsSuccess() {
		t.Error("nil result must not be successful")
	}
	if err := res.Err(); !errors.Is(err, ErrDeployFailed) {
		t.Errorf("nil Result.Err() = %v, want ErrDeployFailed", err)
	}
}
