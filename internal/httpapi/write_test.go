package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/John-Robertt/robotstxt-go/internal/model"
)

func TestWriteError_JSONShapeAndHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, http.StatusUnprocessableEntity, model.AppError{
		Code:    "CONFIG_VALIDATE_ERROR",
		Message: "envs.staging.Fred 必须是路径字符串或字符串列表，得到 mapping",
		Stage:   "load_config",
		URL:     "https://example.com/robots.yaml",
		Line:    12,
		Snippet: "envs.staging.Fred",
		Hint:    `expected: {"<user-agent>": "<path>" | ["<path>", ...] | []}`,
	})

	if got, want := rr.Code, http.StatusUnprocessableEntity; got != want {
		t.Fatalf("status = %d, want %d", got, want)
	}

	if got, want := rr.Header().Get("Content-Type"), "application/json; charset=utf-8"; got != want {
		t.Fatalf("Content-Type = %q, want %q", got, want)
	}

	var resp model.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v\nbody=%q", err, rr.Body.String())
	}
	if resp.Error.Code != "CONFIG_VALIDATE_ERROR" {
		t.Fatalf("code = %q, want %q", resp.Error.Code, "CONFIG_VALIDATE_ERROR")
	}
	if resp.Error.Stage != "load_config" {
		t.Fatalf("stage = %q, want %q", resp.Error.Stage, "load_config")
	}
	if resp.Error.Line != 12 {
		t.Fatalf("line = %d, want %d", resp.Error.Line, 12)
	}
}

func TestWriteText(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteText(rr, http.StatusOK, "User-agent: *\nDisallow:\n")

	if got, want := rr.Header().Get("Content-Type"), "text/plain; charset=utf-8"; got != want {
		t.Fatalf("Content-Type = %q, want %q", got, want)
	}
	if got, want := rr.Body.String(), "User-agent: *\nDisallow:\n"; got != want {
		t.Fatalf("body = %q, want %q", got, want)
	}
}
