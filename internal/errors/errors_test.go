package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{"routing error", "E101", "No route matches path", CategoryRouting},
		{"config error", "E121", "Configuration file not found", CategoryConfig},
		{"server error", "E142", "Invalid navigation message", CategoryServer},
		{"publish error", "E161", "No publish destination", CategoryPublish},
		{"unknown error code", "E999", "Unknown error", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestErrorString(t *testing.T) {
	err := New("E120").Wrap(fmt.Errorf("unexpected EOF"))
	if got := err.Error(); got != "E120: Invalid configuration: unexpected EOF" {
		t.Errorf("Error() = %q", got)
	}

	plain := &Error{Category: CategoryCLI, Message: "route not found"}
	if got := plain.Error(); got != "route not found" {
		t.Errorf("Error() = %q", got)
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := New("E160").Wrap(cause)
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E120") != nil {
		t.Error("FromError(nil) should be nil")
	}

	existing := New("E122")
	wrapped := fmt.Errorf("loading: %w", existing)
	if got := FromError(wrapped, "E120"); got != existing {
		t.Errorf("FromError should return the existing *Error, got %v", got)
	}

	plain := stderrors.New("boom")
	got := FromError(plain, "E140")
	if got.Code != "E140" || got.Wrapped != plain {
		t.Errorf("FromError(plain) = %+v", got)
	}
}

func TestCode(t *testing.T) {
	if got := Code(fmt.Errorf("x: %w", New("E101"))); got != "E101" {
		t.Errorf("Code = %q", got)
	}
	if got := Code(stderrors.New("plain")); got != "" {
		t.Errorf("Code(plain) = %q", got)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("E121").
		WithDetail("No adminshell.json found in /srv/console").
		WithSuggestion("Pass --config with the right path").
		Wrap(stderrors.New("stat failed"))

	out := err.Format()
	for _, want := range []string{
		"ERROR E121: Configuration file not found",
		"No adminshell.json found in /srv/console",
		"Cause: stat failed",
		"Hint: Pass --config with the right path",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Error("Format() contains color codes with colors disabled")
	}
}

func TestMarshalJSON(t *testing.T) {
	err := New("E101").WithDetail("/unknown").Wrap(stderrors.New("no route matches"))

	data, jerr := json.Marshal(err)
	if jerr != nil {
		t.Fatal(jerr)
	}
	var got map[string]string
	if jerr := json.Unmarshal(data, &got); jerr != nil {
		t.Fatal(jerr)
	}
	if got["code"] != "E101" || got["category"] != "routing" || got["detail"] != "/unknown" || got["cause"] != "no route matches" {
		t.Errorf("json = %v", got)
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText(strings.Repeat("word ", 40), 20)
	for _, l := range lines {
		if len(l) > 20 {
			t.Errorf("line %q longer than 20", l)
		}
	}
	if wrapText("", 10) != nil {
		t.Error("wrapText(\"\") should be nil")
	}
}

func TestPrint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	Print(&buf, fmt.Errorf("ctx: %w", New("E180")))
	if !strings.Contains(buf.String(), "ERROR E180: Invalid arguments") {
		t.Errorf("Print = %q", buf.String())
	}

	buf.Reset()
	Print(&buf, stderrors.New("plain failure"))
	if !strings.Contains(buf.String(), "ERROR: plain failure") {
		t.Errorf("Print = %q", buf.String())
	}
}

func TestLookup(t *testing.T) {
	if _, ok := Lookup("E100"); !ok {
		t.Error("E100 should be registered")
	}
	if _, ok := Lookup("E000"); ok {
		t.Error("E000 should not be registered")
	}
}
