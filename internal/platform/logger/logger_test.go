package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLogger_JSON_MergesBaseAndFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Info, Format: FormatJSON, App: "union-ganadera", Output: &buf})
	l.(*StdLogger).now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

	l.With(map[string]any{"request_id": "r-1"}).Info("event submitted", map[string]any{
		"kind": "weight",
		"err":  errors.New("boom"),
	})

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json line %q: %v", buf.String(), err)
	}
	if got["app"] != "union-ganadera" || got["request_id"] != "r-1" || got["kind"] != "weight" {
		t.Fatalf("unexpected fields: %#v", got)
	}
	if got["err"] != "boom" {
		t.Fatalf("expected error to be rendered as string, got %#v", got["err"])
	}
	if got["ts"] != "2026-01-01T00:00:00Z" {
		t.Fatalf("unexpected ts %v", got["ts"])
	}
}

func TestLogger_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Warn, Output: &buf})

	l.Info("hidden", nil)
	l.Warn("shown", map[string]any{"b": 2, "a": 1})

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered: %q", out)
	}
	if !strings.Contains(out, "a=1 b=2") {
		t.Fatalf("expected sorted text fields, got %q", out)
	}
}

func TestParseLevel_DefaultsToInfo(t *testing.T) {
	if ParseLevel("") != Info || ParseLevel("nope") != Info {
		t.Fatalf("expected info default")
	}
	if ParseLevel("WARNING") != Warn {
		t.Fatalf("expected warn")
	}
}
