package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func initTestLogger(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	if err := Init(Config{Level: LevelDebug, Format: "json", Output: &buf}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return &buf
}

func TestStartPhaseThenEndPhaseLogsElapsed(t *testing.T) {
	buf := initTestLogger(t)

	started := StartPhase("eval")
	EndPhase("eval", started)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d: %q", len(lines), buf.String())
	}

	var complete map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &complete); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if complete["phase"] != "eval" {
		t.Errorf("got phase=%v, want eval", complete["phase"])
	}
	if _, ok := complete["elapsed"]; !ok {
		t.Error("expected an elapsed field on the phase-complete record")
	}
}

func TestLogBindRecordsPatternAndStrength(t *testing.T) {
	buf := initTestLogger(t)

	LogBind("square x", "perfect")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rec["pattern"] != "square x" || rec["strength"] != "perfect" {
		t.Errorf("got %v", rec)
	}
}

func TestDebugIsNoopBeforeInit(t *testing.T) {
	defaultLogger = nil
	Debug("should not panic")
}
