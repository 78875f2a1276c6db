package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevels(t *testing.T) {
	tests := []struct {
		level     Level
		wantDebug bool
		wantInfo  bool
	}{
		{LevelOff, false, false},
		{LevelNormal, false, true},
		{LevelVerbose, true, true},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		log := New(tt.level, &buf)
		log.Debug("dbg line")
		log.Info("inf line")

		out := buf.String()
		if got := strings.Contains(out, "dbg line"); got != tt.wantDebug {
			t.Fatalf("level %d: debug written=%v, want %v", tt.level, got, tt.wantDebug)
		}
		if got := strings.Contains(out, "inf line"); got != tt.wantInfo {
			t.Fatalf("level %d: info written=%v, want %v", tt.level, got, tt.wantInfo)
		}
	}
}

func TestNamedSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	root := New(LevelOff, &buf)
	child := root.Named("engine").Named("load")

	child.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected no output at LevelOff, got %q", buf.String())
	}

	root.SetLevel(LevelNormal)
	if got := child.GetLevel(); got != LevelNormal {
		t.Fatalf("child level = %v, want %v", got, LevelNormal)
	}
	child.Warn("resolved %d", 3)

	if !strings.Contains(buf.String(), "[WRN] ") {
		t.Fatalf("missing level tag: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "engine.load: resolved 3") {
		t.Fatalf("missing prefixed message: %q", buf.String())
	}
}
