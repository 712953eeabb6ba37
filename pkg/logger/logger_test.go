package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLevel(t *testing.T) {
	l, err := New("debug")
	if err != nil {
		t.Fatalf("New(debug) = %v", err)
	}
	if !l.Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("debug level not enabled")
	}

	if _, err := New("loud"); err == nil {
		t.Fatal("invalid level accepted")
	}
}

func TestNamedNilBase(t *testing.T) {
	if Named(nil, "x") == nil {
		t.Fatal("Named(nil) returned nil")
	}
}
