package xlog_test

import (
	"errors"
	"testing"

	"github.com/omeyang/xrxtrace/pkg/observability/xlog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    xlog.Level
		wantErr bool
	}{
		{"debug", xlog.LevelDebug, false},
		{" INFO ", xlog.LevelInfo, false},
		{"warn", xlog.LevelWarn, false},
		{"Warning", xlog.LevelWarn, false},
		{"error", xlog.LevelError, false},
		{"trace", xlog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := xlog.ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLevel_Text(t *testing.T) {
	for _, l := range []xlog.Level{xlog.LevelDebug, xlog.LevelInfo, xlog.LevelWarn, xlog.LevelError} {
		b, err := l.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var back xlog.Level
		if err := back.UnmarshalText(b); err != nil {
			t.Fatal(err)
		}
		if back != l {
			t.Errorf("text round trip %v -> %v", l, back)
		}
	}

	if got := xlog.Level(2).String(); got != "INFO+2" {
		t.Errorf("Level(2).String() = %q", got)
	}
	var l xlog.Level
	if err := l.UnmarshalText([]byte("nope")); !errors.Is(err, xlog.ErrUnknownLevel) {
		t.Errorf("UnmarshalText(nope) error = %v, want ErrUnknownLevel", err)
	}
}
