package logger

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestNew_Level(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		l := New(tt.in, false)
		if l.GetLevel() != tt.want {
			t.Errorf("New(%q) level = %s, want %s", tt.in, l.GetLevel(), tt.want)
		}
	}
}
