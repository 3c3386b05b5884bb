package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestInitLevels(t *testing.T) {
	tests := []struct {
		in   string
		want logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"warn", logrus.WarnLevel},
		{"", logrus.InfoLevel},
		{"loud", logrus.InfoLevel},
	}
	for _, tc := range tests {
		Init(tc.in)
		if got := Logger.GetLevel(); got != tc.want {
			t.Fatalf("Init(%q) level = %v, want %v", tc.in, got, tc.want)
		}
	}
}
