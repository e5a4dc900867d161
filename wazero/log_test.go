package wazero

import (
	"log/slog"
	"testing"
	"time"
)

func TestPackUnpackPtrLen(t *testing.T) {
	tests := []struct {
		name   string
		ptr    uint32
		length uint32
	}{
		{"Zero", 0, 0},
		{"Small", 16, 128},
		{"Max", ^uint32(0), ^uint32(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ptr, length := UnpackPtrLen(PackPtrLen(tt.ptr, tt.length))
			if ptr != tt.ptr || length != tt.length {
				t.Errorf("round trip got (%d, %d), want (%d, %d)", ptr, length, tt.ptr, tt.length)
			}
		})
	}
}

func TestConvertSingleAttr(t *testing.T) {
	tests := []struct {
		name string
		attr LogAttr
		want slog.Attr
	}{
		{"String", LogAttr{Key: "k", Type: "string", Value: "v"}, slog.String("k", "v")},
		{"Int64", LogAttr{Key: "n", Type: "int64", Value: "42"}, slog.Int64("n", 42)},
		{"Bool", LogAttr{Key: "b", Type: "bool", Value: "true"}, slog.Bool("b", true)},
		{"Float64", LogAttr{Key: "f", Type: "float64", Value: "1.5"}, slog.Float64("f", 1.5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := convertSingleAttr(tt.attr)
			if !got.Equal(tt.want) {
				t.Errorf("convertSingleAttr() = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("Time", func(t *testing.T) {
		now := time.Now().UTC().Truncate(time.Second)
		got := convertSingleAttr(LogAttr{Key: "t", Type: "time", Value: now.Format(time.RFC3339Nano)})
		if !got.Equal(slog.Time("t", now)) {
			t.Errorf("convertSingleAttr() = %v", got)
		}
	})

	t.Run("UnparsableFallsBackToAny", func(t *testing.T) {
		got := convertSingleAttr(LogAttr{Key: "n", Type: "int64", Value: "not-a-number"})
		if got.Key != "n" || got.Value.String() != "not-a-number" {
			t.Errorf("convertSingleAttr() = %v", got)
		}
	})
}
