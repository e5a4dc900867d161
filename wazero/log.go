// Package wazero bridges guest-side provider logging and memory passing
// conventions to the host.
package wazero

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/tetratelabs/wazero/api"
)

// LogMessage is the wire form of a guest log record, JSON-encoded in
// guest memory.
type LogMessage struct {
	Level   string    `json:"level"`
	Message string    `json:"message"`
	Attrs   []LogAttr `json:"attrs,omitempty"`
}

// LogAttr is one typed key/value pair on a guest log record.
type LogAttr struct {
	Key   string `json:"key"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

// PackPtrLen packs a guest pointer and length into one uint64, pointer
// in the high half.
func PackPtrLen(ptr, length uint32) uint64 {
	return uint64(ptr)<<32 | uint64(length)
}

// UnpackPtrLen splits a packed guest pointer/length pair.
func UnpackPtrLen(packed uint64) (ptr, length uint32) {
	//nolint:gosec // WASM pointers and lengths are 32-bit
	return uint32(packed >> 32), uint32(packed)
}

// Log implements the `log_message` host function: it receives a packed
// pointer to a JSON-encoded LogMessage and forwards it to logger.
func Log(logger *slog.Logger) api.GoModuleFunc {
	return func(ctx context.Context, mod api.Module, stack []uint64) {
		logMsg, ok := readLogMessage(ctx, logger, mod, stack[0])
		if !ok {
			return
		}
		logger.LogAttrs(ctx, parseLogLevel(logger, logMsg.Level), logMsg.Message, convertLogAttrs(logMsg.Attrs)...)
	}
}

// readLogMessage reads and unmarshals the log message from guest memory.
func readLogMessage(ctx context.Context, logger *slog.Logger, mod api.Module, packed uint64) (*LogMessage, bool) {
	ptr, length := UnpackPtrLen(packed)

	messageBytes, ok := mod.Memory().Read(ptr, length)
	if !ok {
		logger.ErrorContext(ctx, "wazero: failed to read log message from guest memory")
		return nil, false
	}

	var logMsg LogMessage
	if err := json.Unmarshal(messageBytes, &logMsg); err != nil {
		logger.ErrorContext(ctx, "wazero: failed to unmarshal log message", "error", err)
		return nil, false
	}

	return &logMsg, true
}

// parseLogLevel converts a string level to slog.Level.
func parseLogLevel(logger *slog.Logger, levelStr string) slog.Level {
	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		logger.Warn("wazero: unknown log level from provider", "level", levelStr)
	}
	return level
}

// convertLogAttrs converts wire attributes to slog.Attr slice.
func convertLogAttrs(wireAttrs []LogAttr) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(wireAttrs))
	for _, attr := range wireAttrs {
		attrs = append(attrs, convertSingleAttr(attr))
	}
	return attrs
}

// convertSingleAttr converts a single wire attribute to slog.Attr.
func convertSingleAttr(attr LogAttr) slog.Attr {
	switch attr.Type {
	case "string":
		return slog.String(attr.Key, attr.Value)
	case "int64":
		if v, err := strconv.ParseInt(attr.Value, 10, 64); err == nil {
			return slog.Int64(attr.Key, v)
		}
	case "bool":
		if v, err := strconv.ParseBool(attr.Value); err == nil {
			return slog.Bool(attr.Key, v)
		}
	case "float64":
		if v, err := strconv.ParseFloat(attr.Value, 64); err == nil {
			return slog.Float64(attr.Key, v)
		}
	case "time":
		if v, err := time.Parse(time.RFC3339Nano, attr.Value); err == nil {
			return slog.Time(attr.Key, v)
		}
	case "error":
		return slog.Any(attr.Key, fmt.Errorf("%s", attr.Value))
	}
	// Fallback for unknown types or parse failures.
	return slog.Any(attr.Key, attr.Value)
}
