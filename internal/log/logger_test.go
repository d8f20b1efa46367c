// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output %q: %v", buf.String(), err)
	}
	return entry
}

func TestConfigure_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "info", Output: &buf, Version: "v1.2.3"})
	t.Cleanup(func() { Configure(Config{}) })

	logger := WithComponent("device")
	logger.Info().Msg("hello")

	entry := decodeLine(t, &buf)
	if entry["service"] != "tivoctl" {
		t.Errorf("service = %v, want tivoctl", entry["service"])
	}
	if entry["version"] != "v1.2.3" {
		t.Errorf("version = %v, want v1.2.3", entry["version"])
	}
	if entry[FieldComponent] != "device" {
		t.Errorf("component = %v, want device", entry[FieldComponent])
	}
	if entry["message"] != "hello" {
		t.Errorf("message = %v, want hello", entry["message"])
	}
}

func TestConfigure_Level(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "error", Output: &buf})
	t.Cleanup(func() { Configure(Config{}) })

	logger := Base()
	logger.Warn().Msg("suppressed")
	if buf.Len() != 0 {
		t.Fatalf("expected warn to be suppressed at error level, got %q", buf.String())
	}
	if got := Base().GetLevel(); got != zerolog.ErrorLevel {
		t.Errorf("level = %v, want error", got)
	}
}

func TestConfigure_DefaultLevelIsWarn(t *testing.T) {
	t.Setenv("TIVO_LOG_LEVEL", "")
	Configure(Config{})
	if got := Base().GetLevel(); got != zerolog.WarnLevel {
		t.Errorf("level = %v, want warn", got)
	}
}

func TestConfigure_EnvLevel(t *testing.T) {
	t.Setenv("TIVO_LOG_LEVEL", "debug")
	Configure(Config{})
	t.Cleanup(func() { Configure(Config{}) })
	if got := Base().GetLevel(); got != zerolog.DebugLevel {
		t.Errorf("level = %v, want debug", got)
	}
}

func TestConfigure_Console(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "info", Output: &buf, Console: true})
	t.Cleanup(func() { Configure(Config{}) })

	logger := Base()
	logger.Info().Str(FieldCacheKey, "now_playing").Msg("cache hit")
	out := buf.String()
	if strings.HasPrefix(out, "{") {
		t.Fatalf("console output should not be JSON: %q", out)
	}
	if !strings.Contains(out, "cache hit") || !strings.Contains(out, "now_playing") {
		t.Errorf("console output missing content: %q", out)
	}
}

func TestDerive(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "info", Output: &buf})
	t.Cleanup(func() { Configure(Config{}) })

	plain := Derive(nil)
	plain.Info().Msg("plain")
	buf.Reset()

	derived := Derive(func(ctx *zerolog.Context) {
		ctx.Str("custom_field", "test_value")
	})
	derived.Info().Msg("derived")
	entry := decodeLine(t, &buf)
	if entry["custom_field"] != "test_value" {
		t.Errorf("custom_field = %v, want test_value", entry["custom_field"])
	}
}
