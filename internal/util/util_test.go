package util_test

import (
	"bytes"
	"context"
	"log"
	"strings"
	"testing"
	"time"

	constants "github.com/CodeAndHammer/typeproof/internal/constants"
	util "github.com/CodeAndHammer/typeproof/internal/util"
)

func TestFormatUptime(t *testing.T) {
	cases := []struct {
		dur      time.Duration
		expected string
	}{
		{time.Second * 5, "5 seconds"},
		{time.Second * 65, "1 minute, 5 seconds"},
		{time.Second * 3665, "1 hour, 1 minute, 5 seconds"},
		{time.Second * 3600, "1 hour, 0 minutes, 0 seconds"},
		{time.Second * 60, "1 minute, 0 seconds"},
		{time.Second * 1, "1 second"},
	}
	for _, c := range cases {
		got := util.FormatUptime(c.dur)
		if got != c.expected {
			t.Errorf("FormatUptime(%v) = %q, want %q", c.dur, got, c.expected)
		}
	}
}

func TestPlural(t *testing.T) {
	if util.Plural(1) != "" {
		t.Errorf("Plural(1) = %q, want \"\"", util.Plural(1))
	}
	if util.Plural(2) != "s" {
		t.Errorf("Plural(2) = %q, want \"s\"", util.Plural(2))
	}
	if util.Plural(0) != "s" {
		t.Errorf("Plural(0) = %q, want \"s\"", util.Plural(0))
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "2s")
	if got := util.GetEnvDuration("TEST_DURATION", time.Second); got != 2*time.Second {
		t.Errorf("GetEnvDuration = %v, want 2s", got)
	}
	t.Setenv("TEST_DURATION", "notaduration")
	if got := util.GetEnvDuration("TEST_DURATION", 3*time.Second); got != 3*time.Second {
		t.Errorf("GetEnvDuration fallback = %v, want 3s", got)
	}
	t.Setenv("TEST_DURATION", "")
	if got := util.GetEnvDuration("TEST_DURATION", 4*time.Second); got != 4*time.Second {
		t.Errorf("GetEnvDuration fallback unset = %v, want 4s", got)
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	if got := util.GetEnvInt("TEST_INT", 7); got != 42 {
		t.Errorf("GetEnvInt = %d, want 42", got)
	}
	t.Setenv("TEST_INT", "notanint")
	if got := util.GetEnvInt("TEST_INT", 8); got != 8 {
		t.Errorf("GetEnvInt fallback = %d, want 8", got)
	}
	t.Setenv("TEST_INT", "")
	if got := util.GetEnvInt("TEST_INT", 9); got != 9 {
		t.Errorf("GetEnvInt fallback unset = %d, want 9", got)
	}
}

func TestGetEnvString(t *testing.T) {
	t.Setenv("TEST_STRING", "  value ")
	if got := util.GetEnvString("TEST_STRING", "x"); got != "value" {
		t.Errorf("GetEnvString = %q, want %q", got, "value")
	}
	t.Setenv("TEST_STRING", "")
	if got := util.GetEnvString("TEST_STRING", "x"); got != "x" {
		t.Errorf("GetEnvString fallback = %q, want %q", got, "x")
	}
}

func TestLogInfoCtxIncludesRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := log.Default()
	original := logger.Writer()
	logger.SetOutput(&buf)
	defer logger.SetOutput(original)

	ctx := context.WithValue(context.Background(), constants.RequestIDKey, "req-123")
	util.LogInfoCtx(ctx, "scored %d", 7)

	out := buf.String()
	if !strings.Contains(out, "[INFO] [request_id=req-123] scored 7") {
		t.Fatalf("unexpected log output %q", out)
	}

	buf.Reset()
	util.LogWarnCtx(context.Background(), "plain")
	if !strings.Contains(buf.String(), "[WARN] plain") {
		t.Fatalf("unexpected log output %q", buf.String())
	}
}
