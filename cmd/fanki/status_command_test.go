package main

import (
	"strings"
	"testing"
)

func TestStatusCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "== Dependencies ==")
	requireContains(t, out, "FFmpeg encoders:")
	requireContains(t, out, "Deck root:")
	if strings.Contains(out, "[ERROR]") {
		t.Fatalf("expected no errors, got:\n%s", out)
	}
}

func TestRenderStatusLine(t *testing.T) {
	line := renderStatusLine("FFmpeg", statusError, "binary \"ffmpeg\" not found", false)
	if !strings.HasPrefix(line, "  FFmpeg:") || !strings.HasSuffix(line, `[ERROR] binary "ffmpeg" not found`) {
		t.Fatalf("unexpected line %q", line)
	}
	colored := renderStatusLine("Speech", statusWarn, "", true)
	if !strings.HasPrefix(colored, ansiYellow) || !strings.HasSuffix(colored, "[WARN]"+ansiReset) {
		t.Fatalf("unexpected colored line %q", colored)
	}
}

func TestRenderTablePadsRows(t *testing.T) {
	out := renderTable([]string{"A", "B"}, [][]string{{"only"}}, []columnAlignment{alignLeft, alignRight})
	requireContains(t, out, "only")
	if renderTable(nil, nil, nil) != "" {
		t.Fatal("expected empty output without headers")
	}
}
