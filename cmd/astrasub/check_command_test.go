package main

import (
	"testing"

	"astrasub/internal/testsupport"
)

func TestCheckReportsStubbedFFmpeg(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	path := writeTestConfig(t, cfg)

	out, _, err := runCLI(t, []string{"check"}, path)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	requireContains(t, out, "FFmpeg")
	requireContains(t, out, "ok")
}

func TestCheckFailsWhenFFmpegMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	path := writeTestConfig(t, cfg)
	t.Setenv("PATH", testsupport.BaseDir(cfg))

	_, _, err := runCLI(t, []string{"check"}, path)
	if err == nil {
		t.Fatal("expected error when ffmpeg is unavailable")
	}
	requireContains(t, err.Error(), "missing")
}
