package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunHeadless(t *testing.T) {
	dir := t.TempDir()

	// Keep the log file out of the repo checkout.
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(cwd)

	out := filepath.Join(dir, "reports")
	var buf bytes.Buffer
	args := []string{
		"-headless",
		"-threads", "2",
		"-episodes", "200",
		"-pin=false",
		"-out", out,
	}

	if err := Run(context.Background(), args, strings.NewReader(""), &buf); err != nil {
		t.Fatalf("Run: %v\noutput: %s", err, buf.String())
	}

	// 1. One summary line per algorithm
	output := buf.String()
	for _, name := range []string{"centralized", "combining", "dissemination", "tournament", "mcs"} {
		if !strings.Contains(output, name) {
			t.Errorf("output missing %s summary:\n%s", name, output)
		}
	}

	// 2. Artifacts written
	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("artifacts = %d, want 2 (json+csv)", len(entries))
	}
}

func TestRunSingleAlgo(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(cwd)

	var buf bytes.Buffer
	args := []string{
		"-headless",
		"-threads", "2",
		"-episodes", "100",
		"-pin=false",
		"-algo", "mcs",
		"-out", filepath.Join(dir, "reports"),
	}
	if err := Run(context.Background(), args, strings.NewReader(""), &buf); err != nil {
		t.Fatal(err)
	}

	if strings.Contains(buf.String(), "centralized") {
		t.Error("single-algo run should not mention other algorithms")
	}
}

func TestRunRejectsUnknownAlgo(t *testing.T) {
	var buf bytes.Buffer
	err := Run(context.Background(), []string{"-algo", "bogus", "-headless"}, strings.NewReader(""), &buf)
	if err == nil {
		t.Fatal("unknown algorithm accepted")
	}
}
