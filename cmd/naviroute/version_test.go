package main

import (
	"bytes"
	"encoding/json"
	"runtime"
	"strings"
	"testing"
)

func TestVersionCommandExists(t *testing.T) {
	if versionCmd == nil {
		t.Fatal("versionCmd is nil")
	}
	if versionCmd.Use != "version" {
		t.Errorf("versionCmd.Use = %q, want %q", versionCmd.Use, "version")
	}
	if versionCmd.RunE == nil {
		t.Error("versionCmd.RunE should not be nil")
	}
}

func TestVersionOutput(t *testing.T) {
	origVersion, origCommit := Version, GitCommit
	defer func() { Version, GitCommit = origVersion, origCommit }()
	Version = "1.4.0-test"
	GitCommit = "abc123"

	text := newVersionOutput().String()
	if !strings.Contains(text, "Naviroute 1.4.0-test") {
		t.Errorf("text output missing version: %q", text)
	}
	if !strings.Contains(text, runtime.GOOS+"/"+runtime.GOARCH) {
		t.Errorf("text output missing platform: %q", text)
	}

	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	defer versionCmd.SetOut(nil)
	versionFlags.output = "json"
	defer func() { versionFlags.output = "text" }()

	if err := versionCmd.RunE(versionCmd, nil); err != nil {
		t.Fatalf("RunE() error = %v", err)
	}

	var got map[string]string
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}
	if got["version"] != "1.4.0-test" || got["commit"] != "abc123" {
		t.Errorf("json = %v", got)
	}
	if got["go_version"] != runtime.Version() {
		t.Errorf("go_version = %q", got["go_version"])
	}
}
