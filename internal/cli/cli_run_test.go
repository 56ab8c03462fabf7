package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shelf/internal/errs"
)

func TestRunRequiresCommand(t *testing.T) {
	setCLIHome(t)

	err := Run(nil)
	if err == nil {
		t.Fatal("expected usage error for missing command")
	}
	if !strings.Contains(err.Error(), "usage: shelf") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunRejectsUnknownCommands(t *testing.T) {
	setCLIHome(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "unknown command", args: []string{"nope"}, want: "usage: shelf"},
		{name: "rm without key", args: []string{"rm"}, want: "usage: shelf rm"},
		{name: "cp without destination", args: []string{"cp", "only-one"}, want: "usage: shelf cp"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Run(tc.args)
			if err == nil {
				t.Fatalf("expected error for args=%v", tc.args)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("unexpected error for args=%v: got %q want substring %q", tc.args, err.Error(), tc.want)
			}
		})
	}
}

func TestRunPutGetRoundTrip(t *testing.T) {
	setCLIHome(t)

	out, err := captureStdout(t, func() error {
		return Run([]string{"put", "users/1", `{"name":"ada","age":36}`})
	})
	if err != nil {
		t.Fatalf("run put: %v", err)
	}
	if !strings.Contains(out, "stored document users/1") {
		t.Fatalf("unexpected put output: %q", out)
	}

	out, err = captureStdout(t, func() error {
		return Run([]string{"get", "users/1"})
	})
	if err != nil {
		t.Fatalf("run get: %v", err)
	}
	if !strings.Contains(out, `"name":"ada"`) {
		t.Fatalf("unexpected get output: %q", out)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Fatalf("expected trailing newline, got %q", out)
	}
}

func TestRunGetMissingOK(t *testing.T) {
	setCLIHome(t)

	out, err := captureStdout(t, func() error {
		return Run([]string{"get", "-missing-ok", "absent"})
	})
	if err != nil {
		t.Fatalf("get -missing-ok should succeed for absent keys: %v", err)
	}
	if out != "" {
		t.Fatalf("expected no output, got %q", out)
	}

	err = Run([]string{"get", "absent"})
	if err == nil {
		t.Fatal("expected error for absent key without -missing-ok")
	}
	if !errs.IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestRunUpdateMergesFields(t *testing.T) {
	setCLIHome(t)

	if _, err := captureStdout(t, func() error {
		return Run([]string{"put", "users/1", `{"name":"ada","age":36}`})
	}); err != nil {
		t.Fatalf("run put: %v", err)
	}

	out, err := captureStdout(t, func() error {
		return Run([]string{"update", "users/1", `{"age":37,"city":"london"}`})
	})
	if err != nil {
		t.Fatalf("run update: %v", err)
	}
	if !strings.Contains(out, "updated document users/1") {
		t.Fatalf("unexpected update output: %q", out)
	}

	out, err = captureStdout(t, func() error {
		return Run([]string{"get", "users/1"})
	})
	if err != nil {
		t.Fatalf("run get: %v", err)
	}
	for _, want := range []string{`"name":"ada"`, `"age":37`, `"city":"london"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("merged document missing %s: %q", want, out)
		}
	}
}

func TestRunLsListsDocuments(t *testing.T) {
	setCLIHome(t)

	for _, key := range []string{"users/2", "admin", "users/1"} {
		if _, err := captureStdout(t, func() error {
			return Run([]string{"put", key, `{"ok":true}`})
		}); err != nil {
			t.Fatalf("run put %s: %v", key, err)
		}
	}

	out, err := captureStdout(t, func() error {
		return Run([]string{"ls"})
	})
	if err != nil {
		t.Fatalf("run ls: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	want := []string{"admin", "users/1", "users/2"}
	if len(lines) != len(want) {
		t.Fatalf("expected %d keys, got %d output=%q", len(want), len(lines), out)
	}
	for i, key := range want {
		if lines[i] != key {
			t.Fatalf("key %d: got %q want %q", i, lines[i], key)
		}
	}

	out, err = captureStdout(t, func() error {
		return Run([]string{"ls", "users"})
	})
	if err != nil {
		t.Fatalf("run ls users: %v", err)
	}
	if got := strings.TrimSpace(out); got != "1\n2" {
		t.Fatalf("unexpected scoped listing: %q", got)
	}
}

func TestRunExistsPrintsBool(t *testing.T) {
	setCLIHome(t)

	out, err := captureStdout(t, func() error {
		return Run([]string{"exists", "users/1"})
	})
	if err != nil {
		t.Fatalf("run exists: %v", err)
	}
	if out != "false\n" {
		t.Fatalf("unexpected output: %q", out)
	}

	if _, err := captureStdout(t, func() error {
		return Run([]string{"put", "users/1", `{"ok":true}`})
	}); err != nil {
		t.Fatalf("run put: %v", err)
	}

	out, err = captureStdout(t, func() error {
		return Run([]string{"exists", "users/1"})
	})
	if err != nil {
		t.Fatalf("run exists: %v", err)
	}
	if out != "true\n" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestRunRmRemovesDocument(t *testing.T) {
	setCLIHome(t)

	if _, err := captureStdout(t, func() error {
		return Run([]string{"put", "users/1", `{"ok":true}`})
	}); err != nil {
		t.Fatalf("run put: %v", err)
	}

	out, err := captureStdout(t, func() error {
		return Run([]string{"rm", "users/1"})
	})
	if err != nil {
		t.Fatalf("run rm: %v", err)
	}
	if !strings.Contains(out, "removed users/1") {
		t.Fatalf("unexpected rm output: %q", out)
	}

	if err := Run([]string{"get", "users/1"}); !errs.IsNotFound(err) {
		t.Fatalf("expected not-found after rm, got %v", err)
	}
}

func TestRunCpAndMv(t *testing.T) {
	setCLIHome(t)

	if _, err := captureStdout(t, func() error {
		return Run([]string{"put", "users/1", `{"name":"ada"}`})
	}); err != nil {
		t.Fatalf("run put: %v", err)
	}

	out, err := captureStdout(t, func() error {
		return Run([]string{"cp", "users/1", "users/2"})
	})
	if err != nil {
		t.Fatalf("run cp: %v", err)
	}
	if !strings.Contains(out, "copied users/1 to users/2") {
		t.Fatalf("unexpected cp output: %q", out)
	}

	out, err = captureStdout(t, func() error {
		return Run([]string{"get", "users/2"})
	})
	if err != nil {
		t.Fatalf("run get copy: %v", err)
	}
	if !strings.Contains(out, `"name":"ada"`) {
		t.Fatalf("copy content mismatch: %q", out)
	}

	out, err = captureStdout(t, func() error {
		return Run([]string{"mv", "users/2", "archive/u2"})
	})
	if err != nil {
		t.Fatalf("run mv: %v", err)
	}
	if !strings.Contains(out, "moved users/2 to archive/u2") {
		t.Fatalf("unexpected mv output: %q", out)
	}

	out, err = captureStdout(t, func() error {
		return Run([]string{"exists", "users/2"})
	})
	if err != nil {
		t.Fatalf("run exists: %v", err)
	}
	if out != "false\n" {
		t.Fatalf("source should be gone after mv, got %q", out)
	}

	out, err = captureStdout(t, func() error {
		return Run([]string{"get", "archive/u2"})
	})
	if err != nil {
		t.Fatalf("run get moved: %v", err)
	}
	if !strings.Contains(out, `"name":"ada"`) {
		t.Fatalf("moved content mismatch: %q", out)
	}
}

func TestRunRawBlobWithFile(t *testing.T) {
	setCLIHome(t)

	payload := []byte{0x89, 0x50, 0x4e, 0x47, 0x00, 0x01}
	inPath := filepath.Join(t.TempDir(), "logo.bin")
	if err := os.WriteFile(inPath, payload, 0o600); err != nil {
		t.Fatalf("write input file: %v", err)
	}

	out, err := captureStdout(t, func() error {
		return Run([]string{"put", "-raw", "-file", inPath, "pics/logo.bin"})
	})
	if err != nil {
		t.Fatalf("run put -raw: %v", err)
	}
	if !strings.Contains(out, "stored blob pics/logo.bin (6 bytes)") {
		t.Fatalf("unexpected put output: %q", out)
	}

	outPath := filepath.Join(t.TempDir(), "out.bin")
	if _, err := captureStdout(t, func() error {
		return Run([]string{"get", "-raw", "-o", outPath, "pics/logo.bin"})
	}); err != nil {
		t.Fatalf("run get -raw: %v", err)
	}

	got, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output file: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("blob content mismatch: got %x want %x", got, payload)
	}

	out, err = captureStdout(t, func() error {
		return Run([]string{"ls", "-raw"})
	})
	if err != nil {
		t.Fatalf("run ls -raw: %v", err)
	}
	if got := strings.TrimSpace(out); got != "pics/logo.bin" {
		t.Fatalf("unexpected blob listing: %q", got)
	}
}

func setCLIHome(t *testing.T) {
	t.Helper()

	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)
	t.Setenv("XDG_CONFIG_HOME", homeDir)
}
