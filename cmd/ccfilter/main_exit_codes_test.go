package main

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func buildCCFilterBinary(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	// wd is .../cmd/ccfilter
	root := filepath.Dir(filepath.Dir(wd))
	bin := filepath.Join(t.TempDir(), "ccfilter")
	cmd := exec.Command("go", "build", "-o", bin, "./cmd/ccfilter")
	cmd.Dir = root
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("go build: %v\n%s", err, string(out))
	}
	return bin
}

func runCCFilter(t *testing.T, bin, stdin string, args ...string) (exitCode int, stdout, stderr string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdin = strings.NewReader(stdin)
	var so, se strings.Builder
	cmd.Stdout = &so
	cmd.Stderr = &se
	err := cmd.Run()
	if err == nil {
		return 0, so.String(), se.String()
	}
	var ee *exec.ExitError
	if !errors.As(err, &ee) {
		t.Fatalf("run %v: %v", args, err)
	}
	return ee.ExitCode(), so.String(), se.String()
}

func TestCCFilterExitCodes(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}
	bin := buildCCFilterBinary(t)
	dir := t.TempDir()
	good := writeFile(t, dir, "good.c", "int a; // x\n")
	bad := writeFile(t, dir, "bad.c", "int b; /* open")

	t.Run("ok", func(t *testing.T) {
		code, out, _ := runCCFilter(t, bin, "", "convert", good)
		if code != 0 || out != "int a; /* x */\n" {
			t.Fatalf("exit %d out %q", code, out)
		}
	})
	t.Run("warnings are not failures", func(t *testing.T) {
		code, _, errOut := runCCFilter(t, bin, "// */\n", "convert")
		if code != 0 || !strings.Contains(errOut, "level=warning") {
			t.Fatalf("exit %d stderr %q", code, errOut)
		}
	})
	t.Run("malformed file fails the run but not the batch", func(t *testing.T) {
		code, out, errOut := runCCFilter(t, bin, "", "convert", good, bad)
		if code != 1 {
			t.Fatalf("exit %d", code)
		}
		if out != "int a; /* x */\nint b; /* open" {
			t.Fatalf("stdout %q", out)
		}
		if !strings.Contains(errOut, "bad.c") || strings.Contains(errOut, "error: ") {
			t.Fatalf("stderr %q", errOut)
		}
	})
	t.Run("usage error", func(t *testing.T) {
		code, _, errOut := runCCFilter(t, bin, "", "strip", "--replace", "tab")
		if code != 1 || !strings.Contains(errOut, "error: ") {
			t.Fatalf("exit %d stderr %q", code, errOut)
		}
	})
	t.Run("version", func(t *testing.T) {
		code, out, _ := runCCFilter(t, bin, "", "version")
		if code != 0 || !strings.HasPrefix(out, "ccfilter ") {
			t.Fatalf("exit %d out %q", code, out)
		}
	})
}
