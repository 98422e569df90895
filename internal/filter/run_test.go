package filter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/strongdm/ccfilter/internal/logging/logfields"
	"github.com/strongdm/ccfilter/internal/rewrite"
	"github.com/strongdm/ccfilter/internal/trigraph"
)

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }

func writeInputs(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func nullLogger() (*logrus.Logger, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logger, hook
}

func TestRun_MalformedFileDoesNotStopBatch(t *testing.T) {
	dir := writeInputs(t, map[string]string{
		"a.c": "int a; // x\n",
		"b.c": "int b; /* open",
		"c.c": "int c;\n",
	})
	for _, jobs := range []int{1, 3} {
		t.Run(fmt.Sprintf("jobs=%d", jobs), func(t *testing.T) {
			logger, hook := nullLogger()
			var out bytes.Buffer
			rep, err := Run(context.Background(), RunOptions{
				Inputs: []string{filepath.Join(dir, "a.c"), filepath.Join(dir, "b.c"), filepath.Join(dir, "c.c")},
				Policy: "convert",
				Filter: Rewrite(rewrite.Convert{}, nil),
				Jobs:   jobs,
				Stdout: &out,
				Logger: logger,
			})
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if diff := cmp.Diff("int a; /* x */\nint b; /* openint c;\n", out.String()); diff != "" {
				t.Fatalf("output (-want +got):\n%s", diff)
			}
			if !rep.Failed() || len(rep.Files) != 3 {
				t.Fatalf("report: %+v", rep)
			}
			got := []Status{rep.Files[0].Status, rep.Files[1].Status, rep.Files[2].Status}
			if diff := cmp.Diff([]Status{StatusOK, StatusFail, StatusOK}, got); diff != "" {
				t.Fatalf("statuses (-want +got):\n%s", diff)
			}
			b := rep.Files[1]
			if b.ErrorKind != KindMalformed || b.Region != "block-comment" || !strings.Contains(b.Error, "block comment") {
				t.Fatalf("b.c result: %+v", b)
			}
			var logged bool
			for _, e := range hook.AllEntries() {
				if e.Level == logrus.ErrorLevel && e.Data[logfields.File] == filepath.Join(dir, "b.c") {
					logged = e.Data[logfields.Line] == 1 && e.Data[logfields.Column] == 8
				}
			}
			if !logged {
				t.Fatalf("no error entry for b.c: %v", hook.AllEntries())
			}
		})
	}
}

func TestRun_ParallelKeepsInvocationOrder(t *testing.T) {
	files := map[string]string{}
	var names []string
	var want strings.Builder
	for i := 0; i < 20; i++ {
		name := fmt.Sprintf("f%02d.c", i)
		body := strings.Repeat(fmt.Sprintf("int v%d; /* %d */\n", i, i), i+1)
		files[name] = body
		names = append(names, name)
		want.WriteString(strings.ReplaceAll(body, fmt.Sprintf("/* %d */", i), " "))
	}
	dir := writeInputs(t, files)
	for i := range names {
		names[i] = filepath.Join(dir, names[i])
	}
	logger, _ := nullLogger()
	var out bytes.Buffer
	rep, err := Run(context.Background(), RunOptions{
		Inputs: names,
		Filter: Rewrite(rewrite.Strip{Keep: rewrite.KeepCode, Replacement: rewrite.ReplaceSpace}, nil),
		Jobs:   4,
		Stdout: &out,
		Logger: logger,
	})
	if err != nil || rep.Failed() {
		t.Fatalf("Run: %v %+v", err, rep)
	}
	if diff := cmp.Diff(want.String(), out.String()); diff != "" {
		t.Fatalf("output (-want +got):\n%s", diff)
	}
	for i, f := range rep.Files {
		if f.File != names[i] {
			t.Fatalf("report order: %d is %s", i, f.File)
		}
	}
}

func TestRun_MissingFileIsReadFailure(t *testing.T) {
	dir := writeInputs(t, map[string]string{"ok.c": "x;\n"})
	logger, _ := nullLogger()
	var out bytes.Buffer
	rep, err := Run(context.Background(), RunOptions{
		Inputs: []string{filepath.Join(dir, "missing.c"), filepath.Join(dir, "ok.c")},
		Filter: Rewrite(rewrite.Passthrough{}, nil),
		Stdout: &out,
		Logger: logger,
	})
	if err != nil {
		t.Fatal(err)
	}
	if out.String() != "x;\n" {
		t.Fatalf("output %q", out.String())
	}
	if rep.Files[0].ErrorKind != KindRead || rep.Files[1].Status != StatusOK || !rep.Failed() {
		t.Fatalf("report: %+v", rep.Files)
	}
}

func TestRun_WriteErrorAbortsRun(t *testing.T) {
	dir := writeInputs(t, map[string]string{"a.c": "a;\n", "b.c": "b;\n"})
	inputs := []string{filepath.Join(dir, "a.c"), filepath.Join(dir, "b.c")}
	for _, jobs := range []int{1, 2} {
		logger, _ := nullLogger()
		rep, err := Run(context.Background(), RunOptions{
			Inputs: inputs,
			Filter: Rewrite(rewrite.Convert{}, nil),
			Jobs:   jobs,
			Stdout: failingWriter{},
			Logger: logger,
		})
		if !rewrite.IsWriteError(err) {
			t.Fatalf("jobs=%d: want write error, got %v", jobs, err)
		}
		if !rep.Aborted || !rep.Failed() || len(rep.Files) != 1 {
			t.Fatalf("jobs=%d: report %+v", jobs, rep)
		}
	}
}

func TestRun_WarningsAreLoggedWithPosition(t *testing.T) {
	logger, hook := nullLogger()
	var out bytes.Buffer
	rep, err := Run(context.Background(), RunOptions{
		Filter: Rewrite(rewrite.Convert{}, nil),
		Stdin:  strings.NewReader("x;\n// a */ b\n"),
		Stdout: &out,
		Logger: logger,
	})
	if err != nil {
		t.Fatal(err)
	}
	if out.String() != "x;\n/* a * / b */\n" {
		t.Fatalf("output %q", out.String())
	}
	f := rep.Files[0]
	if f.File != Stdin || f.Status != StatusWarn || len(f.Warnings) != 1 || rep.Failed() {
		t.Fatalf("result: %+v", f)
	}
	var warns []*logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warns = append(warns, e)
		}
	}
	if len(warns) != 1 || warns[0].Data[logfields.Line] != 2 || warns[0].Data[logfields.File] != Stdin {
		t.Fatalf("warnings: %v", warns)
	}
}

func TestRun_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	logger, _ := nullLogger()
	rep, err := Run(ctx, RunOptions{
		Filter: Rewrite(rewrite.Passthrough{}, nil),
		Stdin:  strings.NewReader("x"),
		Stdout: io.Discard,
		Logger: logger,
	})
	if !errors.Is(err, context.Canceled) || len(rep.Files) != 0 {
		t.Fatalf("got %v %+v", err, rep)
	}
}

func TestRun_RequiresFilter(t *testing.T) {
	if _, err := Run(context.Background(), RunOptions{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestStream_AttributesFailures(t *testing.T) {
	f := Stream(trigraph.Decode)
	var out bytes.Buffer
	res, err := f("in.c", strings.NewReader("??=x"), &out)
	if err != nil || out.String() != "#x" || res.BytesIn != 4 || res.BytesOut != 2 {
		t.Fatalf("got %q %+v %v", out.String(), res, err)
	}

	_, err = f("in.c", strings.NewReader("abc"), failingWriter{})
	var we *rewrite.WriteError
	if !errors.As(err, &we) || we.Name != "in.c" {
		t.Fatalf("want write error, got %v", err)
	}

	_, err = f("in.c", io.MultiReader(strings.NewReader("a"), errReader{}), &out)
	var re *rewrite.ReadError
	if !errors.As(err, &re) {
		t.Fatalf("want read error, got %v", err)
	}
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("io fault") }
