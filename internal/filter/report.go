package filter

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/oklog/ulid/v2"
)

type Status string

const (
	StatusOK   Status = "ok"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

type ErrorKind string

const (
	KindRead      ErrorKind = "read"
	KindMalformed ErrorKind = "malformed"
)

type WarningEntry struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
}

type FileResult struct {
	File      string         `json:"file"`
	Status    Status         `json:"status"`
	Warnings  []WarningEntry `json:"warnings,omitempty"`
	Error     string         `json:"error,omitempty"`
	ErrorKind ErrorKind      `json:"error_kind,omitempty"`
	Region    string         `json:"region,omitempty"`
	BytesIn   int64          `json:"bytes_in"`
	BytesOut  int64          `json:"bytes_out"`
	Duration  time.Duration  `json:"duration_ns"`
}

// Report summarises one batch run.
type Report struct {
	RunID      string       `json:"run_id"`
	Policy     string       `json:"policy"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Files      []FileResult `json:"files"`
	// Aborted is set when a write error stopped the run.
	Aborted bool `json:"aborted,omitempty"`
}

// NewRunID returns a time-ordered ULID.
func NewRunID() (string, error) {
	t := time.Now().UTC()
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(t), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Failed reports whether any file failed or the run was aborted.
func (r *Report) Failed() bool {
	if r == nil {
		return false
	}
	if r.Aborted {
		return true
	}
	for _, f := range r.Files {
		if f.Status == StatusFail {
			return true
		}
	}
	return false
}

func (r *Report) Counts() (ok, warn, fail int) {
	for _, f := range r.Files {
		switch f.Status {
		case StatusOK:
			ok++
		case StatusWarn:
			warn++
		case StatusFail:
			fail++
		}
	}
	return ok, warn, fail
}

// WriteJSON writes the report to path via a temp file and rename.
func (r *Report) WriteJSON(path string) error {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	tmp, err := os.CreateTemp(filepath.Dir(path), ".report-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
)

func (s Status) colored() string {
	switch s {
	case StatusOK:
		return green(string(s))
	case StatusWarn:
		return yellow(string(s))
	default:
		return red(string(s))
	}
}

// WriteSummary prints one row per file followed by totals. Colours follow
// color.NoColor, so they are off when w is not a terminal.
func (r *Report) WriteSummary(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "FILE\tSTATUS\tWARNINGS\tIN\tOUT\tDETAIL\n")
	for _, f := range r.Files {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\n", f.File, f.Status.colored(), len(f.Warnings), f.BytesIn, f.BytesOut, f.Error)
	}
	ok, warn, fail := r.Counts()
	fmt.Fprintf(tw, "\n%d files\t%s ok, %s warn, %s fail\n", len(r.Files), green(ok), yellow(warn), red(fail))
	if r.Aborted {
		fmt.Fprintf(tw, "%s\n", red("run aborted"))
	}
	return tw.Flush()
}
