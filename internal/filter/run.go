package filter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/strongdm/ccfilter/internal/logging"
	"github.com/strongdm/ccfilter/internal/logging/logfields"
	"github.com/strongdm/ccfilter/internal/rewrite"
)

var log = logging.DefaultLogger.WithField(logfields.LogSubsys, "filter")

type RunOptions struct {
	// Inputs are already expanded names; empty means Stdin.
	Inputs []string
	// Policy is recorded in the report.
	Policy string
	Filter Func
	Jobs   int

	Stdin  io.Reader
	Stdout io.Writer
	// Open defaults to os.Open.
	Open func(name string) (io.ReadCloser, error)
	// Logger defaults to the package logger.
	Logger logrus.FieldLogger
}

type slot struct {
	buf     bytes.Buffer
	out     Outcome
	err     error
	elapsed time.Duration
	skipped bool
	done    chan struct{}
}

// Run filters every input to Stdout in order. Read and malformed-input
// failures are recorded against their file and the run carries on; a write
// failure stops the run and is returned. The report is returned even when
// err is non-nil.
func Run(ctx context.Context, opts RunOptions) (*Report, error) {
	if opts.Filter == nil {
		return nil, fmt.Errorf("filter: no filter function")
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Open == nil {
		opts.Open = func(name string) (io.ReadCloser, error) { return os.Open(name) }
	}
	if opts.Logger == nil {
		opts.Logger = log
	}
	names := opts.Inputs
	if len(names) == 0 {
		names = []string{Stdin}
	}

	runID, err := NewRunID()
	if err != nil {
		return nil, err
	}
	rep := &Report{RunID: runID, Policy: opts.Policy, StartedAt: time.Now().UTC()}
	logger := opts.Logger.WithFields(logrus.Fields{logfields.RunID: runID, logfields.Policy: opts.Policy})
	logger.WithField(logfields.Files, len(names)).Debug("Starting run")

	if opts.Jobs <= 1 || len(names) == 1 {
		err = runSequential(ctx, opts, names, rep, logger)
	} else {
		err = runParallel(ctx, opts, names, rep, logger)
	}
	rep.FinishedAt = time.Now().UTC()
	if rewrite.IsWriteError(err) {
		rep.Aborted = true
	}
	return rep, err
}

func runSequential(ctx context.Context, opts RunOptions, names []string, rep *Report, logger logrus.FieldLogger) error {
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := time.Now()
		out, err := filterOne(opts, name, opts.Stdout)
		rep.Files = append(rep.Files, record(name, out, err, time.Since(start), logger))
		if rewrite.IsWriteError(err) {
			return err
		}
	}
	return nil
}

// runParallel filters into per-file buffers with at most opts.Jobs workers
// and writes each buffer as soon as every earlier file has been written.
func runParallel(ctx context.Context, opts RunOptions, names []string, rep *Report, logger logrus.FieldLogger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	slots := make([]*slot, len(names))
	for i := range slots {
		slots[i] = &slot{done: make(chan struct{})}
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Jobs)
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		for i, name := range names {
			s := slots[i]
			g.Go(func() error {
				defer close(s.done)
				if gctx.Err() != nil {
					s.skipped = true
					return nil
				}
				start := time.Now()
				s.out, s.err = filterOne(opts, name, &s.buf)
				s.elapsed = time.Since(start)
				return nil
			})
		}
		_ = g.Wait()
	}()

	var runErr error
	for i, name := range names {
		s := slots[i]
		<-s.done
		if s.skipped {
			runErr = ctx.Err()
			break
		}
		if _, err := opts.Stdout.Write(s.buf.Bytes()); err != nil {
			werr := &rewrite.WriteError{Name: name, Err: err}
			rep.Files = append(rep.Files, record(name, s.out, werr, s.elapsed, logger))
			runErr = werr
			break
		}
		rep.Files = append(rep.Files, record(name, s.out, s.err, s.elapsed, logger))
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
	}
	cancel()
	<-finished
	return runErr
}

func filterOne(opts RunOptions, name string, w io.Writer) (Outcome, error) {
	if name == Stdin {
		return opts.Filter(name, opts.Stdin, w)
	}
	f, err := opts.Open(name)
	if err != nil {
		return Outcome{}, &rewrite.ReadError{Name: name, Err: err}
	}
	defer f.Close()
	return opts.Filter(name, f, w)
}

// record classifies one file's result and logs it.
func record(name string, out Outcome, err error, elapsed time.Duration, logger logrus.FieldLogger) FileResult {
	fr := FileResult{File: name, Status: StatusOK, BytesIn: out.BytesIn, BytesOut: out.BytesOut, Duration: elapsed}
	for _, w := range out.Warnings {
		fr.Warnings = append(fr.Warnings, WarningEntry{Line: w.Line, Column: w.Column, Message: w.Message})
		logger.WithFields(logrus.Fields{
			logfields.File:   name,
			logfields.Line:   w.Line,
			logfields.Column: w.Column,
		}).Warn(w.Message)
	}
	if len(fr.Warnings) > 0 {
		fr.Status = StatusWarn
	}

	flog := logger.WithField(logfields.File, name)
	var (
		me *rewrite.MalformedInputError
		re *rewrite.ReadError
	)
	switch {
	case err == nil:
	case errors.As(err, &me):
		fr.Status, fr.ErrorKind, fr.Error = StatusFail, KindMalformed, err.Error()
		fr.Region = me.Region().String()
		flog.WithFields(logrus.Fields{
			logfields.Region: fr.Region,
			logfields.Line:   me.Line,
			logfields.Column: me.Column,
		}).Error(err.Error())
	case errors.As(err, &re):
		fr.Status, fr.ErrorKind, fr.Error = StatusFail, KindRead, err.Error()
		flog.Error(err.Error())
	default:
		fr.Status, fr.Error = StatusFail, err.Error()
		flog.Error(err.Error())
	}
	flog.WithField(logfields.Duration, elapsed).Debug("Processed file")
	return fr
}
