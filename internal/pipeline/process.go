package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"legisdir/internal"
	"legisdir/internal/config"
	"legisdir/internal/directory"
	"legisdir/internal/logger"
	"legisdir/internal/storage"
)

type FlattenService struct {
	db  *storage.DB
	cfg config.Config
	log *logger.Logger
	out io.Writer
}

// NewFlattenService builds the run service. db may be nil, in which case
// runs are not recorded.
func NewFlattenService(db *storage.DB, cfg config.Config, log *logger.Logger, out io.Writer) *FlattenService {
	if log == nil {
		log = logger.Nop()
	}
	if out == nil {
		out = os.Stdout
	}
	return &FlattenService{db: db, cfg: cfg, log: log, out: out}
}

type RunResult struct {
	TraceID    string
	OutputPath string
	ReportPath string
	Counts     internal.RunCounts
	Changes    []internal.ContactChange
}

func (s *FlattenService) Run(ctx context.Context) (RunResult, error) {
	start := time.Now()
	traceID := uuid.NewString()

	fmt.Fprintf(s.out, "Reading data from %s...\n", s.cfg.InputPath)
	raw, err := os.ReadFile(s.cfg.InputPath)
	if err != nil {
		return RunResult{}, err
	}
	readMs := msSince(start)

	fmt.Fprintln(s.out, "Processing contact information...")
	doc, err := directory.NewDocument(raw, directory.WithLogger(s.log.With("trace_id", traceID)))
	if err != nil {
		return RunResult{}, fmt.Errorf("parse %s: %w", s.cfg.InputPath, err)
	}
	if err := doc.Normalize(); err != nil {
		return RunResult{}, err
	}
	processMs := msSince(start) - readMs

	fmt.Fprintf(s.out, "Writing cleaned data to %s...\n", s.cfg.OutputPath)
	if err := os.MkdirAll(filepath.Dir(s.cfg.OutputPath), 0o755); err != nil {
		return RunResult{}, err
	}
	if err := os.WriteFile(s.cfg.OutputPath, doc.Indented(s.cfg.IndentWidth), 0o644); err != nil {
		return RunResult{}, err
	}
	fmt.Fprintln(s.out, "Done!")

	res := RunResult{
		TraceID:    traceID,
		OutputPath: s.cfg.OutputPath,
		Counts:     doc.Counts(),
		Changes:    doc.Changes(),
	}

	if s.db != nil {
		run := internal.RunRow{
			TraceID:    traceID,
			InputPath:  s.cfg.InputPath,
			OutputPath: s.cfg.OutputPath,
			InputHash:  hashBytes(raw),
			Counts:     res.Counts,
			Timings:    map[string]float64{"readMs": readMs, "processMs": processMs, "totalMs": msSince(start)},
		}
		if _, err := s.db.RecordRun(ctx, run, res.Changes); err != nil {
			return res, fmt.Errorf("record run: %w", err)
		}
	}

	if s.cfg.ReportPath != "" {
		if err := ExportChangesToXLSX(res.Changes, s.cfg.PhoneRegion, s.cfg.ReportPath); err != nil {
			return res, fmt.Errorf("export report: %w", err)
		}
		res.ReportPath = s.cfg.ReportPath
	}

	s.log.Infow("flatten run complete",
		"trace_id", traceID,
		"records", res.Counts.Records,
		"flattened", res.Counts.Flattened,
		"removed", res.Counts.Removed,
		"passthrough", res.Counts.Passthrough,
		"emails", res.Counts.EmailsHoisted,
	)
	return res, nil
}

// ExportRun writes the recorded changes of a run (the last one when
// traceID is empty) to an xlsx file.
func (s *FlattenService) ExportRun(traceID, outputPath string) (int, error) {
	if s.db == nil {
		return 0, fmt.Errorf("run ledger disabled: set DB_PATH")
	}
	run, err := s.db.MustRun(traceID)
	if err != nil {
		return 0, err
	}
	changes, err := s.db.GetChanges(run.ID)
	if err != nil {
		return 0, err
	}
	if len(changes) == 0 {
		return 0, fmt.Errorf("no changes recorded for traceId=%s", run.TraceID)
	}
	if err := ExportChangesToXLSX(changes, s.cfg.PhoneRegion, outputPath); err != nil {
		return 0, err
	}
	return len(changes), nil
}

func hashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000
}
