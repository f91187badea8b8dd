package jobs

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"time"

	"go.uber.org/zap"
)

// MarkImportJobName is the scheduler name of the mark import job
const MarkImportJobName = "mark-import"

// MarkImporter loads a marks CSV into the marks table.
// Implemented by service.MarkService.
type MarkImporter interface {
	ImportFile(ctx context.Context, path string) (int, error)
}

// MarkImportJob re-imports the marks sheet on a schedule
type MarkImportJob struct {
	importer MarkImporter
	path     string
	timeout  time.Duration
	logger   *zap.Logger
}

// NewMarkImportJob creates a job importing path. A zero timeout means no limit.
func NewMarkImportJob(importer MarkImporter, path string, timeout time.Duration, logger *zap.Logger) *MarkImportJob {
	return &MarkImportJob{
		importer: importer,
		path:     path,
		timeout:  timeout,
		logger:   logger,
	}
}

// Run performs one import. It is the function handed to the scheduler.
func (j *MarkImportJob) Run() {
	_, _ = j.RunContext(context.Background())
}

// RunContext performs one import and returns the number of rows stored.
// A missing sheet is skipped rather than emptying the table.
func (j *MarkImportJob) RunContext(ctx context.Context) (int, error) {
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	if _, err := os.Stat(j.path); errors.Is(err, fs.ErrNotExist) {
		j.logger.Warn("marks sheet not found, skipping import", zap.String("path", j.path))
		return 0, nil
	}

	start := time.Now()
	n, err := j.importer.ImportFile(ctx, j.path)
	if err != nil {
		j.logger.Error("mark import failed",
			zap.String("path", j.path),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return 0, err
	}

	j.logger.Info("mark import completed",
		zap.String("path", j.path),
		zap.Int("rows", n),
		zap.Duration("duration", time.Since(start)))
	return n, nil
}
