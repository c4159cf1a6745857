// Package worker runs background jobs beside the HTTP server.
package worker

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/hyperengineering/mindful/internal/archive"
	"github.com/hyperengineering/mindful/internal/backup"
	"github.com/hyperengineering/mindful/internal/journal"
	"github.com/hyperengineering/mindful/internal/persist"
)

// DocumentSource provides a consistent copy of the live journal.
type DocumentSource interface {
	Snapshot() *journal.Document
}

// Exporter writes a journal copy into the snapshot archive.
type Exporter interface {
	Export(ctx context.Context, doc *journal.Document, source string) (archive.Snapshot, error)
}

// ArchiveCoordinator exports the journal to the archive on every tick,
// skipping ticks where the journal has not changed since the last export.
type ArchiveCoordinator struct {
	source      DocumentSource
	exporter    Exporter
	uploader    backup.Uploader
	interval    time.Duration
	sourceName  string
	archivePath string

	last []byte
}

// NewArchiveCoordinator creates a coordinator. sourceName is recorded on
// every snapshot. The uploader is optional; if nil, the archive file at
// archivePath is never uploaded.
func NewArchiveCoordinator(
	source DocumentSource,
	exporter Exporter,
	interval time.Duration,
	sourceName string,
	uploader backup.Uploader,
	archivePath string,
) *ArchiveCoordinator {
	return &ArchiveCoordinator{
		source:      source,
		exporter:    exporter,
		uploader:    uploader,
		interval:    interval,
		sourceName:  sourceName,
		archivePath: archivePath,
	}
}

// Run starts the coordinator loop.
func (c *ArchiveCoordinator) Run(ctx context.Context) {
	slog.Info("worker started",
		"component", "worker",
		"worker", "archive-coordinator",
		"action", "worker_started",
		"interval", c.interval.String(),
	)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("worker stopped",
				"component", "worker",
				"worker", "archive-coordinator",
				"action", "worker_stopped",
				"reason", "context_cancelled",
			)
			return
		case <-ticker.C:
			c.exportOnce(ctx)
		}
	}
}

// exportOnce exports the journal if it changed. Returns true when a
// snapshot was written.
func (c *ArchiveCoordinator) exportOnce(ctx context.Context) bool {
	doc := c.source.Snapshot()

	encoded, err := persist.Encode(doc)
	if err != nil {
		slog.Warn("journal encode failed",
			"component", "worker",
			"worker", "archive-coordinator",
			"action", "export_failed",
			"error", err,
		)
		return false
	}
	if c.last != nil && bytes.Equal(encoded, c.last) {
		slog.Debug("journal unchanged, export skipped",
			"component", "worker",
			"worker", "archive-coordinator",
			"action", "export_skipped",
		)
		return false
	}

	snap, err := c.exporter.Export(ctx, doc, c.sourceName)
	if err != nil {
		if ctx.Err() != nil {
			return false // shutting down
		}
		slog.Warn("archive export failed",
			"component", "worker",
			"worker", "archive-coordinator",
			"action", "export_failed",
			"error", err,
		)
		return false
	}
	c.last = encoded

	slog.Info("archive export completed",
		"component", "worker",
		"worker", "archive-coordinator",
		"action", "export_complete",
		"snapshot_id", snap.ID,
		"entries", snap.EntryCount,
	)

	if c.uploader != nil {
		c.upload(ctx)
	}
	return true
}

// upload copies the archive file to backup storage. Failures are logged
// and the local snapshot stays valid.
func (c *ArchiveCoordinator) upload(ctx context.Context) {
	key, err := c.uploader.Upload(ctx, backup.KindArchive, c.archivePath)
	if err != nil {
		slog.Warn("archive upload failed",
			"component", "worker",
			"worker", "archive-coordinator",
			"action", "archive_upload_failed",
			"error", err,
		)
		return
	}
	if key == "" {
		return
	}
	slog.Info("archive uploaded",
		"component", "worker",
		"worker", "archive-coordinator",
		"action", "archive_uploaded",
		"key", key,
	)
}
