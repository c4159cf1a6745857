// Package archive keeps point-in-time copies of the journal in a local
// SQLite database. The JSON document stays the source of truth; the archive
// is write-once history that can be queried with plain SQL.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/hyperengineering/mindful/internal/journal"
)

// timeLayout keeps a fixed-width fraction so taken_at sorts as text.
// Rows are read back with time.RFC3339Nano, which accepts both widths.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Snapshot describes one archived copy of the journal.
type Snapshot struct {
	ID         string    `json:"id"`
	TakenAt    time.Time `json:"taken_at"`
	Source     string    `json:"source"`
	EntryCount int       `json:"entry_count"`
}

// SnapshotEntry is one archived day. Numeric fields are nil when the day did
// not record them or recorded text that is not a number.
type SnapshotEntry struct {
	Key          string   `json:"key"`
	Date         string   `json:"date"`
	Exercise     *float64 `json:"exercise,omitempty"`
	Sleep        *float64 `json:"sleep,omitempty"`
	Water        *float64 `json:"water,omitempty"`
	Calories     *float64 `json:"calories,omitempty"`
	Mood         string   `json:"mood,omitempty"`
	Breakfast    *float64 `json:"breakfast,omitempty"`
	Lunch        *float64 `json:"lunch,omitempty"`
	Dinner       *float64 `json:"dinner,omitempty"`
	Snacks       *float64 `json:"snacks,omitempty"`
	SleepHours   *float64 `json:"sleep_hours,omitempty"`
	SleepQuality *float64 `json:"sleep_quality,omitempty"`
	Bedtime      string   `json:"bedtime,omitempty"`
	Raw          string   `json:"raw"`
}

// SQLiteArchive is the SQLite-backed snapshot archive.
type SQLiteArchive struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteArchive opens (or creates) the archive at dbPath, applies pragmas
// and runs migrations.
func NewSQLiteArchive(dbPath string) (*SQLiteArchive, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create archive directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	if err := enablePragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable pragmas: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteArchive{db: db, now: time.Now}, nil
}

func enablePragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}
	return nil
}

// Close closes the database connection.
func (a *SQLiteArchive) Close() error {
	if a.db == nil {
		return ErrClosed
	}
	err := a.db.Close()
	a.db = nil
	return err
}

// Export writes the whole document as a new snapshot. source records where
// the document came from, usually the journal path.
func (a *SQLiteArchive) Export(ctx context.Context, doc *journal.Document, source string) (Snapshot, error) {
	if a.db == nil {
		return Snapshot{}, ErrClosed
	}

	entries := journal.NewStore(doc).Entries(journal.Ascending)
	snap := Snapshot{
		ID:         ulid.Make().String(),
		TakenAt:    a.now().UTC(),
		Source:     source,
		EntryCount: len(entries),
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshots (id, taken_at, source, entry_count)
		VALUES (?, ?, ?, ?)
	`, snap.ID, snap.TakenAt.Format(timeLayout), snap.Source, snap.EntryCount)
	if err != nil {
		return Snapshot{}, fmt.Errorf("insert snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO snapshot_entries (
			snapshot_id, entry_key, entry_date, exercise, sleep, water, calories, mood,
			breakfast, lunch, dinner, snacks, sleep_hours, sleep_quality, bedtime, raw
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return Snapshot{}, fmt.Errorf("prepare entry insert: %w", err)
	}
	defer stmt.Close()

	for _, de := range entries {
		e := de.Entry
		raw, err := json.Marshal(e)
		if err != nil {
			return Snapshot{}, fmt.Errorf("encode entry %s: %w", de.Key, err)
		}
		var n journal.Nutrition
		if e.Nutrition != nil {
			n = *e.Nutrition
		}
		var sd journal.SleepDetail
		if e.SleepDetail != nil {
			sd = *e.SleepDetail
		}
		_, err = stmt.ExecContext(ctx,
			snap.ID, de.Key, journal.Key(de.Date),
			nullNumber(e.Exercise), nullNumber(e.Sleep), nullNumber(e.Water), nullNumber(e.Calories),
			string(e.Mood),
			nullNumber(n.Breakfast), nullNumber(n.Lunch), nullNumber(n.Dinner), nullNumber(n.Snacks),
			nullNumber(sd.Hours), nullNumber(sd.Quality), sd.Bedtime,
			string(raw),
		)
		if err != nil {
			return Snapshot{}, fmt.Errorf("insert entry %s: %w", de.Key, err)
		}
	}

	if doc.Goals != nil {
		g := doc.Goals
		_, err = tx.ExecContext(ctx, `
			INSERT INTO snapshot_goals (snapshot_id, exercise_goal, sleep_goal, water_goal, calories_goal)
			VALUES (?, ?, ?, ?, ?)
		`, snap.ID, nullNumber(g.Exercise), nullNumber(g.Sleep), nullNumber(g.Water), nullNumber(g.Calories))
		if err != nil {
			return Snapshot{}, fmt.Errorf("insert goals: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Snapshot{}, fmt.Errorf("commit snapshot: %w", err)
	}

	// Fold the WAL into the main file so a copy of it is complete.
	if _, err := a.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		slog.Warn("wal checkpoint failed", "component", "archive", "error", err)
	}

	slog.Info("snapshot exported",
		"component", "archive",
		"action", "export",
		"snapshot_id", snap.ID,
		"entry_count", snap.EntryCount,
	)
	return snap, nil
}

// ListSnapshots returns all snapshots, newest first.
func (a *SQLiteArchive) ListSnapshots(ctx context.Context) ([]Snapshot, error) {
	if a.db == nil {
		return nil, ErrClosed
	}

	rows, err := a.db.QueryContext(ctx, `
		SELECT id, taken_at, source, entry_count
		FROM snapshots
		ORDER BY taken_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// GetSnapshot returns the snapshot with id or ErrNotFound.
func (a *SQLiteArchive) GetSnapshot(ctx context.Context, id string) (Snapshot, error) {
	if a.db == nil {
		return Snapshot{}, ErrClosed
	}

	row := a.db.QueryRowContext(ctx, `
		SELECT id, taken_at, source, entry_count
		FROM snapshots WHERE id = ?
	`, id)
	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrNotFound
	}
	return snap, err
}

// SnapshotEntries returns the archived days of a snapshot, oldest first.
func (a *SQLiteArchive) SnapshotEntries(ctx context.Context, id string) ([]SnapshotEntry, error) {
	if _, err := a.GetSnapshot(ctx, id); err != nil {
		return nil, err
	}

	rows, err := a.db.QueryContext(ctx, `
		SELECT entry_key, entry_date, exercise, sleep, water, calories, mood,
		       breakfast, lunch, dinner, snacks, sleep_hours, sleep_quality, bedtime, raw
		FROM snapshot_entries
		WHERE snapshot_id = ?
		ORDER BY entry_date ASC, entry_key ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query snapshot entries: %w", err)
	}
	defer rows.Close()

	var out []SnapshotEntry
	for rows.Next() {
		var (
			se                                            SnapshotEntry
			exercise, sleep, water, calories              sql.NullFloat64
			breakfast, lunch, dinner, snacks, hours, qual sql.NullFloat64
		)
		if err := rows.Scan(&se.Key, &se.Date, &exercise, &sleep, &water, &calories, &se.Mood,
			&breakfast, &lunch, &dinner, &snacks, &hours, &qual, &se.Bedtime, &se.Raw); err != nil {
			return nil, fmt.Errorf("scan snapshot entry: %w", err)
		}
		se.Exercise = floatPtr(exercise)
		se.Sleep = floatPtr(sleep)
		se.Water = floatPtr(water)
		se.Calories = floatPtr(calories)
		se.Breakfast = floatPtr(breakfast)
		se.Lunch = floatPtr(lunch)
		se.Dinner = floatPtr(dinner)
		se.Snacks = floatPtr(snacks)
		se.SleepHours = floatPtr(hours)
		se.SleepQuality = floatPtr(qual)
		out = append(out, se)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(s scanner) (Snapshot, error) {
	var (
		snap    Snapshot
		takenAt string
	)
	if err := s.Scan(&snap.ID, &takenAt, &snap.Source, &snap.EntryCount); err != nil {
		return Snapshot{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, takenAt)
	if err != nil {
		return Snapshot{}, fmt.Errorf("parse taken_at for %s: %w", snap.ID, err)
	}
	snap.TakenAt = t
	return snap, nil
}

func nullNumber(q journal.Quantity) sql.NullFloat64 {
	d, ok := q.Parse()
	if !ok {
		return sql.NullFloat64{}
	}
	f, _ := d.Float64()
	return sql.NullFloat64{Float64: f, Valid: true}
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	f := n.Float64
	return &f
}
