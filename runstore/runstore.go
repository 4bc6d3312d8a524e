// Copyright (c) 2024, The Magnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runstore keeps run summaries, range sweep points and neuron init
// seeds in a SQLite database, so results persist across invocations.
package runstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hypomodel/magnet/magnet"

	_ "modernc.org/sqlite" // SQLite driver
)

// SchemaVersion is the current schema version.
const SchemaVersion = 1

const schemaV1 = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    tag TEXT NOT NULL,
    run_idx INTEGER NOT NULL,
    cell_type TEXT NOT NULL,
    neurons INTEGER NOT NULL,
    runtime REAL NOT NULL,
    seed INTEGER NOT NULL,
    input REAL NOT NULL,
    n_live INTEGER NOT NULL,
    pop_freq REAL NOT NULL,
    sec_mean REAL NOT NULL,
    sec_iod REAL NOT NULL,
    plasma_end REAL NOT NULL,
    evf_end REAL NOT NULL,
    created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_tag ON runs(tag);

CREATE TABLE IF NOT EXISTS range_points (
    run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    input REAL NOT NULL,
    pop_freq REAL NOT NULL,
    plasma_mean REAL NOT NULL,
    sec_long_mean REAL NOT NULL,
    synth_long_mean REAL NOT NULL,
    PRIMARY KEY (run_id, input)
);

CREATE TABLE IF NOT EXISTS neuron_init (
    tag TEXT NOT NULL,
    neuron INTEGER NOT NULL,
    mrna REAL NOT NULL,
    store REAL NOT NULL,
    synvar REAL NOT NULL,
    PRIMARY KEY (tag, neuron)
);
`

// RunRecord is the stored summary of one run.
type RunRecord struct {
	ID        int64
	Tag       string
	RunIdx    int
	CellType  string
	Neurons   int
	Runtime   float64
	Seed      int64
	Input     float64
	NLive     int
	PopFreq   float64
	SecMean   float64
	SecIoD    float64
	PlasmaEnd float64
	EVFEnd    float64
	CreatedAt time.Time
}

// NewRunRecord returns the summary of the last run of nt.
func NewRunRecord(nt *magnet.Network, tag string) RunRecord {
	return RunRecord{
		Tag:       tag,
		RunIdx:    nt.RunIdx - 1,
		CellType:  nt.NeuronBase.Type.String(),
		Neurons:   nt.Net.NNeurons,
		Runtime:   nt.Net.Runtime,
		Seed:      nt.Net.Seed,
		Input:     nt.NeuronBase.Spike.PSPRate,
		NLive:     nt.Pop.NLive,
		PopFreq:   nt.Pop.PopFreq,
		SecMean:   nt.Pop.SecMean,
		SecIoD:    nt.Pop.SecIoD,
		PlasmaEnd: nt.PlasmaEnd[0],
		EVFEnd:    nt.PlasmaEnd[1],
	}
}

// Store is a SQLite backed run store.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Open opens or creates the database at path, creating its directory and
// schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := initSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &Store{db: db, dbPath: path}, nil
}

// initSchema creates the tables in one transaction and records the version.
func initSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, schemaV1); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO schema_version (version) VALUES (?)`, SchemaVersion); err != nil {
		return fmt.Errorf("failed to set schema version: %w", err)
	}
	return tx.Commit()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun stores rec and returns its id.
func (s *Store) SaveRun(ctx context.Context, rec RunRecord) (int64, error) {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (tag, run_idx, cell_type, neurons, runtime, seed, input,
			n_live, pop_freq, sec_mean, sec_iod, plasma_end, evf_end, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Tag, rec.RunIdx, rec.CellType, rec.Neurons, rec.Runtime, rec.Seed, rec.Input,
		rec.NLive, rec.PopFreq, rec.SecMean, rec.SecIoD, rec.PlasmaEnd, rec.EVFEnd,
		rec.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return res.LastInsertId()
}

// ListRuns returns the stored runs in insertion order.  A non-empty tag
// restricts the list to runs with that tag.
func (s *Store) ListRuns(ctx context.Context, tag string) ([]RunRecord, error) {
	q := `SELECT id, tag, run_idx, cell_type, neurons, runtime, seed, input,
		n_live, pop_freq, sec_mean, sec_iod, plasma_end, evf_end, created_at FROM runs`
	var args []any
	if tag != "" {
		q += ` WHERE tag = ?`
		args = append(args, tag)
	}
	q += ` ORDER BY id`
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var recs []RunRecord
	for rows.Next() {
		var rec RunRecord
		var created string
		if err := rows.Scan(&rec.ID, &rec.Tag, &rec.RunIdx, &rec.CellType, &rec.Neurons, &rec.Runtime,
			&rec.Seed, &rec.Input, &rec.NLive, &rec.PopFreq, &rec.SecMean, &rec.SecIoD,
			&rec.PlasmaEnd, &rec.EVFEnd, &created); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// SaveRangePoint stores a range sweep point under run runID.  A point at the
// same input replaces the earlier one.
func (s *Store) SaveRangePoint(ctx context.Context, runID int64, rp magnet.RangePoint) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO range_points (run_id, input, pop_freq, plasma_mean, sec_long_mean, synth_long_mean)
		VALUES (?, ?, ?, ?, ?, ?)`,
		runID, rp.Input, rp.PopFreq, rp.PlasmaMean, rp.SecLongMean, rp.SynthLongMean)
	if err != nil {
		return fmt.Errorf("failed to insert range point: %w", err)
	}
	return nil
}

// RangePoints returns the sweep points of run runID in order of input.
func (s *Store) RangePoints(ctx context.Context, runID int64) ([]magnet.RangePoint, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT input, pop_freq, plasma_mean, sec_long_mean, synth_long_mean
		FROM range_points WHERE run_id = ? ORDER BY input`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query range points: %w", err)
	}
	defer rows.Close()

	var rps []magnet.RangePoint
	for rows.Next() {
		var rp magnet.RangePoint
		if err := rows.Scan(&rp.Input, &rp.PopFreq, &rp.PlasmaMean, &rp.SecLongMean, &rp.SynthLongMean); err != nil {
			return nil, fmt.Errorf("failed to scan range point: %w", err)
		}
		rps = append(rps, rp)
	}
	return rps, rows.Err()
}

// SaveInit replaces the init seeds stored under tag with sds.
func (s *Store) SaveInit(ctx context.Context, tag string, sds []magnet.InitSeed) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM neuron_init WHERE tag = ?`, tag); err != nil {
		return fmt.Errorf("failed to clear init seeds: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO neuron_init (tag, neuron, mrna, store, synvar) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()
	for _, sd := range sds {
		if _, err := stmt.ExecContext(ctx, tag, sd.Neuron, sd.MRNA, sd.Store, sd.SynVar); err != nil {
			return fmt.Errorf("failed to insert init seed %d: %w", sd.Neuron, err)
		}
	}
	return tx.Commit()
}

// LoadInit returns the init seeds stored under tag in neuron order.
func (s *Store) LoadInit(ctx context.Context, tag string) ([]magnet.InitSeed, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT neuron, mrna, store, synvar FROM neuron_init WHERE tag = ? ORDER BY neuron`, tag)
	if err != nil {
		return nil, fmt.Errorf("failed to query init seeds: %w", err)
	}
	defer rows.Close()

	var sds []magnet.InitSeed
	for rows.Next() {
		var sd magnet.InitSeed
		if err := rows.Scan(&sd.Neuron, &sd.MRNA, &sd.Store, &sd.SynVar); err != nil {
			return nil, fmt.Errorf("failed to scan init seed: %w", err)
		}
		sds = append(sds, sd)
	}
	return sds, rows.Err()
}
