// Package duckdb persists finalized per-sample statistics in a DuckDB
// database so runs can be queried and compared with SQL.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/inodb/vibe-stats/internal/output"
)

// Store manages a DuckDB connection for persisting sample statistics.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS sample_stats (
		sample VARCHAR,
		variant_count BIGINT,
		indel_count BIGINT,
		sv_count BIGINT,
		ti_tv DOUBLE,
		PRIMARY KEY (sample)
	)`); err != nil {
		return err
	}

	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS sample_substitutions (
		sample VARCHAR,
		ref VARCHAR,
		alt VARCHAR,
		count BIGINT,
		PRIMARY KEY (sample, ref, alt)
	)`); err != nil {
		return err
	}

	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS sample_ethnicity (
		sample VARCHAR,
		population VARCHAR,
		probability DOUBLE,
		PRIMARY KEY (sample, population)
	)`)
	return err
}

// WriteReports persists finalized sample reports. Existing rows for the
// same samples are replaced, so re-running on the same input is safe.
func (s *Store) WriteReports(reports []*output.SampleReport) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, r := range reports {
		if _, err := tx.Exec(
			`INSERT OR REPLACE INTO sample_stats (sample, variant_count, indel_count, sv_count, ti_tv)
			 VALUES (?, ?, ?, ?, ?)`,
			r.Sample, int64(r.VariantCount), int64(r.IndelCount), int64(r.SVCount), r.TiTv,
		); err != nil {
			return fmt.Errorf("insert stats for %s: %w", r.Sample, err)
		}

		for ref, row := range r.Substitutions {
			for alt, count := range row {
				if count == 0 {
					continue
				}
				if _, err := tx.Exec(
					`INSERT OR REPLACE INTO sample_substitutions (sample, ref, alt, count)
					 VALUES (?, ?, ?, ?)`,
					r.Sample, ref, alt, int64(count),
				); err != nil {
					return fmt.Errorf("insert substitutions for %s: %w", r.Sample, err)
				}
			}
		}

		for pop, prob := range r.Ethnicity {
			if _, err := tx.Exec(
				`INSERT OR REPLACE INTO sample_ethnicity (sample, population, probability)
				 VALUES (?, ?, ?)`,
				r.Sample, pop, prob,
			); err != nil {
				return fmt.Errorf("insert ethnicity for %s: %w", r.Sample, err)
			}
		}
	}

	return tx.Commit()
}

// LookupStats reads back one sample's top-level counters.
func (s *Store) LookupStats(sample string) (*output.SampleReport, error) {
	row := s.db.QueryRow(
		`SELECT sample, variant_count, indel_count, sv_count, ti_tv
		 FROM sample_stats WHERE sample = ?`, sample)

	var r output.SampleReport
	var variants, indels, svs int64
	if err := row.Scan(&r.Sample, &variants, &indels, &svs, &r.TiTv); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("lookup stats: %w", err)
	}
	r.VariantCount = uint64(variants)
	r.IndelCount = uint64(indels)
	r.SVCount = uint64(svs)

	rows, err := s.db.Query(
		`SELECT population, probability FROM sample_ethnicity WHERE sample = ?`, sample)
	if err != nil {
		return nil, fmt.Errorf("lookup ethnicity: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var pop string
		var prob float64
		if err := rows.Scan(&pop, &prob); err != nil {
			return nil, fmt.Errorf("scan ethnicity: %w", err)
		}
		if r.Ethnicity == nil {
			r.Ethnicity = make(map[string]float64)
		}
		r.Ethnicity[pop] = prob
	}
	return &r, rows.Err()
}
