package store

// #region imports
import (
	"database/sql"
	"fmt"
	"math"
	"time"

	_ "modernc.org/sqlite"
)

// #endregion

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id             TEXT PRIMARY KEY,
	created_at         TEXT NOT NULL,
	dataset_path       TEXT NOT NULL,
	threshold          INTEGER NOT NULL,
	seed               INTEGER NOT NULL,
	best_config        TEXT,
	train_auc          REAL,
	eval_auc           REAL,
	small_class_recall REAL
);

CREATE TABLE IF NOT EXISTS report_rows (
	id                    INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id                TEXT NOT NULL,
	category              TEXT NOT NULL,
	full_test_set         INTEGER NOT NULL,
	num_misclassified     INTEGER NOT NULL,
	percent_misclassified REAL,
	in_train_set          INTEGER NOT NULL,
	FOREIGN KEY (run_id) REFERENCES runs(run_id)
);

CREATE TABLE IF NOT EXISTS run_log (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id     TEXT NOT NULL,
	stage      TEXT NOT NULL,
	message    TEXT,
	created_at TEXT NOT NULL,
	FOREIGN KEY (run_id) REFERENCES runs(run_id)
);
`

// #endregion schema

// #region types

// RunRecord is one persisted experiment run.
type RunRecord struct {
	RunID            string
	CreatedAt        time.Time
	DatasetPath      string
	Threshold        int
	Seed             int64
	BestConfigJSON   string
	TrainAUC         float64 // NaN persists as NULL
	EvalAUC          float64
	SmallClassRecall float64
}

// ReportRow is one persisted per-category report row.
type ReportRow struct {
	Category             string
	FullTestSet          int
	NumMisclassified     int
	PercentMisclassified float64 // NaN persists as NULL
	InTrainSet           bool
}

// #endregion types

// #region store

// Store persists experiment runs in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by other packages.
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion store

// #region save-run

// SaveRun inserts a run and its report rows atomically.
func (s *Store) SaveRun(rec RunRecord, rows []ReportRow) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (run_id, created_at, dataset_path, threshold, seed, best_config, train_auc, eval_auc, small_class_recall)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.CreatedAt.Format(time.RFC3339Nano), rec.DatasetPath,
		rec.Threshold, rec.Seed, nullIfEmpty(rec.BestConfigJSON),
		nullIfNaN(rec.TrainAUC), nullIfNaN(rec.EvalAUC), nullIfNaN(rec.SmallClassRecall),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, r := range rows {
		_, err = tx.Exec(
			`INSERT INTO report_rows (run_id, category, full_test_set, num_misclassified, percent_misclassified, in_train_set)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			rec.RunID, r.Category, r.FullTestSet, r.NumMisclassified,
			nullIfNaN(r.PercentMisclassified), boolToInt(r.InTrainSet),
		)
		if err != nil {
			return fmt.Errorf("insert report row %s: %w", r.Category, err)
		}
	}

	return tx.Commit()
}

// #endregion save-run

// #region get-run

// GetRun retrieves a run by ID.
func (s *Store) GetRun(runID string) (RunRecord, error) {
	var rec RunRecord
	var createdStr string
	var bestConfig sql.NullString
	var trainAUC, evalAUC, recall sql.NullFloat64

	err := s.db.QueryRow(
		`SELECT run_id, created_at, dataset_path, threshold, seed, best_config, train_auc, eval_auc, small_class_recall
		 FROM runs WHERE run_id = ?`, runID,
	).Scan(&rec.RunID, &createdStr, &rec.DatasetPath, &rec.Threshold, &rec.Seed,
		&bestConfig, &trainAUC, &evalAUC, &recall)
	if err != nil {
		return RunRecord{}, fmt.Errorf("get run %s: %w", runID, err)
	}

	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	if bestConfig.Valid {
		rec.BestConfigJSON = bestConfig.String
	}
	rec.TrainAUC = floatOrNaN(trainAUC)
	rec.EvalAUC = floatOrNaN(evalAUC)
	rec.SmallClassRecall = floatOrNaN(recall)
	return rec, nil
}

// ListRuns returns the most recent runs.
func (s *Store) ListRuns(limit int) ([]RunRecord, error) {
	rows, err := s.db.Query(
		`SELECT run_id, created_at, dataset_path, threshold, seed, best_config, train_auc, eval_auc, small_class_recall
		 FROM runs ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		var createdStr string
		var bestConfig sql.NullString
		var trainAUC, evalAUC, recall sql.NullFloat64

		if err := rows.Scan(&rec.RunID, &createdStr, &rec.DatasetPath, &rec.Threshold,
			&rec.Seed, &bestConfig, &trainAUC, &evalAUC, &recall); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		if bestConfig.Valid {
			rec.BestConfigJSON = bestConfig.String
		}
		rec.TrainAUC = floatOrNaN(trainAUC)
		rec.EvalAUC = floatOrNaN(evalAUC)
		rec.SmallClassRecall = floatOrNaN(recall)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ReportRows retrieves the per-category report rows of a run, in
// insertion order.
func (s *Store) ReportRows(runID string) ([]ReportRow, error) {
	rows, err := s.db.Query(
		`SELECT category, full_test_set, num_misclassified, percent_misclassified, in_train_set
		 FROM report_rows WHERE run_id = ? ORDER BY id ASC`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("report rows: %w", err)
	}
	defer rows.Close()

	var out []ReportRow
	for rows.Next() {
		var r ReportRow
		var pct sql.NullFloat64
		var inTrain int
		if err := rows.Scan(&r.Category, &r.FullTestSet, &r.NumMisclassified, &pct, &inTrain); err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}
		r.PercentMisclassified = floatOrNaN(pct)
		r.InTrainSet = inTrain == 1
		out = append(out, r)
	}
	return out, rows.Err()
}

// #endregion get-run

// #region run-log

// LogStage appends a stage entry to the run log.
func (s *Store) LogStage(runID, stage, message string) error {
	_, err := s.db.Exec(
		`INSERT INTO run_log (run_id, stage, message, created_at) VALUES (?, ?, ?, ?)`,
		runID, stage, nullIfEmpty(message), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log stage: %w", err)
	}
	return nil
}

// #endregion run-log

// #region helpers

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullIfNaN(f float64) interface{} {
	if math.IsNaN(f) {
		return nil
	}
	return f
}

func floatOrNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// #endregion helpers
