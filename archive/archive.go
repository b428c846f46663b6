// Package archive keeps generated problems in a SQLite database so earlier runs can be listed
// and reloaded.
package archive

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
	// registers the "sqlite" driver.
	_ "modernc.org/sqlite"

	"go.viam.com/pickplace/logging"
	"go.viam.com/pickplace/trajopt"
)

// FileName is the database file created inside the archive directory.
const FileName = "problems.db"

// currentSchemaVersion is the latest user_version. Bump it when adding a migration.
const currentSchemaVersion = 1

// Kind says which builder produced a problem.
type Kind string

// The kinds of archived problems.
const (
	KindPick  Kind = "pick"
	KindPlace Kind = "place"
)

// A Record is one archived problem.
type Record struct {
	ID             ulid.ULID
	ProblemID      string
	Kind           Kind
	Manipulator    string
	NumSteps       int
	NumCosts       int
	NumConstraints int
	CreatedAt      time.Time
	// Description is only loaded by Get.
	Description *trajopt.ProblemDescription
}

// Archive is a problem store backed by SQLite.
type Archive struct {
	db     *sql.DB
	logger logging.Logger
	clock  clock.Clock

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// Option configures an Archive.
type Option func(*Archive)

// WithClock sets the clock used to stamp records.
func WithClock(clk clock.Clock) Option {
	return func(a *Archive) {
		a.clock = clk
	}
}

// Open opens or creates the archive in dir.
func Open(dir string, logger logging.Logger, opts ...Option) (*Archive, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(err, "failed to create archive directory")
	}
	dbPath := filepath.Join(dir, FileName)
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open archive")
	}
	if err := verifyWALMode(db); err != nil {
		return nil, closeOnErr(db, err)
	}
	if err := migrate(db, logger); err != nil {
		return nil, closeOnErr(db, err)
	}
	logger.Debugw("opened archive", "path", dbPath)
	a := &Archive{
		db:      db,
		logger:  logger,
		clock:   clock.New(),
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func closeOnErr(db *sql.DB, err error) error {
	if closeErr := db.Close(); closeErr != nil {
		return errors.Wrapf(err, "also failed to close archive: %v", closeErr)
	}
	return err
}

func migrate(db *sql.DB, logger logging.Logger) error {
	version, err := userVersion(db)
	if err != nil {
		return err
	}
	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS problems (
		  id              TEXT PRIMARY KEY,
		  problem_id      TEXT NOT NULL,
		  kind            TEXT NOT NULL,
		  manipulator     TEXT NOT NULL,
		  n_steps         INTEGER NOT NULL,
		  n_costs         INTEGER NOT NULL,
		  n_constraints   INTEGER NOT NULL,
		  description     TEXT NOT NULL,
		  created_at      INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_problems_created
		ON problems(created_at DESC);
		`
		if _, err := db.Exec(schema); err != nil {
			return errors.Wrap(err, "migration 1 failed")
		}
		if err := setUserVersion(db, 1); err != nil {
			return err
		}
		logger.Debugw("migrated archive", "from", version, "to", 1)
	}
	if version > currentSchemaVersion {
		return errors.Errorf("archive schema version %d is newer than supported version %d", version, currentSchemaVersion)
	}
	return nil
}

func verifyWALMode(db *sql.DB) error {
	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode;").Scan(&journalMode); err != nil {
		return errors.Wrap(err, "failed to verify journal mode")
	}
	if journalMode != "wal" {
		return errors.Errorf("expected WAL mode, got %s", journalMode)
	}
	return nil
}

func userVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, errors.Wrap(err, "failed to read schema version")
	}
	return version, nil
}

func setUserVersion(db *sql.DB, version int) error {
	// PRAGMA does not take bound parameters.
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d;", version)); err != nil {
		return errors.Wrap(err, "failed to set schema version")
	}
	return nil
}

func (a *Archive) newID(now time.Time) (ulid.ULID, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return ulid.New(ulid.Timestamp(now), a.entropy)
}

// Put stores a problem and returns its archive id.
func (a *Archive) Put(ctx context.Context, kind Kind, problem *trajopt.Problem) (ulid.ULID, error) {
	if problem == nil || problem.Description == nil {
		return ulid.ULID{}, errors.New("cannot archive an empty problem")
	}
	data, err := json.Marshal(problem.Description)
	if err != nil {
		return ulid.ULID{}, errors.Wrap(err, "failed to encode problem")
	}
	now := a.clock.Now()
	id, err := a.newID(now)
	if err != nil {
		return ulid.ULID{}, err
	}
	_, err = a.db.ExecContext(ctx, `
		INSERT INTO problems (
			id, problem_id, kind, manipulator, n_steps, n_costs, n_constraints, description, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id.String(), problem.ID.String(), string(kind), problem.Description.BasicInfo.Manip,
		problem.NumSteps, problem.NumCosts, problem.NumConstraints, string(data), now.UnixMilli(),
	)
	if err != nil {
		return ulid.ULID{}, errors.Wrap(err, "failed to archive problem")
	}
	a.logger.CDebugw(ctx, "archived problem", "id", id.String(), "kind", kind, "steps", problem.NumSteps)
	return id, nil
}

// Get loads an archived problem with its description.
func (a *Archive) Get(ctx context.Context, id ulid.ULID) (*Record, error) {
	row := a.db.QueryRowContext(ctx, `
		SELECT id, problem_id, kind, manipulator, n_steps, n_costs, n_constraints, created_at, description
		FROM problems
		WHERE id = ?`, id.String())

	var data string
	rec, err := scanRecord(row.Scan, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NewRecordNotFoundError(id)
	}
	if err != nil {
		return nil, err
	}
	rec.Description = &trajopt.ProblemDescription{}
	if err := json.Unmarshal([]byte(data), rec.Description); err != nil {
		return nil, errors.Wrapf(err, "failed to decode archived problem %s", id)
	}
	return rec, nil
}

// List returns up to limit records, newest first, without descriptions. A non-positive limit
// returns every record.
func (a *Archive) List(ctx context.Context, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, problem_id, kind, manipulator, n_steps, n_costs, n_constraints, created_at
		FROM problems
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list problems")
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			a.logger.Warnw("failed to close rows", "error", closeErr)
		}
	}()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to list problems")
	}
	return records, nil
}

// Close closes the underlying database.
func (a *Archive) Close() error {
	return a.db.Close()
}

func scanRecord(scan func(dest ...interface{}) error, extra ...interface{}) (*Record, error) {
	var (
		rec       Record
		id        string
		kind      string
		createdAt int64
	)
	dest := []interface{}{
		&id, &rec.ProblemID, &kind, &rec.Manipulator,
		&rec.NumSteps, &rec.NumCosts, &rec.NumConstraints, &createdAt,
	}
	if err := scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	parsed, err := ulid.Parse(id)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid archive id %q", id)
	}
	rec.ID = parsed
	rec.Kind = Kind(kind)
	rec.CreatedAt = time.UnixMilli(createdAt)
	return &rec, nil
}

// NewRecordNotFoundError is returned when no archived problem has the given id.
func NewRecordNotFoundError(id ulid.ULID) error {
	return errors.Errorf("no archived problem with id %s", id)
}
