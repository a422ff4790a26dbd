package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/robot-exposure/internal/dataset"
	"github.com/sells-group/robot-exposure/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS reference_snapshots (
	id              TEXT PRIMARY KEY,
	loaded_at       DATETIME NOT NULL,
	saved_at        DATETIME NOT NULL DEFAULT (datetime('now')),
	professions     INTEGER NOT NULL,
	classifications INTEGER NOT NULL,
	installations   INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS professions (
	position      INTEGER PRIMARY KEY,
	description   TEXT NOT NULL,
	exposed       BOOLEAN NOT NULL,
	complementary BOOLEAN NOT NULL,
	ifr_l1        INTEGER,
	ifr_l2        INTEGER
);

CREATE TABLE IF NOT EXISTS ifr_classes (
	ifr_class        INTEGER PRIMARY KEY,
	application_area TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS installations (
	position  INTEGER PRIMARY KEY,
	year      INTEGER NOT NULL,
	ifr_class INTEGER NOT NULL,
	robots    REAL
);

CREATE INDEX IF NOT EXISTS idx_professions_description ON professions(description);
CREATE INDEX IF NOT EXISTS idx_installations_class_year ON installations(ifr_class, year);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveReference replaces the stored snapshot with ref in one transaction.
func (s *SQLiteStore) SaveReference(ctx context.Context, ref *dataset.Reference) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback() //nolint:errcheck

	for _, table := range []string{"reference_snapshots", "professions", "ifr_classes", "installations"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return eris.Wrapf(err, "sqlite: clear %s", table)
		}
	}

	for i, p := range ref.Professions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO professions (position, description, exposed, complementary, ifr_l1, ifr_l2) VALUES (?, ?, ?, ?, ?, ?)`,
			i, p.Description, p.ExposedToRobot, p.Complementary, nullable(p.IFRLevel1), nullable(p.IFRLevel2),
		); err != nil {
			return eris.Wrapf(err, "sqlite: insert profession %q", p.Description)
		}
	}

	for _, c := range ref.Classifications {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO ifr_classes (ifr_class, application_area) VALUES (?, ?)`,
			c.Class, c.ApplicationArea,
		); err != nil {
			return eris.Wrapf(err, "sqlite: insert ifr class %d", c.Class)
		}
	}

	for i, r := range ref.Installations {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO installations (position, year, ifr_class, robots) VALUES (?, ?, ?, ?)`,
			i, r.Year, r.Class, nullable(r.Count),
		); err != nil {
			return eris.Wrapf(err, "sqlite: insert installation %d/%d", r.Year, r.Class)
		}
	}

	loadedAt := ref.LoadedAt
	if loadedAt.IsZero() {
		loadedAt = time.Now().UTC()
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO reference_snapshots (id, loaded_at, saved_at, professions, classifications, installations) VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), loadedAt, time.Now().UTC(),
		len(ref.Professions), len(ref.Classifications), len(ref.Installations),
	); err != nil {
		return eris.Wrap(err, "sqlite: insert snapshot")
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit")
}

// LoadReference reads the stored snapshot, or returns ErrNoSnapshot.
func (s *SQLiteStore) LoadReference(ctx context.Context) (*dataset.Reference, error) {
	ref := &dataset.Reference{}

	err := s.db.QueryRowContext(ctx,
		`SELECT loaded_at FROM reference_snapshots ORDER BY saved_at DESC LIMIT 1`,
	).Scan(&ref.LoadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get snapshot")
	}

	if ref.Professions, err = s.loadProfessions(ctx); err != nil {
		return nil, err
	}
	if ref.Classifications, err = s.loadClassifications(ctx); err != nil {
		return nil, err
	}
	if ref.Installations, err = s.loadInstallations(ctx); err != nil {
		return nil, err
	}
	return ref, nil
}

func (s *SQLiteStore) loadProfessions(ctx context.Context) ([]model.ProfessionRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT description, exposed, complementary, ifr_l1, ifr_l2 FROM professions ORDER BY position`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query professions")
	}
	defer rows.Close() //nolint:errcheck

	var out []model.ProfessionRecord
	for rows.Next() {
		var (
			desc          string
			exposed, comp bool
			l1, l2        sql.NullInt64
		)
		if err := rows.Scan(&desc, &exposed, &comp, &l1, &l2); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan profession")
		}
		out = append(out, model.NewProfessionRecord(desc, exposed, comp, optInt64(l1), optInt64(l2)))
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate professions")
}

func (s *SQLiteStore) loadClassifications(ctx context.Context) ([]model.IFRClassification, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT ifr_class, application_area FROM ifr_classes ORDER BY ifr_class`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query ifr classes")
	}
	defer rows.Close() //nolint:errcheck

	var out []model.IFRClassification
	for rows.Next() {
		var c model.IFRClassification
		if err := rows.Scan(&c.Class, &c.ApplicationArea); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan ifr class")
		}
		out = append(out, c)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate ifr classes")
}

func (s *SQLiteStore) loadInstallations(ctx context.Context) ([]model.InstallationRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT year, ifr_class, robots FROM installations ORDER BY position`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query installations")
	}
	defer rows.Close() //nolint:errcheck

	var out []model.InstallationRecord
	for rows.Next() {
		var (
			r      model.InstallationRecord
			robots sql.NullFloat64
		)
		if err := rows.Scan(&r.Year, &r.Class, &robots); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan installation")
		}
		r.Count = optFloat64(robots)
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate installations")
}
