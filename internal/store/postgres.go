package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/robot-exposure/internal/dataset"
	"github.com/sells-group/robot-exposure/internal/db"
	"github.com/sells-group/robot-exposure/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(4)
	minConns := int32(1)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS reference_snapshots (
	id              TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	loaded_at       TIMESTAMPTZ NOT NULL,
	saved_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	professions     INTEGER NOT NULL,
	classifications INTEGER NOT NULL,
	installations   INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS professions (
	position      INTEGER PRIMARY KEY,
	description   TEXT NOT NULL,
	exposed       BOOLEAN NOT NULL,
	complementary BOOLEAN NOT NULL,
	ifr_l1        BIGINT,
	ifr_l2        BIGINT
);

CREATE TABLE IF NOT EXISTS ifr_classes (
	ifr_class        BIGINT PRIMARY KEY,
	application_area TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS installations (
	position  INTEGER PRIMARY KEY,
	year      BIGINT NOT NULL,
	ifr_class BIGINT NOT NULL,
	robots    DOUBLE PRECISION
);

CREATE INDEX IF NOT EXISTS idx_professions_description ON professions(description);
CREATE INDEX IF NOT EXISTS idx_installations_class_year ON installations(ifr_class, year);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// SaveReference replaces the stored snapshot with ref, bulk loading each
// table with COPY inside one transaction.
func (s *PostgresStore) SaveReference(ctx context.Context, ref *dataset.Reference) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `TRUNCATE reference_snapshots, professions, ifr_classes, installations`); err != nil {
		return eris.Wrap(err, "postgres: truncate reference tables")
	}

	profRows := make([][]any, len(ref.Professions))
	for i, p := range ref.Professions {
		profRows[i] = []any{int32(i), p.Description, p.ExposedToRobot, p.Complementary, nullable(p.IFRLevel1), nullable(p.IFRLevel2)}
	}
	if _, err := db.CopyFrom(ctx, tx, "professions", professionColumns, profRows); err != nil {
		return eris.Wrap(err, "postgres: copy professions")
	}

	classRows := make([][]any, len(ref.Classifications))
	for i, c := range ref.Classifications {
		classRows[i] = []any{c.Class, c.ApplicationArea}
	}
	if _, err := db.CopyFrom(ctx, tx, "ifr_classes", classColumns, classRows); err != nil {
		return eris.Wrap(err, "postgres: copy ifr classes")
	}

	instRows := make([][]any, len(ref.Installations))
	for i, r := range ref.Installations {
		instRows[i] = []any{int32(i), r.Year, r.Class, nullable(r.Count)}
	}
	if _, err := db.CopyFrom(ctx, tx, "installations", installationColumns, instRows); err != nil {
		return eris.Wrap(err, "postgres: copy installations")
	}

	loadedAt := ref.LoadedAt
	if loadedAt.IsZero() {
		loadedAt = time.Now().UTC()
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO reference_snapshots (id, loaded_at, professions, classifications, installations) VALUES ($1, $2, $3, $4, $5)`,
		uuid.New().String(), loadedAt, len(ref.Professions), len(ref.Classifications), len(ref.Installations),
	); err != nil {
		return eris.Wrap(err, "postgres: insert snapshot")
	}

	if err := tx.Commit(ctx); err != nil {
		return eris.Wrap(err, "postgres: commit")
	}

	zap.L().Info("postgres: reference snapshot saved",
		zap.Int("professions", len(ref.Professions)),
		zap.Int("installations", len(ref.Installations)),
	)
	return nil
}

// LoadReference reads the stored snapshot, or returns ErrNoSnapshot.
func (s *PostgresStore) LoadReference(ctx context.Context) (*dataset.Reference, error) {
	ref := &dataset.Reference{}

	err := s.pool.QueryRow(ctx,
		`SELECT loaded_at FROM reference_snapshots ORDER BY saved_at DESC LIMIT 1`,
	).Scan(&ref.LoadedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get snapshot")
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

func (s *PostgresStore) loadProfessions(ctx context.Context) ([]model.ProfessionRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT description, exposed, complementary, ifr_l1, ifr_l2 FROM professions ORDER BY position`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query professions")
	}
	defer rows.Close()

	var out []model.ProfessionRecord
	for rows.Next() {
		var (
			desc          string
			exposed, comp bool
			l1, l2        pgtype.Int8
		)
		if err := rows.Scan(&desc, &exposed, &comp, &l1, &l2); err != nil {
			return nil, eris.Wrap(err, "postgres: scan profession")
		}
		out = append(out, model.NewProfessionRecord(desc, exposed, comp, optPgInt8(l1), optPgInt8(l2)))
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate professions")
}

func (s *PostgresStore) loadClassifications(ctx context.Context) ([]model.IFRClassification, error) {
	rows, err := s.pool.Query(ctx, `SELECT ifr_class, application_area FROM ifr_classes ORDER BY ifr_class`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query ifr classes")
	}
	defer rows.Close()

	var out []model.IFRClassification
	for rows.Next() {
		var (
			class int64
			label string
		)
		if err := rows.Scan(&class, &label); err != nil {
			return nil, eris.Wrap(err, "postgres: scan ifr class")
		}
		out = append(out, model.IFRClassification{Class: int(class), ApplicationArea: label})
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate ifr classes")
}

func (s *PostgresStore) loadInstallations(ctx context.Context) ([]model.InstallationRecord, error) {
	rows, err := s.pool.Query(ctx, `SELECT year, ifr_class, robots FROM installations ORDER BY position`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query installations")
	}
	defer rows.Close()

	var out []model.InstallationRecord
	for rows.Next() {
		var (
			year, class int64
			robots      pgtype.Float8
		)
		if err := rows.Scan(&year, &class, &robots); err != nil {
			return nil, eris.Wrap(err, "postgres: scan installation")
		}
		out = append(out, model.InstallationRecord{Year: int(year), Class: int(class), Count: optPgFloat8(robots)})
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate installations")
}
