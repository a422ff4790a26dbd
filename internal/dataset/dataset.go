// Package dataset loads the reference tables of the dashboard: the
// profession/robot matching table, the IFR classification table and the
// robot installation series.
package dataset

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/robot-exposure/internal/fetcher"
	"github.com/sells-group/robot-exposure/internal/model"
)

// Sources locates the three reference inputs. Each location is a local
// path or an http(s)/ftp URL.
type Sources struct {
	Professions          string `yaml:"professions" mapstructure:"professions"`
	ProfessionsSheet     string `yaml:"professions_sheet" mapstructure:"professions_sheet"`
	Classifications      string `yaml:"classifications" mapstructure:"classifications"`
	ClassificationsSheet string `yaml:"classifications_sheet" mapstructure:"classifications_sheet"`
	Installations        string `yaml:"installations" mapstructure:"installations"`
}

// Reference holds the loaded tables. It is read-only after Load returns.
type Reference struct {
	Professions     []model.ProfessionRecord   `json:"professions"`
	Classifications []model.IFRClassification  `json:"classifications"`
	Installations   []model.InstallationRecord `json:"installations"`
	LoadedAt        time.Time                  `json:"loaded_at"`
}

// Loader reads Sources through an Opener.
type Loader struct {
	opener  *fetcher.Opener
	tempDir string
	csv     fetcher.CSVOptions
}

// NewLoader returns a Loader. Remote workbooks are staged under tempDir
// (the OS default when empty).
func NewLoader(opener *fetcher.Opener, tempDir string, csvOpts fetcher.CSVOptions) *Loader {
	return &Loader{opener: opener, tempDir: tempDir, csv: csvOpts}
}

// Load reads all three sources. Any failure aborts the whole load.
func (l *Loader) Load(ctx context.Context, src Sources) (*Reference, error) {
	start := time.Now()
	ref := &Reference{}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		path, cleanup, err := l.opener.Materialize(gctx, src.Professions, l.tempDir)
		if err != nil {
			return eris.Wrap(err, "dataset: professions source")
		}
		defer cleanup()
		ref.Professions, err = LoadProfessions(path, src.ProfessionsSheet)
		return err
	})

	g.Go(func() error {
		path, cleanup, err := l.opener.Materialize(gctx, src.Classifications, l.tempDir)
		if err != nil {
			return eris.Wrap(err, "dataset: classifications source")
		}
		defer cleanup()
		ref.Classifications, err = LoadClassifications(path, src.ClassificationsSheet)
		return err
	})

	g.Go(func() error {
		rc, err := l.opener.Open(gctx, src.Installations)
		if err != nil {
			return eris.Wrap(err, "dataset: installations source")
		}
		defer rc.Close() //nolint:errcheck
		ref.Installations, err = LoadInstallations(rc, l.csv)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	ref.LoadedAt = time.Now().UTC()

	zap.L().Info("reference data loaded",
		zap.Int("professions", len(ref.Professions)),
		zap.Int("classifications", len(ref.Classifications)),
		zap.Int("installations", len(ref.Installations)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return ref, nil
}
