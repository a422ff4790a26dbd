// Package store persists snapshots of the reference tables so the dashboard
// can be served from a database instead of the source spreadsheets.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/robot-exposure/internal/dataset"
)

// ErrNoSnapshot is returned by LoadReference when nothing has been saved yet.
var ErrNoSnapshot = eris.New("store: no reference snapshot")

// Store persists one reference snapshot. SaveReference replaces the
// previous snapshot atomically.
type Store interface {
	SaveReference(ctx context.Context, ref *dataset.Reference) error
	LoadReference(ctx context.Context) (*dataset.Reference, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Table columns shared by both backends.
var (
	professionColumns   = []string{"position", "description", "exposed", "complementary", "ifr_l1", "ifr_l2"}
	classColumns        = []string{"ifr_class", "application_area"}
	installationColumns = []string{"position", "year", "ifr_class", "robots"}
)
