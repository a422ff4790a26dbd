package store

import (
	"database/sql"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/sells-group/robot-exposure/internal/model"
)

// nullable converts an Optional to a driver value, nil when absent.
func nullable[T any](o model.Optional[T]) any {
	if v, ok := o.Get(); ok {
		return v
	}
	return nil
}

func optInt64(n sql.NullInt64) model.Optional[int] {
	if !n.Valid {
		return model.None[int]()
	}
	return model.Some(int(n.Int64))
}

func optFloat64(n sql.NullFloat64) model.Optional[float64] {
	if !n.Valid {
		return model.None[float64]()
	}
	return model.Some(n.Float64)
}

func optPgInt8(n pgtype.Int8) model.Optional[int] {
	if !n.Valid {
		return model.None[int]()
	}
	return model.Some(int(n.Int64))
}

func optPgFloat8(n pgtype.Float8) model.Optional[float64] {
	if !n.Valid {
		return model.None[float64]()
	}
	return model.Some(n.Float64)
}
