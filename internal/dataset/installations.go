package dataset

import (
	"io"
	"strconv"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/robot-exposure/internal/fetcher"
	"github.com/sells-group/robot-exposure/internal/model"
)

type installationRow struct {
	Year  string `csv:"year"`
	Class string `csv:"ifr_act"`
	Count string `csv:"robots_it"`
}

// LoadInstallations decodes the installation time series from CSV.
// Rows whose class is not allow-listed are dropped. A non-numeric year or
// installation count fails the load; an empty count is kept as absent.
func LoadInstallations(r io.Reader, opts fetcher.CSVOptions) ([]model.InstallationRecord, error) {
	dec, err := csvutil.NewDecoder(fetcher.NewCSVReader(r, opts))
	if err == io.EOF {
		return nil, eris.New("dataset: installations: empty file")
	}
	if err != nil {
		return nil, eris.Wrap(err, "dataset: installations: read header")
	}
	dec.DisallowMissingColumns = true

	var (
		out     []model.InstallationRecord
		dropped int
	)
	for line := 2; ; line++ {
		var row installationRow
		if err := dec.Decode(&row); err == io.EOF {
			break
		} else if err != nil {
			return nil, eris.Wrapf(err, "dataset: installations: line %d", line)
		}

		class, ok := model.ParseCode(row.Class).Get()
		if !ok || !model.IsValidIFRClass(class) {
			dropped++
			continue
		}

		year, ok := model.ParseCode(row.Year).Get()
		if !ok {
			return nil, eris.Errorf("dataset: installations: line %d: invalid year %q", line, row.Year)
		}

		count, err := parseCount(row.Count)
		if err != nil {
			return nil, eris.Wrapf(err, "dataset: installations: line %d", line)
		}

		out = append(out, model.InstallationRecord{Year: year, Class: class, Count: count})
	}

	if dropped > 0 {
		zap.L().Debug("dataset: dropped installations outside the ifr allow-list", zap.Int("rows", dropped))
	}
	return out, nil
}

func parseCount(s string) (model.Optional[float64], error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return model.None[float64](), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return model.None[float64](), eris.Errorf("invalid installation count %q", s)
	}
	return model.Some(f), nil
}
