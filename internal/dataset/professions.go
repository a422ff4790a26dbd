package dataset

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/robot-exposure/internal/fetcher"
	"github.com/sells-group/robot-exposure/internal/model"
)

// LoadProfessions reads the profession/robot matching table from the named
// sheet of an XLSX workbook. Rows with a blank description are skipped.
func LoadProfessions(path, sheet string) ([]model.ProfessionRecord, error) {
	if sheet == "" {
		sheet = DefaultProfessionsSheet
	}
	rows, err := fetcher.ReadXLSX(path, fetcher.XLSXOptions{SheetName: sheet})
	if err != nil {
		return nil, eris.Wrap(err, "dataset: professions")
	}
	if len(rows) == 0 {
		return nil, eris.Errorf("dataset: professions: sheet %q is empty", sheet)
	}

	idx, err := columnIndex(rows[0], ColDescription, ColRobot, ColComplementary, ColIFRLevel1, ColIFRLevel2)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: professions")
	}

	out := make([]model.ProfessionRecord, 0, len(rows)-1)
	skipped := 0
	for _, row := range rows[1:] {
		desc := cell(row, idx, ColDescription)
		if desc == "" {
			skipped++
			continue
		}
		out = append(out, model.NewProfessionRecord(
			desc,
			model.ParseFlag(cell(row, idx, ColRobot)),
			model.ParseFlag(cell(row, idx, ColComplementary)),
			model.ParseCode(cell(row, idx, ColIFRLevel1)),
			model.ParseCode(cell(row, idx, ColIFRLevel2)),
		))
	}

	if skipped > 0 {
		zap.L().Debug("dataset: skipped professions without description", zap.Int("rows", skipped))
	}
	return out, nil
}
