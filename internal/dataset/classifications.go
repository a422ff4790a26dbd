package dataset

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/robot-exposure/internal/fetcher"
	"github.com/sells-group/robot-exposure/internal/model"
)

// LoadClassifications reads the IFR class to application label table.
// Only allow-listed classes are kept; the first label wins for a repeated class.
func LoadClassifications(path, sheet string) ([]model.IFRClassification, error) {
	rows, err := fetcher.ReadXLSX(path, fetcher.XLSXOptions{SheetName: sheet})
	if err != nil {
		return nil, eris.Wrap(err, "dataset: classifications")
	}
	if len(rows) == 0 {
		return nil, eris.New("dataset: classifications: workbook is empty")
	}

	idx, err := columnIndex(rows[0], ColIFRClass, ColApplicationArea)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: classifications")
	}

	seen := make(map[int]bool)
	var out []model.IFRClassification
	for _, row := range rows[1:] {
		class, ok := model.ParseCode(cell(row, idx, ColIFRClass)).Get()
		if !ok || !model.IsValidIFRClass(class) {
			continue
		}
		if seen[class] {
			zap.L().Warn("dataset: duplicate ifr class, keeping first label", zap.Int("ifr_class", class))
			continue
		}
		seen[class] = true
		out = append(out, model.IFRClassification{
			Class:           class,
			ApplicationArea: cell(row, idx, ColApplicationArea),
		})
	}
	return out, nil
}
