package dataset

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Column names of the reference sources.
const (
	ColDescription   = "descrizione_unita_prof"
	ColRobot         = "robot"
	ColComplementary = "complementare"
	ColIFRLevel1     = "IFR_l1_rev"
	ColIFRLevel2     = "IFR_l2_rev"

	ColIFRClass        = "ifr_class"
	ColApplicationArea = "application_area_it"

	ColYear          = "year"
	ColIFRAct        = "ifr_act"
	ColInstallations = "robots_it"
)

// DefaultProfessionsSheet is the sheet of the matching workbook holding the table.
const DefaultProfessionsSheet = "Tabella_MATCHING"

// columnIndex maps the required column names to their position in header.
func columnIndex(header []string, required ...string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if _, dup := idx[name]; !dup && name != "" {
			idx[name] = i
		}
	}
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			return nil, eris.Errorf("missing column %q", col)
		}
	}
	return idx, nil
}

// cell returns the trimmed value at column col, or "" for short rows.
func cell(row []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
