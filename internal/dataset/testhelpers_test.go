package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func writeWorkbook(t *testing.T, dir, name string, sheets map[string][][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	for sheetName, rows := range sheets {
		sheet, err := f.AddSheet(sheetName)
		require.NoError(t, err)
		for _, data := range rows {
			row := sheet.AddRow()
			for _, v := range data {
				row.AddCell().SetString(v)
			}
		}
	}
	path := filepath.Join(dir, name)
	require.NoError(t, f.Save(path))
	return path
}

func matchingRows() [][]string {
	return [][]string{
		{"descrizione_unita_prof", "robot", "complementare", "IFR_l1_rev", "IFR_l2_rev"},
		{"Idraulico", "si", "no", "120", "160"},
		{"Saldatore", "si", "no", "114", ""},
		{"Tecnico della robotica", "no", "si", "", ""},
		{"Insegnante", "no", "", "", ""},
		{"", "si", "si", "111", "111"},
		{"Verniciatore", "SI", "no", "111.0", "999"},
	}
}

func classificationRows() [][]string {
	return [][]string{
		{"ifr_class", "application_area_it"},
		{"111", "Manipolazione per fusione"},
		{"114", "Saldatura"},
		{"160", "Assemblaggio e smontaggio"},
		{"120", "Fuori elenco"},
		{"160", "Duplicato"},
	}
}

const installationsCSV = `year,ifr_act,robots_it
2018,111,120
2018,160,340
2019,111,150
2019,160,
2019,120,999
2020,abc,5
`

func writeSources(t *testing.T) Sources {
	t.Helper()
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "robots_it.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(installationsCSV), 0o644))

	return Sources{
		Professions:     writeWorkbook(t, dir, "matching.xlsx", map[string][][]string{DefaultProfessionsSheet: matchingRows(), "Note": {{"x"}}}),
		Classifications: writeWorkbook(t, dir, "ifr.xlsx", map[string][][]string{"Sheet1": classificationRows()}),
		Installations:   csvPath,
	}
}
