package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/robot-exposure/internal/config"
)

func writeWorkbook(t *testing.T, path, sheetName string, rows [][]string) {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	require.NoError(t, err)
	for _, data := range rows {
		row := sheet.AddRow()
		for _, v := range data {
			row.AddCell().SetString(v)
		}
	}
	require.NoError(t, f.Save(path))
}

// setupFiles writes a small reference data set and points the global
// config at it. The store is a SQLite file in the same temp dir.
func setupFiles(t *testing.T) {
	t.Helper()
	dir := t.TempDir()

	writeWorkbook(t, filepath.Join(dir, "matching.xlsx"), "Tabella_MATCHING", [][]string{
		{"descrizione_unita_prof", "robot", "complementare", "IFR_l1_rev", "IFR_l2_rev"},
		{"Saldatore", "si", "no", "114", ""},
		{"Tecnico della robotica", "no", "si", "190", ""},
		{"Insegnante", "no", "no", "", ""},
	})
	writeWorkbook(t, filepath.Join(dir, "ifr.xlsx"), "Sheet1", [][]string{
		{"ifr_class", "application_area_it"},
		{"111", "Manipolazione per fusione"},
		{"114", "Saldatura"},
		{"190", "Altre applicazioni"},
	})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "robots_it.csv"), []byte(
		"year,ifr_act,robots_it\n2019,114,1200\n2020,114,900\n2019,111,300\n"), 0o644))

	c := &config.Config{}
	c.Reference.Source = "files"
	c.Reference.Professions = filepath.Join(dir, "matching.xlsx")
	c.Reference.ProfessionsSheet = "Tabella_MATCHING"
	c.Reference.Classifications = filepath.Join(dir, "ifr.xlsx")
	c.Reference.Installations = filepath.Join(dir, "robots_it.csv")
	c.Store.Driver = "sqlite"
	c.Store.DatabaseURL = filepath.Join(dir, "snapshot.db")
	c.Fetch.TimeoutSecs = 5
	c.Server.Port = 8080

	prev := cfg
	cfg = c
	t.Cleanup(func() { cfg = prev })
}

func withContext(cmd *cobra.Command) *cobra.Command {
	cmd.SetContext(context.Background())
	return cmd
}
