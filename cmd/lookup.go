package main

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/robot-exposure/internal/model"
	"github.com/sells-group/robot-exposure/internal/present"
	"github.com/sells-group/robot-exposure/internal/resolver"
)

var (
	lookupProfession  string
	lookupApplication string
	lookupFormat      string
)

var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Report the robot exposure of a profession",
	RunE: func(cmd *cobra.Command, _ []string) error {
		res, err := initResolver(cmd.Context(), "lookup")
		if err != nil {
			return err
		}

		sel := resolver.Selection{}
		if lookupProfession != "" {
			sel.Profession = model.Some(lookupProfession)
		}
		if lookupApplication != "" {
			sel.Application = model.Some(lookupApplication)
		}

		out, err := res.Resolve(sel)
		if err != nil {
			return eris.Wrap(err, "lookup")
		}
		return writeResolution(cmd.OutOrStdout(), out, lookupFormat)
	},
}

type lookupOutput struct {
	resolver.Resolution `yaml:",inline"`
	Statements          []present.Statement `json:"statements" yaml:"statements"`
}

// writeResolution renders res as text, json or yaml.
func writeResolution(w io.Writer, res resolver.Resolution, format string) error {
	switch format {
	case "", "text":
		return present.RenderTerminal(w, res)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(lookupOutput{Resolution: res, Statements: present.Statements(res)})
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(lookupOutput{Resolution: res, Statements: present.Statements(res)}); err != nil {
			return eris.Wrap(err, "encode yaml")
		}
		return enc.Close()
	default:
		return eris.Errorf("unsupported format %q (text, json, yaml)", format)
	}
}

func init() {
	lookupCmd.Flags().StringVar(&lookupProfession, "profession", "", "profession description (empty for no selection)")
	lookupCmd.Flags().StringVar(&lookupApplication, "application", "", "application category of the chart (default: first)")
	lookupCmd.Flags().StringVar(&lookupFormat, "format", "text", "output format: text, json or yaml")
	rootCmd.AddCommand(lookupCmd)
}
