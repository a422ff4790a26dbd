package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/robot-exposure/internal/model"
	"github.com/sells-group/robot-exposure/internal/present"
	"github.com/sells-group/robot-exposure/internal/resolver"
)

var (
	chartApplication string
	chartOut         string
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Write the Vega-Lite installation chart for an application",
	RunE: func(cmd *cobra.Command, _ []string) error {
		res, err := initResolver(cmd.Context(), "lookup")
		if err != nil {
			return err
		}

		spec, err := chartSpec(res, chartApplication)
		if err != nil {
			return err
		}

		if chartOut == "" {
			return writeChart(cmd.OutOrStdout(), spec)
		}

		f, err := os.Create(chartOut)
		if err != nil {
			return eris.Wrap(err, "create chart file")
		}
		defer f.Close() //nolint:errcheck

		if err := writeChart(f, spec); err != nil {
			return err
		}
		zap.L().Info("chart written", zap.String("path", chartOut))
		return nil
	},
}

// chartSpec builds the chart with application highlighted, the first
// application when empty.
func chartSpec(res *resolver.Resolver, application string) (map[string]any, error) {
	sel := resolver.Selection{}
	if application != "" {
		sel.Application = model.Some(application)
	}
	out, err := res.Resolve(sel)
	if err != nil {
		return nil, eris.Wrap(err, "chart")
	}
	return present.BuildChart(res.Reference().Installations, res.Labels(), out.ChartClass).VegaLite(), nil
}

func writeChart(w io.Writer, spec map[string]any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(spec), "encode chart")
}

func init() {
	chartCmd.Flags().StringVar(&chartApplication, "application", "", "application category to highlight (default: first)")
	chartCmd.Flags().StringVar(&chartOut, "out", "", "output file (default stdout)")
	rootCmd.AddCommand(chartCmd)
}
