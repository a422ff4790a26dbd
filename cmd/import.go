package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load the reference files and save them as a store snapshot",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("import"); err != nil {
			return err
		}

		ref, err := newLoader().Load(ctx, referenceSources())
		if err != nil {
			return eris.Wrap(err, "load reference files")
		}

		st, err := initStore(ctx)
		if err != nil {
			return eris.Wrap(err, "init store")
		}
		defer st.Close() //nolint:errcheck

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}
		if err := st.SaveReference(ctx, ref); err != nil {
			return eris.Wrap(err, "save reference")
		}

		zap.L().Info("import complete",
			zap.String("driver", cfg.Store.Driver),
			zap.Int("professions", len(ref.Professions)),
			zap.Int("classifications", len(ref.Classifications)),
			zap.Int("installations", len(ref.Installations)),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
