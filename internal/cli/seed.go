package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"quiz-arcade/internal/infra/bankfile"
	"quiz-arcade/internal/infra/postgres"
	"quiz-arcade/internal/logging"
)

// NewSeedCmd loads question banks from a YAML file into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert question banks from a YAML file into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			logger := logging.New(cmd.ErrOrStderr(), cfg.Log.Level)

			banks, err := bankfile.Load(file)
			if err != nil {
				return err
			}

			db, err := openBunDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			if err := migrateDB(ctx, db, logger); err != nil {
				return err
			}

			ids := make([]string, 0, len(banks))
			for id := range banks {
				ids = append(ids, id)
			}
			sort.Strings(ids)

			writer := postgres.NewBankWriter(db)
			for _, id := range ids {
				if err := writer.SaveBank(ctx, banks[id]); err != nil {
					return err
				}
				logger.Info("bank seeded", "bank", id, "questions", banks[id].Size())
			}
			if len(ids) == 0 {
				return fmt.Errorf("no banks in %s", file)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "config/banks.yaml", "YAML file with question banks")
	return cmd
}
