package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bibbank/riskscore/internal/application/dto"
	"github.com/bibbank/riskscore/internal/application/usecase"
	"github.com/bibbank/riskscore/internal/infrastructure/snapshot"
)

func newScoreCmd(a *app) *cobra.Command {
	var (
		snapshotPath string
		entityID     string
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a single entity",
		Long: `Score one entity from a snapshot against the related records.

Examples:
  riskscore score --snapshot customers.json --id c42
  cat customers.json | riskscore score --snapshot - --id c42`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := snapshot.Load(snapshotPath)
			if err != nil {
				return err
			}
			record, err := snap.Find(a.scoring.Extractor.IDField, entityID)
			if err != nil {
				return err
			}

			uc := usecase.NewScoreEntity(a.scorer, a.publisher, a.recorder, nil)
			resp, err := uc.Execute(cmd.Context(), dto.ScoreEntityRequest{
				Record:  record,
				Related: snap.Related,
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "snapshot file (JSON or YAML, - for stdin)")
	cmd.Flags().StringVar(&entityID, "id", "", "entity id to score")
	_ = cmd.MarkFlagRequired("snapshot")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}
