package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bibbank/riskscore/internal/application/dto"
	"github.com/bibbank/riskscore/internal/application/usecase"
	"github.com/bibbank/riskscore/internal/domain/service"
	"github.com/bibbank/riskscore/internal/infrastructure/snapshot"
)

func newRankCmd(a *app) *cobra.Command {
	var (
		snapshotPath string
		totalField   string
		minScore     int
		topN         int
	)

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank every entity in a snapshot",
		Long: `Score every record in a snapshot, rank them by descending score and
print the ranked list with an aggregate summary.

The minimum score filter applies before ranking; --top truncates afterwards,
so the summary always describes every entity that passed the filter.

Examples:
  riskscore rank --snapshot customers.json
  riskscore rank --snapshot customers.json --min-score 40 --top 10
  riskscore rank --snapshot customers.json --total mrr`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := snapshot.Load(snapshotPath)
			if err != nil {
				return err
			}

			req := dto.RankRequest{
				Records:    snap.Records,
				Related:    snap.Related,
				TotalField: totalField,
				MinScore:   a.cfg.MinScore,
				TopN:       a.cfg.TopN,
			}
			if cmd.Flags().Changed("min-score") {
				req.MinScore = service.MinScore(minScore)
			}
			if cmd.Flags().Changed("top") {
				req.TopN = topN
			}

			uc := usecase.NewRankEntities(a.scorer, a.publisher, a.recorder, a.logger, nil)
			resp, err := uc.Execute(cmd.Context(), req)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "snapshot file (JSON or YAML, - for stdin)")
	cmd.Flags().IntVar(&minScore, "min-score", 0, "drop entities scoring below this value (default $SCORING_MIN_SCORE)")
	cmd.Flags().IntVar(&topN, "top", 0, "return at most N entities, 0 for all (default $SCORING_TOP_N)")
	cmd.Flags().StringVar(&totalField, "total", usecase.TotalFieldRevenue, `summed field: "revenue" or a numeric record field`)
	_ = cmd.MarkFlagRequired("snapshot")

	return cmd
}
