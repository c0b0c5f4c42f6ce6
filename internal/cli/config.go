package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewConfigCommand creates the config command group.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the configuration after defaults and overrides",
		Long: `Print the configuration the engine would run with: schema defaults,
unified with --config, with --db applied last.

Exit codes:
  0 - Configuration is valid
  2 - Configuration file missing or invalid`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}

			var b strings.Builder
			fmt.Fprintf(&b, "database:        %s\n", cfg.Database)
			fmt.Fprintf(&b, "log_level:       %s\n", cfg.LogLevel)
			fmt.Fprintf(&b, "name_max_length: %d\n", cfg.NameMaxLength)
			fmt.Fprintf(&b, "final_score:     [%s, %s]\n", formatScore(cfg.FinalScore.Min), formatScore(cfg.FinalScore.Max))
			fmt.Fprintf(&b, "weights:         midterm=%s final=%s homework=%s\n",
				formatScore(cfg.Weights.Midterm), formatScore(cfg.Weights.Final), formatScore(cfg.Weights.Homework))
			fmt.Fprintf(&b, "tx_timeout:      %s\n", cfg.TxTimeout)

			return newFormatter(rootOpts, cmd).Render(b.String(), cfg)
		},
	})

	return cmd
}
