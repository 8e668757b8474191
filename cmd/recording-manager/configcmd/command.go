package configcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openkcm/recording-manager/internal/cmdutils"
	"github.com/openkcm/recording-manager/internal/config"
)

func Cmd(buildInfo string) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long:  "Print the effective configuration as YAML. Secrets are shown as their source references.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := cmdutils.LoadConfig(buildInfo)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			out, err := config.Dump(cfg)
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(out)

			return err
		},
	}
}
