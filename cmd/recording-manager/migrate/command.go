package migrate

import (
	"github.com/spf13/cobra"

	"github.com/openkcm/recording-manager/internal/business"
	"github.com/openkcm/recording-manager/internal/cmdutils"
)

func Cmd(buildInfo string) *cobra.Command {
	return cmdutils.CobraCommand(
		"migrate",
		"Recording Manager migrations",
		"Applies the recordings table migrations to the configured PostgreSQL database",
		buildInfo,
		cmdutils.RunAsJob,
		business.MigrateMain,
	)
}
