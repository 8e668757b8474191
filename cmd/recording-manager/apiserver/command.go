package apiserver

import (
	"github.com/spf13/cobra"

	"github.com/openkcm/recording-manager/internal/business"
	"github.com/openkcm/recording-manager/internal/cmdutils"
)

func Cmd(buildInfo string) *cobra.Command {
	return cmdutils.CobraCommand(
		"api-server",
		"Recording Manager API server",
		"Recording Manager API server hosts the HTTP recordings API and runs the housekeeping inline",
		buildInfo,
		cmdutils.RunAsService,
		business.Main,
	)
}
