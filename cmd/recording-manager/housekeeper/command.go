package housekeeper

import (
	"github.com/spf13/cobra"

	"github.com/openkcm/recording-manager/internal/business"
	"github.com/openkcm/recording-manager/internal/cmdutils"
)

func Cmd(buildInfo string) *cobra.Command {
	return cmdutils.CobraCommand(
		"housekeeper",
		"Recording Manager Housekeeping job",
		"Recording Manager Housekeeping job purges archived recordings past their retention",
		buildInfo,
		cmdutils.RunAsService,
		business.HousekeeperMain,
	)
}
