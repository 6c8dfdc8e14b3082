package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"orthanc-health/internal/validate"
)

var containerCmd = &cobra.Command{
	Use:   "container",
	Short: "Start a temporary Orthanc container and wait for it to come up",
	RunE:  runContainer,
}

func runContainer(cmd *cobra.Command, args []string) error {
	check := validate.NewContainerCheck(composePath, validate.ExecRunner{Sudo: useSudo}, slog.Default())
	result, err := check.Run(cmd.Context())
	if err != nil {
		slog.Error("Container check failed", "state", result.State, "error", err)
	}
	return err
}
