package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"orthanc-health/internal/validate"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Validate ORTHANC_JSON and ORTHANC__DICOM_MODALITIES",
	RunE:  runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	_, err := validate.ValidateConfig(composePath, slog.Default())
	if err != nil {
		slog.Error("Configuration check failed", "error", err)
	}
	return err
}
