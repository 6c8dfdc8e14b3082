package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"orthanc-health/internal/validate"
)

var (
	composePath string
	useSudo     bool
	isDebug     bool
)

var rootCmd = &cobra.Command{
	Use:          "orthanc-validate",
	Short:        "Validate the Orthanc compose configuration",
	Long:         `orthanc-validate checks the Orthanc JSON settings in the compose file, then boots a throwaway Orthanc container to confirm it starts.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
		setupLogger(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runConfig(cmd, args); err != nil {
			return err
		}
		return runContainer(cmd, args)
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&composePath, "file", "f", validate.DefaultComposePath, "docker compose file holding the orthanc service")
	rootCmd.PersistentFlags().BoolVar(&useSudo, "sudo", false, "run docker through sudo")
	rootCmd.PersistentFlags().BoolVar(&isDebug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(configCmd, containerCmd)
}

func setupLogger(cmd *cobra.Command) {
	level := slog.LevelInfo
	if isDebug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(cmd.ErrOrStderr(), &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})))
}
