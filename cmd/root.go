package cmd

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/abapscan/abapscan/cmd/analyse"
	"github.com/abapscan/abapscan/cmd/diff"
	"github.com/abapscan/abapscan/cmd/fetch"
	"github.com/abapscan/abapscan/cmd/list"
	"github.com/abapscan/abapscan/cmd/remediate"
	"github.com/abapscan/abapscan/cmd/report"
	"github.com/abapscan/abapscan/cmd/serve"
	"github.com/abapscan/abapscan/cmd/upload"
	"github.com/abapscan/abapscan/cmd/version"
	"github.com/abapscan/abapscan/pkg/shared/config"
	"github.com/abapscan/abapscan/pkg/shared/errors"
)

var (
	cfgFile   string
	AppConfig *config.Config
	rootCmd   = &cobra.Command{
		Use:                   "abapscan [command]",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Abapscan finds deprecated MM-IM table usage in ABAP code.",
		Long: `Abapscan scans ABAP sources for reads of the material document tables that
S/4HANA merged into MATDOC, reports every occurrence together with a suggested
replacement, and serves the same analysis over HTTP for editor integrations.`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yml)")
	rootCmd.AddCommand(
		version.VersionCmd,
		analyse.AnalyseCmd,
		serve.ServeCmd,
		fetch.FetchCmd,
		list.ListCmd,
		report.ReportCmd,
		upload.UploadCmd,
		remediate.RemediateCmd,
		diff.DiffCmd,
	)
}

// Execute runs the selected command and returns the process exit code.
func Execute() int {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	if err := rootCmd.Execute(); err != nil {
		var commandError *errors.CommandError
		if stderrors.As(err, &commandError) {
			return commandError.ExitCode
		}
		return 1
	}
	return 0
}

func initConfig() {
	// .env files carry credentials in development setups, a missing file is fine
	_ = godotenv.Load()

	if cfgFile == "" {
		cfgFile = "config.yml"
	}

	cfg, err := config.LoadConfig(cfgFile)
	if err != nil && !stderrors.Is(err, config.ErrConfigNotFound) {
		fmt.Fprintf(os.Stderr, "failed to load the configuration: %v\n", err)
		os.Exit(1)
	}
	AppConfig = cfg

	version.Init(AppConfig)
	analyse.Init(AppConfig)
	serve.Init(AppConfig)
	fetch.Init(AppConfig)
	list.Init(AppConfig)
	report.Init(AppConfig)
	upload.Init(AppConfig)
	remediate.Init(AppConfig)
	diff.Init(AppConfig)
}
