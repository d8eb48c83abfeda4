// Package serve runs the remediation suggestion HTTP server.
package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abapscan/abapscan/internal/catalog"
	"github.com/abapscan/abapscan/internal/remediate"
	"github.com/abapscan/abapscan/internal/scanner"
	"github.com/abapscan/abapscan/internal/server"
	"github.com/abapscan/abapscan/pkg/shared/config"
	"github.com/abapscan/abapscan/pkg/shared/errors"
	"github.com/abapscan/abapscan/pkg/shared/logger"
)

var AppConfig *config.Config

// RunOptionsServe holds the arguments of the serve command.
type RunOptionsServe struct {
	Host string `json:"host,omitempty"`
	Port int    `json:"port,omitempty"`
}

var allArgumentsServe RunOptionsServe

var exampleServeUsage = `  # Start the remediation server with settings from config.yml
  abapscan serve

  # Listen on all interfaces on a custom port
  abapscan serve --host 0.0.0.0 --port 8443`

var ServeCmd = &cobra.Command{
	Use:                   "serve [flags]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleServeUsage,
	Short:                 "Serve remediation suggestions for MM-IM development objects over HTTP",
	RunE:                  runServeCommand,
}

func runServeCommand(cmd *cobra.Command, args []string) error {
	log := logger.NewLogger(AppConfig, "core-serve")

	if len(args) != 0 {
		err := fmt.Errorf("invalid argument(s) received, the serve command takes no positional arguments")
		log.Error("invalid serve arguments", "error", err)
		return errors.NewCommandError(allArgumentsServe, nil, err, 1)
	}

	if allArgumentsServe.Host != "" {
		AppConfig.Server.Host = allArgumentsServe.Host
	}
	if allArgumentsServe.Port != 0 {
		AppConfig.Server.Port = allArgumentsServe.Port
	}

	s, err := scanner.New(catalog.MustBuild())
	if err != nil {
		log.Error("failed to initialise the scanner", "error", err)
		return errors.NewCommandError(allArgumentsServe, nil, err, 1)
	}
	processor := remediate.NewProcessor(s, AppConfig.Server.Workers, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.New(AppConfig, log, processor).Start(ctx); err != nil {
		log.Error("server terminated", "error", err)
		return errors.NewCommandError(allArgumentsServe, nil, err, 2)
	}
	return nil
}

func init() {
	ServeCmd.Flags().StringVar(&allArgumentsServe.Host, "host", "", "host to listen on, overrides the configured value")
	ServeCmd.Flags().IntVar(&allArgumentsServe.Port, "port", 0, "port to listen on, overrides the configured value")
	ServeCmd.Flags().BoolP("help", "h", false, "help for the serve command")
}

func Init(cfg *config.Config) {
	AppConfig = cfg
}
