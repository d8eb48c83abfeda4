package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abapscan/abapscan/pkg/shared/config"
)

// Populated at build time through ldflags.
var (
	CoreVersion   = "unknown"
	GolangVersion = "unknown"
	BuildTime     = "unknown"
)

var AppConfig *config.Config

// Versions describes the build identity of the abapscan binary.
type Versions struct {
	CoreVersion   string `json:"core_version"`
	GolangVersion string `json:"golang_version"`
	BuildTime     string `json:"build_time"`
}

// Current returns the tool version recorded in generated reports.
func Current() string {
	return CoreVersion
}

var VersionCmd = &cobra.Command{
	Use:                   "version",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Short:                 "Print the version of the abapscan binary",
	RunE:                  runVersionCommand,
}

func runVersionCommand(cmd *cobra.Command, args []string) error {
	versions := Versions{
		CoreVersion:   CoreVersion,
		GolangVersion: GolangVersion,
		BuildTime:     BuildTime,
	}

	fmt.Printf("Core Version: v%s\n", versions.CoreVersion)
	fmt.Printf("Go Version: %s\n", versions.GolangVersion)
	fmt.Printf("Build Time: %s\n", versions.BuildTime)
	return nil
}

func Init(cfg *config.Config) {
	AppConfig = cfg
}
