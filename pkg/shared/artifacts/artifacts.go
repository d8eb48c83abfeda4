package artifacts

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/abapscan/abapscan/pkg/shared"
	"github.com/abapscan/abapscan/pkg/shared/config"
	"github.com/abapscan/abapscan/pkg/shared/files"
)

// GetArtifactName build returns artifact name.
// Example: analyse_myrepo_2025-09-15T08:28:46Z.abapscan-artifact.
func GetArtifactName(command, subject string, t time.Time) string {
	ts := t.UTC().Format(time.RFC3339)
	metaDataFileName := fmt.Sprintf("%s_%s_%s.abapscan-artifact", command, subject, ts)
	return metaDataFileName
}

// SaveArtifactJSON writes the provided result to a <results>/<base>.json.
// Returns full path.
func SaveArtifactJSON(cfg *config.Config, logger hclog.Logger, command, subject string, result shared.GenericLaunchesResult) (string, error) {
	dir := config.GetResultsHome(cfg)
	base := GetArtifactName(command, subject, time.Now())
	path := filepath.Join(dir, base+".json")

	resultData, err := json.MarshalIndent(result, "", "    ")
	if err != nil {
		return path, fmt.Errorf("error marshaling the result data: %w", err)
	}

	if err := files.WriteJsonFile(path, resultData); err != nil {
		return path, fmt.Errorf("error writing result to log file: %w", err)
	}
	logger.Info("artifact saved to file", "path", path)

	return path, nil
}

// WriteGenericResult reports a command outcome. In CI mode the result is additionally
// persisted as a JSON artifact in the results folder.
func WriteGenericResult(cfg *config.Config, logger hclog.Logger, result shared.GenericLaunchesResult, command, subject string) {
	if config.IsCI(cfg) {
		if _, err := SaveArtifactJSON(cfg, logger, command, subject, result); err != nil {
			logger.Warn("failed to save artifact", "error", err)
		}
	}
	shared.PrintResultAsJSON(result)
}
