package analyser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/abapscan/abapscan/internal/ci"
	"github.com/abapscan/abapscan/internal/findings"
	"github.com/abapscan/abapscan/internal/git"
	"github.com/abapscan/abapscan/pkg/shared/config"
	"github.com/abapscan/abapscan/pkg/shared/files"
)

// reportExtension returns the report file extension for the configured format.
func (a *Analyser) reportExtension() string {
	if a.reportFormat != "" {
		return a.reportFormat
	}
	return "json"
}

// GenerateReportName builds the report file name for this run. Inside a CI
// pipeline the name is stable and carries the repository and branch, so
// consecutive pipeline runs overwrite the same artifact. Outside CI the
// name is timestamped.
func (a *Analyser) GenerateReportName(cfg *config.Config, startTime time.Time) string {
	ext := a.reportExtension()
	if config.IsCI(cfg) {
		env, err := ci.GetCIDefaultEnvVars(ci.DetectCIKind())
		if err == nil && env.RepositoryName != "" {
			name := "abapscan-report-" + env.RepositoryName
			if branch := strings.ReplaceAll(env.ReferenceName, "/", "-"); branch != "" {
				name += "-" + branch
			}
			return fmt.Sprintf("%s.%s", name, ext)
		}
		return fmt.Sprintf("abapscan-report.%s", ext)
	}
	return fmt.Sprintf("abapscan-report-%s.%s", startTime.UTC().Format(time.RFC3339), ext)
}

// DetermineOutputPath resolves the report destination. An explicit output path
// pointing at a file wins as-is; directories get the generated report name
// appended. Without an output flag the report lands next to the target, or in
// the results home for unit scans.
func (a *Analyser) DetermineOutputPath(cfg *config.Config, targetPath, outputPath string, startTime time.Time) (string, error) {
	base := outputPath
	if base == "" && targetPath != "" {
		base = targetPath
		// A single-file target must not be mistaken for the report file.
		if info, err := os.Stat(base); err == nil && !info.IsDir() {
			base = filepath.Dir(base)
		}
	}
	if base == "" {
		base = config.GetResultsHome(cfg)
	}

	fullPath, folder, err := files.DetermineFileFullPath(base, a.GenerateReportName(cfg, startTime))
	if err != nil {
		return "", fmt.Errorf("failed to determine report path: %w", err)
	}
	if err := files.CreateFolderIfNotExists(folder); err != nil {
		return "", fmt.Errorf("failed to create results folder %q: %w", folder, err)
	}

	return fullPath, nil
}

// ResolveProvenance determines where the scanned sources came from. Inside a
// CI pipeline the provider variables win; otherwise the local clone metadata
// is used when the target sits inside a git working tree.
func ResolveProvenance(cfg *config.Config, logger hclog.Logger, root string) *findings.Provenance {
	if config.IsCI(cfg) {
		env, err := ci.GetCIDefaultEnvVars(ci.DetectCIKind())
		if err == nil {
			prov := &findings.Provenance{
				RepositoryURL: env.RepositoryURL,
				Revision:      env.CommitHash,
				Branch:        env.ReferenceName,
			}
			if *prov != (findings.Provenance{}) {
				return prov
			}
		} else {
			logger.Debug("ci environment not resolvable", "error", err)
		}
	}

	if root == "" {
		return nil
	}

	meta, err := git.CollectRepositoryMetadata(root)
	if err != nil {
		logger.Debug("no repository metadata for target", "path", root, "error", err)
		return nil
	}

	prov := &findings.Provenance{}
	if meta.RepositoryURL != nil {
		prov.RepositoryURL = *meta.RepositoryURL
	}
	if meta.CommitHash != nil {
		prov.Revision = *meta.CommitHash
	}
	if meta.BranchName != nil {
		prov.Branch = *meta.BranchName
	}
	if *prov == (findings.Provenance{}) {
		return nil
	}
	return prov
}
