package fetch

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/abapscan/abapscan/internal/fetcher"
	"github.com/abapscan/abapscan/internal/git"
	"github.com/abapscan/abapscan/pkg/shared"
	"github.com/abapscan/abapscan/pkg/shared/files"
)

const (
	ModeSingleURL = "single-url"
	ModeInputFile = "input-file"
)

// defaultRmExts lists the file extensions removed from fetched working trees.
// None of them can hold ABAP source.
var defaultRmExts = []string{"csv", "png", "ipynb", "txt", "md", "mp4", "zip", "gif", "gz", "jpg", "jpeg", "cache", "tar", "svg", "bin", "lock", "exe"}

func determineMode(args []string) string {
	if len(args) > 0 {
		return ModeSingleURL
	}
	return ModeInputFile
}

func prepareFetchRequests(f fetcher.Fetcher, options *RunOptionsFetch, args []string, mode string) ([]git.CloneRequest, error) {
	switch mode {
	case ModeSingleURL:
		request, err := f.PrepRequestFromURL(AppConfig, args[0])
		if err != nil {
			return nil, err
		}
		return []git.CloneRequest{request}, nil
	case ModeInputFile:
		repos, err := readReposFile(options.InputFile)
		if err != nil {
			return nil, fmt.Errorf("error parsing the input file %v: %w", options.InputFile, err)
		}
		return f.PrepRequests(AppConfig, repos)
	default:
		return nil, fmt.Errorf("invalid fetching mode: %v", mode)
	}
}

// readReposFile loads repository descriptions produced by the list command.
func readReposFile(inputFile string) ([]shared.RepositoryParams, error) {
	expandedPath, err := files.ExpandPath(inputFile)
	if err != nil {
		return nil, fmt.Errorf("failed to expand path %q: %w", inputFile, err)
	}

	data, err := os.ReadFile(expandedPath)
	if err != nil {
		return nil, err
	}

	var repos []shared.RepositoryParams
	if err := json.Unmarshal(data, &repos); err != nil {
		return nil, err
	}

	for _, repo := range repos {
		if err := validateRepoParams(repo); err != nil {
			return nil, err
		}
	}
	return repos, nil
}

// gitSecrets collects credential material for the git client from the
// environment.
func gitSecrets() map[string]string {
	return map[string]string{
		"Username":       os.Getenv("ABAPSCAN_GIT_USERNAME"),
		"Token":          os.Getenv("ABAPSCAN_GIT_TOKEN"),
		"SSHKeyPassword": os.Getenv("ABAPSCAN_GIT_SSH_KEY_PASSWORD"),
	}
}

func launchesError(result shared.GenericLaunchesResult) error {
	failed := 0
	for _, launch := range result.Launches {
		if launch.Status != "OK" {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d fetches failed", failed, len(result.Launches))
	}
	return nil
}
