package vcsurl

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
)

type Protocol int

const (
	SSH Protocol = iota
	HTTP
)

type VCSType int

const (
	UnknownVCS VCSType = iota // UnknownVCS means that the type of VCS is unknown and not specified and should be determined from the URL
	GenericVCS                // Generic means that we should use generic handler and dynamic ignore vcs determination
	Github                    // Github means that the VCS is Github
	Gitlab                    // Gitlab means that the VCS is Gitlab
)

// GetPathDirs splits the URL path into non-empty segments.
func GetPathDirs(path string) []string {
	var pathDirs []string
	for _, dir := range strings.Split(path, "/") {
		if dir != "" {
			pathDirs = append(pathDirs, dir)
		}
	}
	return pathDirs
}

// StringToVCSType converts a string to a VCSType
func StringToVCSType(s string) VCSType {
	switch s {
	case "github":
		return Github
	case "gitlab":
		return Gitlab
	case "generic":
		return GenericVCS
	default:
		return UnknownVCS
	}
}

// define allows schemes: http, https and ssh
var validSchemes = []string{"http", "https", "ssh"}

// function to check whether the scheme is valid
func isValidScheme(scheme string) bool {
	for _, validScheme := range validSchemes {
		if scheme == validScheme {
			return true
		}
	}
	return false
}

// VCSURL represents a parsed VCS URL
type VCSURL struct {
	VCSType      VCSType
	Namespace    string
	Repository   string
	Branch       string
	HTTPRepoLink string
	SSHRepoLink  string
	ParsedURL    *url.URL
	Raw          string
}

// Protocol returns the protocol of the VCS URL (HTTP or SSH)
func (u *VCSURL) Protocol() Protocol {
	if u.ParsedURL.Scheme == "http" || u.ParsedURL.Scheme == "https" {
		return HTTP
	}
	return SSH
}

// determineVCSType determines the VCS type based on the hostname
func determineVCSType(host string) (VCSType, error) {
	if strings.Contains(host, "github") {
		return Github, nil
	} else if strings.Contains(host, "gitlab") {
		return Gitlab, nil
	}
	return GenericVCS, fmt.Errorf("unknown VCS type for host: %q", host)
}

// Parse parses a VCS URL and returns a VCSURL struct for unknown VCS Type
func Parse(raw string) (*VCSURL, error) {
	return ParseForVCSType(raw, UnknownVCS)
}

// ParseForVCSType parses a VCS URL and returns a VCSURL struct for a specific VCS Type
func ParseForVCSType(raw string, vcsType VCSType) (*VCSURL, error) {
	var vcsURL VCSURL
	vcsURL.Raw = raw

	// preparse special type of URLs like "git@<host>:<path>"
	spec := raw
	if parts := regexp.MustCompile(`^git@([^:]+)\:(.*)$`).FindStringSubmatch(spec); len(parts) == 3 {
		spec = fmt.Sprintf("ssh://%s/%s", parts[1], parts[2])
	}

	// strip .git suffix from the URL
	spec = strings.TrimSuffix(spec, ".git")

	// parse URL and save it as a struct field
	parsedURL, err := url.ParseRequestURI(spec)
	if err != nil {
		return nil, err
	}
	vcsURL.ParsedURL = parsedURL

	// validate scheme
	if !isValidScheme(vcsURL.ParsedURL.Scheme) {
		return nil, fmt.Errorf("invalid scheme: %q", vcsURL.Raw)
	}

	// determine VCS type either from the input or from the URL Hostname
	effectiveVCSType := vcsType
	if effectiveVCSType == UnknownVCS {
		effectiveVCSType, _ = determineVCSType(vcsURL.ParsedURL.Hostname())
	}
	vcsURL.VCSType = effectiveVCSType

	// handle the URL based on the VCS type
	switch effectiveVCSType {
	case Github:
		return parseGithub(vcsURL)
	case Gitlab:
		return parseGitlab(vcsURL)
	default:
		return handleGenericVCS(vcsURL)
	}
}

func handleGenericVCS(u VCSURL) (*VCSURL, error) {
	pathDirs := GetPathDirs(u.ParsedURL.Path)

	// Case of working with the whole VCS
	if len(pathDirs) == 0 {
		return &u, nil
	}

	// Case of working with the whole project
	if len(pathDirs) == 1 {
		u.Namespace = pathDirs[0]
		return &u, nil
	}

	// Case of working with the certain repo
	u.Namespace = path.Join(pathDirs[0 : len(pathDirs)-1]...)
	u.Repository = pathDirs[len(pathDirs)-1]
	buildGenericURLs(&u)
	return &u, nil
}

// parseGitlab processes Gitlab URLs to extract repository information.
func parseGitlab(u VCSURL) (*VCSURL, error) {
	pathDirs := GetPathDirs(u.ParsedURL.Path)

	// Search for "tree" in pathDirs (excluding the first three segments)
	branchIndex := -1
	for i := 3; i < len(pathDirs); i++ {
		if pathDirs[i] == "tree" {
			branchIndex = i
			break
		}
	}

	switch {
	// Case of working with the whole VCS - https://gitlab.com/
	case len(pathDirs) == 0:
		return &u, nil
	// Case for working with a root group - https://gitlab.com/<group_name>
	case len(pathDirs) == 1:
		u.Namespace = pathDirs[0]
		return &u, nil
	// Case for working with a specific repository - https://gitlab.com/<group>/<subgroup>/.../<project>
	// Assumes the last segment is the repository name.
	case len(pathDirs) >= 2:
		if branchIndex > 2 && pathDirs[branchIndex-1] == "-" {
			// Repo + Branch fetching case - https://gitlab.com/<group_name>/<project_name>/-/tree/<branch_name>
			u.Namespace = path.Join(pathDirs[:branchIndex-2]...)
			u.Repository = pathDirs[branchIndex-2]
			u.Branch = strings.Join(pathDirs[branchIndex+1:], "/")
		} else {
			u.Namespace = path.Join(pathDirs[:len(pathDirs)-1]...)
			u.Repository = pathDirs[len(pathDirs)-1]
		}

		buildGenericURLs(&u)
		return &u, nil
	default:
		return &u, fmt.Errorf("invalid Gitlab URL: %q", u.Raw)
	}
}

// parseGithub processes Github URLs to extract repository information.
func parseGithub(u VCSURL) (*VCSURL, error) {
	pathDirs := GetPathDirs(u.ParsedURL.Path)

	switch {
	// Case of working with the whole VCS - https://github.com/
	case len(pathDirs) == 0:
		return &u, nil
	// Case for working with a whole project - https://github.com/<project_name>
	case len(pathDirs) == 1:
		u.Namespace = pathDirs[0]
		return &u, nil
	// Case for working with a specific repo with a branch https://github.com/<project_name>/<repo_name>/tree/<branch_name>
	case len(pathDirs) > 3:
		u.Namespace = pathDirs[0]
		u.Repository = pathDirs[1]
		if pathDirs[2] == "tree" {
			u.Branch = strings.Join(pathDirs[3:], "/")
		}
		buildGenericURLs(&u)
		return &u, nil
	// Case for working with a specific repo - https://github.com/<project_name>/<repo_name>/
	case len(pathDirs) > 1:
		u.Namespace = pathDirs[0]
		u.Repository = pathDirs[1]
		buildGenericURLs(&u)
		return &u, nil
	default:
		return &u, fmt.Errorf("invalid Github URL: %q", u.Raw)
	}
}

// buildGenericURLs sets the HTTP and SSH URLs for repositories.
func buildGenericURLs(u *VCSURL) {
	u.HTTPRepoLink = fmt.Sprintf("https://%s/%s/%s", u.ParsedURL.Hostname(), u.Namespace, u.Repository)
	u.SSHRepoLink = fmt.Sprintf("ssh://git@%s/%s/%s.git", u.ParsedURL.Hostname(), u.Namespace, u.Repository)
}
