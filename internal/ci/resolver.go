package ci

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// Resolution contains CI environment metadata resolved for VCS operations.
type Resolution struct {
	Kind       CIKind
	Provider   string
	Domain     string
	Namespace  string
	Repository string
	Branch     string
	CommitHash string
	Hydrated   bool
}

// ResolveFromEnvironment determines the CI kind and collects metadata using the
// process environment. A non-empty providedProvider is validated and preferred,
// while conflicts with the detected environment are logged. When neither a
// supported provider is given nor an environment can be detected, an error is
// returned so callers can prompt for explicit configuration.
func ResolveFromEnvironment(log hclog.Logger, providedProvider string) (Resolution, error) {
	provider := strings.TrimSpace(providedProvider)
	result := Resolution{Provider: provider}

	providedKind := CIUnknown
	if provider != "" {
		parsed, err := ParseCIKind(provider)
		if err != nil {
			if log != nil {
				log.Warn("unable to interpret vcs option; falling back to CI detection", "vcs", provider, "error", err)
			}
		} else {
			providedKind = parsed
			result.Provider = parsed.String()
		}
	}

	detectedKind := DetectCIKind()
	result.Kind = detectedKind

	if provider == "" {
		if detectedKind == CIUnknown {
			if log != nil {
				log.Error("unable to detect VCS provider from CI environment; specify --vcs option")
			}
			return Resolution{}, fmt.Errorf("ci: unable to detect VCS provider from CI environment; specify --vcs option")
		}
		result.Provider = detectedKind.String()
		providedKind = detectedKind
		if log != nil {
			log.Info("detected VCS provider from CI environment", "provider", result.Provider)
		}
	} else if providedKind != CIUnknown && detectedKind != CIUnknown && providedKind != detectedKind {
		if log != nil {
			log.Warn("provided VCS provider differs from detected CI environment",
				"detected", detectedKind.String(), "provided", result.Provider)
		}
	}

	hydrationKind := detectedKind
	if hydrationKind == CIUnknown {
		hydrationKind = providedKind
	}
	if hydrationKind == CIUnknown {
		return result, nil
	}

	env, err := GetCIDefaultEnvVars(hydrationKind)
	if err != nil {
		if log != nil {
			log.Debug("unable to hydrate from ci environment", "kind", hydrationKind.String(), "error", err)
		}
		return result, nil
	}

	result.Kind = env.Kind
	result.Hydrated = true

	if domain := hostFromEnvironment(env); domain != "" {
		result.Domain = domain
		if log != nil {
			log.Debug("hydrated domain from CI environment", "domain", domain)
		}
	}
	if env.Namespace != "" {
		result.Namespace = env.Namespace
		if log != nil {
			log.Debug("hydrated namespace from CI environment", "namespace", env.Namespace)
		}
	}
	if env.RepositoryName != "" {
		result.Repository = env.RepositoryName
		if log != nil {
			log.Debug("hydrated repository from CI environment", "repository", env.RepositoryName)
		}
	}
	if strings.HasPrefix(env.Reference, "refs/heads/") && env.ReferenceName != "" {
		result.Branch = env.ReferenceName
		if log != nil {
			log.Debug("hydrated branch from CI environment", "branch", env.ReferenceName)
		}
	}
	if env.CommitHash != "" {
		result.CommitHash = env.CommitHash
	}

	return result, nil
}

func hostFromEnvironment(env CIEnvironment) string {
	sources := []string{env.ServerURL, env.RepositoryURL}
	for _, src := range sources {
		if strings.TrimSpace(src) == "" {
			continue
		}
		if parsed, err := url.Parse(src); err == nil && parsed.Host != "" {
			return parsed.Host
		}
	}
	return ""
}
