package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/abapscan/abapscan/pkg/shared/files"
)

// ValidateConfig checks if the global configurations have valid values.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("YAML global config: configuration object is nil")
	}
	if err := ValidateAbapscanConfig(cfg); err != nil {
		return fmt.Errorf("YAML global config: abapscan directive is invalid: %w", err)
	}
	if err := ValidateServerConfig(&cfg.Server); err != nil {
		return fmt.Errorf("YAML global config: server directive is invalid: %w", err)
	}
	if err := ValidateHTTPConfig(&cfg.HTTPClient); err != nil {
		return fmt.Errorf("YAML global config: http_client directive is invalid: %w", err)
	}
	if err := ValidateGitConfig(&cfg.GitClient); err != nil {
		return fmt.Errorf("YAML global config: git_client directive is invalid: %w", err)
	}
	return nil
}

// ValidateAbapscanConfig checks if the core application configurations have valid values.
func ValidateAbapscanConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("abapscan configuration is nil")
	}
	if err := updateHome(cfg); err != nil {
		return fmt.Errorf("failed to update home folder: %w", err)
	}
	if err := updateFolder(&cfg.Abapscan.ProjectsFolder, "ABAPSCAN_PROJECTS_FOLDER", "projects", cfg); err != nil {
		return fmt.Errorf("failed to update projects folder: %w", err)
	}
	if err := updateFolder(&cfg.Abapscan.ResultsFolder, "ABAPSCAN_RESULTS_FOLDER", "results", cfg); err != nil {
		return fmt.Errorf("failed to update results folder: %w", err)
	}
	if err := updateFolder(&cfg.Abapscan.TemplatesFolder, "ABAPSCAN_TEMPLATES_FOLDER", "templates", cfg); err != nil {
		return fmt.Errorf("failed to update templates folder: %w", err)
	}
	updateMode(cfg)
	updateSourceExtensions(cfg)

	return nil
}

// ValidateServerConfig checks if the server configurations have valid values and applies defaults.
func ValidateServerConfig(serverConfig *Server) error {
	if serverConfig == nil {
		return fmt.Errorf("server configuration is nil")
	}
	if serverConfig.Host == "" {
		serverConfig.Host = DefaultServerHost
	}
	if serverConfig.Port == 0 {
		serverConfig.Port = DefaultServerPort
	}
	if err := validatePort(serverConfig.Port); err != nil {
		return err
	}

	serverConfig.ReadTimeout = SetThen(serverConfig.ReadTimeout, DefaultServerReadTimeout)
	serverConfig.WriteTimeout = SetThen(serverConfig.WriteTimeout, DefaultServerWriteTimeout)
	serverConfig.IdleTimeout = SetThen(serverConfig.IdleTimeout, DefaultServerIdleTimeout)
	serverConfig.ShutdownTimeout = SetThen(serverConfig.ShutdownTimeout, DefaultServerShutdownTimeout)
	serverConfig.MaxBodyBytes = SetThen(serverConfig.MaxBodyBytes, int64(DefaultServerMaxBodyBytes))
	serverConfig.Workers = SetThen(serverConfig.Workers, DefaultServerWorkers)

	if serverConfig.Workers < 1 {
		return fmt.Errorf("workers must be positive: %d", serverConfig.Workers)
	}
	return nil
}

// ValidateGitConfig checks if the Git configurations have valid values.
func ValidateGitConfig(gitConfig *GitClient) error {
	if gitConfig == nil {
		return fmt.Errorf("git configuration is nil")
	}

	if err := validateDuration(gitConfig.Timeout, "timeout", 1*time.Hour); err != nil {
		return err
	}
	if gitConfig.Depth < 0 {
		return fmt.Errorf("depth cannot be negative: %d", gitConfig.Depth)
	}
	return nil
}

// ValidateHTTPConfig checks if the HTTP configurations have valid values.
func ValidateHTTPConfig(httpConfig *HTTPClient) error {
	if httpConfig == nil {
		return fmt.Errorf("HTTP configuration is nil")
	}
	if httpConfig.RetryCount < 0 || httpConfig.RetryCount > 20 {
		return fmt.Errorf("retry_count must be between 0 and 20: %d", httpConfig.RetryCount)
	}

	durations := map[string]time.Duration{
		"RetryMaxWaitTime": httpConfig.RetryMaxWaitTime,
		"RetryWaitTime":    httpConfig.RetryWaitTime,
		"Timeout":          httpConfig.Timeout,
	}
	for name, duration := range durations {
		if err := validateDuration(duration, name, 100*time.Second); err != nil {
			return err
		}
	}

	if err := validateProxy(&httpConfig.Proxy); err != nil {
		return err
	}

	return nil
}

// validateDuration checks that a time.Duration is valid and within a specified maximum duration.
func validateDuration(d time.Duration, name string, max time.Duration) error {
	if d < 0 {
		return fmt.Errorf("invalid duration for %q: %v cannot be negative", name, d)
	}
	if d > max {
		return fmt.Errorf("%q duration is too long: %v exceeds maximum of %v", name, d, max)
	}
	return nil
}

// validateProxy checks if the given Proxy settings are valid.
func validateProxy(proxy *Proxy) error {
	if proxy == nil {
		return fmt.Errorf("proxy configuration is nil")
	}

	// If host or port is not set, skip further validation
	if proxy.Host == "" || proxy.Port == 0 {
		return nil
	}

	if err := validateHost(&proxy.Host); err != nil {
		return err
	}

	if err := validatePort(proxy.Port); err != nil {
		return err
	}

	return nil
}

// validateHost checks if the host part of the proxy configuration is valid.
// It ensures the host includes a scheme; adds "http" if missing.
func validateHost(host *string) error {
	if host == nil {
		return fmt.Errorf("host string pointer is nil")
	}

	if !strings.Contains(*host, "://") {
		*host = "http://" + *host
	}
	*host = strings.TrimRight(*host, "/")

	_, err := url.Parse(*host)
	if err != nil {
		return fmt.Errorf("invalid host URL: %w", err)
	}

	return nil
}

// validatePort checks that a port number is inside the valid range.
func validatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}
	return nil
}

// updateHome updates the HomeFolder in the abapscan config from environment variables or sets a default value.
func updateHome(cfg *Config) error {
	if abapscanHomeFolder := os.Getenv("ABAPSCAN_HOME"); abapscanHomeFolder != "" {
		cfg.Abapscan.HomeFolder = abapscanHomeFolder
	} else if cfg.Abapscan.HomeFolder == "" {
		homeFolder, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("unable to get user home folder: %w", err)
		}
		cfg.Abapscan.HomeFolder = filepath.Join(homeFolder, ".abapscan")
	}

	expandedHomePath, err := files.ExpandPath(cfg.Abapscan.HomeFolder)
	if err != nil {
		return fmt.Errorf("failed to expand new home path %q: %w", cfg.Abapscan.HomeFolder, err)
	}
	cfg.Abapscan.HomeFolder = expandedHomePath

	if err := files.CreateFolderIfNotExists(expandedHomePath); err != nil {
		return fmt.Errorf("failed to create home folder %q: %w", cfg.Abapscan.HomeFolder, err)
	}
	return nil
}

// updateFolder updates a folder path in the abapscan configuration.
func updateFolder(folder *string, envVar, defaultSubFolder string, cfg *Config) error {
	if envVarValue := os.Getenv(envVar); envVarValue != "" {
		*folder = envVarValue
	} else if *folder == "" {
		*folder = filepath.Join(GetAbapscanHome(cfg), defaultSubFolder)
	}

	expandedHomePath, err := files.ExpandPath(*folder)
	if err != nil {
		return fmt.Errorf("failed to expand new home path %q: %w", *folder, err)
	}
	*folder = expandedHomePath

	if err := files.CreateFolderIfNotExists(expandedHomePath); err != nil {
		return fmt.Errorf("failed to create folder %q: %w", expandedHomePath, err)
	}
	return nil
}

// updateMode updates the Mode field in the abapscan configuration based on environment variables.
func updateMode(cfg *Config) {
	if os.Getenv("ABAPSCAN_MODE") == "CI" || os.Getenv("CI") == "true" {
		cfg.Abapscan.Mode = "CI"
		return
	}

	if envVarValue := os.Getenv("ABAPSCAN_MODE"); envVarValue != "" {
		cfg.Abapscan.Mode = envVarValue
		return
	}

	cfg.Abapscan.Mode = "user"
}

// updateSourceExtensions applies the default scanned extensions when none are configured.
func updateSourceExtensions(cfg *Config) {
	if len(cfg.Abapscan.SourceExtensions) == 0 {
		cfg.Abapscan.SourceExtensions = append([]string(nil), DefaultSourceExtensions...)
		return
	}
	for i, ext := range cfg.Abapscan.SourceExtensions {
		cfg.Abapscan.SourceExtensions[i] = strings.TrimPrefix(strings.ToLower(ext), ".")
	}
}
