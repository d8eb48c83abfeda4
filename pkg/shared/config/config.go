package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v2"
)

// ErrConfigNotFound is returned when the requested configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// Config holds the full abapscan configuration tree loaded from a YAML file.
type Config struct {
	Abapscan   Abapscan   `yaml:"abapscan"`
	Logger     Logger     `yaml:"logger"`
	Server     Server     `yaml:"server"`
	HTTPClient HTTPClient `yaml:"http_client"`
	GitClient  GitClient  `yaml:"git_client"`
	AWS        AWS        `yaml:"aws"`
}

// Abapscan holds core application settings such as working folders and the run mode.
type Abapscan struct {
	HomeFolder       string   `yaml:"home_folder"`
	ProjectsFolder   string   `yaml:"projects_folder"`
	ResultsFolder    string   `yaml:"results_folder"`
	TemplatesFolder  string   `yaml:"templates_folder"`
	Mode             string   `yaml:"mode"`
	SourceExtensions []string `yaml:"source_extensions"`
}

// Logger holds logging settings consumed by the hclog logger factory.
type Logger struct {
	Level           string `yaml:"level"`
	DisableTime     *bool  `yaml:"disable_time"`
	JSONFormat      *bool  `yaml:"json_format"`
	IncludeLocation *bool  `yaml:"include_location"`
}

// Server holds HTTP server settings for the serve command.
type Server struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
	Workers         int           `yaml:"workers"`
}

// HTTPClient holds outbound HTTP client settings shared by all API clients.
type HTTPClient struct {
	Debug            *bool           `yaml:"debug"`
	RetryCount       int             `yaml:"retry_count"`
	RetryWaitTime    time.Duration   `yaml:"retry_wait_time"`
	RetryMaxWaitTime time.Duration   `yaml:"retry_max_wait_time"`
	Timeout          time.Duration   `yaml:"timeout"`
	TLSClientConfig  TLSClientConfig `yaml:"tls_client_config"`
	Proxy            Proxy           `yaml:"proxy"`
}

// TLSClientConfig holds TLS verification settings for outbound clients.
type TLSClientConfig struct {
	Verify *bool `yaml:"verify"`
}

// Proxy holds outbound proxy settings.
type Proxy struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// GitClient holds settings for repository fetch operations.
type GitClient struct {
	Depth       int           `yaml:"depth"`
	Timeout     time.Duration `yaml:"timeout"`
	InsecureTLS *bool         `yaml:"insecure_tls"`
}

// AWS holds defaults for the upload command.
type AWS struct {
	Region string `yaml:"region"`
	Bucket string `yaml:"bucket"`
}

// ValidateConfigPath checks that the given path exists and is a regular file.
func ValidateConfigPath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a file", path)
	}
	return nil
}

// LoadYAML decodes the YAML file at configPath into data.
func LoadYAML(configPath string, data interface{}) error {
	if err := ValidateConfigPath(configPath); err != nil {
		return err
	}

	file, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	if err := d.Decode(data); err != nil {
		return err
	}

	return nil
}

// LoadConfig reads, defaults, and validates the configuration file.
// A missing file yields a validated default configuration together with
// ErrConfigNotFound so callers can decide whether that is acceptable.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	loadErr := LoadYAML(configPath, config)
	if loadErr != nil && !errors.Is(loadErr, ErrConfigNotFound) {
		return nil, loadErr
	}

	if err := ValidateConfig(config); err != nil {
		return nil, err
	}

	return config, loadErr
}
