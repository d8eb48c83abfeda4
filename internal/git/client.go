package git

import (
	"fmt"
	"time"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"

	crssh "golang.org/x/crypto/ssh"

	"github.com/hashicorp/go-hclog"

	"github.com/abapscan/abapscan/pkg/shared/config"
	"github.com/abapscan/abapscan/pkg/shared/files"
)

// CloneRequest describes a single repository fetch operation.
type CloneRequest struct {
	CloneURL     string `json:"clone_url"`
	Branch       string `json:"branch,omitempty"`
	AuthType     string `json:"auth_type"`
	SSHKey       string `json:"ssh_key,omitempty"`
	TargetFolder string `json:"target_folder"`
}

// Client represents a Git client with configuration and authentication.
type Client struct {
	logger       hclog.Logger
	auth         transport.AuthMethod
	timeout      time.Duration
	globalConfig *config.Config
}

// Authenticator defines an interface for different authentication methods.
// Secret material (passwords, tokens) is resolved by the caller and passed in
// as a flat map so the package never reads the environment itself.
type Authenticator interface {
	SetupAuth(req *CloneRequest, secrets map[string]string, logger hclog.Logger) (transport.AuthMethod, error)
	ValidateSecrets(secrets map[string]string) error
}

// SSHKeyAuthenticator provides SSH key-based authentication.
type SSHKeyAuthenticator struct{}

// SSHAgentAuthenticator provides SSH agent-based authentication.
type SSHAgentAuthenticator struct{}

// HTTPAuthenticator provides HTTP basic authentication.
type HTTPAuthenticator struct{}

// SetupAuth configures SSH key authentication.
func (s *SSHKeyAuthenticator) SetupAuth(req *CloneRequest, secrets map[string]string, logger hclog.Logger) (transport.AuthMethod, error) {
	logger.Debug("setting up SSH key authentication")

	sshKeyPath, err := files.ExpandPath(req.SSHKey)
	if err != nil {
		logger.Error("failed to expand SSH key path", "path", req.SSHKey, "error", err)
		return nil, err
	}

	auth, err := ssh.NewPublicKeysFromFile("git", sshKeyPath, secrets["SSHKeyPassword"])
	if err != nil {
		logger.Error("failed to set up SSH key authentication", "error", err.Error())
		return nil, err
	}

	auth.HostKeyCallbackHelper = ssh.HostKeyCallbackHelper{
		HostKeyCallback: crssh.InsecureIgnoreHostKey(), // TODO: verify host keys against known_hosts
	}

	return auth, nil
}

// ValidateSecrets validates the secret material for SSHKeyAuthenticator.
func (s *SSHKeyAuthenticator) ValidateSecrets(secrets map[string]string) error {
	return nil
}

// SetupAuth configures SSH agent authentication.
func (s *SSHAgentAuthenticator) SetupAuth(req *CloneRequest, secrets map[string]string, logger hclog.Logger) (transport.AuthMethod, error) {
	logger.Debug("setting up SSH agent authentication")

	auth, err := ssh.NewSSHAgentAuth("git")
	if err != nil {
		logger.Error("failed to set up SSH agent authentication", "error", err)
		return nil, err
	}

	auth.HostKeyCallbackHelper = ssh.HostKeyCallbackHelper{
		HostKeyCallback: crssh.InsecureIgnoreHostKey(), // TODO: verify host keys against known_hosts
	}

	return auth, nil
}

// ValidateSecrets validates the secret material for SSHAgentAuthenticator.
func (s *SSHAgentAuthenticator) ValidateSecrets(secrets map[string]string) error {
	return nil
}

// SetupAuth configures HTTP basic authentication. Without credentials the
// clone proceeds anonymously, which is enough for public repositories.
func (h *HTTPAuthenticator) SetupAuth(req *CloneRequest, secrets map[string]string, logger hclog.Logger) (transport.AuthMethod, error) {
	logger.Debug("setting up HTTP authentication")

	if secrets["Username"] == "" && secrets["Token"] == "" {
		return nil, nil
	}
	return &http.BasicAuth{
		Username: secrets["Username"],
		Password: secrets["Token"],
	}, nil
}

// ValidateSecrets validates the secret material for HTTPAuthenticator.
func (h *HTTPAuthenticator) ValidateSecrets(secrets map[string]string) error {
	if secrets["Token"] != "" && secrets["Username"] == "" {
		return fmt.Errorf("username is required when a token is provided")
	}
	return nil
}

// getAuthenticator returns the appropriate Authenticator based on the authentication type.
func getAuthenticator(authType string) (Authenticator, error) {
	switch authType {
	case "ssh-key":
		return &SSHKeyAuthenticator{}, nil
	case "ssh-agent":
		return &SSHAgentAuthenticator{}, nil
	case "http":
		return &HTTPAuthenticator{}, nil
	default:
		return nil, fmt.Errorf("unknown auth type: %s", authType)
	}
}

// New initializes a new Git Client with the given parameters.
func New(logger hclog.Logger, globalConfig *config.Config, secrets map[string]string, req *CloneRequest) (*Client, error) {
	authenticator, err := getAuthenticator(req.AuthType)
	if err != nil {
		logger.Error("unsupported authentication type", "error", err)
		return nil, fmt.Errorf("unsupported authentication type: %w", err)
	}

	if err := authenticator.ValidateSecrets(secrets); err != nil {
		logger.Error("invalid authentication configuration", "error", err)
		return nil, fmt.Errorf("invalid authentication configuration: %w", err)
	}

	auth, err := authenticator.SetupAuth(req, secrets, logger)
	if err != nil {
		logger.Error("failed to set up Git authentication", "error", err)
		return nil, fmt.Errorf("failed to set up Git authentication: %w", err)
	}

	timeout := config.SetThen(globalConfig.GitClient.Timeout, time.Duration(10*time.Minute))

	return &Client{
		logger:       logger,
		auth:         auth,
		timeout:      timeout,
		globalConfig: globalConfig,
	}, nil
}
