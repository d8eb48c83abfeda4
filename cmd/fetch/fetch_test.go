package fetch

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abapscan/abapscan/pkg/shared"
)

func TestValidateFetchArgs(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "abapscan_example")
	assert.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	tmpFile, err := os.CreateTemp(tmpDir, "abapscan_repos")
	assert.NoError(t, err)
	defer os.Remove(tmpFile.Name())

	tests := []struct {
		name     string
		options  RunOptionsFetch
		args     []string
		wantMode string
		wantErr  string
	}{
		{
			// valid: abapscan fetch --auth-type http https://github.com/erp/abap-cleanup
			name: "Valid HTTP URL",
			options: RunOptionsFetch{
				AuthType: AuthTypeHTTP,
				Threads:  1,
			},
			args:     []string{"https://github.com/erp/abap-cleanup"},
			wantMode: ModeSingleURL,
			wantErr:  "",
		},
		{
			// valid: abapscan fetch --auth-type ssh-agent git@github.com:erp/abap-cleanup.git
			name: "Valid SSH URL with agent auth",
			options: RunOptionsFetch{
				AuthType: AuthTypeSSHAgent,
				Threads:  1,
			},
			args:     []string{"git@github.com:erp/abap-cleanup.git"},
			wantMode: ModeSingleURL,
			wantErr:  "",
		},
		{
			// valid: abapscan fetch --auth-type http --input-file repos.json
			name: "Valid input file",
			options: RunOptionsFetch{
				AuthType:  AuthTypeHTTP,
				InputFile: tmpFile.Name(),
				Threads:   1,
			},
			args:     []string{},
			wantMode: ModeInputFile,
			wantErr:  "",
		},
		{
			// fail: abapscan fetch https://github.com/erp/abap-cleanup
			name: "Missing auth type",
			options: RunOptionsFetch{
				Threads: 1,
			},
			args:     []string{"https://github.com/erp/abap-cleanup"},
			wantMode: "",
			wantErr:  "the 'auth-type' flag must be specified",
		},
		{
			// fail: abapscan fetch --auth-type kerberos https://github.com/erp/abap-cleanup
			name: "Unknown auth type",
			options: RunOptionsFetch{
				AuthType: "kerberos",
				Threads:  1,
			},
			args:     []string{"https://github.com/erp/abap-cleanup"},
			wantMode: "",
			wantErr:  "unknown auth-type: kerberos",
		},
		{
			// fail: abapscan fetch --auth-type ssh-key https://github.com/erp/abap-cleanup
			name: "Missing SSH key path",
			options: RunOptionsFetch{
				AuthType: AuthTypeSSHKey,
				Threads:  1,
			},
			args:     []string{"https://github.com/erp/abap-cleanup"},
			wantMode: "",
			wantErr:  "you must specify ssh-key with auth-type 'ssh-key'",
		},
		{
			// fail: abapscan fetch --auth-type http
			name: "Missing both input file and target URL",
			options: RunOptionsFetch{
				AuthType: AuthTypeHTTP,
				Threads:  1,
			},
			args:     []string{},
			wantMode: "",
			wantErr:  "either 'input-file' flag or a target URL must be specified",
		},
		{
			// fail: abapscan fetch --auth-type http --input-file repos.json https://github.com/erp/abap-cleanup
			name: "Both input file and target URL provided",
			options: RunOptionsFetch{
				AuthType:  AuthTypeHTTP,
				InputFile: tmpFile.Name(),
				Threads:   1,
			},
			args:     []string{"https://github.com/erp/abap-cleanup"},
			wantMode: "",
			wantErr:  "you cannot use 'input-file' flag with a target URL",
		},
		{
			// fail: abapscan fetch --auth-type http -j 0 https://github.com/erp/abap-cleanup
			name: "Non-positive thread count",
			options: RunOptionsFetch{
				AuthType: AuthTypeHTTP,
				Threads:  0,
			},
			args:     []string{"https://github.com/erp/abap-cleanup"},
			wantMode: "",
			wantErr:  "the 'threads' flag must be a positive integer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFetchArgs(&tt.options, tt.args)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				mode := determineMode(tt.args)
				assert.Equal(t, tt.wantMode, mode)
			} else {
				assert.EqualError(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSSHKey(t *testing.T) {
	tmpDir := t.TempDir()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	assert.NoError(t, err)
	pemData := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})

	keyPath := filepath.Join(tmpDir, "id_rsa")
	assert.NoError(t, os.WriteFile(keyPath, pemData, 0o600))
	assert.NoError(t, validateSSHKey(keyPath))

	badPath := filepath.Join(tmpDir, "not_a_key")
	assert.NoError(t, os.WriteFile(badPath, []byte("certainly not a key"), 0o600))
	assert.ErrorContains(t, validateSSHKey(badPath), "invalid SSH key format")
}

func TestValidateRepoParams(t *testing.T) {
	assert.NoError(t, validateRepoParams(shared.RepositoryParams{Namespace: "erp", RepoName: "abap-cleanup"}))
	assert.Error(t, validateRepoParams(shared.RepositoryParams{RepoName: "abap-cleanup"}))
	assert.Error(t, validateRepoParams(shared.RepositoryParams{Namespace: "erp"}))
}
