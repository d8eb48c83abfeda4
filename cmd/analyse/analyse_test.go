package analyse

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAnalyseArgs(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "abapscan_example")
	assert.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	tmpFile, err := os.CreateTemp(tmpDir, "abapscan_units")
	assert.NoError(t, err)
	defer os.Remove(tmpFile.Name())

	tests := []struct {
		name     string
		options  RunOptionsAnalyse
		args     []string
		wantMode string
		wantErr  string
	}{
		{
			// valid: abapscan analyse /path/to/target
			name: "Valid target path",
			options: RunOptionsAnalyse{
				ReportFormat: FormatJSON,
				Threads:      1,
			},
			args:     []string{tmpDir},
			wantMode: ModeSinglePath,
			wantErr:  "",
		},
		{
			// valid: abapscan analyse --input-file /path/to/units.json
			name: "Valid input file",
			options: RunOptionsAnalyse{
				InputFile:    tmpFile.Name(),
				ReportFormat: FormatJSON,
				Threads:      1,
			},
			args:     []string{},
			wantMode: ModeInputFile,
			wantErr:  "",
		},
		{
			// valid: abapscan analyse --input-file /path/to/units.json --format sarif
			name: "Valid SARIF format",
			options: RunOptionsAnalyse{
				InputFile:    tmpFile.Name(),
				ReportFormat: FormatSarif,
				Threads:      1,
			},
			args:     []string{},
			wantMode: ModeInputFile,
			wantErr:  "",
		},
		{
			// fail: abapscan analyse
			name: "Missing both input file and target path",
			options: RunOptionsAnalyse{
				ReportFormat: FormatJSON,
				Threads:      1,
			},
			args:     []string{},
			wantMode: "",
			wantErr:  "either 'input-file' flag or a target path must be specified",
		},
		{
			// fail: abapscan analyse --input-file /path/to/units.json /path/to/target
			name: "Both input file and target path provided",
			options: RunOptionsAnalyse{
				InputFile:    tmpFile.Name(),
				ReportFormat: FormatJSON,
				Threads:      1,
			},
			args:     []string{tmpDir},
			wantMode: "",
			wantErr:  "you cannot use an 'input-file' flag and a target path at the same time",
		},
		{
			// fail: abapscan analyse /invalid/path/to/target
			name: "Invalid target path",
			options: RunOptionsAnalyse{
				ReportFormat: FormatJSON,
				Threads:      1,
			},
			args:     []string{"/invalid/path/to/target"},
			wantMode: "",
			wantErr:  "the target path does not exist: /invalid/path/to/target",
		},
		{
			// fail: abapscan analyse --format xml /path/to/target
			name: "Unsupported report format",
			options: RunOptionsAnalyse{
				ReportFormat: "xml",
				Threads:      1,
			},
			args:     []string{tmpDir},
			wantMode: "",
			wantErr:  "unsupported report format: xml",
		},
		{
			// fail: abapscan analyse --threads 0 /path/to/target
			name: "Non-positive thread count",
			options: RunOptionsAnalyse{
				ReportFormat: FormatJSON,
				Threads:      0,
			},
			args:     []string{tmpDir},
			wantMode: "",
			wantErr:  "the 'threads' flag must be a positive integer",
		},
		{
			// fail: abapscan analyse /path/one /path/two
			name: "Too many positional arguments",
			options: RunOptionsAnalyse{
				ReportFormat: FormatJSON,
				Threads:      1,
			},
			args:     []string{tmpDir, tmpDir},
			wantMode: "",
			wantErr:  "invalid argument(s) received, only one positional argument is allowed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateAnalyseArgs(&tt.options, tt.args)
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
