// Package upload ships findings reports to an S3 bucket.
package upload

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/spf13/cobra"

	"github.com/abapscan/abapscan/pkg/shared"
	"github.com/abapscan/abapscan/pkg/shared/artifacts"
	"github.com/abapscan/abapscan/pkg/shared/config"
	"github.com/abapscan/abapscan/pkg/shared/errors"
	"github.com/abapscan/abapscan/pkg/shared/files"
	"github.com/abapscan/abapscan/pkg/shared/logger"
)

var AppConfig *config.Config

// RunOptionsUpload holds the arguments of the upload command.
type RunOptionsUpload struct {
	InputFile string `json:"input_file,omitempty"`
	Bucket    string `json:"bucket,omitempty"`
	Region    string `json:"region,omitempty"`
	Key       string `json:"key,omitempty"`
}

var allArgumentsUpload RunOptionsUpload

var exampleUploadUsage = `  # Upload a findings report to the configured bucket
  abapscan upload --input-file findings.json

  # Upload a SARIF report under an explicit object key
  abapscan upload -i results.sarif --bucket scan-results --region eu-central-1 --key erp/abap-cleanup/results.sarif`

var UploadCmd = &cobra.Command{
	Use:                   "upload [flags]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleUploadUsage,
	Short:                 "Upload a findings report to an S3 bucket",
	RunE:                  runUploadCommand,
}

func runUploadCommand(cmd *cobra.Command, args []string) error {
	checkArgs := len(args) == 0 && !shared.HasFlags(cmd.Flags())
	if checkArgs {
		return cmd.Help()
	}

	log := logger.NewLogger(AppConfig, "core-upload")

	applyConfigDefaults(&allArgumentsUpload)
	if err := validateUploadArgs(&allArgumentsUpload, args); err != nil {
		log.Error("invalid upload arguments", "error", err)
		return errors.NewCommandError(allArgumentsUpload, nil, fmt.Errorf("invalid upload arguments: %w", err), 1)
	}

	location, err := uploadFile(&allArgumentsUpload)
	if err != nil {
		log.Error("upload command failed", "error", err)
		return errors.NewCommandError(allArgumentsUpload, nil, err, 2)
	}

	result := shared.GenericLaunchesResult{Launches: []shared.GenericResult{{
		Args:   allArgumentsUpload,
		Result: location,
		Status: "OK",
	}}}
	artifacts.WriteGenericResult(AppConfig, log, result, "upload", allArgumentsUpload.Key)

	log.Info("upload command completed successfully", "location", location)
	return nil
}

// applyConfigDefaults fills unset options from the AWS section of the config.
func applyConfigDefaults(options *RunOptionsUpload) {
	if options.Bucket == "" && AppConfig != nil {
		options.Bucket = AppConfig.AWS.Bucket
	}
	if options.Region == "" && AppConfig != nil {
		options.Region = AppConfig.AWS.Region
	}
	if options.Key == "" && options.InputFile != "" {
		options.Key = filepath.Base(options.InputFile)
	}
}

func uploadFile(options *RunOptionsUpload) (string, error) {
	expandedPath, err := files.ExpandPath(options.InputFile)
	if err != nil {
		return "", fmt.Errorf("failed to expand path %q: %w", options.InputFile, err)
	}

	file, err := os.Open(expandedPath)
	if err != nil {
		return "", fmt.Errorf("error opening the input file %v: %w", options.InputFile, err)
	}
	defer file.Close()

	awsConfig := aws.Config{}
	if options.Region != "" {
		awsConfig.Region = aws.String(options.Region)
	}
	sess := session.Must(session.NewSession(&awsConfig))

	uploader := s3manager.NewUploader(sess)
	output, err := uploader.Upload(&s3manager.UploadInput{
		Bucket: aws.String(options.Bucket),
		Key:    aws.String(options.Key),
		Body:   file,
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && aerr.Code() == s3.ErrCodeNoSuchBucket {
			return "", fmt.Errorf("bucket %v does not exist: %w", options.Bucket, aerr)
		}
		return "", fmt.Errorf("error uploading the file to S3: %w", err)
	}
	return output.Location, nil
}

func init() {
	UploadCmd.Flags().StringVarP(&allArgumentsUpload.InputFile, "input-file", "i", "", "path to the report file to upload")
	UploadCmd.Flags().StringVar(&allArgumentsUpload.Bucket, "bucket", "", "S3 bucket to upload to, defaults to the configured bucket")
	UploadCmd.Flags().StringVar(&allArgumentsUpload.Region, "region", "", "AWS region of the bucket, defaults to the configured region")
	UploadCmd.Flags().StringVar(&allArgumentsUpload.Key, "key", "", "object key for the uploaded file, defaults to the input file name")
	UploadCmd.Flags().BoolP("help", "h", false, "help for the upload command")
}

func Init(cfg *config.Config) {
	AppConfig = cfg
}
