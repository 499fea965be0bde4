package main

import (
	"context"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/webmajiang/mjnet/internal/capture"
	"github.com/webmajiang/mjnet/internal/config"
	"github.com/webmajiang/mjnet/internal/errors"
)

// captureSinks builds the sinks selected by the capture section.
func captureSinks(ctx context.Context, cfg config.CaptureConfig) ([]capture.Sink, error) {
	dir, err := capture.NewDirSink(cfg.Dir)
	if err != nil {
		return nil, errors.Newf(errors.CategoryCapture, "cannot create capture directory %s", cfg.Dir).Wrap(err)
	}
	sinks := []capture.Sink{dir}

	if cfg.S3Bucket != "" {
		var opts []func(*awsconfig.LoadOptions) error
		if cfg.S3Region != "" {
			opts = append(opts, awsconfig.WithRegion(cfg.S3Region))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			return nil, errors.New("E161").Wrap(err)
		}
		sinks = append(sinks, capture.NewS3Sink(s3.NewFromConfig(awsCfg), cfg.S3Bucket, cfg.S3Prefix))
	}
	return sinks, nil
}
