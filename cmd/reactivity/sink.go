package main

import (
	"os"

	"github.com/vango-dev/reactivity/internal/config"
	"github.com/vango-dev/reactivity/internal/errors"
	"github.com/vango-dev/reactivity/pkg/snapshot"
)

// sinkFromConfig picks the snapshot sink: the bucket if set, otherwise the
// directory. Bucket credentials come from AWS_ACCESS_KEY_ID and
// AWS_SECRET_ACCESS_KEY; without them requests are unsigned.
func sinkFromConfig(cfg config.SnapshotConfig) (snapshot.Sink, error) {
	switch {
	case cfg.Bucket != "":
		client := snapshot.NewS3Client(snapshot.ClientConfig{
			Region:          cfg.Region,
			Endpoint:        cfg.Endpoint,
			PathStyle:       cfg.PathStyle,
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		})
		return snapshot.NewS3Sink(client, cfg.Bucket, cfg.Prefix), nil
	case cfg.Dir != "":
		return snapshot.NewFileSink(cfg.Dir), nil
	default:
		return nil, errors.New("E141")
	}
}
