// Package config holds the static bucket table: per-bucket shared
// secret, optional upstream auth header, optional watermark overlay and
// source-domain allow-list. The table is loaded once at startup and is
// read-only afterwards.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type BucketConfig struct {
	Token          string            `yaml:"token"`
	AuthHeader     map[string]string `yaml:"auth_header,omitempty"`
	Watermark      string            `yaml:"watermark,omitempty"`
	AllowedDomains []string          `yaml:"allowed_domains,omitempty"`
}

type Buckets map[string]BucketConfig

var ErrUnknownBucket = errors.New("unknown bucket")

func LoadBuckets(path string) (Buckets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bucket config: %w", err)
	}

	return ParseBuckets(data)
}

func ParseBuckets(data []byte) (Buckets, error) {
	var buckets Buckets
	if err := yaml.Unmarshal(data, &buckets); err != nil {
		return nil, fmt.Errorf("parsing bucket config: %w", err)
	}

	for name, bucket := range buckets {
		if bucket.Token == "" {
			return nil, fmt.Errorf("bucket %q has no token configured", name)
		}
	}

	return buckets, nil
}

func (b Buckets) Lookup(name string) (BucketConfig, error) {
	bucket, found := b[name]
	if !found {
		return BucketConfig{}, fmt.Errorf("%w: %s", ErrUnknownBucket, name)
	}

	return bucket, nil
}
