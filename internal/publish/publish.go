package publish

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/adminshell/internal/config"
	"github.com/vango-dev/adminshell/internal/errors"
)

// Publisher stores an encoded manifest somewhere and reports where.
type Publisher interface {
	Publish(ctx context.Context, m Manifest) (string, error)
}

// FilePublisher writes the manifest to a local file.
type FilePublisher struct {
	Path string
}

// Publish writes through a temporary file in the same directory so readers
// never see a partial manifest.
func (p *FilePublisher) Publish(ctx context.Context, m Manifest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := Encode(m)
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(p.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.New("E160").Wrap(err)
	}
	tmp, err := os.CreateTemp(dir, ".manifest-*")
	if err != nil {
		return "", errors.New("E160").Wrap(err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", errors.New("E160").Wrap(err)
	}
	if err := tmp.Close(); err != nil {
		return "", errors.New("E160").Wrap(err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return "", errors.New("E160").Wrap(err)
	}
	if err := os.Rename(tmp.Name(), p.Path); err != nil {
		return "", errors.New("E160").Wrap(err)
	}
	return p.Path, nil
}

// PutObjectAPI is the part of *s3.Client the S3 publisher needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Publisher uploads the manifest as a JSON object.
type S3Publisher struct {
	client PutObjectAPI
	bucket string
	key    string
	logger *slog.Logger
}

// NewS3Publisher creates a publisher writing to bucket/key through client.
func NewS3Publisher(client PutObjectAPI, bucket, key string, logger *slog.Logger) *S3Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &S3Publisher{
		client: client,
		bucket: bucket,
		key:    strings.TrimPrefix(key, "/"),
		logger: logger.With("component", "publish"),
	}
}

// Publish implements Publisher.
func (p *S3Publisher) Publish(ctx context.Context, m Manifest) (string, error) {
	data, err := Encode(m)
	if err != nil {
		return "", err
	}

	dest := "s3://" + p.bucket + "/" + p.key
	out, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(p.bucket),
		Key:          aws.String(p.key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String("application/json"),
		CacheControl: aws.String("no-cache"),
		Metadata: map[string]string{
			"manifest-version": fmt.Sprint(m.Version),
		},
	})
	if err != nil {
		return "", errors.New("E160").WithDetail("PutObject " + dest).Wrap(err)
	}

	attrs := []any{"dest", dest, "routes", len(m.Routes)}
	if out != nil && out.ETag != nil {
		attrs = append(attrs, "etag", aws.ToString(out.ETag))
	}
	p.logger.Info("manifest published", attrs...)
	return dest, nil
}

// NewS3Client builds an S3 client for region. A non-empty endpoint selects
// an S3-compatible service with path-style addressing. Credentials come from
// the standard AWS_* environment variables.
func NewS3Client(region, endpoint string) *s3.Client {
	opts := s3.Options{
		Region:      region,
		Credentials: aws.NewCredentialsCache(envCredentials()),
	}
	if endpoint != "" {
		opts.BaseEndpoint = aws.String(endpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts)
}

func envCredentials() aws.CredentialsProvider {
	return aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		id := os.Getenv("AWS_ACCESS_KEY_ID")
		secret := os.Getenv("AWS_SECRET_ACCESS_KEY")
		if id == "" || secret == "" {
			return aws.Credentials{}, fmt.Errorf("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")
		}
		return aws.Credentials{
			AccessKeyID:     id,
			SecretAccessKey: secret,
			SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
			Source:          "environment",
		}, nil
	})
}

// Multi publishes to every publisher in order and stops at the first error.
type Multi []Publisher

// Publish implements Publisher. The destinations are joined with ", ".
func (m Multi) Publish(ctx context.Context, manifest Manifest) (string, error) {
	dests := make([]string, 0, len(m))
	for _, p := range m {
		dest, err := p.Publish(ctx, manifest)
		if err != nil {
			return strings.Join(dests, ", "), err
		}
		dests = append(dests, dest)
	}
	return strings.Join(dests, ", "), nil
}

// ForConfig builds the publishers selected by cfg. newClient builds the S3
// client and defaults to NewS3Client.
func ForConfig(cfg config.PublishConfig, newClient func(region, endpoint string) PutObjectAPI, logger *slog.Logger) (Publisher, error) {
	var pubs Multi
	if cfg.Out != "" {
		pubs = append(pubs, &FilePublisher{Path: cfg.Out})
	}
	if cfg.Bucket != "" {
		if newClient == nil {
			newClient = func(region, endpoint string) PutObjectAPI { return NewS3Client(region, endpoint) }
		}
		key := cfg.Key
		if key == "" {
			key = config.DefaultManifestKey
		}
		pubs = append(pubs, NewS3Publisher(newClient(cfg.Region, cfg.Endpoint), cfg.Bucket, key, logger))
	}

	switch len(pubs) {
	case 0:
		return nil, errors.New("E161").WithSuggestion("Pass --out <file> or --bucket <name>")
	case 1:
		return pubs[0], nil
	default:
		return pubs, nil
	}
}
