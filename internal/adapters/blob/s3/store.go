package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"union-ganadera/internal/ports/blob"
)

// Store implementa blob.Store sobre S3 (AWS o compatible, p. ej. LocalStack/MinIO).
// Un solo bucket; las llaves son las del documento.
type Store struct {
	client  *s3.Client
	bucket  string
	presign *s3.PresignClient // apunta a PublicURL si existe
}

type Config struct {
	Region    string
	Bucket    string
	Endpoint  string // interno, para subir/borrar
	PublicURL string // externo, solo para URLs prefirmadas; default Endpoint
	PathStyle bool

	// Opcionales; si faltan se usa la cadena de credenciales por defecto.
	AccessKeyID     string
	SecretAccessKey string

	HTTPClient *http.Client // tests
}

func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	clientFor := func(endpoint string) *s3.Client {
		return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.UsePathStyle = cfg.PathStyle
			if endpoint != "" {
				o.BaseEndpoint = aws.String(endpoint)
			}
			if cfg.HTTPClient != nil {
				o.HTTPClient = cfg.HTTPClient
			}
		})
	}

	client := clientFor(cfg.Endpoint)
	public := client
	if cfg.PublicURL != "" && cfg.PublicURL != cfg.Endpoint {
		public = clientFor(cfg.PublicURL)
	}

	return &Store{client: client, bucket: cfg.Bucket, presign: s3.NewPresignClient(public)}, nil
}

func (s *Store) Put(ctx context.Context, key string, r io.Reader, opts blob.PutOptions) (blob.Info, error) {
	input := &s3.PutObjectInput{Bucket: &s.bucket, Key: &key, Body: r}
	if opts.ContentType != "" {
		input.ContentType = &opts.ContentType
	}
	if len(opts.Metadata) > 0 {
		input.Metadata = opts.Metadata
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return blob.Info{}, fmt.Errorf("s3 put %s: %w", key, err)
	}

	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: &s.bucket, Key: &key})
	if err != nil {
		return blob.Info{}, mapErr(key, err)
	}
	return blob.Info{
		Key:         key,
		Size:        aws.ToInt64(out.ContentLength),
		ContentType: aws.ToString(out.ContentType),
	}, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: &s.bucket, Key: &key}); err != nil {
		return mapErr(key, err)
	}
	return nil
}

func (s *Store) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = time.Hour
	}
	out, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &key},
		func(po *s3.PresignOptions) { po.Expires = ttl })
	if err != nil {
		return "", err
	}
	return out.URL, nil
}

func mapErr(key string, err error) error {
	var nsk *types.NoSuchKey
	var nf *types.NotFound
	if errors.As(err, &nsk) || errors.As(err, &nf) {
		return fmt.Errorf("%w: %s", blob.ErrNotFound, key)
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFound" {
		return fmt.Errorf("%w: %s", blob.ErrNotFound, key)
	}
	return fmt.Errorf("s3 %s: %w", key, err)
}
