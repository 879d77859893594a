package services

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kaman1990/field-service-sub001/internal/dbx"
	sc "github.com/kaman1990/field-service-sub001/internal/server/config"
	"github.com/kaman1990/field-service-sub001/internal/server/models"
	"github.com/kaman1990/field-service-sub001/internal/server/repositories/repomanager"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// FileService hands out presigned object-storage URLs for photo transfer and
// records uploaded photo metadata.
type FileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewFileService(db *sql.DB, repomanager repomanager.RepositoryManager, config *sc.Config) *FileService {
	return &FileService{
		db:          db,
		repomanager: repomanager,
		config:      config,
	}
}

// GetRandomStorageKey builds a date-partitioned random object key. The
// original filename never reaches storage, only its extension survives.
func GetRandomStorageKey(filename string) string {
	d := time.Now()
	key := fmt.Sprintf("users/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
	if ext := strings.ToLower(filepath.Ext(filename)); ext != "" {
		key += ext
	}
	return key
}

func (s *FileService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,     // MINIO_ROOT_USER
			s.config.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

// GetPresignedPutUrl returns a fresh storage key derived from filename and a
// URL the client can PUT the bytes to. A known mediaType becomes part of the
// signature, so the upload must carry the same Content-Type.
func (s *FileService) GetPresignedPutUrl(ctx context.Context, filename, mediaType string) (string, string, error) {

	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", "", err
	}

	bucket := s.config.S3Bucket
	key := GetRandomStorageKey(filename)

	in := &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}
	if mediaType != "" {
		in.ContentType = aws.String(mediaType)
	}

	// Presigned PUT
	req, err := presignPutObject(presignClient, ctx, in, s3.WithPresignExpires(15*time.Minute))

	if err != nil {
		return "", "", err
	}

	return key, req.URL, nil
}

// GetPresignedGetUrl returns a URL the client can GET the stored object from.
func (s *FileService) GetPresignedGetUrl(ctx context.Context, key string) (string, error) {

	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket

	// Presigned GET
	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

// RegisterImage records an uploaded photo and stamps it with the next
// catalog version inside one transaction, so other devices pick the row up
// on their next pull.
func (s *FileService) RegisterImage(ctx context.Context, image *models.Image) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		version, err := s.repomanager.Catalog(tx).NextVersion(ctx)
		if err != nil {
			return err
		}
		image.Version = version
		return s.repomanager.Images(tx).CreateOrUpdate(ctx, image)
	})
}
