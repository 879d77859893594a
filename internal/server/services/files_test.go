package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/kaman1990/field-service-sub001/internal/common"
	sc "github.com/kaman1990/field-service-sub001/internal/server/config"
	"github.com/kaman1990/field-service-sub001/internal/server/models"
)

func newFileSvc(rm *fakeRepoManager) *FileService {
	cfg := &sc.Config{
		S3RootUser:     "admin",
		S3RootPassword: "secretpassword",
		S3Bucket:       "field-photos",
		S3Region:       "eu-west-1",
		S3BaseEndpoint: "http://127.0.0.1:9000/",
	}
	return NewFileService(nil, rm, cfg)
}

func stubPresignSeams(t *testing.T) {
	t.Helper()
	origLoad := loadDefaultAWSConfig
	origNewClient := newS3ClientFromConfig
	origNewPresign := newS3PresignClient
	origPut := presignPutObject
	origGet := presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewClient
		newS3PresignClient = origNewPresign
		presignPutObject = origPut
		presignGetObject = origGet
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return &s3.PresignClient{}
	}
}

func Test_getPresignClient_SuccessAndError(t *testing.T) {
	stubPresignSeams(t)

	var gotRegion string
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
		var lo config.LoadOptions
		for _, fn := range optFns {
			if err := fn(&lo); err != nil {
				t.Fatalf("load option: %v", err)
			}
		}
		gotRegion = lo.Region
		return aws.Config{}, nil
	}

	var gotEndpoint string
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		var o s3.Options
		for _, fn := range optFns {
			fn(&o)
		}
		if o.BaseEndpoint != nil {
			gotEndpoint = *o.BaseEndpoint
		}
		return &s3.Client{}
	}

	s := newFileSvc(nil)
	pc, err := s.getPresignClient()
	if err != nil {
		t.Fatalf("getPresignClient error: %v", err)
	}
	if pc == nil {
		t.Fatal("nil presign client")
	}
	if gotRegion != "eu-west-1" {
		t.Fatalf("region = %q, want eu-west-1", gotRegion)
	}
	if gotEndpoint != "http://127.0.0.1:9000/" {
		t.Fatalf("base endpoint = %q", gotEndpoint)
	}

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load-fail")
	}
	if _, err := s.getPresignClient(); err == nil || !strings.Contains(err.Error(), "load-fail") {
		t.Fatalf("expected load error, got %v", err)
	}
}

func TestGetPresignedPutUrl_Success(t *testing.T) {
	stubPresignSeams(t)

	var gotIn *s3.PutObjectInput
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		gotIn = in
		return &v4.PresignedHTTPRequest{URL: "https://storage.example/put-1"}, nil
	}

	s := newFileSvc(nil)
	key, url, err := s.GetPresignedPutUrl(context.Background(), "Fence Post.JPG", "image/jpeg")
	if err != nil {
		t.Fatalf("GetPresignedPutUrl error: %v", err)
	}
	if url != "https://storage.example/put-1" {
		t.Fatalf("url = %q", url)
	}
	if gotIn == nil || gotIn.Bucket == nil || *gotIn.Bucket != "field-photos" {
		t.Fatalf("bucket not forwarded: %+v", gotIn)
	}
	if gotIn.Key == nil || *gotIn.Key != key {
		t.Fatalf("signed key %v differs from returned key %q", gotIn.Key, key)
	}
	if !strings.HasPrefix(key, "users/") || !strings.HasSuffix(key, ".jpg") {
		t.Fatalf("unexpected key shape %q", key)
	}
	if gotIn.ContentType == nil || *gotIn.ContentType != "image/jpeg" {
		t.Fatalf("content type not part of signature: %+v", gotIn.ContentType)
	}
}

func TestGetPresignedPutUrl_NoMediaTypeStaysUnsigned(t *testing.T) {
	stubPresignSeams(t)

	var gotIn *s3.PutObjectInput
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		gotIn = in
		return &v4.PresignedHTTPRequest{URL: "u"}, nil
	}

	s := newFileSvc(nil)
	if _, _, err := s.GetPresignedPutUrl(context.Background(), "readme", ""); err != nil {
		t.Fatalf("GetPresignedPutUrl error: %v", err)
	}
	if gotIn.ContentType != nil {
		t.Fatalf("content type signed for unknown media type: %q", *gotIn.ContentType)
	}
}

func TestGetPresignedPutUrl_ErrorFromPresign(t *testing.T) {
	stubPresignSeams(t)

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("presign-put-fail")
	}

	s := newFileSvc(nil)
	if _, _, err := s.GetPresignedPutUrl(context.Background(), "a.jpg", "image/jpeg"); err == nil || !strings.Contains(err.Error(), "presign-put-fail") {
		t.Fatalf("expected presign error, got %v", err)
	}
}

func TestGetPresignedGetUrl(t *testing.T) {
	stubPresignSeams(t)

	var gotIn *s3.GetObjectInput
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		gotIn = in
		return &v4.PresignedHTTPRequest{URL: "https://storage.example/get-1"}, nil
	}

	s := newFileSvc(nil)
	url, err := s.GetPresignedGetUrl(context.Background(), "users/2026/8/25/abc.jpg")
	if err != nil {
		t.Fatalf("GetPresignedGetUrl error: %v", err)
	}
	if url != "https://storage.example/get-1" {
		t.Fatalf("url = %q", url)
	}
	if gotIn == nil || gotIn.Key == nil || *gotIn.Key != "users/2026/8/25/abc.jpg" {
		t.Fatalf("key not forwarded: %+v", gotIn)
	}
	if gotIn.Bucket == nil || *gotIn.Bucket != "field-photos" {
		t.Fatalf("bucket not forwarded: %+v", gotIn)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("presign-get-fail")
	}
	if _, err := s.GetPresignedGetUrl(context.Background(), "k"); err == nil || !strings.Contains(err.Error(), "presign-get-fail") {
		t.Fatalf("expected presign error, got %v", err)
	}
}

func TestGetRandomStorageKey(t *testing.T) {
	k1 := GetRandomStorageKey("IMG_0001.JPG")
	k2 := GetRandomStorageKey("IMG_0001.JPG")
	if k1 == k2 {
		t.Fatal("two keys for the same filename must differ")
	}

	d := time.Now()
	wantPrefix := fmt.Sprintf("users/%d/%d/%d/", d.Year(), d.Month(), d.Day())
	if !strings.HasPrefix(k1, wantPrefix) {
		t.Fatalf("key %q lacks date prefix %q", k1, wantPrefix)
	}
	if !strings.HasSuffix(k1, ".jpg") {
		t.Fatalf("extension not kept lowercase: %q", k1)
	}
	if strings.Contains(k1, "IMG_0001") {
		t.Fatalf("original filename leaked into key %q", k1)
	}

	if ext := filepath.Ext(GetRandomStorageKey("no-extension")); ext != "" {
		t.Fatalf("unexpected extension %q", ext)
	}
}

func TestRegisterImage_StampsVersionInTx(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := &fakeRepoManager{c: &fakeCatalogRepo{next: 55}, im: &fakeImagesRepo{}}
	s := &FileService{db: db, repomanager: rm}

	img := &models.Image{ID: "img1", ParentKind: "point", ParentID: "p1"}
	if err := s.RegisterImage(context.Background(), img); err != nil {
		t.Fatalf("RegisterImage error: %v", err)
	}
	if rm.im.created == nil || rm.im.created.Version != 55 {
		t.Fatalf("stored image not stamped with drawn version: %+v", rm.im.created)
	}
	if rm.c.nextCalls != 1 {
		t.Fatalf("NextVersion called %d times", rm.c.nextCalls)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestRegisterImage_NextVersionError(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	rm := &fakeRepoManager{c: &fakeCatalogRepo{nextErr: errBoom{}}, im: &fakeImagesRepo{}}
	s := &FileService{db: db, repomanager: rm}

	if err := s.RegisterImage(context.Background(), &models.Image{ID: "img1"}); !errors.Is(err, errBoom{}) {
		t.Fatalf("want version error, got %v", err)
	}
	if rm.im.created != nil {
		t.Fatal("image stored despite version failure")
	}
}

func TestRegisterImage_ConflictRollsBack(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	rm := &fakeRepoManager{c: &fakeCatalogRepo{next: 7}, im: &fakeImagesRepo{createErr: common.ErrVersionConflict}}
	s := &FileService{db: db, repomanager: rm}

	if err := s.RegisterImage(context.Background(), &models.Image{ID: "img1"}); !errors.Is(err, common.ErrVersionConflict) {
		t.Fatalf("want ErrVersionConflict, got %v", err)
	}
}
