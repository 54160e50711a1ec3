package utils

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/ahmadqo/student-course-roster/internal/config"
)

type StorageService struct {
	client   *minio.Client
	bucket   string
	endpoint string
}

type UploadResult struct {
	FileURL  string
	FileName string
	FileSize int64
}

// AllowedPhotoTypes tipe file foto siswa yang diterima
var AllowedPhotoTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

const MaxPhotoSize = 5 * 1024 * 1024 // 5 MB

func NewStorageService(ctx context.Context, cfg *config.MinIOConfig) (*StorageService, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.User, cfg.Password, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	// Pastikan bucket ada
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}

	return &StorageService{
		client:   client,
		bucket:   cfg.Bucket,
		endpoint: fmt.Sprintf("%s://%s", scheme, cfg.Endpoint),
	}, nil
}

// PhotoObjectName nama object unik untuk foto baru di folder
func PhotoObjectName(folder, contentType string, now time.Time) (string, error) {
	ext, ok := AllowedPhotoTypes[contentType]
	if !ok {
		return "", fmt.Errorf("tipe file tidak diizinkan: %s", contentType)
	}
	return fmt.Sprintf("%s/%s-%s%s",
		strings.Trim(folder, "/"),
		now.Format("20060102"),
		uuid.New().String()[:8],
		ext,
	), nil
}

// UploadFile upload foto ke MinIO dan kembalikan URL-nya
func (s *StorageService) UploadFile(ctx context.Context, folder string, data []byte, contentType string) (*UploadResult, error) {
	if len(data) > MaxPhotoSize {
		return nil, fmt.Errorf("ukuran file melebihi batas maksimal 5MB")
	}

	objectName, err := PhotoObjectName(folder, contentType, time.Now())
	if err != nil {
		return nil, err
	}

	_, err = s.client.PutObject(ctx, s.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("gagal upload file: %w", err)
	}

	return &UploadResult{
		FileURL:  fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, objectName),
		FileName: filepath.Base(objectName),
		FileSize: int64(len(data)),
	}, nil
}

// DeleteFile hapus file dari MinIO berdasarkan URL hasil UploadFile
func (s *StorageService) DeleteFile(ctx context.Context, fileURL string) error {
	prefix := fmt.Sprintf("%s/%s/", s.endpoint, s.bucket)
	objectName := strings.TrimPrefix(fileURL, prefix)

	return s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{})
}
