package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"

	"github.com/ahmadqo/student-course-roster/internal/model"
	"github.com/ahmadqo/student-course-roster/internal/utils"
)

var (
	ErrInvalidID        = errors.New("ID tidak valid")
	ErrStorageDisabled  = errors.New("penyimpanan file tidak dikonfigurasi")
	ErrInvalidPhotoType = errors.New("format foto hanya JPG dan PNG")
)

// FileStorage penyimpanan foto siswa (MinIO)
type FileStorage interface {
	UploadFile(ctx context.Context, folder string, data []byte, contentType string) (*utils.UploadResult, error)
	DeleteFile(ctx context.Context, fileURL string) error
}

// DetailCache cache detail course, boleh nil
type DetailCache interface {
	GetDetail(ctx context.Context, id uuid.UUID) (*model.CourseDetail, error)
	SetDetail(ctx context.Context, detail *model.CourseDetail) error
	Invalidate(ctx context.Context, ids ...uuid.UUID) error
}

func parseID(id string) (uuid.UUID, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, ErrInvalidID
	}
	return uid, nil
}

// invalidate error cache hanya di-log, data di database tetap sumber kebenaran
func invalidate(ctx context.Context, c DetailCache, ids ...uuid.UUID) {
	if c == nil || len(ids) == 0 {
		return
	}
	if err := c.Invalidate(ctx, ids...); err != nil {
		logWarning("%v", err)
	}
}

func logWarning(format string, args ...interface{}) {
	log.Printf("Warning: "+format, args...)
}

func mergeIDs(a, b []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}
