package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/ahmadqo/student-course-roster/internal/model"
	"github.com/ahmadqo/student-course-roster/internal/repository"
	"github.com/ahmadqo/student-course-roster/internal/response"
	"github.com/ahmadqo/student-course-roster/internal/utils"
)

var (
	ErrStudentNotFound = errors.New("siswa tidak ditemukan")
	ErrUnknownCourse   = errors.New("course tidak ditemukan")
)

type StudentService interface {
	GetAll(ctx context.Context, filter model.StudentFilter) ([]*model.Student, *response.Pagination, error)
	GetByID(ctx context.Context, id string) (*model.Student, error)
	Create(ctx context.Context, req model.StudentRequest) (*model.Student, error)
	Update(ctx context.Context, id string, req model.StudentRequest) (*model.Student, error)
	Delete(ctx context.Context, id string) error
	UploadPhoto(ctx context.Context, id string, data []byte, contentType string) (*model.Student, error)
	Import(ctx context.Context, r io.Reader) (*model.ImportResult, error)
	Export(ctx context.Context) ([]byte, error)
}

type studentService struct {
	repo       repository.StudentRepository
	courseRepo repository.CourseRepository
	storage    FileStorage
	cache      DetailCache
}

func NewStudentService(
	repo repository.StudentRepository,
	courseRepo repository.CourseRepository,
	storage FileStorage,
	cache DetailCache,
) StudentService {
	return &studentService{repo: repo, courseRepo: courseRepo, storage: storage, cache: cache}
}

func (s *studentService) GetAll(ctx context.Context, filter model.StudentFilter) ([]*model.Student, *response.Pagination, error) {
	filter.Page, filter.PerPage = repository.NormalizePage(filter.Page, filter.PerPage)

	students, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	return students, response.NewPagination(filter.Page, filter.PerPage, total), nil
}

func (s *studentService) GetByID(ctx context.Context, id string) (*model.Student, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	student, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, ErrStudentNotFound
	}

	return student, nil
}

// checkCourses memastikan semua course id ada
func (s *studentService) checkCourses(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := s.courseRepo.ExistingIDs(ctx, ids)
	if err != nil {
		return err
	}
	known := make(map[uuid.UUID]bool, len(found))
	for _, id := range found {
		known[id] = true
	}
	for _, id := range ids {
		if !known[id] {
			return fmt.Errorf("%w: %s", ErrUnknownCourse, id)
		}
	}
	return nil
}

func (s *studentService) Create(ctx context.Context, req model.StudentRequest) (*model.Student, error) {
	dob, err := model.ParseDate(req.DateOfBirth)
	if err != nil {
		return nil, err
	}

	student := &model.Student{
		ID:          uuid.New(),
		Name:        utils.SanitizeString(req.Name),
		DateOfBirth: dob,
		CourseIDs:   []uuid.UUID{},
	}
	if req.CourseIDs != nil {
		if err := s.checkCourses(ctx, *req.CourseIDs); err != nil {
			return nil, err
		}
		student.CourseIDs = *req.CourseIDs
	}

	if err := s.repo.Create(ctx, student); err != nil {
		return nil, err
	}

	invalidate(ctx, s.cache, student.CourseIDs...)
	return student, nil
}

func (s *studentService) Update(ctx context.Context, id string, req model.StudentRequest) (*model.Student, error) {
	student, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	dob, err := model.ParseDate(req.DateOfBirth)
	if err != nil {
		return nil, err
	}

	previous := student.CourseIDs
	student.Name = utils.SanitizeString(req.Name)
	student.DateOfBirth = dob

	syncCourses := req.CourseIDs != nil
	if syncCourses {
		if err := s.checkCourses(ctx, *req.CourseIDs); err != nil {
			return nil, err
		}
		student.CourseIDs = *req.CourseIDs
	}

	if err := s.repo.Update(ctx, student, syncCourses); err != nil {
		return nil, err
	}

	// nama dan tanggal lahir tampil di detail course lama maupun baru
	invalidate(ctx, s.cache, mergeIDs(previous, student.CourseIDs)...)
	return student, nil
}

func (s *studentService) Delete(ctx context.Context, id string) error {
	student, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, student.ID); err != nil {
		return err
	}

	invalidate(ctx, s.cache, student.CourseIDs...)

	if student.PhotoURL != nil && s.storage != nil {
		if err := s.storage.DeleteFile(ctx, *student.PhotoURL); err != nil {
			logWarning("gagal menghapus foto siswa %s: %v", student.ID, err)
		}
	}
	return nil
}

func (s *studentService) UploadPhoto(ctx context.Context, id string, data []byte, contentType string) (*model.Student, error) {
	if s.storage == nil {
		return nil, ErrStorageDisabled
	}
	if _, ok := utils.AllowedPhotoTypes[contentType]; !ok {
		return nil, ErrInvalidPhotoType
	}

	student, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Hapus foto lama jika ada
	if student.PhotoURL != nil {
		if err := s.storage.DeleteFile(ctx, *student.PhotoURL); err != nil {
			logWarning("gagal menghapus foto lama %s: %v", *student.PhotoURL, err)
		}
	}

	result, err := s.storage.UploadFile(ctx, "students/photos", data, contentType)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdatePhoto(ctx, student.ID, result.FileURL); err != nil {
		return nil, err
	}

	student.PhotoURL = &result.FileURL
	return student, nil
}

// Import membuat siswa dari file XLSX. Baris yang tidak valid dilewati
// dan dilaporkan di ImportResult.Errors.
func (s *studentService) Import(ctx context.Context, r io.Reader) (*model.ImportResult, error) {
	rows, err := utils.ParseStudentSheet(r)
	if err != nil {
		return nil, err
	}

	result := &model.ImportResult{}
	for _, row := range rows {
		if row.Name == "" {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("baris %d: nama wajib diisi", row.Row))
			continue
		}

		dob, err := parseSheetDate(row.DateOfBirth)
		if err == nil {
			err = model.ValidateBirthDate(dob)
		}
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("baris %d: %v", row.Row, err))
			continue
		}

		student := &model.Student{
			ID:          uuid.New(),
			Name:        row.Name,
			DateOfBirth: dob,
		}
		if err := s.repo.Create(ctx, student); err != nil {
			return result, fmt.Errorf("baris %d: %w", row.Row, err)
		}
		result.Imported++
	}

	return result, nil
}

// parseSheetDate menerima YYYY-MM-DD atau DD-MM-YYYY
func parseSheetDate(s string) (model.Date, error) {
	if d, err := model.ParseDate(s); err == nil {
		return d, nil
	}
	d, err := model.ParseDisplayDate(s)
	if err != nil {
		return model.Date{}, errors.New("tanggal lahir harus YYYY-MM-DD atau DD-MM-YYYY")
	}
	return d, nil
}

func (s *studentService) Export(ctx context.Context) ([]byte, error) {
	rows := []utils.ExportRow{}
	page := 1
	for {
		students, total, err := s.repo.FindAll(ctx, model.StudentFilter{Page: page, PerPage: repository.MaxPerPage})
		if err != nil {
			return nil, err
		}
		for _, st := range students {
			rows = append(rows, utils.ExportRow{
				Name:        st.Name,
				DateOfBirth: st.DateOfBirth.String(),
				Courses:     len(st.CourseIDs),
			})
		}
		if int64(page*repository.MaxPerPage) >= total || len(students) == 0 {
			break
		}
		page++
	}

	return utils.WriteStudentSheet(rows)
}

// ExportFileName nama file export dengan tanggal hari ini
func ExportFileName(now time.Time) string {
	return fmt.Sprintf("students-%s.xlsx", now.Format("20060102"))
}
