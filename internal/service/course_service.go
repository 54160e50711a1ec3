package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ahmadqo/student-course-roster/internal/model"
	"github.com/ahmadqo/student-course-roster/internal/repository"
	"github.com/ahmadqo/student-course-roster/internal/response"
	"github.com/ahmadqo/student-course-roster/internal/utils"
)

var (
	ErrCourseNotFound = errors.New("course tidak ditemukan")
	ErrUnknownStudent = errors.New("siswa tidak ditemukan di roster")
)

type CourseService interface {
	GetAll(ctx context.Context, filter model.CourseFilter) ([]*model.Course, *response.Pagination, error)
	GetByID(ctx context.Context, id string) (*model.Course, error)
	GetDetail(ctx context.Context, id string) (*model.CourseDetail, error)
	Create(ctx context.Context, req model.CourseRequest) (*model.Course, error)
	Update(ctx context.Context, id string, req model.CourseRequest) (*model.Course, error)
	Delete(ctx context.Context, id string) error
	RosterPDF(ctx context.Context, id string) ([]byte, string, error)
}

type courseService struct {
	repo        repository.CourseRepository
	studentRepo repository.StudentRepository
	cache       DetailCache
	publicURL   string
	now         func() time.Time
}

// NewCourseService publicURL dipakai sebagai basis link QR di PDF roster
func NewCourseService(
	repo repository.CourseRepository,
	studentRepo repository.StudentRepository,
	cache DetailCache,
	publicURL string,
) CourseService {
	return &courseService{
		repo:        repo,
		studentRepo: studentRepo,
		cache:       cache,
		publicURL:   strings.TrimRight(publicURL, "/"),
		now:         time.Now,
	}
}

func (s *courseService) GetAll(ctx context.Context, filter model.CourseFilter) ([]*model.Course, *response.Pagination, error) {
	filter.Page, filter.PerPage = repository.NormalizePage(filter.Page, filter.PerPage)

	courses, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	return courses, response.NewPagination(filter.Page, filter.PerPage, total), nil
}

func (s *courseService) GetByID(ctx context.Context, id string) (*model.Course, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	course, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}
	return course, nil
}

// GetDetail course beserta data siswa sesuai urutan studentIds
func (s *courseService) GetDetail(ctx context.Context, id string) (*model.CourseDetail, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		cached, err := s.cache.GetDetail(ctx, uid)
		if err != nil {
			logWarning("%v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	course, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	students, err := s.studentRepo.FindByIDs(ctx, course.StudentIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*model.Student, len(students))
	for _, st := range students {
		byID[st.ID] = st
	}

	detail := &model.CourseDetail{Course: *course, Students: make([]*model.Student, 0, len(course.StudentIDs))}
	for _, sid := range course.StudentIDs {
		if st, ok := byID[sid]; ok {
			detail.Students = append(detail.Students, st)
		}
	}

	if s.cache != nil {
		if err := s.cache.SetDetail(ctx, detail); err != nil {
			logWarning("%v", err)
		}
	}
	return detail, nil
}

// checkStudents memastikan semua id siswa di roster ada
func (s *courseService) checkStudents(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := s.studentRepo.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	known := make(map[uuid.UUID]bool, len(found))
	for _, st := range found {
		known[st.ID] = true
	}
	for _, id := range ids {
		if !known[id] {
			return fmt.Errorf("%w: %s", ErrUnknownStudent, id)
		}
	}
	return nil
}

func (s *courseService) Create(ctx context.Context, req model.CourseRequest) (*model.Course, error) {
	if err := s.checkStudents(ctx, req.StudentIDs); err != nil {
		return nil, err
	}

	course := &model.Course{
		ID:         uuid.New(),
		CourseName: utils.SanitizeString(req.CourseName),
		StudentIDs: req.StudentIDs,
	}
	if course.StudentIDs == nil {
		course.StudentIDs = []uuid.UUID{}
	}

	if err := s.repo.Create(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// Update mengganti nama course dan seluruh roster
func (s *courseService) Update(ctx context.Context, id string, req model.CourseRequest) (*model.Course, error) {
	course, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkStudents(ctx, req.StudentIDs); err != nil {
		return nil, err
	}

	course.CourseName = utils.SanitizeString(req.CourseName)
	course.StudentIDs = req.StudentIDs
	if course.StudentIDs == nil {
		course.StudentIDs = []uuid.UUID{}
	}

	if err := s.repo.Update(ctx, course); err != nil {
		return nil, err
	}

	invalidate(ctx, s.cache, course.ID)
	return course, nil
}

func (s *courseService) Delete(ctx context.Context, id string) error {
	course, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, course.ID); err != nil {
		return err
	}

	invalidate(ctx, s.cache, course.ID)
	return nil
}

// DetailURL link endpoint detail course untuk QR code
func (s *courseService) DetailURL(id uuid.UUID) string {
	return fmt.Sprintf("%s/api/v1/courses/%s/detail", s.publicURL, id)
}

func (s *courseService) RosterPDF(ctx context.Context, id string) ([]byte, string, error) {
	detail, err := s.GetDetail(ctx, id)
	if err != nil {
		return nil, "", err
	}

	now := s.now()
	data := utils.RosterPDFData{
		DocumentNumber: utils.RosterDocumentNumber(detail.ID.String(), now),
		GeneratedAt:    now,
		CourseName:     detail.CourseName,
		Students:       make([]utils.PDFStudent, 0, len(detail.Students)),
	}
	for i, st := range detail.Students {
		data.Students = append(data.Students, utils.PDFStudent{
			No:          i + 1,
			Name:        st.Name,
			DateOfBirth: st.DateOfBirth.FormatDisplay(),
		})
	}

	if s.publicURL != "" {
		data.DetailURL = s.DetailURL(detail.ID)
		qr, err := utils.GenerateQRCodePNG(data.DetailURL, 256)
		if err != nil {
			return nil, "", err
		}
		data.QRCodePNG = qr
	}

	pdf, err := utils.GenerateRosterPDF(data)
	if err != nil {
		return nil, "", err
	}

	return pdf, rosterFileName(detail.CourseName), nil
}

func rosterFileName(courseName string) string {
	name := strings.ToLower(utils.SanitizeString(courseName))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, name)
	name = strings.Trim(name, "-")
	if name == "" {
		name = "course"
	}
	return fmt.Sprintf("roster-%s.pdf", name)
}
