package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ahmadqo/student-course-roster/internal/model"
	"github.com/ahmadqo/student-course-roster/internal/response"
	"github.com/ahmadqo/student-course-roster/internal/service"
	"github.com/ahmadqo/student-course-roster/internal/utils"
)

type CourseHandler struct {
	svc service.CourseService
}

func NewCourseHandler(svc service.CourseService) *CourseHandler {
	return &CourseHandler{svc: svc}
}

// GetAll retrieves all courses with their student ids
// @Summary      Get all courses
// @Description  Get a paginated list of courses with the ids of enrolled students
// @Tags         courses
// @Accept       json
// @Produce      json
// @Param        search      query    string  false  "Search by course name"
// @Param        student_id  query    string  false  "Filter by enrolled student"
// @Param        page        query    int     false  "Page number (default 1)"
// @Param        per_page    query    int     false  "Items per page (default 10, max 100)"
// @Security     BearerAuth
// @Success      200  {object}  response.PaginatedResponse
// @Failure      400  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /courses [get]
func (h *CourseHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := model.CourseFilter{
		Search:  utils.SanitizeString(q.Get("search")),
		Page:    parseIntQuery(q.Get("page"), 1),
		PerPage: parseIntQuery(q.Get("per_page"), 10),
	}

	if s := q.Get("student_id"); s != "" {
		studentID, err := uuid.Parse(s)
		if err != nil {
			response.BadRequest(w, "student_id tidak valid", nil)
			return
		}
		filter.StudentID = &studentID
	}

	courses, pagination, err := h.svc.GetAll(r.Context(), filter)
	if err != nil {
		response.InternalError(w, "Gagal mengambil data course")
		return
	}

	response.Paginated(w, "Data course berhasil diambil", courses, pagination)
}

// GetByID retrieves a course by ID
// @Summary      Get course by ID
// @Tags         courses
// @Produce      json
// @Param        id   path      string  true  "Course ID"
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=model.Course}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /courses/{id} [get]
func (h *CourseHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	course, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err, "Gagal mengambil data course")
		return
	}

	response.Success(w, "Data course berhasil diambil", course)
}

// GetDetail retrieves a course with its enrolled students
// @Summary      Get course detail
// @Description  Course name and the full roster of enrolled students
// @Tags         courses
// @Produce      json
// @Param        id   path      string  true  "Course ID"
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=model.CourseDetail}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /courses/{id}/detail [get]
func (h *CourseHandler) GetDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.svc.GetDetail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err, "Gagal mengambil detail course")
		return
	}

	response.Success(w, model.EnrollmentSummary(len(detail.Students)), detail)
}

// Create adds a new course
// @Summary      Create a course
// @Description  Create a course with an initial roster
// @Tags         courses
// @Accept       json
// @Produce      json
// @Param        request  body      model.CourseRequest  true  "Course creation request"
// @Security     BearerAuth
// @Success      201      {object}  response.Response{data=model.Course}
// @Failure      400      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /courses [post]
func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CourseRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Format request tidak valid", err.Error())
		return
	}

	if errs := validateCourse(&req); errs.HasErrors() {
		response.BadRequest(w, "Validasi gagal", errs)
		return
	}

	course, err := h.svc.Create(r.Context(), req)
	if err != nil {
		h.writeError(w, err, "Gagal membuat course")
		return
	}

	response.Created(w, "Course berhasil dibuat", course)
}

// Update replaces a course's name and roster
// @Summary      Update a course
// @Description  Replace the course name and the full list of enrolled students
// @Tags         courses
// @Accept       json
// @Produce      json
// @Param        id       path      string               true  "Course ID"
// @Param        request  body      model.CourseRequest  true  "Course update request"
// @Security     BearerAuth
// @Success      200      {object}  response.Response{data=model.Course}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /courses/{id} [put]
func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req model.CourseRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Format request tidak valid", err.Error())
		return
	}

	errs := validateCourse(&req)
	if req.ID != nil && req.ID.String() != id {
		errs["id"] = "ID di body tidak sama dengan ID di URL"
	}
	if errs.HasErrors() {
		response.BadRequest(w, "Validasi gagal", errs)
		return
	}

	course, err := h.svc.Update(r.Context(), id, req)
	if err != nil {
		h.writeError(w, err, "Gagal mengupdate course")
		return
	}

	response.Success(w, "Course berhasil diupdate", course)
}

// Delete removes a course
// @Summary      Delete a course
// @Description  Delete a course; its students are unenrolled
// @Tags         courses
// @Produce      json
// @Param        id   path      string  true  "Course ID"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /courses/{id} [delete]
func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err, "Gagal menghapus course")
		return
	}

	response.Success(w, "Course berhasil dihapus", nil)
}

// RosterPDF downloads the roster of a course
// @Summary      Download course roster PDF
// @Description  PDF listing enrolled students with a QR code linking to the course detail
// @Tags         courses
// @Produce      application/pdf
// @Param        id   path      string  true  "Course ID"
// @Security     BearerAuth
// @Success      200  {file}    file    "Roster PDF file"
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /courses/{id}/roster.pdf [get]
func (h *CourseHandler) RosterPDF(w http.ResponseWriter, r *http.Request) {
	pdf, filename, err := h.svc.RosterPDF(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err, "Gagal generate PDF")
		return
	}

	response.File(w, "application/pdf", filename, pdf)
}

func (h *CourseHandler) writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, service.ErrInvalidID), errors.Is(err, service.ErrUnknownStudent):
		response.BadRequest(w, err.Error(), nil)
	default:
		response.InternalError(w, fallback)
	}
}

func validateCourse(req *model.CourseRequest) utils.ValidationErrors {
	errs := utils.ValidationErrors{}
	req.CourseName = utils.SanitizeString(req.CourseName)
	if req.CourseName == "" {
		errs["courseName"] = "Nama course wajib diisi"
	}
	for _, id := range req.StudentIDs {
		if id == uuid.Nil {
			errs["studentIds"] = "ID siswa tidak valid"
			break
		}
	}
	return errs
}
