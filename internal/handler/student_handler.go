package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ahmadqo/student-course-roster/internal/model"
	"github.com/ahmadqo/student-course-roster/internal/response"
	"github.com/ahmadqo/student-course-roster/internal/service"
	"github.com/ahmadqo/student-course-roster/internal/utils"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	maxImportSize   = 10 << 20
)

type StudentHandler struct {
	svc service.StudentService
}

func NewStudentHandler(svc service.StudentService) *StudentHandler {
	return &StudentHandler{svc: svc}
}

// GetAll retrieves all students with optional filters and pagination
// @Summary      Get all students
// @Description  Get a paginated list of students with their course ids
// @Tags         students
// @Accept       json
// @Produce      json
// @Param        search     query    string  false  "Search by name"
// @Param        course_id  query    string  false  "Filter by enrolled course"
// @Param        page       query    int     false  "Page number (default 1)"
// @Param        per_page   query    int     false  "Items per page (default 10, max 100)"
// @Security     BearerAuth
// @Success      200  {object}  response.PaginatedResponse
// @Failure      400  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /students [get]
func (h *StudentHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := model.StudentFilter{
		Search:  utils.SanitizeString(q.Get("search")),
		Page:    parseIntQuery(q.Get("page"), 1),
		PerPage: parseIntQuery(q.Get("per_page"), 10),
	}

	if c := q.Get("course_id"); c != "" {
		courseID, err := uuid.Parse(c)
		if err != nil {
			response.BadRequest(w, "course_id tidak valid", nil)
			return
		}
		filter.CourseID = &courseID
	}

	students, pagination, err := h.svc.GetAll(r.Context(), filter)
	if err != nil {
		response.InternalError(w, "Gagal mengambil data siswa")
		return
	}

	response.Paginated(w, "Data siswa berhasil diambil", students, pagination)
}

// GetByID retrieves a student by ID
// @Summary      Get student by ID
// @Description  Get a single student with the ids of the courses they are enrolled in
// @Tags         students
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Student ID"
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=model.Student}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /students/{id} [get]
func (h *StudentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	student, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "Gagal mengambil data siswa")
		return
	}

	response.Success(w, "Data siswa berhasil diambil", student)
}

// Create adds a new student
// @Summary      Create a student
// @Description  Create a new student record, optionally enrolled in existing courses
// @Tags         students
// @Accept       json
// @Produce      json
// @Param        request  body      model.StudentRequest  true  "Student creation request"
// @Security     BearerAuth
// @Success      201      {object}  response.Response{data=model.Student}
// @Failure      400      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /students [post]
func (h *StudentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.StudentRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Format request tidak valid", err.Error())
		return
	}

	if errs := validateStudent(&req); errs.HasErrors() {
		response.BadRequest(w, "Validasi gagal", errs)
		return
	}

	student, err := h.svc.Create(r.Context(), req)
	if err != nil {
		h.writeError(w, err, "Gagal membuat data siswa")
		return
	}

	response.Created(w, "Data siswa berhasil dibuat", student)
}

// Update modifies an existing student's data
// @Summary      Update a student
// @Description  Update name and date of birth. When courseIds is present the student's enrollments are replaced.
// @Tags         students
// @Accept       json
// @Produce      json
// @Param        id       path      string                true  "Student ID"
// @Param        request  body      model.StudentRequest  true  "Student update request"
// @Security     BearerAuth
// @Success      200      {object}  response.Response{data=model.Student}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /students/{id} [put]
func (h *StudentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req model.StudentRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Format request tidak valid", err.Error())
		return
	}

	errs := validateStudent(&req)
	if req.ID != nil && req.ID.String() != id {
		errs["id"] = "ID di body tidak sama dengan ID di URL"
	}
	if errs.HasErrors() {
		response.BadRequest(w, "Validasi gagal", errs)
		return
	}

	student, err := h.svc.Update(r.Context(), id, req)
	if err != nil {
		h.writeError(w, err, "Gagal mengupdate data siswa")
		return
	}

	response.Success(w, "Data siswa berhasil diupdate", student)
}

// Delete removes a student
// @Summary      Delete a student
// @Description  Delete a student, their enrollments and their photo
// @Tags         students
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Student ID"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /students/{id} [delete]
func (h *StudentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.writeError(w, err, "Gagal menghapus data siswa")
		return
	}

	response.Success(w, "Data siswa berhasil dihapus", nil)
}

// UploadPhoto uploads or replaces a student's photo
// @Summary      Upload student photo
// @Description  Upload a JPEG or PNG photo for a student (max 5MB)
// @Tags         students
// @Accept       multipart/form-data
// @Produce      json
// @Param        id     path      string  true  "Student ID"
// @Param        photo  formData  file    true  "Photo file"
// @Security     BearerAuth
// @Success      200    {object}  response.Response{data=model.Student}
// @Failure      400    {object}  response.Response
// @Failure      404    {object}  response.Response
// @Failure      503    {object}  response.Response
// @Router       /students/{id}/photo [post]
func (h *StudentHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	r.Body = http.MaxBytesReader(w, r.Body, utils.MaxPhotoSize+1024)
	if err := r.ParseMultipartForm(utils.MaxPhotoSize); err != nil {
		response.BadRequest(w, "File terlalu besar atau format tidak valid", nil)
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		response.BadRequest(w, "File foto tidak ditemukan dalam request", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.InternalError(w, "Gagal membaca file")
		return
	}

	student, err := h.svc.UploadPhoto(r.Context(), id, data, header.Header.Get("Content-Type"))
	if err != nil {
		h.writeError(w, err, "Gagal mengupload foto")
		return
	}

	response.Success(w, "Foto berhasil diupload", student)
}

// Import creates students from an XLSX file
// @Summary      Import students
// @Description  Import students from an XLSX file. Column A is the name, column B the date of birth (YYYY-MM-DD or DD-MM-YYYY). The first row is a header.
// @Tags         students
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "XLSX file"
// @Security     BearerAuth
// @Success      200   {object}  response.Response{data=model.ImportResult}
// @Failure      400   {object}  response.Response
// @Failure      500   {object}  response.Response
// @Router       /students/import [post]
func (h *StudentHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize+1024)
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		response.BadRequest(w, "File terlalu besar atau format tidak valid", nil)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "File tidak ditemukan dalam request", nil)
		return
	}
	defer file.Close()

	result, err := h.svc.Import(r.Context(), file)
	if err != nil {
		if result == nil {
			response.BadRequest(w, "File XLSX tidak valid", err.Error())
			return
		}
		response.InternalError(w, "Import berhenti: "+err.Error())
		return
	}

	response.Success(w, "Import siswa selesai", result)
}

// Export downloads all students as XLSX
// @Summary      Export students
// @Description  Download every student as an XLSX file
// @Tags         students
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Success      200  {file}    file  "XLSX file"
// @Failure      500  {object}  response.Response
// @Router       /students/export [get]
func (h *StudentHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.Export(r.Context())
	if err != nil {
		response.InternalError(w, "Gagal export data siswa")
		return
	}

	response.File(w, xlsxContentType, service.ExportFileName(time.Now()), data)
}

func (h *StudentHandler) writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, service.ErrInvalidID),
		errors.Is(err, service.ErrUnknownCourse),
		errors.Is(err, service.ErrInvalidPhotoType):
		response.BadRequest(w, err.Error(), nil)
	case errors.Is(err, service.ErrStorageDisabled):
		response.ServiceUnavailable(w, err.Error())
	default:
		response.InternalError(w, fallback)
	}
}

// validateStudent nama wajib, tanggal lahir YYYY-MM-DD dan tidak di masa depan
func validateStudent(req *model.StudentRequest) utils.ValidationErrors {
	errs := utils.ValidationErrors{}
	req.Name = utils.SanitizeString(req.Name)
	req.DateOfBirth = strings.TrimSpace(req.DateOfBirth)

	if req.Name == "" {
		errs["name"] = "Nama wajib diisi"
	}
	if req.DateOfBirth == "" {
		errs["dateOfBirth"] = "Tanggal lahir wajib diisi"
	} else if dob, err := model.ParseDate(req.DateOfBirth); err != nil {
		errs["dateOfBirth"] = "Format tanggal lahir harus YYYY-MM-DD"
	} else if err := model.ValidateBirthDate(dob); err != nil {
		errs["dateOfBirth"] = "Tanggal lahir tidak boleh di masa depan"
	}
	return errs
}

func parseIntQuery(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	s = strings.TrimSpace(s)
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return defaultVal
	}
	return v
}
