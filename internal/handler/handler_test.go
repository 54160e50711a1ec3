package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ahmadqo/student-course-roster/internal/config"
	"github.com/ahmadqo/student-course-roster/internal/database"
	"github.com/ahmadqo/student-course-roster/internal/model"
	"github.com/ahmadqo/student-course-roster/internal/repository"
	"github.com/ahmadqo/student-course-roster/internal/service"
)

const testSecret = "test-secret"

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

func newTestServer(t *testing.T, authEnabled bool) http.Handler {
	t.Helper()
	db, err := database.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.NewSeeder(db).SeedAdminUser(context.Background()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	courseRepo := repository.NewCourseRepository(db)

	jwtCfg := config.JWTConfig{Secret: testSecret, ExpireHours: 1, RefreshExpHours: 2}
	router := NewRouter(
		NewAuthHandler(service.NewAuthService(userRepo, jwtCfg)),
		NewStudentHandler(service.NewStudentService(studentRepo, courseRepo, nil, nil)),
		NewCourseHandler(service.NewCourseService(courseRepo, studentRepo, nil, "http://roster.test")),
		testSecret,
		authEnabled,
	)
	return router.Setup()
}

func do(t *testing.T, h http.Handler, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: decode: %v (%s)", method, path, err, rec.Body.String())
		}
	}
	return rec, env
}

func decode(t *testing.T, raw json.RawMessage, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(raw, dst); err != nil {
		t.Fatalf("decode data: %v (%s)", err, raw)
	}
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, true)
	rec, env := do(t, h, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("health: %d %+v", rec.Code, env)
	}
}

func TestStudentCourseFlow(t *testing.T) {
	h := newTestServer(t, false)

	rec, env := do(t, h, http.MethodPost, "/api/v1/students", "", map[string]string{
		"name": "Ana", "dateOfBirth": "2004-01-02",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create student: %d %s", rec.Code, rec.Body.String())
	}
	var ana model.Student
	decode(t, env.Data, &ana)
	if ana.DateOfBirth.String() != "2004-01-02" || ana.CourseIDs == nil {
		t.Errorf("student = %+v", ana)
	}

	rec, env = do(t, h, http.MethodPost, "/api/v1/courses", "", map[string]interface{}{
		"courseName": "Math", "studentIds": []uuid.UUID{ana.ID},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create course: %d %s", rec.Code, rec.Body.String())
	}
	var math model.Course
	decode(t, env.Data, &math)

	rec, env = do(t, h, http.MethodGet, "/api/v1/courses/"+math.ID.String()+"/detail", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("detail: %d", rec.Code)
	}
	if env.Message != "Enrolled Students: 1" {
		t.Errorf("detail message = %q", env.Message)
	}
	var detail model.CourseDetail
	decode(t, env.Data, &detail)
	if len(detail.Students) != 1 || detail.Students[0].Name != "Ana" {
		t.Errorf("detail = %+v", detail)
	}

	rec, env = do(t, h, http.MethodGet, "/api/v1/students?search=an", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: %d", rec.Code)
	}
	var list []model.Student
	decode(t, env.Data, &list)
	if len(list) != 1 || len(list[0].CourseIDs) != 1 || list[0].CourseIDs[0] != math.ID {
		t.Errorf("list = %+v", list)
	}

	rec, _ = do(t, h, http.MethodDelete, "/api/v1/students/"+ana.ID.String(), "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: %d", rec.Code)
	}

	_, env = do(t, h, http.MethodGet, "/api/v1/courses/"+math.ID.String(), "", nil)
	decode(t, env.Data, &math)
	if len(math.StudentIDs) != 0 {
		t.Errorf("roster not cleaned: %v", math.StudentIDs)
	}

	_, env = do(t, h, http.MethodGet, "/api/v1/courses/"+math.ID.String()+"/detail", "", nil)
	if env.Message != "No Students Enrolled Yet" {
		t.Errorf("detail message = %q", env.Message)
	}
}

func TestStudentValidation(t *testing.T) {
	h := newTestServer(t, false)
	future := time.Now().AddDate(1, 0, 0).Format(model.DateLayout)

	cases := []struct {
		name  string
		body  map[string]interface{}
		field string
	}{
		{"missing name", map[string]interface{}{"dateOfBirth": "2004-01-02"}, "name"},
		{"missing date", map[string]interface{}{"name": "Ana"}, "dateOfBirth"},
		{"display format", map[string]interface{}{"name": "Ana", "dateOfBirth": "02-01-2004"}, "dateOfBirth"},
		{"future date", map[string]interface{}{"name": "Ana", "dateOfBirth": future}, "dateOfBirth"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, env := do(t, h, http.MethodPost, "/api/v1/students", "", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d", rec.Code)
			}
			var errs map[string]string
			decode(t, env.Errors, &errs)
			if errs[tc.field] == "" {
				t.Errorf("no error for %s: %v", tc.field, errs)
			}
		})
	}

	rec, _ := do(t, h, http.MethodPost, "/api/v1/students", "", map[string]interface{}{
		"name": "Ana", "dateOfBirth": "2004-01-02", "courseIds": []string{uuid.NewString()},
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown course: status = %d", rec.Code)
	}

	rec, _ = do(t, h, http.MethodPost, "/api/v1/students", "", map[string]interface{}{
		"name": "Ana", "dateOfBirth": "2004-01-02", "nisn": "123",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown field: status = %d", rec.Code)
	}
}

func TestCourseValidation(t *testing.T) {
	h := newTestServer(t, false)

	rec, _ := do(t, h, http.MethodPost, "/api/v1/courses", "", map[string]interface{}{"courseName": "   "})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty name: status = %d", rec.Code)
	}

	rec, _ = do(t, h, http.MethodPost, "/api/v1/courses", "", map[string]interface{}{
		"courseName": "Math", "studentIds": []string{uuid.NewString()},
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown student: status = %d", rec.Code)
	}
}

func TestNotFoundAndInvalidID(t *testing.T) {
	h := newTestServer(t, false)

	cases := []struct {
		path string
		want int
	}{
		{"/api/v1/students/" + uuid.NewString(), http.StatusNotFound},
		{"/api/v1/students/abc", http.StatusBadRequest},
		{"/api/v1/courses/" + uuid.NewString(), http.StatusNotFound},
		{"/api/v1/courses/" + uuid.NewString() + "/detail", http.StatusNotFound},
		{"/api/v1/courses/abc/roster.pdf", http.StatusBadRequest},
		{"/api/v1/students?course_id=abc", http.StatusBadRequest},
	}
	for _, tc := range cases {
		rec, _ := do(t, h, http.MethodGet, tc.path, "", nil)
		if rec.Code != tc.want {
			t.Errorf("GET %s = %d, want %d", tc.path, rec.Code, tc.want)
		}
	}
}

func TestFiles(t *testing.T) {
	h := newTestServer(t, false)

	_, env := do(t, h, http.MethodPost, "/api/v1/courses", "", map[string]interface{}{"courseName": "Math"})
	var math model.Course
	decode(t, env.Data, &math)

	rec, _ := do(t, h, http.MethodGet, "/api/v1/courses/"+math.ID.String()+"/roster.pdf", "", nil)
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "application/pdf" {
		t.Fatalf("roster.pdf: %d %s", rec.Code, rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "roster-math.pdf") {
		t.Errorf("Content-Disposition = %q", rec.Header().Get("Content-Disposition"))
	}

	rec, _ = do(t, h, http.MethodGet, "/api/v1/students/export", "", nil)
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != xlsxContentType {
		t.Fatalf("export: %d %s", rec.Code, rec.Header().Get("Content-Type"))
	}

	// upload foto tanpa MinIO
	_, env = do(t, h, http.MethodPost, "/api/v1/students", "", map[string]string{"name": "Ana", "dateOfBirth": "2004-01-02"})
	var ana model.Student
	decode(t, env.Data, &ana)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("photo", "ana.png")
	if err != nil {
		t.Fatal(err)
	}
	part.Write([]byte("png"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/students/"+ana.ID.String()+"/photo", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("photo without storage: status = %d", rec.Code)
	}
}

func login(t *testing.T, h http.Handler, email, password string) string {
	t.Helper()
	rec, env := do(t, h, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": email, "password": password,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: %d %s", email, rec.Code, rec.Body.String())
	}
	var res service.LoginResponse
	decode(t, env.Data, &res)
	return res.Token.AccessToken
}

func TestAuthEnabled(t *testing.T) {
	h := newTestServer(t, true)

	if rec, _ := do(t, h, http.MethodGet, "/api/v1/students", "", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d", rec.Code)
	}

	admin := login(t, h, database.DefaultAdminEmail, database.DefaultAdminPassword)
	if rec, _ := do(t, h, http.MethodGet, "/api/v1/students", admin, nil); rec.Code != http.StatusOK {
		t.Errorf("admin list: status = %d", rec.Code)
	}
	if rec, _ := do(t, h, http.MethodGet, "/api/v1/auth/me", admin, nil); rec.Code != http.StatusOK {
		t.Errorf("me: status = %d", rec.Code)
	}

	rec, _ := do(t, h, http.MethodPost, "/api/v1/users", admin, map[string]string{
		"name": "Viewer", "email": "viewer@roster.local", "password": "lihat1234", "role": "viewer",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register viewer: %d %s", rec.Code, rec.Body.String())
	}

	viewer := login(t, h, "viewer@roster.local", "lihat1234")
	if rec, _ := do(t, h, http.MethodGet, "/api/v1/courses", viewer, nil); rec.Code != http.StatusOK {
		t.Errorf("viewer read: status = %d", rec.Code)
	}
	if rec, _ := do(t, h, http.MethodPost, "/api/v1/courses", viewer, map[string]string{"courseName": "Math"}); rec.Code != http.StatusForbidden {
		t.Errorf("viewer write: status = %d", rec.Code)
	}
	if rec, _ := do(t, h, http.MethodPost, "/api/v1/users", viewer, map[string]string{"name": "X"}); rec.Code != http.StatusForbidden {
		t.Errorf("viewer register: status = %d", rec.Code)
	}
}
