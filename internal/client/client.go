// Package client adalah REST client untuk API roster (/api/v1).
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ahmadqo/student-course-roster/internal/config"
	"github.com/ahmadqo/student-course-roster/internal/model"
)

// pageSize ukuran halaman saat mengambil seluruh data
const pageSize = 100

var ErrNotFound = errors.New("data tidak ditemukan")

// APIError response non-2xx dari server
type APIError struct {
	Status  int
	Message string
	Errors  map[string]string
}

func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("api %d: %s %v", e.Status, e.Message, e.Errors)
	}
	return fmt.Sprintf("api %d: %s", e.Status, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

type envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Errors     json.RawMessage `json:"errors"`
	Pagination *pagination     `json:"pagination"`
}

type pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

func NewFromConfig(cfg config.ClientConfig) *Client {
	return New(cfg.BaseURL, cfg.Token, cfg.Timeout)
}

func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// send mengirim request dan mengembalikan envelope; status non-2xx jadi *APIError
func (c *Client) send(req *http.Request) (*envelope, *http.Response, []byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp, nil, fmt.Errorf("read response: %w", err)
	}

	isJSON := strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json")
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var env envelope
		if isJSON && json.Unmarshal(raw, &env) == nil {
			if env.Message != "" {
				apiErr.Message = env.Message
			}
			var fields map[string]string
			if json.Unmarshal(env.Errors, &fields) == nil {
				apiErr.Errors = fields
			}
		}
		return nil, resp, raw, apiErr
	}

	if !isJSON {
		return nil, resp, raw, nil
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, resp, raw, fmt.Errorf("decode response: %w", err)
	}
	return &env, resp, raw, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	env, _, _, err := c.send(req)
	if err != nil {
		return nil, err
	}
	if out != nil && env != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return env, fmt.Errorf("decode data: %w", err)
		}
	}
	return env, nil
}

// listAll mengambil semua halaman dari endpoint list
func listAll[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	out := []T{}
	for page := 1; ; page++ {
		q := url.Values{}
		q.Set("page", strconv.Itoa(page))
		q.Set("per_page", strconv.Itoa(pageSize))

		var items []T
		env, err := c.do(ctx, http.MethodGet, path+"?"+q.Encode(), nil, &items)
		if err != nil {
			return nil, err
		}
		out = append(out, items...)

		if env == nil || env.Pagination == nil || page >= env.Pagination.TotalPages || len(items) == 0 {
			return out, nil
		}
	}
}

// ── Auth ─────────────────────────────────────────────

type Session struct {
	User  model.UserResponse `json:"user"`
	Token struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
		ExpiresAt    int64  `json:"expiresAt"`
	} `json:"token"`
}

// Login menyimpan access token ke client jika berhasil
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var session Session
	body := map[string]string{"email": email, "password": password}
	if _, err := c.do(ctx, http.MethodPost, "/auth/login", body, &session); err != nil {
		return nil, err
	}
	c.SetToken(session.Token.AccessToken)
	return &session, nil
}

// ── Students ─────────────────────────────────────────

func (c *Client) ListStudents(ctx context.Context) ([]model.Student, error) {
	return listAll[model.Student](ctx, c, "/students")
}

func (c *Client) GetStudent(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	var s model.Student
	if _, err := c.do(ctx, http.MethodGet, "/students/"+id.String(), nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) CreateStudent(ctx context.Context, req model.StudentRequest) (*model.Student, error) {
	var s model.Student
	if _, err := c.do(ctx, http.MethodPost, "/students", req, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) UpdateStudent(ctx context.Context, id uuid.UUID, req model.StudentRequest) (*model.Student, error) {
	var s model.Student
	if _, err := c.do(ctx, http.MethodPut, "/students/"+id.String(), req, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) DeleteStudent(ctx context.Context, id uuid.UUID) error {
	_, err := c.do(ctx, http.MethodDelete, "/students/"+id.String(), nil, nil)
	return err
}

// ImportStudents upload file XLSX ke /students/import
func (c *Client) ImportStudents(ctx context.Context, filename string, file io.Reader) (*model.ImportResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/students/import", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	env, _, _, err := c.send(req)
	if err != nil {
		return nil, err
	}
	var result model.ImportResult
	if env != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &result); err != nil {
			return nil, fmt.Errorf("decode data: %w", err)
		}
	}
	return &result, nil
}

// ExportStudents mengembalikan isi file XLSX dan nama filenya
func (c *Client) ExportStudents(ctx context.Context) ([]byte, string, error) {
	return c.download(ctx, "/students/export", "students.xlsx")
}

// ── Courses ──────────────────────────────────────────

func (c *Client) ListCourses(ctx context.Context) ([]model.Course, error) {
	return listAll[model.Course](ctx, c, "/courses")
}

func (c *Client) GetCourse(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	var course model.Course
	if _, err := c.do(ctx, http.MethodGet, "/courses/"+id.String(), nil, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *Client) GetCourseDetail(ctx context.Context, id uuid.UUID) (*model.CourseDetail, error) {
	var detail model.CourseDetail
	if _, err := c.do(ctx, http.MethodGet, "/courses/"+id.String()+"/detail", nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (c *Client) CreateCourse(ctx context.Context, req model.CourseRequest) (*model.Course, error) {
	var course model.Course
	if _, err := c.do(ctx, http.MethodPost, "/courses", req, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *Client) UpdateCourse(ctx context.Context, id uuid.UUID, req model.CourseRequest) (*model.Course, error) {
	var course model.Course
	if _, err := c.do(ctx, http.MethodPut, "/courses/"+id.String(), req, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *Client) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	_, err := c.do(ctx, http.MethodDelete, "/courses/"+id.String(), nil, nil)
	return err
}

// RosterPDF mengembalikan PDF roster course dan nama filenya
func (c *Client) RosterPDF(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	return c.download(ctx, "/courses/"+id.String()+"/roster.pdf", "roster.pdf")
}

func (c *Client) download(ctx context.Context, path, fallbackName string) ([]byte, string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Accept", "*/*")

	_, resp, raw, err := c.send(req)
	if err != nil {
		return nil, "", err
	}

	name := fallbackName
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		name = safeFileName(params["filename"], fallbackName)
	}
	return raw, name, nil
}

// safeFileName hanya mengambil nama file terakhir, tanpa direktori
func safeFileName(name, fallback string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	switch name {
	case "", ".", "..", "/":
		return fallback
	}
	return name
}
