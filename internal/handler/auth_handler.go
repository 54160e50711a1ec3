package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ahmadqo/student-course-roster/internal/middleware"
	"github.com/ahmadqo/student-course-roster/internal/response"
	"github.com/ahmadqo/student-course-roster/internal/service"
	"github.com/ahmadqo/student-course-roster/internal/utils"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login authenticates an operator
// @Summary      Login
// @Description  Exchange email and password for an access and refresh token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      service.LoginRequest  true  "Credentials"
// @Success      200      {object}  response.Response{data=service.LoginResponse}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest

	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Format request tidak valid", err.Error())
		return
	}

	// Validasi input
	errs := utils.ValidationErrors{}
	req.Email = utils.SanitizeString(strings.ToLower(req.Email))

	if req.Email == "" {
		errs["email"] = "Email wajib diisi"
	} else if !utils.IsValidEmail(req.Email) {
		errs["email"] = "Format email tidak valid"
	}
	if req.Password == "" {
		errs["password"] = "Password wajib diisi"
	}

	if errs.HasErrors() {
		response.BadRequest(w, "Validasi gagal", errs)
		return
	}

	result, err := h.authService.Login(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Unauthorized(w, err.Error())
		case errors.Is(err, service.ErrAccountDisabled):
			response.Forbidden(w, err.Error())
		default:
			response.InternalError(w, "Terjadi kesalahan server")
		}
		return
	}

	response.Success(w, "Login berhasil", result)
}

// Register creates a new operator account
// @Summary      Create user
// @Description  Admin only. Role is one of admin, staff, viewer (default staff).
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request  body      service.RegisterRequest  true  "New user"
// @Security     BearerAuth
// @Success      201      {object}  response.Response{data=model.UserResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /users [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest

	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Format request tidak valid", err.Error())
		return
	}

	errs := utils.ValidationErrors{}
	req.Name = utils.SanitizeString(req.Name)
	req.Email = utils.SanitizeString(strings.ToLower(req.Email))

	if req.Name == "" {
		errs["name"] = "Nama wajib diisi"
	}
	if req.Email == "" {
		errs["email"] = "Email wajib diisi"
	} else if !utils.IsValidEmail(req.Email) {
		errs["email"] = "Format email tidak valid"
	}
	if req.Password == "" {
		errs["password"] = "Password wajib diisi"
	} else if !utils.IsValidPassword(req.Password) {
		errs["password"] = "Password minimal 8 karakter dan harus mengandung huruf dan angka"
	}
	if req.Role != "" && !req.Role.Valid() {
		errs["role"] = "Role tidak valid (admin, staff, viewer)"
	}

	if errs.HasErrors() {
		response.BadRequest(w, "Validasi gagal", errs)
		return
	}

	result, err := h.authService.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrEmailAlreadyExists) {
			response.BadRequest(w, err.Error(), nil)
			return
		}
		response.InternalError(w, "Terjadi kesalahan server")
		return
	}

	response.Created(w, "User berhasil dibuat", result)
}

// RefreshToken issues a new token pair
// @Summary      Refresh token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      service.RefreshTokenRequest  true  "Refresh token"
// @Success      200      {object}  response.Response{data=utils.TokenPair}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /auth/refresh [post]
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req service.RefreshTokenRequest

	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Format request tidak valid", err.Error())
		return
	}

	if req.RefreshToken == "" {
		response.BadRequest(w, "Refresh token wajib diisi", nil)
		return
	}

	tokenPair, err := h.authService.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	response.Success(w, "Token berhasil diperbarui", tokenPair)
}

// Me returns the logged in user
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=model.UserResponse}
// @Failure      401  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	if userID == "" {
		response.Unauthorized(w, "User tidak terautentikasi")
		return
	}

	user, err := h.authService.Me(r.Context(), userID)
	if err != nil {
		response.NotFound(w, "User tidak ditemukan")
		return
	}

	response.Success(w, "Data user berhasil diambil", user)
}
