package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/ahmadqo/student-course-roster/internal/model"
	"github.com/ahmadqo/student-course-roster/internal/response"
	"github.com/ahmadqo/student-course-roster/internal/utils"
)

type claimsKey struct{}

// bearerToken mengambil token dari header, pesan kosong berarti valid
func bearerToken(r *http.Request) (string, string) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", "Token tidak ditemukan"
	}
	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", "Format token tidak valid, gunakan: Bearer <token>"
	}
	return token, ""
}

// Authenticate memvalidasi access token dan menyimpan claims ke context
func Authenticate(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, msg := bearerToken(r)
			if msg != "" {
				response.Unauthorized(w, msg)
				return
			}

			claims, err := utils.ValidateToken(token, jwtSecret)
			if err != nil {
				response.Unauthorized(w, "Token tidak valid atau sudah expired")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole hanya meneruskan request dari role yang diizinkan.
// Harus dipasang setelah Authenticate.
func RequireRole(roles ...model.Role) func(http.Handler) http.Handler {
	allowed := make(map[model.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := GetRoleFromContext(r.Context())
			if role == "" {
				response.Unauthorized(w, "Role tidak ditemukan dalam token")
				return
			}
			if _, ok := allowed[role]; !ok {
				response.Forbidden(w, "Role "+string(role)+" tidak boleh mengakses resource ini")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Roster middleware untuk route siswa dan course. Saat AUTH_ENABLED=false
// route dibiarkan terbuka; roles kosong berarti cukup login.
func Roster(jwtSecret string, enabled bool, roles ...model.Role) []func(http.Handler) http.Handler {
	if !enabled {
		return nil
	}
	chain := []func(http.Handler) http.Handler{Authenticate(jwtSecret)}
	if len(roles) > 0 {
		chain = append(chain, RequireRole(roles...))
	}
	return chain
}

func ClaimsFromContext(ctx context.Context) *model.JWTClaims {
	claims, _ := ctx.Value(claimsKey{}).(*model.JWTClaims)
	return claims
}

func GetUserIDFromContext(ctx context.Context) string {
	if claims := ClaimsFromContext(ctx); claims != nil {
		return claims.UserID
	}
	return ""
}

func GetRoleFromContext(ctx context.Context) model.Role {
	if claims := ClaimsFromContext(ctx); claims != nil {
		return model.Role(strings.ToLower(claims.Role))
	}
	return ""
}
