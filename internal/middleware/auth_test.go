package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ahmadqo/student-course-roster/internal/model"
	"github.com/ahmadqo/student-course-roster/internal/utils"
)

const secret = "test-secret"

func tokens(t *testing.T, role model.Role) *utils.TokenPair {
	t.Helper()
	pair, err := utils.GenerateTokenPair(model.JWTClaims{
		UserID: "8d6a0b9e-3f55-4b43-9a0f-1c2d3e4f5a6b",
		Email:  "staff@roster.local",
		Role:   string(role),
		Name:   "Staff",
	}, secret, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	return pair
}

func serve(h http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticate(t *testing.T) {
	var gotUser string
	h := Authenticate(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	pair := tokens(t, model.RoleStaff)

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"bad scheme", "Basic abc", http.StatusUnauthorized},
		{"empty bearer", "Bearer ", http.StatusUnauthorized},
		{"garbage", "Bearer abc", http.StatusUnauthorized},
		{"refresh token", "Bearer " + pair.RefreshToken, http.StatusUnauthorized},
		{"access token", "Bearer " + pair.AccessToken, http.StatusNoContent},
		{"lowercase scheme", "bearer  " + pair.AccessToken, http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(h, tc.header)
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}

	if gotUser == "" {
		t.Error("user id not stored in context")
	}
}

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := Authenticate(secret)(RequireRole(model.RoleAdmin, model.RoleStaff)(ok))

	if rec := serve(h, "Bearer "+tokens(t, model.RoleStaff).AccessToken); rec.Code != http.StatusNoContent {
		t.Errorf("staff: status = %d", rec.Code)
	}
	if rec := serve(h, "Bearer "+tokens(t, model.RoleViewer).AccessToken); rec.Code != http.StatusForbidden {
		t.Errorf("viewer: status = %d", rec.Code)
	}

	// tanpa Authenticate tidak ada role di context
	if rec := serve(RequireRole(model.RoleAdmin)(ok), ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("no role: status = %d", rec.Code)
	}
}

func TestClaimsFromContext(t *testing.T) {
	var claims *model.JWTClaims
	var role model.Role
	h := Authenticate(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims = ClaimsFromContext(r.Context())
		role = GetRoleFromContext(r.Context())
	}))
	serve(h, "Bearer "+tokens(t, model.RoleAdmin).AccessToken)

	if claims == nil || claims.Email != "staff@roster.local" || claims.Name != "Staff" {
		t.Fatalf("claims = %+v", claims)
	}
	if role != model.RoleAdmin {
		t.Errorf("role = %q", role)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if ClaimsFromContext(req.Context()) != nil || GetUserIDFromContext(req.Context()) != "" {
		t.Error("empty context should have no claims")
	}
}

func TestRoster(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	wrap := func(chain []func(http.Handler) http.Handler) http.Handler {
		var h http.Handler = ok
		for i := len(chain) - 1; i >= 0; i-- {
			h = chain[i](h)
		}
		return h
	}

	if chain := Roster(secret, false, model.RoleAdmin); len(chain) != 0 {
		t.Errorf("disabled auth should add no middleware, got %d", len(chain))
	}
	if rec := serve(wrap(Roster(secret, false, model.RoleAdmin)), ""); rec.Code != http.StatusNoContent {
		t.Errorf("open route: status = %d", rec.Code)
	}

	read := wrap(Roster(secret, true))
	if rec := serve(read, ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("read without token: status = %d", rec.Code)
	}
	if rec := serve(read, "Bearer "+tokens(t, model.RoleViewer).AccessToken); rec.Code != http.StatusNoContent {
		t.Errorf("viewer read: status = %d", rec.Code)
	}

	write := wrap(Roster(secret, true, model.RoleAdmin, model.RoleStaff))
	if rec := serve(write, "Bearer "+tokens(t, model.RoleViewer).AccessToken); rec.Code != http.StatusForbidden {
		t.Errorf("viewer write: status = %d", rec.Code)
	}
	if rec := serve(write, "Bearer "+tokens(t, model.RoleStaff).AccessToken); rec.Code != http.StatusNoContent {
		t.Errorf("staff write: status = %d", rec.Code)
	}
}
