package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/ahmadqo/student-course-roster/docs" // Import generated docs
	appMiddleware "github.com/ahmadqo/student-course-roster/internal/middleware"
	"github.com/ahmadqo/student-course-roster/internal/model"
	"github.com/ahmadqo/student-course-roster/internal/response"
)

type Router struct {
	authHandler    *AuthHandler
	studentHandler *StudentHandler
	courseHandler  *CourseHandler
	jwtSecret      string
	authEnabled    bool
}

func NewRouter(
	authHandler *AuthHandler,
	studentHandler *StudentHandler,
	courseHandler *CourseHandler,
	jwtSecret string,
	authEnabled bool,
) *Router {
	return &Router{
		authHandler:    authHandler,
		studentHandler: studentHandler,
		courseHandler:  courseHandler,
		jwtSecret:      jwtSecret,
		authEnabled:    authEnabled,
	}
}

func (ro *Router) protect(r chi.Router, roles ...model.Role) {
	r.Use(appMiddleware.Roster(ro.jwtSecret, ro.authEnabled, roles...)...)
}

func (ro *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:8081", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, "Server berjalan dengan baik", map[string]string{"status": "ok"})
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/api/v1", func(r chi.Router) {

		// ── Auth (public) ────────────────────────────────
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", ro.authHandler.Login)
			r.Post("/refresh", ro.authHandler.RefreshToken)

			r.Group(func(r chi.Router) {
				r.Use(appMiddleware.Authenticate(ro.jwtSecret))
				r.Get("/me", ro.authHandler.Me)
			})
		})

		// User management (admin only, selalu butuh token)
		r.Route("/users", func(r chi.Router) {
			r.Use(appMiddleware.Authenticate(ro.jwtSecret))
			r.Use(appMiddleware.RequireRole(model.RoleAdmin))
			r.Post("/", ro.authHandler.Register)
		})

		// ── Read ──────────────────────────────────────────
		r.Group(func(r chi.Router) {
			ro.protect(r)

			r.Get("/students", ro.studentHandler.GetAll)
			r.Get("/students/export", ro.studentHandler.Export)
			r.Get("/students/{id}", ro.studentHandler.GetByID)

			r.Get("/courses", ro.courseHandler.GetAll)
			r.Get("/courses/{id}", ro.courseHandler.GetByID)
			r.Get("/courses/{id}/detail", ro.courseHandler.GetDetail)
			r.Get("/courses/{id}/roster.pdf", ro.courseHandler.RosterPDF)
		})

		// ── Write (admin & staff) ─────────────────────────
		r.Group(func(r chi.Router) {
			ro.protect(r, model.RoleAdmin, model.RoleStaff)

			r.Post("/students", ro.studentHandler.Create)
			r.Post("/students/import", ro.studentHandler.Import)
			r.Put("/students/{id}", ro.studentHandler.Update)
			r.Delete("/students/{id}", ro.studentHandler.Delete)
			r.Post("/students/{id}/photo", ro.studentHandler.UploadPhoto)

			r.Post("/courses", ro.courseHandler.Create)
			r.Put("/courses/{id}", ro.courseHandler.Update)
			r.Delete("/courses/{id}", ro.courseHandler.Delete)
		})
	})

	return r
}
