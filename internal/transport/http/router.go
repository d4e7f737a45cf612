package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger   *slog.Logger
	Timeout  time.Duration
	BasePath string // например, "/api"; если пустой — роуты регистрируются на корне.
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(srv *Server, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		Recover(),            // безопасно ловим паники
		RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
	)
	if opts.Timeout > 0 {
		root.Use(Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	// Регистрация маршрутов.
	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, srv)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, srv)
	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, srv *Server) {
	r.Post("/auth/sign-up", srv.SignUp)
	r.Post("/auth/login", srv.Login)
	r.Post("/auth/reissue", srv.Reissue)
	r.Post("/auth/logout", srv.Logout)
	r.Post("/auth/validate", srv.Validate)
	r.Post("/auth/admin-role", srv.GrantAdminRole)
}
