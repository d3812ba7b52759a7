package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/katzeapp/katze-backend/api/controllers"
	"github.com/katzeapp/katze-backend/api/middleware"
	"github.com/katzeapp/katze-backend/internal/accounts"
	"github.com/katzeapp/katze-backend/internal/adoptions"
	"github.com/katzeapp/katze-backend/internal/auth"
	"github.com/katzeapp/katze-backend/internal/media"
	"github.com/katzeapp/katze-backend/internal/notifications"
	"github.com/katzeapp/katze-backend/internal/pets"
	"github.com/katzeapp/katze-backend/internal/posts"
	"github.com/katzeapp/katze-backend/internal/users"
	"github.com/katzeapp/katze-backend/pkg/config"
	"github.com/katzeapp/katze-backend/pkg/enums"
	"github.com/katzeapp/katze-backend/pkg/logger"
	"github.com/katzeapp/katze-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs. cmd/api builds it once and
// hands it over.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       controllers.Pinger
	Redis    *redis.Client
	Registry *prometheus.Registry

	AuthService          auth.Service
	UsersService         users.Service
	PetsService          pets.Service
	AdoptionsService     adoptions.Service
	AccountsService      accounts.Service
	PostsService         posts.Service
	NotificationsService notifications.Service
	MediaService         media.Service
}

// NewRouter wires middleware, controllers and routes into one handler.
func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	authCtrl := controllers.NewAuthController(d.AuthService, logg)
	usuariosCtrl := controllers.NewUsuariosController(d.UsersService, logg)
	mascotasCtrl := controllers.NewMascotasController(d.PetsService, logg)
	solicitudesCtrl := controllers.NewSolicitudesController(d.AdoptionsService, logg)
	cuentaCtrl := controllers.NewCuentaController(d.AccountsService, logg)
	postsCtrl := controllers.NewPostsController(d.PostsService, logg)
	notifCtrl := controllers.NewNotificacionesController(d.NotificationsService, logg)
	uploadsCtrl := controllers.NewUploadsController(d.MediaService, logg)
	healthCtrl := controllers.NewHealthController(d.DB, d.Redis, logg)

	authed := middleware.Authenticate(cfg.JWT, d.AuthService, logg)
	adminOnly := middleware.RequireRoles(logg, enums.UserRoleAdministrador)

	var limiter middleware.Limiter
	if d.Redis != nil {
		limiter = d.Redis
	}
	loginLimit := middleware.AuthRateLimit(limiter, middleware.AuthRateLimitConfig{
		Scope:      "login",
		Window:     cfg.AuthRateLimit.LoginWindow,
		EmailLimit: cfg.AuthRateLimit.LoginEmailLimit,
		IPLimit:    cfg.AuthRateLimit.LoginIPLimit,
	}, logg)
	registerLimit := middleware.AuthRateLimit(limiter, middleware.AuthRateLimitConfig{
		Scope:      "register",
		Window:     cfg.AuthRateLimit.RegisterWindow,
		EmailLimit: cfg.AuthRateLimit.RegisterEmailLimit,
		IPLimit:    cfg.AuthRateLimit.RegisterIPLimit,
	}, logg)

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.FrontendURL),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", healthCtrl.Live)
		r.Get("/ready", healthCtrl.Ready)
	})

	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics",
			promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.With(registerLimit).Post("/register", authCtrl.Register)
		r.With(loginLimit).Post("/login", authCtrl.Login)

		r.Group(func(r chi.Router) {
			r.Use(authed)
			r.Get("/perfil", authCtrl.Profile)
			r.Put("/perfil", authCtrl.UpdateProfile)
		})
	})

	r.Route("/api/mascotas", func(r chi.Router) {
		r.Get("/", mascotasCtrl.List)
		r.Get("/{id}", mascotasCtrl.Get)

		r.Group(func(r chi.Router) {
			r.Use(authed)
			r.Get("/mias", mascotasCtrl.Mine)
			r.Post("/", mascotasCtrl.Create)
			r.Put("/{id}", mascotasCtrl.Update)
			r.Delete("/{id}", mascotasCtrl.Delete)
		})
	})

	r.Route("/api/solicitudes", func(r chi.Router) {
		r.Use(authed)
		r.Post("/", solicitudesCtrl.Submit)
		r.Get("/mias", solicitudesCtrl.Mine)
		r.Get("/recibidas", solicitudesCtrl.Received)
		r.Get("/{id}", solicitudesCtrl.Get)
		r.Put("/{id}", solicitudesCtrl.Decide)
		r.Put("/{id}/review", solicitudesCtrl.Review)
	})

	r.Route("/api/solicitudes-cambio-rol", func(r chi.Router) {
		r.Use(authed)
		r.Post("/", cuentaCtrl.CreateRoleChange)
		r.Get("/mias", cuentaCtrl.MyRoleChanges)
		r.Delete("/{id}", cuentaCtrl.CancelRoleChange)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)
			r.Get("/", cuentaCtrl.ListRoleChanges)
			r.Put("/{id}/approve", cuentaCtrl.ApproveRoleChange)
			r.Put("/{id}/reject", cuentaCtrl.RejectRoleChange)
		})
	})

	r.Route("/api/solicitudes-eliminacion", func(r chi.Router) {
		r.Use(authed)
		r.Post("/", cuentaCtrl.CreateDeletion)
		r.Get("/mias", cuentaCtrl.MyDeletions)
		r.Delete("/{id}", cuentaCtrl.CancelDeletion)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)
			r.Get("/", cuentaCtrl.ListDeletions)
			r.Put("/{id}/approve", cuentaCtrl.ApproveDeletion)
			r.Put("/{id}/reject", cuentaCtrl.RejectDeletion)
		})
	})

	r.Route("/api/usuarios", func(r chi.Router) {
		r.Use(authed, adminOnly)
		r.Get("/", usuariosCtrl.List)
		r.Get("/pendientes", usuariosCtrl.Pending)
		r.Get("/{id}", usuariosCtrl.Get)
		r.Put("/{id}", usuariosCtrl.Update)
		r.Put("/{id}/approve", usuariosCtrl.Approve)
		r.Put("/{id}/reject", usuariosCtrl.Reject)
		r.Delete("/{id}", usuariosCtrl.Delete)
	})

	r.Route("/api/posts", func(r chi.Router) {
		r.Get("/", postsCtrl.List)
		r.Get("/{id}", postsCtrl.Get)
		r.Get("/{id}/comentarios", postsCtrl.ListComments)

		r.Group(func(r chi.Router) {
			r.Use(authed)
			r.Post("/", postsCtrl.Create)
			r.Delete("/{id}", postsCtrl.Delete)
			r.Post("/{id}/like", postsCtrl.ToggleLike)
			r.Post("/{id}/comentarios", postsCtrl.Comment)
			r.Delete("/{id}/comentarios/{commentId}", postsCtrl.DeleteComment)
		})
	})

	r.Route("/api/notificaciones", func(r chi.Router) {
		r.Use(authed)
		r.Get("/", notifCtrl.List)
		r.Get("/no-leidas", notifCtrl.UnreadCount)
		r.Put("/leer-todas", notifCtrl.MarkAllRead)
		r.Put("/{id}/leer", notifCtrl.MarkRead)
		r.Delete("/{id}", notifCtrl.Delete)
	})

	r.Route("/api/uploads", func(r chi.Router) {
		r.Use(authed)
		r.Post("/presign", uploadsCtrl.PresignUpload)
		r.Get("/presign-download", uploadsCtrl.PresignDownload)
		r.Delete("/", uploadsCtrl.DeleteObject)
	})

	return r
}
