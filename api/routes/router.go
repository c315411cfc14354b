package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lsoria/qrsec-backend/api/controllers"
	"github.com/lsoria/qrsec-backend/api/middleware"
	"github.com/lsoria/qrsec-backend/internal/address"
	"github.com/lsoria/qrsec-backend/internal/guests"
	"github.com/lsoria/qrsec-backend/internal/invites"
	"github.com/lsoria/qrsec-backend/internal/users"
	"github.com/lsoria/qrsec-backend/pkg/config"
	"github.com/lsoria/qrsec-backend/pkg/enums"
	"github.com/lsoria/qrsec-backend/pkg/logger"
	"github.com/lsoria/qrsec-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisClient *redis.Client,
	gatherer prometheus.Gatherer,
	userRepo *users.Repository,
	userService users.Service,
	guestService guests.Service,
	inviteService invites.Service,
	addressService address.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	loginPolicy := middleware.NewRateLimitPolicy(
		"login",
		cfg.RateLimit.LoginWindow,
		cfg.RateLimit.LoginIPLimit,
		cfg.RateLimit.LoginEmailLimit,
	)
	scanPolicy := middleware.NewRateLimitPolicy(
		"scan",
		cfg.RateLimit.ScanWindow,
		cfg.RateLimit.ScanIPLimit,
		0,
	)

	pingers := map[string]controllers.Pinger{}
	if dbP != nil {
		pingers["database"] = dbP
	}
	if redisClient != nil {
		pingers["redis"] = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, pingers))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(userService, logg))
		r.With(middleware.RateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(userService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Identity(cfg.JWT, userRepo, logg))

		r.Get("/auth/session", controllers.AuthSession())

		r.Route("/invites", func(r chi.Router) {
			r.Post("/", controllers.InviteCreate(inviteService, logg))
			r.Get("/", controllers.InviteList(inviteService, logg))
			r.Get("/mine", controllers.InviteListMine(inviteService, logg))
			r.Get("/{id}", controllers.InviteGet(inviteService, logg))
			r.Put("/{id}", controllers.InviteUpdate(inviteService, logg))
			r.Delete("/{id}", controllers.InviteDelete(inviteService, logg))
			r.With(middleware.RateLimit(scanPolicy, redisClient, logg)).
				Get("/{id}/validate", controllers.InviteValidate(inviteService, logg))
			r.Post("/{id}/actions/{action}", controllers.InviteAction(inviteService, logg))
		})

		r.Route("/guests", func(r chi.Router) {
			r.Post("/", controllers.GuestCreate(guestService, logg))
			r.Get("/", controllers.GuestList(guestService, logg))
			r.Get("/mine", controllers.GuestListMine(guestService, logg))
			r.Get("/{id}", controllers.GuestGet(guestService, logg))
			r.Delete("/{id}", controllers.GuestDelete(guestService, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.With(middleware.RequireRole(enums.RoleAdmin, logg)).Get("/", controllers.UserList(userService, logg))
			r.Get("/{id}", controllers.UserGet(userService, logg))
			r.Put("/{id}/profile", controllers.UserUpdateProfile(userService, logg))
			r.With(middleware.RequireRole(enums.RoleAdmin, logg)).
				Put("/{id}/authorization", controllers.UserUpdateAuthorization(userService, logg))
			r.With(middleware.RequireRole(enums.RoleAdmin, logg)).
				Post("/{id}/disable", controllers.UserDisable(userService, logg))
		})

		r.Route("/addresses", func(r chi.Router) {
			r.With(middleware.RequireRole(enums.RoleAdmin, logg)).Post("/", controllers.AddressCreate(addressService, logg))
			r.With(middleware.RequireRole(enums.RoleAdmin, logg)).Get("/", controllers.AddressList(addressService, logg))
			r.Get("/{id}", controllers.AddressGet(addressService, logg))
		})
	})

	return r
}
