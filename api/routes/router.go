package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/soukmarket/souk-backend/api/controllers"
	"github.com/soukmarket/souk-backend/api/middleware"
	"github.com/soukmarket/souk-backend/internal/auth"
	"github.com/soukmarket/souk-backend/internal/geoip"
	"github.com/soukmarket/souk-backend/internal/media"
	"github.com/soukmarket/souk-backend/internal/merchants"
	"github.com/soukmarket/souk-backend/internal/products"
	"github.com/soukmarket/souk-backend/internal/sessions"
	"github.com/soukmarket/souk-backend/internal/stores"
	"github.com/soukmarket/souk-backend/internal/users"
	"github.com/soukmarket/souk-backend/pkg/config"
	"github.com/soukmarket/souk-backend/pkg/db"
	"github.com/soukmarket/souk-backend/pkg/enums"
	"github.com/soukmarket/souk-backend/pkg/logger"
	"github.com/soukmarket/souk-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          db.Pinger
	Redis       *redis.Client
	Sessions    sessions.Service
	AuthService auth.Service
	Users       users.Service
	Merchants   merchants.Service
	Stores      stores.Service
	Products    products.Service
	Media       media.Service
	GeoIP       geoip.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins...),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	adminOnly := middleware.RequireRole(string(enums.UserTypeAdmin), logg)
	merchantOnly := middleware.RequireRole(string(enums.UserTypeMerchant), logg)
	adminOrMerchant := middleware.RequireAnyRole(logg, string(enums.UserTypeAdmin), string(enums.UserTypeMerchant))

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, deps.Redis, logg))
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", controllers.Register(deps.AuthService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.Login(deps.AuthService, logg))
		r.Post("/logout", controllers.Logout(deps.AuthService, logg))
	})

	r.Get("/api/iplocation", controllers.IPLocation(deps.GeoIP, logg))

	r.Route("/api/products", func(r chi.Router) {
		// Catalog reads are public; everything else requires a token.
		r.Get("/", controllers.ListProducts(deps.Products, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
			r.With(merchantOnly).Post("/", controllers.CreateProduct(deps.Products, logg))
			r.Get("/merchant", controllers.ListMerchantProducts(deps.Products, logg))
			r.With(adminOrMerchant).Put("/", controllers.UpdateProduct(deps.Products, logg))
			r.With(adminOrMerchant).Patch("/", controllers.UpdateProduct(deps.Products, logg))
			r.With(adminOrMerchant).Delete("/", controllers.DeleteProduct(deps.Products, logg))
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

		r.Route("/api/users", func(r chi.Router) {
			r.Get("/me", controllers.Me(deps.Users, logg))
			r.With(adminOnly).Get("/", controllers.ListUsers(deps.Users, logg))
			r.With(adminOrMerchant).Get("/merchants", controllers.ListMerchants(deps.Users, logg))
			r.With(adminOnly).Get("/admins", controllers.ListAdmins(deps.Users, logg))
			r.With(adminOnly).Get("/customers", controllers.ListCustomers(deps.Users, logg))

			r.Route("/profile", func(r chi.Router) {
				r.Use(adminOrMerchant)
				r.Get("/", controllers.GetProfile(deps.Users, logg))
				r.Put("/", controllers.UpdateProfile(deps.Users, logg))
				r.Patch("/", controllers.UpdateProfile(deps.Users, logg))
				r.Delete("/", controllers.DeleteProfile(deps.Users, logg))
			})
		})

		r.Route("/api/merchants", func(r chi.Router) {
			r.With(adminOnly).Get("/", controllers.ListMerchantProfiles(deps.Merchants, logg))

			r.Route("/profile", func(r chi.Router) {
				r.With(merchantOnly).Post("/", controllers.CreateMerchantProfile(deps.Merchants, deps.Users, logg))
				r.Get("/", controllers.GetMerchantProfile(deps.Merchants, logg))
				r.With(adminOrMerchant).Put("/", controllers.UpdateMerchantProfile(deps.Merchants, logg))
				r.With(adminOrMerchant).Patch("/", controllers.UpdateMerchantProfile(deps.Merchants, logg))
				r.With(adminOrMerchant).Delete("/", controllers.DeleteMerchantProfile(deps.Merchants, logg))
			})
		})

		r.Route("/api/store", func(r chi.Router) {
			r.With(merchantOnly).Post("/", controllers.CreateStore(deps.Stores, logg))
			r.Get("/", controllers.GetStore(deps.Stores, logg))
			r.Get("/merchant", controllers.ListMerchantStores(deps.Stores, logg))
			r.With(adminOnly).Get("/all", controllers.ListAllStores(deps.Stores, logg))
			r.With(adminOrMerchant).Put("/", controllers.UpdateStore(deps.Stores, logg))
			r.With(adminOrMerchant).Patch("/", controllers.UpdateStore(deps.Stores, logg))
			r.With(adminOrMerchant).Delete("/", controllers.DeleteStore(deps.Stores, logg))
		})

		r.Route("/api/images", func(r chi.Router) {
			r.Post("/upload", controllers.UploadImage(deps.Media, cfg.Media.MaxUploadMB, logg))
			r.Get("/list", controllers.ListImages(deps.Media, logg))
		})
	})

	return r
}
