package handler

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/bluewave-swim/backoffice/backend/internal/cache"
	"github.com/bluewave-swim/backoffice/backend/internal/config"
	"github.com/bluewave-swim/backoffice/backend/internal/metrics"
	"github.com/bluewave-swim/backoffice/backend/internal/placement"
)

type Handler struct {
	validate       *validator.Validate
	config         *config.Config
	repository     Store
	mutator        *placement.Mutator
	translator     ut.Translator
	mailChannel    *amqp.Channel
	redisClient    *redis.Client
	aggregateCache *cache.AggregateCache
	metrics        *metrics.Manager

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo Store, mailCh *amqp.Channel, rdb *redis.Client, m *metrics.Manager) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	if m == nil {
		m = metrics.NewManager("swimschool")
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		mutator:     placement.NewMutator(repo),
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,
		aggregateCache: cache.NewAggregateCache(
			rdb,
			time.Duration(cfg.Cache.AggregateTTL)*time.Second,
			time.Duration(cfg.Redis.OperationTimeout)*time.Second,
		),
		metrics: m,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Get("/healthz", h.Healthz)
	h.Mux.Method("GET", "/metrics", h.metrics.Handler())

	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// everything below needs a valid token
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Post("/submissions", h.UpsertSubmission)
		r.Get("/submissions/mine", h.GetMySubmissions)

		// admin only
		r.Group(func(r chi.Router) {
			r.Use(h.adminGuard)

			r.Get("/submissions", h.GetSubmissions)

			r.Route("/activities", func(r chi.Router) {
				r.Post("/", h.CreateActivity)
				r.Get("/", h.GetActivities)
				r.Route("/{id}", func(r chi.Router) {
					r.Use(h.activity)
					r.Get("/", h.GetActivity)
					r.Patch("/", h.UpdateActivity)
					r.Delete("/", h.DeleteActivity)
				})
			})

			r.Route("/clinics/aggregate", func(r chi.Router) {
				r.Get("/", h.GetAggregate)
				r.Get("/export", h.ExportAggregate)
			})

			r.Route("/placements", func(r chi.Router) {
				r.Get("/", h.GetPlacements)
				r.Post("/", h.UpsertPlacement)
				r.Get("/export", h.ExportPlacements)
				r.Route("/{id}", func(r chi.Router) {
					r.Use(h.placement)
					r.Get("/", h.GetPlacement)
					r.Delete("/", h.DeletePlacement)
				})
			})

			r.Get("/recommendations", h.GetRecommendations)
		})
	})
}
