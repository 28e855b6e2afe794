package web

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"shop-billing-service/internal/domain/ports/adapter"
	"shop-billing-service/internal/infra/logging"
	"shop-billing-service/internal/usecase"
)

type Server struct {
	paymentUC   usecase.PaymentUseCase
	reconcileUC usecase.ReconcileUseCase
	subUC       usecase.SubscriptionUseCase
	statsUC     usecase.StatsUseCase
	gateway     adapter.PaymentGateway
	apiKey      string
	log         *zerolog.Logger
}

func NewServer(
	paymentUC usecase.PaymentUseCase,
	reconcileUC usecase.ReconcileUseCase,
	subUC usecase.SubscriptionUseCase,
	statsUC usecase.StatsUseCase,
	gateway adapter.PaymentGateway,
	apiKey string,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		paymentUC:   paymentUC,
		reconcileUC: reconcileUC,
		subUC:       subUC,
		statsUC:     statsUC,
		gateway:     gateway,
		apiKey:      apiKey,
		log:         logger,
	}
}

// Router builds the full route tree for the service.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(traceMiddleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/webhooks/cinetpay", s.handleWebhook)
		r.Post("/payments/initiate", s.handleInitiatePayment)
		r.Post("/subscriptions/create", s.handleCreateSubscription)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/stats", s.handleStats)
	})

	return r
}

// traceMiddleware copies the chi request id into the logging context so every
// log line from a request carries the same trace_id.
func traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rid := middleware.GetReqID(r.Context()); rid != "" {
			r = r.WithContext(logging.WithTraceID(r.Context(), rid))
		}
		next.ServeHTTP(w, r)
	})
}

// authMiddleware provides simple Bearer token authentication for the admin API.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" {
			s.log.Error().Msg("Admin API key is not configured")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
			http.Error(w, "Unauthorized: Malformed token", http.StatusUnauthorized)
			return
		}

		if tokenParts[1] != s.apiKey {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
