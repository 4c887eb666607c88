package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"foodbridge/internal/lifecycle"
	"foodbridge/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

var decoder = form.NewDecoder()

type Service struct {
	logger      *logrus.Logger
	config      *types.Config
	coordinator *lifecycle.Coordinator
	gatherer    prometheus.Gatherer

	handler http.Handler
	server  *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	coordinator *lifecycle.Coordinator,
	gatherer prometheus.Gatherer,
) *Service {
	mux := flow.New()

	s := &Service{
		logger:      logger,
		config:      config,
		coordinator: coordinator,
		gatherer:    gatherer,
		handler:     mux,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	s.buildRouter(mux)

	return s
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler exposes the routed handler, mainly for tests.
func (s *Service) Handler() http.Handler {
	return s.handler
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.StripTrailingSlash)
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/", s.handleHome, http.MethodGet)

	r.HandleFunc("/users", s.handleListUsers, http.MethodGet)
	r.HandleFunc("/users", s.handleCreateUser, http.MethodPost)
	r.HandleFunc("/users/:id", s.handleGetUser, http.MethodGet)
	r.HandleFunc("/users/:id", s.handleUpdateUser, http.MethodPut)
	r.HandleFunc("/users/:id", s.handleDeleteUser, http.MethodDelete)

	r.HandleFunc("/donations", s.handleListDonations, http.MethodGet)
	r.HandleFunc("/donations", s.handleCreateDonation, http.MethodPost)
	r.HandleFunc("/donations/:id", s.handleGetDonation, http.MethodGet)
	r.HandleFunc("/donations/:id/status", s.handleUpdateDonationStatus, http.MethodPut)
	r.HandleFunc("/donations/:id", s.handleDeleteDonation, http.MethodDelete)

	r.HandleFunc("/requests", s.handleCreateRequest, http.MethodPost)
	r.HandleFunc("/requests/:ngoID", s.handleListRequests, http.MethodGet)
	r.HandleFunc("/requests/:id/status", s.handleUpdateRequestStatus, http.MethodPut)
	r.HandleFunc("/requests/:id", s.handleDeleteRequest, http.MethodDelete)

	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}), http.MethodGet)
	}
}

func (s *Service) handleHome(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, types.Response{
		Success: true,
		Message: "Food donation and surplus management API is running",
	})
}
