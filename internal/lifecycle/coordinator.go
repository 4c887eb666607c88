// Package lifecycle coordinates donations and the requests organizations make
// against them. Every operation re-reads current state from the store and
// applies status changes as guarded updates, so concurrent callers can never
// promise the same donation twice.
package lifecycle

import (
	"context"
	"errors"
	"time"

	"foodbridge/internal/store"
	"foodbridge/pkg/types"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

type Coordinator struct {
	store        *store.Store
	logger       *logrus.Logger
	metrics      *metrics
	storeTimeout time.Duration
}

// New builds a coordinator over the store. A zero storeTimeout leaves store
// calls bounded only by the caller's context; a nil registerer skips metric
// registration.
func New(s *store.Store, logger *logrus.Logger, reg prometheus.Registerer, storeTimeout time.Duration) (*Coordinator, error) {
	m, err := newMetrics(reg)
	if err != nil {
		return nil, err
	}

	return &Coordinator{
		store:        s,
		logger:       logger,
		metrics:      m,
		storeTimeout: storeTimeout,
	}, nil
}

func (c *Coordinator) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.storeTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.storeTimeout)
}

func (c *Coordinator) conflict(operation string, err error, fields logrus.Fields) error {
	if errors.Is(err, types.ErrConflict) {
		c.metrics.conflicts.WithLabelValues(operation).Inc()
		c.logger.WithFields(fields).WithError(err).Warn("lifecycle conflict")
	}
	return err
}
