package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dentara/api/internal/domain/audit"
	"github.com/dentara/api/pkg/metrics"
)

const auditBufferSize = 10_000

// AuditService persists audit entries off the request path through a
// buffered channel worker. A nil repository makes every call a no-op, for
// deployments without a service-role key.
type AuditService struct {
	repo      audit.Repository
	log       *zap.Logger
	collector *metrics.Collector
	entries   chan *audit.Entry
	done      chan struct{}
}

func NewAuditService(repo audit.Repository, collector *metrics.Collector, log *zap.Logger) *AuditService {
	svc := &AuditService{
		repo:      repo,
		log:       log,
		collector: collector,
	}
	if repo == nil {
		return svc
	}

	svc.entries = make(chan *audit.Entry, auditBufferSize)
	svc.done = make(chan struct{})
	go svc.worker()
	return svc
}

// RecordAsync enqueues an entry for async persistence. When the buffer is
// full the entry is dropped, counted, and warned about rather than
// blocking the request.
func (s *AuditService) RecordAsync(entry *audit.Entry) {
	if s.entries == nil {
		return
	}

	select {
	case s.entries <- entry:
	default:
		if s.collector != nil {
			s.collector.AuditBufferDropped.Inc()
		}
		s.log.Warn("audit buffer full, dropping entry",
			zap.String("action", string(entry.Action)),
			zap.String("resource", entry.ResourceType),
		)
	}
}

func (s *AuditService) Shutdown() {
	if s.entries == nil {
		return
	}
	close(s.entries)
	select {
	case <-s.done:
	case <-time.After(10 * time.Second):
		s.log.Warn("audit shutdown timed out; some entries may be lost")
	}
}

func (s *AuditService) worker() {
	defer close(s.done)
	for entry := range s.entries {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.repo.Create(ctx, entry); err != nil {
			s.log.Error("failed to persist audit entry", zap.Error(err))
		} else if s.collector != nil {
			s.collector.AuditEntriesTotal.Inc()
		}
		cancel()
	}
}
