package kiosk

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/vendstack/kiosk-backend/pkg/errors"
	"github.com/vendstack/kiosk-backend/pkg/logger"
	"github.com/vendstack/kiosk-backend/pkg/metrics"
)

// Registry owns every live kiosk session. Sessions are in-memory only and
// are reaped after sitting idle for the configured TTL, which is the server
// side's stand-in for a browser session ending.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session

	cfg       Config
	purchaser Purchaser
	metrics   *metrics.KioskMetrics
	logg      *logger.Logger
}

// NewRegistry builds the session registry.
func NewRegistry(cfg Config, purchaser Purchaser, m *metrics.KioskMetrics, logg *logger.Logger) (*Registry, error) {
	if purchaser == nil {
		return nil, fmt.Errorf("purchaser required")
	}
	if len(cfg.Denominations) == 0 {
		return nil, fmt.Errorf("at least one accepted denomination required")
	}
	return &Registry{
		sessions:  map[string]*Session{},
		cfg:       cfg,
		purchaser: purchaser,
		metrics:   m,
		logg:      logg,
	}, nil
}

// Create opens a fresh session with an empty cart and no tender.
func (r *Registry) Create() *Session {
	session := newSession(uuid.NewString(), r.cfg, r.purchaser, r.metrics)

	r.mu.Lock()
	r.sessions[session.ID] = session
	r.mu.Unlock()

	r.metrics.SessionOpened()
	return session
}

// Get returns the live session for the given id.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	session, ok := r.sessions[id]
	r.mu.Unlock()
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "session not found")
	}
	return session, nil
}

// Remove drops a session and cancels its timers.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	session, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	if ok {
		session.close()
		r.metrics.SessionClosed()
	}
}

// Len reports how many sessions are live.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Run reaps idle sessions until the context is cancelled.
func (r *Registry) Run(ctx context.Context) {
	interval := r.cfg.ReapInterval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.reap(ctx, time.Now())
		}
	}
}

func (r *Registry) reap(ctx context.Context, now time.Time) {
	if r.cfg.SessionTTL <= 0 {
		return
	}

	r.mu.Lock()
	expired := make([]*Session, 0)
	for id, session := range r.sessions {
		if now.Sub(session.idleSince()) > r.cfg.SessionTTL {
			delete(r.sessions, id)
			expired = append(expired, session)
		}
	}
	r.mu.Unlock()

	for _, session := range expired {
		session.close()
		r.metrics.SessionClosed()
		if r.logg != nil {
			r.logg.Info(r.logg.WithSessionID(ctx, session.ID), "session.reaped")
		}
	}
}

// Close cancels timers on every live session. Used at shutdown.
func (r *Registry) Close() {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, session := range r.sessions {
		sessions = append(sessions, session)
	}
	r.sessions = map[string]*Session{}
	r.mu.Unlock()

	for _, session := range sessions {
		session.close()
		r.metrics.SessionClosed()
	}
}
