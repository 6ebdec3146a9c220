package clientservice

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/infrastructure/metrics"
	"github.com/iho/gobank/internal/usecase"
)

// CachedDirectory decorates a ClientDirectory with a read-through cache of
// successful lookups. Cache failures are logged and bypassed.
type CachedDirectory struct {
	next    usecase.ClientDirectory
	cache   usecase.Cache
	ttl     time.Duration
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// NewCachedDirectory creates a CachedDirectory.
func NewCachedDirectory(next usecase.ClientDirectory, cache usecase.Cache, ttl time.Duration, logger zerolog.Logger, m *metrics.Metrics) *CachedDirectory {
	return &CachedDirectory{
		next:    next,
		cache:   cache,
		ttl:     ttl,
		logger:  logger,
		metrics: m,
	}
}

type cachedIdentity struct {
	ClientID       int64  `json:"clientId"`
	Identification string `json:"identification"`
	Name           string `json:"name"`
	Active         bool   `json:"active"`
}

// FetchClient serves ref from the cache or delegates to the wrapped directory.
func (d *CachedDirectory) FetchClient(ctx context.Context, ref domain.ClientRef) (*domain.ClientIdentity, error) {
	key := ref.String()

	raw, err := d.cache.Get(ctx, key)
	switch {
	case err == nil:
		var cached cachedIdentity
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
			d.observe("hit")
			return &domain.ClientIdentity{
				ClientID:       cached.ClientID,
				Identification: cached.Identification,
				Name:           cached.Name,
				Active:         cached.Active,
			}, nil
		}
		d.logger.Warn().Str("key", key).Msg("discarding malformed cached client")
	case !errors.Is(err, usecase.ErrCacheMiss):
		d.logger.Warn().Err(err).Str("key", key).Msg("client cache read failed")
	}

	identity, err := d.next.FetchClient(ctx, ref)
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			d.observe("not_found")
		} else {
			d.observe("error")
		}
		return nil, err
	}
	d.observe("miss")

	payload, err := json.Marshal(cachedIdentity{
		ClientID:       identity.ClientID,
		Identification: identity.Identification,
		Name:           identity.Name,
		Active:         identity.Active,
	})
	if err == nil {
		// Cache under both references so either lookup form hits.
		for _, k := range []string{domain.ClientRefByID(identity.ClientID).String(), domain.ClientRefByIdentification(identity.Identification).String()} {
			if setErr := d.cache.Set(ctx, k, payload, d.ttl); setErr != nil {
				d.logger.Warn().Err(setErr).Str("key", k).Msg("client cache write failed")
			}
		}
	}

	return identity, nil
}

func (d *CachedDirectory) observe(result string) {
	if d.metrics != nil {
		d.metrics.ClientLookups.WithLabelValues(result).Inc()
	}
}
