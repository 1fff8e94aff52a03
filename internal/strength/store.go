package strength

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/credpolicy-api/internal/repository/postgres"
	"github.com/jwalitptl/credpolicy-api/pkg/metrics"
)

const (
	defaultVerdictTTL      = 5 * time.Minute
	defaultCleanupInterval = 10 * time.Minute
)

// Store flags secrets whose SHA-256 digest appears in the blocked-password
// table. Verdicts are cached by digest for a short TTL so repeated attempts
// with the same secret do not hit the database.
type Store struct {
	repo    postgres.DictionaryRepository
	cache   *cache.Cache
	metrics *metrics.Metrics
}

func NewStore(repo postgres.DictionaryRepository, m *metrics.Metrics) *Store {
	return &Store{
		repo:    repo,
		cache:   cache.New(defaultVerdictTTL, defaultCleanupInterval),
		metrics: m,
	}
}

func (s *Store) Check(ctx context.Context, secret string) (string, error) {
	sum := sha256.Sum256([]byte(secret))
	digest := hex.EncodeToString(sum[:])

	if verdict, ok := s.cache.Get(digest); ok {
		s.count("cache_hit")
		if verdict.(bool) {
			return "it matches a blocked password", nil
		}
		return "", nil
	}

	blocked, err := s.repo.Contains(ctx, digest)
	if err != nil {
		s.count("error")
		return "", err
	}
	s.cache.Set(digest, blocked, cache.DefaultExpiration)

	if blocked {
		s.count("blocked")
		return "it matches a blocked password", nil
	}
	s.count("clean")
	return "", nil
}

func (s *Store) count(result string) {
	if s.metrics != nil {
		s.metrics.DictionaryLookups.WithLabelValues(result).Inc()
	}
}
