package tokens

import (
	"context"
	"errors"
	"time"

	"github.com/cardfolio/backend/repositories"
	"go.uber.org/zap"
)

// Outcome is the three-way result of a token check. Callers must be able to
// tell "access denied" apart from "cannot determine access", so this is not
// a boolean.
type Outcome int

const (
	// OutcomeValid means the token is live
	OutcomeValid Outcome = iota

	// OutcomeInvalid means no credential holds the token
	OutcomeInvalid

	// OutcomeUnavailable means neither cache nor store could answer
	OutcomeUnavailable
)

// String returns a readable name for logging
func (o Outcome) String() string {
	switch o {
	case OutcomeValid:
		return "valid"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Verifier checks bearer tokens cache-aside: cache hit is trusted as proof of
// validity for the TTL window, cache miss falls through to the store and
// repopulates, and a cache outage fails open to the store.
type Verifier struct {
	cache  repositories.TokenCache
	store  repositories.UserRepository
	ttl    time.Duration
	logger *zap.Logger
}

// NewVerifier creates a new Verifier
func NewVerifier(cache repositories.TokenCache, store repositories.UserRepository, ttl time.Duration, logger *zap.Logger) *Verifier {
	return &Verifier{
		cache:  cache,
		store:  store,
		ttl:    ttl,
		logger: logger,
	}
}

// Verify checks a non-empty bearer token. Callers must reject missing or
// malformed Authorization headers before calling.
//
// The cache is consulted first and a hit short-circuits: entries are written
// only by trusted issuance and verification paths, so presence is proof for
// the TTL window and negative results are never derived from the cache alone.
func (v *Verifier) Verify(ctx context.Context, token string) Outcome {
	key := CacheKey(token)

	_, err := v.cache.Get(ctx, key)
	switch {
	case err == nil:
		return OutcomeValid

	case errors.Is(err, repositories.ErrCacheMiss):
		outcome := v.checkStore(ctx, token)
		if outcome == OutcomeValid {
			if setErr := v.cache.Set(ctx, key, token, v.ttl); setErr != nil {
				// Next request pays another store lookup, nothing worse.
				v.logger.Warn("failed to populate token cache", zap.Error(setErr))
			}
		}
		return outcome

	default:
		// Fail open: a cache outage must not take down every protected
		// route. The store answers alone and repopulation is skipped so the
		// request is not blocked on a second cache write during the outage.
		v.logger.Warn("token cache unreachable, falling back to store", zap.Error(err))
		return v.checkStore(ctx, token)
	}
}

// checkStore resolves a token against the authoritative store. Store errors
// here are fatal for the request: with the cache already out of the picture
// there is nothing left to answer the question.
func (v *Verifier) checkStore(ctx context.Context, token string) Outcome {
	_, err := v.store.FindByToken(ctx, token)
	switch {
	case err == nil:
		return OutcomeValid
	case errors.Is(err, repositories.ErrNotFound):
		return OutcomeInvalid
	default:
		v.logger.Error("credential store lookup failed", zap.Error(err))
		return OutcomeUnavailable
	}
}
