package tokens

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cardfolio/backend/models"
	"github.com/cardfolio/backend/repositories"
	"github.com/cardfolio/backend/services"
	"go.uber.org/zap"
)

// Issuer creates and revokes credentials, keeping cache and store consistent.
// The store is authoritative; the cache is written through on issuance and
// backfilled when it lags.
type Issuer struct {
	cache  repositories.TokenCache
	store  repositories.UserRepository
	ttl    time.Duration
	logger *zap.Logger
}

// NewIssuer creates a new Issuer
func NewIssuer(cache repositories.TokenCache, store repositories.UserRepository, ttl time.Duration, logger *zap.Logger) *Issuer {
	return &Issuer{
		cache:  cache,
		store:  store,
		ttl:    ttl,
		logger: logger,
	}
}

// IssueResult is the outcome of an issuance
type IssueResult struct {
	User    *models.User
	Token   string
	Created bool // true when a new account was persisted
}

// Issue returns the live token for the given profile's identity, creating the
// account and token on first contact. Issuance is idempotent: repeated calls
// never rotate an existing token, and two concurrent first-contact calls for
// the same identity converge on a single persisted token because the store
// write is a conditional upsert keyed by identity.
func (i *Issuer) Issue(ctx context.Context, profile *models.User) (*IssueResult, error) {
	token, err := GenerateToken()
	if err != nil {
		return nil, services.NewDomainError(services.ErrorTypeInternal, "failed to generate token", err)
	}

	// Existing account: keep whatever token the store already holds (or
	// assign ours if none is set), then make sure the cache agrees.
	user, err := i.store.UpsertToken(ctx, profile.Email, token)
	if err == nil {
		i.backfillCache(ctx, user.AccessToken)
		return &IssueResult{User: user, Token: user.AccessToken}, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, services.NewDomainError(services.ErrorTypeInternal, "failed to look up credential", err)
	}

	// First contact: persist the account with the fresh token.
	profile.AccessToken = token
	if err := i.store.Create(ctx, profile); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			// Lost the insert race. The winner's token is already in the
			// store; observe it instead of overwriting.
			user, err := i.store.UpsertToken(ctx, profile.Email, token)
			if err != nil {
				return nil, services.NewDomainError(services.ErrorTypeInternal, "failed to resolve concurrent issuance", err)
			}
			i.backfillCache(ctx, user.AccessToken)
			return &IssueResult{User: user, Token: user.AccessToken}, nil
		}
		return nil, services.NewDomainError(services.ErrorTypeInternal, "failed to create user", err)
	}

	if err := i.cache.Set(ctx, CacheKey(token), token, i.ttl); err != nil {
		// Store is already consistent; the verifier repopulates on first use.
		i.logger.Warn("failed to write token through to cache", zap.Error(err))
	}

	i.logger.Info("credential issued",
		zap.String("user_id", profile.ID.Hex()),
		zap.String("email", profile.Email))
	return &IssueResult{User: profile, Token: token, Created: true}, nil
}

// Revoke deletes the cache entry and unsets the store token in parallel,
// best-effort. Neither side rolls back on the other's failure: logout must
// not leave a session half-alive because one side failed to clear. A failure
// in either is surfaced as a partial-failure error.
func (i *Issuer) Revoke(ctx context.Context, token string) error {
	var wg sync.WaitGroup
	var cacheErr, storeErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		cacheErr = i.cache.Delete(ctx, CacheKey(token))
	}()
	go func() {
		defer wg.Done()
		storeErr = i.store.ClearToken(ctx, token)
	}()
	wg.Wait()

	if cacheErr != nil {
		i.logger.Warn("failed to delete cached token during revoke", zap.Error(cacheErr))
	}
	if storeErr != nil {
		i.logger.Warn("failed to clear stored token during revoke", zap.Error(storeErr))
	}
	if cacheErr != nil || storeErr != nil {
		return services.NewDomainError(services.ErrorTypeInternal,
			"token revocation partially failed", errors.Join(cacheErr, storeErr))
	}
	return nil
}

// backfillCache repairs a cache that lags the store. Best-effort: during an
// outage the request proceeds on the store's answer alone.
func (i *Issuer) backfillCache(ctx context.Context, token string) {
	if token == "" {
		return
	}
	key := CacheKey(token)

	_, err := i.cache.Get(ctx, key)
	if err == nil {
		return
	}
	if !errors.Is(err, repositories.ErrCacheMiss) {
		i.logger.Warn("token cache unreachable during backfill", zap.Error(err))
		return
	}
	if err := i.cache.Set(ctx, key, token, i.ttl); err != nil {
		i.logger.Warn("failed to backfill token cache", zap.Error(err))
	}
}
