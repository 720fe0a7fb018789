package handler

import (
	"context"
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/stockroom/internal/domain/auth"
)

// APIKeyHeader carries the API key on admin requests.
const APIKeyHeader = "api_key"

var errUnauthorized = errors.New("unauthorized")

// SecurityHandler authenticates API requests via HMAC-SHA256 hashed API keys.
type SecurityHandler struct {
	apikeys auth.Repository
	pepper  []byte
}

// NewSecurityHandler creates a SecurityHandler with the given API key
// repository and HMAC pepper.
func NewSecurityHandler(apikeys auth.Repository, pepper []byte) *SecurityHandler {
	return &SecurityHandler{
		apikeys: apikeys,
		pepper:  pepper,
	}
}

// Authenticate hashes key, looks it up in the repository and compares the
// stored hash in constant time.
func (s *SecurityHandler) Authenticate(ctx context.Context, key string) (*auth.APIKeyInfo, error) {
	if key == "" {
		return nil, errUnauthorized
	}
	hexHash := auth.Hash(s.pepper, key)

	info, err := s.apikeys.FindByHash(ctx, hexHash)
	if err != nil {
		return nil, errUnauthorized
	}

	computed, err := hex.DecodeString(hexHash)
	if err != nil {
		return nil, errUnauthorized
	}
	stored, err := hex.DecodeString(info.KeyHash)
	if err != nil {
		return nil, errUnauthorized
	}
	if subtle.ConstantTimeCompare(computed, stored) != 1 {
		return nil, errUnauthorized
	}

	return info, nil
}

// Require returns next guarded by an API key holding scope. Requests without
// a valid key get 401, keys lacking the scope get 403.
func (s *SecurityHandler) Require(scope string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info, err := s.Authenticate(r.Context(), r.Header.Get(APIKeyHeader))
		if err != nil {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		if !info.HasScope(scope) {
			writeError(w, http.StatusForbidden, "missing scope "+scope)
			return
		}

		ctx := zctx.With(r.Context(), zap.String("api_key", info.Name))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
