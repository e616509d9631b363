// Package store implements the persistence gateway: whole JSON documents kept
// under string keys in one of several backends. Reads are soft, writes report
// failure to the caller.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rogerio-castellano/storefront/internal/apperr"
	"go.uber.org/zap"
)

// Well-known document keys.
const (
	KeyProducts  = "products"
	KeyMessages  = "messages"
	KeyOrders    = "orders"
	KeyCustomers = "customers"
	KeyCart      = "cart"
)

var (
	// ErrKeyNotFound is returned by Read when nothing is stored under the key.
	ErrKeyNotFound = errors.New("key not found")
	// ErrMalformed marks a backing document that exists but does not decode.
	ErrMalformed = errors.New("malformed document")
)

// Gateway reads and writes raw JSON documents by key.
type Gateway interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, value []byte) error
}

// ReadJSON decodes the document stored under key into v. An absent key or a
// malformed document leaves v untouched and reports false; the caller keeps
// its empty default.
func ReadJSON(ctx context.Context, gw Gateway, key string, v any, logger *zap.Logger) bool {
	data, err := gw.Read(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			logger.Warn("document read failed, using empty default", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		logger.Warn("malformed document, using empty default", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// LoadJSON is the strict form of ReadJSON used before a read-modify-write. An
// absent key or a malformed document leaves v untouched and returns nil; any
// other read failure is returned wrapped in apperr.ErrPersistence so the
// caller writes nothing.
func LoadJSON(ctx context.Context, gw Gateway, key string, v any, logger *zap.Logger) error {
	data, err := gw.Read(ctx, key)
	switch {
	case err == nil:
	case errors.Is(err, ErrKeyNotFound):
		return nil
	case errors.Is(err, ErrMalformed):
		logger.Warn("malformed document, using empty default", zap.String("key", key), zap.Error(err))
		return nil
	case errors.Is(err, apperr.ErrPersistence):
		return err
	default:
		return persistenceErr("read", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		logger.Warn("malformed document, using empty default", zap.String("key", key), zap.Error(err))
	}
	return nil
}

// WriteJSON encodes v and stores it under key, replacing the previous document.
func WriteJSON(ctx context.Context, gw Gateway, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: encode %q: %v", apperr.ErrPersistence, key, err)
	}
	return gw.Write(ctx, key, data)
}

func persistenceErr(op, key string, err error) error {
	return fmt.Errorf("%w: %s %q: %w", apperr.ErrPersistence, op, key, err)
}
