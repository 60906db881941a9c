package repository

import (
	"context"
	"errors"
	"reflect"

	"attar-store/internal/storage"

	"go.uber.org/zap"
)

// readOrEmpty decodes a stored JSON value into dst. A missing value leaves dst untouched,
// a corrupt one is logged and zeroes dst; neither is an error.
func readOrEmpty(ctx context.Context, s storage.Store, logger *zap.Logger, namespace, key string, dst any) error {
	err := storage.ReadJSON(ctx, s, namespace, key, dst)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotFound):
		return nil
	case errors.Is(err, storage.ErrCorrupt):
		logger.Warn("Discarding malformed stored value",
			zap.String("namespace", namespace),
			zap.String("key", key),
			zap.Error(err),
		)
		// a type mismatch can leave dst partially filled
		reflect.ValueOf(dst).Elem().SetZero()
		return nil
	default:
		return err
	}
}
