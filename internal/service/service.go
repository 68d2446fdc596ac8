// Package service holds the domain operations behind the public site and the
// admin panel. Every mutation is a direct write through the repository; list
// reads are repeated by callers afterwards.
package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/portfolio/internal/repository"
	"go.uber.org/zap"
)

// mapNotFound 将仓储层的 ErrNotFound 转换为调用方的领域错误。
func mapNotFound(err error, sentinel error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return sentinel
	}
	return err
}

func orNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func tooLong(value string, max int) bool {
	return utf8.RuneCountInString(value) > max
}

// truncate 截断到指定字符数，用于只追加的遥测字段。
func truncate(value string, max int) string {
	value = strings.TrimSpace(value)
	if !tooLong(value, max) {
		return value
	}
	runes := []rune(value)
	return string(runes[:max])
}

func trimmed(value *string) (string, bool) {
	if value == nil {
		return "", false
	}
	return strings.TrimSpace(*value), true
}

// idExists reports whether a caller-supplied ID is already taken. An empty ID
// is never taken, since one is generated on insert.
func idExists[T any](ctx context.Context, collection *repository.Collection[T], id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	_, err := collection.Get(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repository.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}
