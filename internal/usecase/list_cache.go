package usecase

import (
	"context"
	"fmt"
	"time"
)

const applicationListCachePattern = "applications:list:*"

type ListCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

func applicationListCacheKey(status string, page, limit int) string {
	if status == "" {
		status = "all"
	}
	return fmt.Sprintf("applications:list:%s:%d:%d", status, page, limit)
}
