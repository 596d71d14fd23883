// Package cache provides the shared response cache used by all source
// providers, keyed by provider name plus normalized request parameters.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Cache is a TTL key-value store safe for concurrent use. Get returns
// (nil, false) on a miss; implementations never return errors to callers,
// a broken cache degrades to a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Clear(ctx context.Context)
	Stats() Stats
}

// Stats reports cache effectiveness counters.
type Stats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Entries int64 `json:"entries"`
}

// Key builds a stable cache key from a provider prefix and request
// parameters. Parameters are sorted before hashing so that map iteration
// order cannot produce distinct keys for the same request.
func Key(prefix string, params map[string]string) string {
	if len(params) == 0 {
		return prefix
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s=%s&", k, params[k])
	}
	sum := sha256.Sum256([]byte(sb.String()))
	return prefix + ":" + hex.EncodeToString(sum[:16])
}
