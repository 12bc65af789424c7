package assistant

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/dercryptomuslim/umrahcheck-crm-dashboard-sub001/internal/common/metrics"
)

// cacheKey is stable across whitespace and casing variants of the same
// question so repeated dashboard queries hit the cache.
func (s *Service) cacheKey(req *QueryRequest) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(req.Text), " "))
	sum := sha256.Sum256([]byte(normalized + "|" + string(req.Context)))
	return fmt.Sprintf("assistant:query:%s:%s", req.TenantID, hex.EncodeToString(sum[:]))
}

func (s *Service) cacheGet(ctx context.Context, key string) ([]map[string]interface{}, bool) {
	if s.redis == nil {
		return nil, false
	}

	payload, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.log.WithError(err).Warn("Cache read failed", map[string]interface{}{"key": key})
		}
		metrics.CacheMisses.Inc()
		return nil, false
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(payload, &rows); err != nil {
		s.log.WithError(err).Warn("Cache entry corrupt, discarding", map[string]interface{}{"key": key})
		s.redis.Del(ctx, key)
		metrics.CacheMisses.Inc()
		return nil, false
	}

	metrics.CacheHits.Inc()
	return rows, true
}

func (s *Service) cacheSet(ctx context.Context, key string, rows []map[string]interface{}) {
	if s.redis == nil {
		return
	}

	payload, err := json.Marshal(rows)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, payload, s.cfg.CacheTTLDuration()).Err(); err != nil {
		s.log.WithError(err).Warn("Cache write failed", map[string]interface{}{"key": key})
	}
}
