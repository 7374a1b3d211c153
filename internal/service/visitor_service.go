package service

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const visitorCounterKey = "sigap:visitors:total"

// VisitorService keeps the landing-page visit counter in Redis.
type VisitorService struct {
	client *redis.Client
}

// NewVisitorService constructs the service.
func NewVisitorService(client *redis.Client) *VisitorService {
	return &VisitorService{client: client}
}

// RecordVisit increments the counter and returns the new total.
func (s *VisitorService) RecordVisit(ctx context.Context) (int64, error) {
	return s.client.Incr(ctx, visitorCounterKey).Result()
}

// Total returns the current count without incrementing. A missing key
// reads as zero.
func (s *VisitorService) Total(ctx context.Context) (int64, error) {
	count, err := s.client.Get(ctx, visitorCounterKey).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return count, err
}
