package sink

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"sjsage522/fashionetl/internal/record"
	"sjsage522/fashionetl/logger"
	"sjsage522/fashionetl/pkg/errors"
)

// RedisConfig holds the stream destination
type RedisConfig struct {
	Addr            string
	DB              int
	Stream          string
	StreamMaxLength int
}

// RedisSink publishes every clean record to a Redis stream
type RedisSink struct {
	client    *redis.Client
	stream    string
	maxLength int64
	log       *logger.Logger
}

// NewRedisSink creates a stream sink. Without an address every load is
// skipped.
func NewRedisSink(cfg RedisConfig, log *logger.Logger) *RedisSink {
	s := &RedisSink{
		stream:    cfg.Stream,
		maxLength: int64(cfg.StreamMaxLength),
		log:       logger.OrNop(log),
	}
	if s.stream == "" {
		s.stream = "products"
	}
	if cfg.Addr != "" {
		s.client = redis.NewClient(&redis.Options{
			Addr: cfg.Addr,
			DB:   cfg.DB,
		})
	}
	return s
}

func (s *RedisSink) Name() string { return "redis" }

func (s *RedisSink) Load(ctx context.Context, ds record.CleanDataset) Result {
	if s.client == nil {
		return Skipped("no redis address provided")
	}

	runID := RunIDFrom(ctx)
	for i, r := range ds {
		payload, err := json.Marshal(r)
		if err != nil {
			return Failed(errors.NewSink(s.Name(), fmt.Sprintf("encode record %d", i), err))
		}
		err = s.client.XAdd(ctx, &redis.XAddArgs{
			Stream: s.stream,
			Values: map[string]interface{}{
				"run_id":  runID,
				"product": string(payload),
			},
		}).Err()
		if err != nil {
			return Failed(errors.NewSink(s.Name(), fmt.Sprintf("publish record %d", i), err))
		}
	}

	if s.maxLength > 0 {
		if err := s.client.XTrimMaxLen(ctx, s.stream, s.maxLength).Err(); err != nil {
			s.log.Warn().Err(err).Str("stream", s.stream).Msg("Stream trim failed")
		}
	}

	return Success(fmt.Sprintf("stream %s (%d messages)", s.stream, len(ds)))
}

// Close closes the Redis connection
func (s *RedisSink) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}
