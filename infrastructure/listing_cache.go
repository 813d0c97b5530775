package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"hr-portal/domain"
)

const listingKeyPrefix = "hr:job_listing:"

// NewRedisClient parses a redis:// URL and applies short timeouts.
func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	return redis.NewClient(opts), nil
}

// CachedJobListings caches listing lookups in Redis and invalidates on writes.
// Redis failures are logged and the store is used directly.
type CachedJobListings struct {
	domain.JobListingRepository
	client *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

func NewCachedJobListings(next domain.JobListingRepository, client *redis.Client, ttl time.Duration, logger *logrus.Logger) *CachedJobListings {
	return &CachedJobListings{
		JobListingRepository: next,
		client:               client,
		ttl:                  ttl,
		logger:               logger,
	}
}

func (c *CachedJobListings) GetJobListing(ctx context.Context, id uint) (*domain.JobListing, error) {
	key := listingKey(id)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var listing domain.JobListing
		if err := json.Unmarshal(raw, &listing); err == nil {
			return &listing, nil
		}
		c.logger.WithField("key", key).Warn("discarding undecodable cached job listing")
	case errors.Is(err, redis.Nil):
	default:
		c.logger.WithError(err).Warn("job listing cache read failed")
	}

	listing, err := c.JobListingRepository.GetJobListing(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(listing); err == nil {
		if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.logger.WithError(err).Warn("job listing cache write failed")
		}
	}
	return listing, nil
}

func (c *CachedJobListings) UpdateJobListingStatus(ctx context.Context, id uint, status domain.JobListingStatus) (*domain.JobListing, error) {
	listing, err := c.JobListingRepository.UpdateJobListingStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	c.Invalidate(ctx, id)
	return listing, nil
}

func (c *CachedJobListings) DeleteJobListing(ctx context.Context, id uint) error {
	if err := c.JobListingRepository.DeleteJobListing(ctx, id); err != nil {
		return err
	}
	c.Invalidate(ctx, id)
	return nil
}

func (c *CachedJobListings) Invalidate(ctx context.Context, id uint) {
	if err := c.client.Del(ctx, listingKey(id)).Err(); err != nil {
		c.logger.WithError(err).WithField("job_listing_id", id).Warn("job listing cache invalidation failed")
	}
}

func listingKey(id uint) string {
	return fmt.Sprintf("%s%d", listingKeyPrefix, id)
}
