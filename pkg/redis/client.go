package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/ozanyurt/voice-campaign-service/environments"
	"github.com/ozanyurt/voice-campaign-service/pkg/logger"
)

// Client caches the set of contacts a campaign run has already dialed.
// The durable source of truth is the call_logs table; this set is only a
// fast path consulted on resume, bounded by a TTL so abandoned campaigns
// don't leak keys.
type Client struct {
	client valkey.Client
}

const (
	processedKeyPrefix = "campaign_processed:"
	processedTTL       = 24 * time.Hour
)

func NewRedisClient(cfg environments.RedisConfig) (*Client, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)},
		Password:    cfg.Password,
		SelectDB:    cfg.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Valkey client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()

		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Infof("Connected to Redis (via Valkey client)")

	return &Client{client: client}, nil
}

func processedKey(campaignID int64) string {
	return fmt.Sprintf("%s%d", processedKeyPrefix, campaignID)
}

// MarkContactProcessed adds the contact to the campaign's processed set and
// refreshes the set's TTL.
func (c *Client) MarkContactProcessed(ctx context.Context, campaignID, contactID int64) error {
	key := processedKey(campaignID)

	err := c.client.Do(ctx, c.client.B().Sadd().
		Key(key).
		Member(strconv.FormatInt(contactID, 10)).
		Build()).Error()
	if err != nil {
		return fmt.Errorf("failed to mark contact processed: %w", err)
	}

	if err := c.client.Do(ctx, c.client.B().Expire().
		Key(key).
		Seconds(int64(processedTTL.Seconds())).
		Build()).Error(); err != nil {
		return fmt.Errorf("failed to set processed set TTL: %w", err)
	}

	return nil
}

// GetProcessedContacts returns the cached processed set for a campaign.
// A missing key yields an empty map, not an error.
func (c *Client) GetProcessedContacts(ctx context.Context, campaignID int64) (map[int64]struct{}, error) {
	result := c.client.Do(ctx, c.client.B().Smembers().Key(processedKey(campaignID)).Build())
	if result.Error() != nil {
		return nil, fmt.Errorf("failed to get processed contacts: %w", result.Error())
	}

	members, err := result.AsStrSlice()
	if err != nil {
		return nil, fmt.Errorf("failed to read processed contacts: %w", err)
	}

	processed := make(map[int64]struct{}, len(members))
	for _, member := range members {
		id, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			logger.Warnf("Skipping malformed processed-set member %q: %v", member, err)
			continue
		}
		processed[id] = struct{}{}
	}

	return processed, nil
}

// ClearProcessed drops the campaign's processed set, e.g. after completion.
func (c *Client) ClearProcessed(ctx context.Context, campaignID int64) error {
	err := c.client.Do(ctx, c.client.B().Del().Key(processedKey(campaignID)).Build()).Error()
	if err != nil {
		return fmt.Errorf("failed to clear processed set: %w", err)
	}
	return nil
}

func (c *Client) Close() error {
	c.client.Close()
	return nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.client.Do(ctx, c.client.B().Ping().Build()).Error()
}
