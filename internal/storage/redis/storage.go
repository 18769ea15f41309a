package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/solitaire-server/internal/model"
	"github.com/mcoot/solitaire-server/internal/storage"
)

// Storage is a Redis-backed implementation of the account store
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.AccountStore = (*Storage)(nil)

func (s *Storage) CreateAccount(ctx context.Context, acct *model.Account) error {
	args := []any{
		fieldID, string(acct.ID),
		fieldUsername, acct.Username,
		fieldPasswordHash, acct.PasswordHash,
		fieldWins, acct.WinCount,
		fieldLosses, acct.LossCount,
		fieldCreatedAt, formatTime(acct.CreatedAt),
		fieldUpdatedAt, formatTime(acct.UpdatedAt),
	}
	if acct.BestTime != nil {
		args = append(args, fieldBestTime, strconv.FormatFloat(*acct.BestTime, 'f', -1, 64))
	}

	keys := []string{accountKey(acct.Username), accountsIndexKey()}
	created, err := createScript.Run(ctx, s.client, keys, args...).Int()
	if err != nil {
		return err
	}
	if created == 0 {
		return model.ErrDuplicateUsername
	}
	return nil
}

func (s *Storage) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	return s.getAccount(ctx, s.client, username)
}

func (s *Storage) GetAccountByAddress(ctx context.Context, address string) (*model.Account, error) {
	// Newest binding first; entries can be stale if a binding raced with a read
	usernames, err := s.client.ZRevRange(ctx, addressIndexKey(address), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	for _, username := range usernames {
		acct, err := s.getAccount(ctx, s.client, username)
		if errors.Is(err, model.ErrUnknownUser) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if acct.BoundTo(address) {
			return acct, nil
		}
	}
	return nil, model.ErrNoBoundAccount
}

func (s *Storage) SetBoundAddress(ctx context.Context, username string, address *string, at time.Time) (*model.Account, error) {
	key := accountKey(username)

	bind := func(tx *redis.Tx) error {
		fields, err := tx.HMGet(ctx, key, fieldID, fieldBoundAddress).Result()
		if err != nil {
			return err
		}
		if fields[0] == nil {
			return model.ErrUnknownUser
		}
		previous, _ := fields[1].(string)

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if previous != "" {
				pipe.ZRem(ctx, addressIndexKey(previous), username)
			}
			if address == nil {
				pipe.HDel(ctx, key, fieldBoundAddress, fieldBoundAt)
			} else {
				pipe.HSet(ctx, key, fieldBoundAddress, *address, fieldBoundAt, formatTime(at))
				pipe.ZAdd(ctx, addressIndexKey(*address), redis.Z{
					Score:  float64(at.UnixNano()),
					Member: username,
				})
			}
			pipe.HSet(ctx, key, fieldUpdatedAt, formatTime(at))
			return nil
		})
		return err
	}

	for attempt := 0; attempt <= s.cfg.BindRetries; attempt++ {
		err := s.client.Watch(ctx, bind, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return s.getAccount(ctx, s.client, username)
	}
	return nil, fmt.Errorf("bind %q: %w", username, redis.TxFailedErr)
}

func (s *Storage) IncrementWins(ctx context.Context, username string, at time.Time) (*model.Account, error) {
	return s.increment(ctx, username, fieldWins, at)
}

func (s *Storage) IncrementLosses(ctx context.Context, username string, at time.Time) (*model.Account, error) {
	return s.increment(ctx, username, fieldLosses, at)
}

func (s *Storage) CountAccounts(ctx context.Context) (int64, error) {
	return s.client.SCard(ctx, accountsIndexKey()).Result()
}

func (s *Storage) increment(ctx context.Context, username, field string, at time.Time) (*model.Account, error) {
	n, err := incrementScript.Run(ctx, s.client, []string{accountKey(username)}, field, formatTime(at)).Int64()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, model.ErrUnknownUser
	}
	return s.getAccount(ctx, s.client, username)
}

func (s *Storage) getAccount(ctx context.Context, c redis.Cmdable, username string) (*model.Account, error) {
	fields, err := c.HGetAll(ctx, accountKey(username)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, model.ErrUnknownUser
	}
	return decodeAccount(fields)
}

func decodeAccount(fields map[string]string) (*model.Account, error) {
	acct := &model.Account{
		ID:           model.AccountID(fields[fieldID]),
		Username:     fields[fieldUsername],
		PasswordHash: fields[fieldPasswordHash],
	}

	var err error
	if acct.WinCount, err = parseCounter(fields, fieldWins); err != nil {
		return nil, err
	}
	if acct.LossCount, err = parseCounter(fields, fieldLosses); err != nil {
		return nil, err
	}
	if v, ok := fields[fieldBoundAddress]; ok {
		acct.BoundAddress = &v
	}
	if v, ok := fields[fieldBestTime]; ok {
		bt, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", fieldBestTime, err)
		}
		acct.BestTime = &bt
	}
	if acct.CreatedAt, err = parseTime(fields[fieldCreatedAt]); err != nil {
		return nil, err
	}
	if acct.UpdatedAt, err = parseTime(fields[fieldUpdatedAt]); err != nil {
		return nil, err
	}
	return acct, nil
}

func parseCounter(fields map[string]string, field string) (int64, error) {
	v, ok := fields[field]
	if !ok {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("decode %s: %w", field, err)
	}
	return n, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, v)
}
