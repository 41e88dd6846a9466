package store

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"smartbin/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

//go:embed debit.lua
var debitLuaScript string

//go:embed create.lua
var createLuaScript string

// RedisStore keeps each account in a hash plus two lists for its histories.
// Credits run inside MULTI/EXEC; the guarded debit runs as a Lua script so
// the balance check and the decrement execute as one server-side step.
type RedisStore struct {
	client *redis.Client
	logger zerolog.Logger
}

func NewRedisStore(addr string, logger zerolog.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisStore{
		client: client,
		logger: logger,
	}, nil
}

func accountKey(id string) string     { return "account:" + id }
func logsKey(id string) string        { return "logs:" + id }
func redemptionsKey(id string) string { return "redemptions:" + id }

const accountIndexKey = "accounts"

// CreateAccount claims the id in the index and writes the account hash in
// one Lua script, so a failure cannot leave the id registered without its
// hash.
func (s *RedisStore) CreateAccount(ctx context.Context, acct *models.Account) error {
	keys := []string{accountKey(acct.ID), accountIndexKey}
	args := []interface{}{
		acct.ID,
		"name", acct.Name,
		"password_hash", acct.PasswordHash,
		"role", acct.Role,
		"wallet_balance", strconv.FormatFloat(acct.WalletBalance, 'f', -1, 64),
		"eco_points", strconv.FormatInt(acct.EcoPoints, 10),
		"co2_saved", strconv.FormatFloat(acct.CO2Saved, 'f', -1, 64),
		"created_at", acct.CreatedAt.Format(time.RFC3339Nano),
	}

	result, err := s.client.Eval(ctx, createLuaScript, keys, args...).Result()
	if err != nil {
		s.logger.Error().Err(err).Str("account_id", acct.ID).Msg("Error creating account")
		return fmt.Errorf("failed to create account: %w", err)
	}
	if created, ok := result.(int64); ok && created == 0 {
		return ErrDuplicateAccount
	}
	return nil
}

func (s *RedisStore) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	fields, err := s.client.HGetAll(ctx, accountKey(id)).Result()
	if err != nil {
		s.logger.Error().Err(err).Str("account_id", id).Msg("Error fetching account hash")
		return nil, fmt.Errorf("redis error: %w", err)
	}
	if len(fields) == 0 {
		return nil, ErrAccountNotFound
	}

	acct := &models.Account{
		ID:           id,
		Name:         fields["name"],
		PasswordHash: fields["password_hash"],
		Role:         fields["role"],
	}
	acct.WalletBalance, _ = strconv.ParseFloat(fields["wallet_balance"], 64)
	acct.EcoPoints, _ = strconv.ParseInt(fields["eco_points"], 10, 64)
	acct.CO2Saved, _ = strconv.ParseFloat(fields["co2_saved"], 64)
	acct.CreatedAt, _ = time.Parse(time.RFC3339Nano, fields["created_at"])

	rawLogs, err := s.client.LRange(ctx, logsKey(id), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}
	for _, raw := range rawLogs {
		var ev models.EarnEvent
		if err := json.Unmarshal([]byte(raw), &ev); err != nil {
			return nil, fmt.Errorf("error decoding earn event: %w", err)
		}
		acct.Logs = append(acct.Logs, ev)
	}

	rawRedemptions, err := s.client.LRange(ctx, redemptionsKey(id), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}
	for _, raw := range rawRedemptions {
		var ev models.RedeemEvent
		if err := json.Unmarshal([]byte(raw), &ev); err != nil {
			return nil, fmt.Errorf("error decoding redeem event: %w", err)
		}
		acct.Redemptions = append(acct.Redemptions, ev)
	}

	return acct, nil
}

func (s *RedisStore) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	ids, err := s.client.SMembers(ctx, accountIndexKey).Result()
	if err != nil {
		s.logger.Error().Err(err).Msg("Error listing account index")
		return nil, fmt.Errorf("redis error: %w", err)
	}

	var accounts []*models.Account
	for _, id := range ids {
		acct, err := s.GetAccount(ctx, id)
		if err != nil {
			// An indexed id without a hash must not take down the listing.
			if errors.Is(err, ErrAccountNotFound) {
				s.logger.Warn().Str("account_id", id).Msg("Indexed account has no hash, skipping")
				continue
			}
			return nil, err
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

func (s *RedisStore) Credit(ctx context.Context, id string, reward float64, points int64, event models.EarnEvent) error {
	exists, err := s.client.Exists(ctx, accountKey(id)).Result()
	if err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	if exists == 0 {
		return ErrAccountNotFound
	}

	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("error encoding earn event: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrByFloat(ctx, accountKey(id), "wallet_balance", reward)
		pipe.HIncrBy(ctx, accountKey(id), "eco_points", points)
		pipe.RPush(ctx, logsKey(id), eventData)
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Str("account_id", id).Msg("Error applying credit")
		return fmt.Errorf("failed to apply credit: %w", err)
	}
	return nil
}

func (s *RedisStore) Debit(ctx context.Context, id string, cost float64, costType models.CostType, event models.RedeemEvent) error {
	field := "wallet_balance"
	costArg := strconv.FormatFloat(cost, 'f', -1, 64)
	if costType == models.CostPoints {
		field = "eco_points"
		costArg = strconv.FormatInt(int64(cost), 10)
	}

	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("error encoding redeem event: %w", err)
	}

	keys := []string{accountKey(id), redemptionsKey(id)}
	result, err := s.client.Eval(ctx, debitLuaScript, keys, field, costArg, string(eventData)).Result()
	if err != nil {
		s.logger.Error().Err(err).Str("account_id", id).Msg("Error executing debit script")
		return fmt.Errorf("failed to apply debit: %w", err)
	}

	status, ok := result.(int64)
	if !ok {
		return fmt.Errorf("unexpected debit script response: %v", result)
	}
	switch status {
	case 1:
		return nil
	case -1:
		if costType == models.CostPoints {
			return ErrInsufficientPoints
		}
		return ErrInsufficientFunds
	case -2:
		return ErrAccountNotFound
	default:
		return fmt.Errorf("unknown debit script status: %d", status)
	}
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
