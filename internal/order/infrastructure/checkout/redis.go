package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/qtremors/amanzon/internal/order/application"
)

const pendingTTL = time.Hour

// RedisCheckoutStore 以网关订单号为键暂存结算中间态。
// 一小时内未完成支付的记录自动过期。
type RedisCheckoutStore struct {
	client *redis.Client
}

func NewRedisCheckoutStore(client *redis.Client) *RedisCheckoutStore {
	return &RedisCheckoutStore{client: client}
}

func key(gatewayOrderID string) string {
	return "checkout:pending:" + gatewayOrderID
}

func (s *RedisCheckoutStore) Put(ctx context.Context, pending *application.PendingCheckout) error {
	data, err := json.Marshal(pending)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key(pending.GatewayOrderID), data, pendingTTL).Err()
}

// Take 读出并删除，同一笔支付只能消费一次
func (s *RedisCheckoutStore) Take(ctx context.Context, gatewayOrderID string) (*application.PendingCheckout, error) {
	data, err := s.client.GetDel(ctx, key(gatewayOrderID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, application.ErrPendingNotFound
	}
	if err != nil {
		return nil, err
	}

	var pending application.PendingCheckout
	if err := json.Unmarshal(data, &pending); err != nil {
		return nil, fmt.Errorf("corrupt pending checkout %s: %w", gatewayOrderID, err)
	}
	return &pending, nil
}
