// Package cache 提供按 ID 记忆化的目录装饰器。
package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rushteam/anirec/core"
)

// ItemCache 包装一个 core.Catalog，把 GetByID 的成功结果写入 Store。
//
// 契约：
//   - 只缓存成功的查询；失败（含上游故障折叠成的未找到）不缓存，
//     同一次运行内的后续访问仍会重试
//   - Search/Top 直接透传，不缓存（结果与检索词强相关且时效性高）
//   - 后端为 MemoryStore 时是进程级缓存（TTL 清理防止无界增长），
//     为 RedisStore 时是多实例共享缓存
type ItemCache struct {
	catalog core.Catalog
	store   core.Store
	ttl     int // 秒，0 表示不过期
}

func New(catalog core.Catalog, st core.Store, ttlSeconds int) *ItemCache {
	return &ItemCache{
		catalog: catalog,
		store:   st,
		ttl:     ttlSeconds,
	}
}

func (c *ItemCache) GetByID(ctx context.Context, id int64) (*core.Anime, error) {
	key := cacheKey(id)

	if data, err := c.store.Get(ctx, key); err == nil {
		var a core.Anime
		if json.Unmarshal(data, &a) == nil {
			return &a, nil
		}
		// 缓存内容损坏：删掉后走源站
		c.store.Delete(ctx, key)
	}

	a, err := c.catalog.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(a); err == nil {
		// 写缓存失败不影响本次结果
		c.store.Set(ctx, key, data, c.ttl)
	}
	return a, nil
}

func (c *ItemCache) Search(ctx context.Context, term string, limit int) ([]*core.Anime, error) {
	return c.catalog.Search(ctx, term, limit)
}

func (c *ItemCache) Top(ctx context.Context, limit int) ([]*core.Anime, error) {
	return c.catalog.Top(ctx, limit)
}

func cacheKey(id int64) string {
	return fmt.Sprintf("anime:%d", id)
}

var _ core.Catalog = (*ItemCache)(nil)
