// Package jikan 实现基于 Jikan v4 API（MyAnimeList 非官方接口）的目录客户端。
//
// 契约（core.Catalog）：
//   - 上游失败（网络错误、非 2xx、超时）不向调用方传播：GetByID 折叠为
//     ErrCatalogNotFound，Search/Top 折叠为空列表
//   - 所有操作共享同一个限速时钟，出站请求保持最小间隔
package jikan

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rushteam/anirec/core"
)

const (
	// DefaultBaseURL 是 Jikan v4 的公共入口。
	DefaultBaseURL = "https://api.jikan.moe/v4"

	// maxPageLimit 是上游单次请求的结果条数硬上限。
	maxPageLimit = 25
)

// Client 是限速的 Jikan 目录客户端。
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *Limiter
}

// Option 配置 Client。
type Option func(*Client)

// WithBaseURL 覆盖上游地址（测试或镜像站）。
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = base }
}

// WithHTTPClient 使用自定义 HTTP 客户端（自带超时）。
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithDelay 覆盖出站请求最小间隔。
func WithDelay(delay time.Duration) Option {
	return func(c *Client) { c.limiter = NewLimiter(delay) }
}

// NewClient 创建目录客户端，默认 1s 请求间隔、10s 超时。
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: NewLimiter(time.Second),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetByID 按 MAL ID 获取条目；不存在或上游失败时返回 ErrCatalogNotFound。
func (c *Client) GetByID(ctx context.Context, id int64) (*core.Anime, error) {
	var env animeEnvelope
	if err := c.get(ctx, fmt.Sprintf("anime/%d", id), nil, &env); err != nil {
		return nil, core.ErrCatalogNotFound
	}
	a := env.Data.toAnime()
	if a == nil {
		return nil, core.ErrCatalogNotFound
	}
	return a, nil
}

// Search 按关键词检索，保持上游给出的顺序；失败折叠为空列表。
func (c *Client) Search(ctx context.Context, term string, limit int) ([]*core.Anime, error) {
	q := url.Values{}
	q.Set("q", term)
	q.Set("limit", strconv.Itoa(clampLimit(limit)))

	var env listEnvelope
	if err := c.get(ctx, "anime", q, &env); err != nil {
		return nil, nil
	}
	return toAnimeList(env.Data), nil
}

// Top 返回最佳排序的条目（best-first）；失败折叠为空列表。
func (c *Client) Top(ctx context.Context, limit int) ([]*core.Anime, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(clampLimit(limit)))

	var env listEnvelope
	if err := c.get(ctx, "top/anime", q, &env); err != nil {
		return nil, nil
	}
	return toAnimeList(env.Data), nil
}

// get 发起一次限速的 GET 请求并解码 JSON 响应。
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	u := c.baseURL + "/" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("request %s: status=%d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > maxPageLimit {
		return maxPageLimit
	}
	return limit
}

var _ core.Catalog = (*Client)(nil)
