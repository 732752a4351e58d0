package core

import "context"

// Catalog 是外部目录的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（jikan、cache）实现
//   - 上游失败（网络错误、非 2xx、超时）对调用方不可见：
//     GetByID 折叠为 ErrCatalogNotFound，Search/Top 折叠为空列表
//   - 调用方必须把"无数据"当成正常结果处理，而不是错误分支
//
// 实现：
//   - jikan.Client 实现此接口（限速的 Jikan v4 客户端）
//   - cache.ItemCache 实现此接口（按 ID 记忆化的装饰器）
type Catalog interface {
	// GetByID 按目录 ID 获取条目；不存在或上游失败时返回 ErrCatalogNotFound。
	GetByID(ctx context.Context, id int64) (*Anime, error)

	// Search 按关键词检索，返回上游给出的顺序（不重排）。limit 上限 25。
	Search(ctx context.Context, term string, limit int) ([]*Anime, error)

	// Top 返回最佳排序的条目列表（best-first）。limit 上限 25。
	Top(ctx context.Context, limit int) ([]*Anime, error)
}
