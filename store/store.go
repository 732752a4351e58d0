package store

// 注意：此包只包含实现，接口定义在 core 包。
// 目前的使用场景是目录条目缓存（cache.ItemCache 的后端）。
//
// 示例：
//   var st core.Store = store.NewMemoryStore()   // 进程内，带 TTL 清理
//   st, err := store.NewRedisStore(addr, db)     // 进程间共享
