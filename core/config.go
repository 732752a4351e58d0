package core

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ScoreWeights 是打分函数的五个加权因子。
// 评分/热门度的分层子系数按权重的固定比例派生（见 rank 包），
// 所以调整这几个顶层权重即可整体缩放对应因子。
type ScoreWeights struct {
	Genre      float64 `yaml:"genre" json:"genre"`           // 类型重叠
	Rating     float64 `yaml:"rating" json:"rating"`         // 评分贴近度
	Popularity float64 `yaml:"popularity" json:"popularity"` // 热门度平衡
	Studio     float64 `yaml:"studio" json:"studio"`         // 制作公司偏好
}

// EngineConfig 汇总引擎的全部可调参数。
// 打分阈值与奖励常数在历史上被反复调整过以避免空结果，
// 因此全部做成配置项而不是硬编码；DefaultEngineConfig 给出当前的基准值。
type EngineConfig struct {
	// ---- 目录客户端 ----
	RequestDelaySeconds   float64 `yaml:"request_delay_seconds" json:"request_delay_seconds"`     // 对外请求最小间隔
	RequestTimeoutSeconds float64 `yaml:"request_timeout_seconds" json:"request_timeout_seconds"` // 单次外部调用超时
	MaxPerQuery           int     `yaml:"max_per_query" json:"max_per_query"`                     // 单次外部调用结果上限（上游硬限制 25）

	// ---- 画像 ----
	MaxSeeds   int `yaml:"max_seeds" json:"max_seeds"`     // 参与画像的种子前缀上限
	TopGenres  int `yaml:"top_genres" json:"top_genres"`   // 参与召回的画像类型数
	TopStudios int `yaml:"top_studios" json:"top_studios"` // 参与召回的偏好公司数

	// ---- 候选收集 ----
	MaxQueries        int `yaml:"max_queries" json:"max_queries"`                 // 单次请求的检索次数上限
	GenreQueryLimit   int `yaml:"genre_query_limit" json:"genre_query_limit"`     // 类型检索每批条数
	StudioQueryLimit  int `yaml:"studio_query_limit" json:"studio_query_limit"`   // 公司检索每批条数
	TierQueryLimit    int `yaml:"tier_query_limit" json:"tier_query_limit"`       // 分层检索每批条数
	VarietyQueryLimit int `yaml:"variety_query_limit" json:"variety_query_limit"` // 多样性检索每批条数
	VarietyTrigger    int `yaml:"variety_trigger" json:"variety_trigger"`         // 类型检索产出低于此值才触发多样性检索
	MaxConcurrent     int `yaml:"max_concurrent" json:"max_concurrent"`           // 召回并发上限（0 表示串行收益有限时不限制）

	// ---- 打分 ----
	Weights         ScoreWeights `yaml:"weights" json:"weights"`
	GenreBonus2     float64      `yaml:"genre_bonus_2" json:"genre_bonus_2"`         // 重叠 >=2 的额外加分
	GenreBonus3     float64      `yaml:"genre_bonus_3" json:"genre_bonus_3"`         // 重叠 >=3 的额外加分（只取最高档）
	MembersBonus    float64      `yaml:"members_bonus" json:"members_bonus"`         // 成员数门槛加分
	HighRatingBonus float64      `yaml:"high_rating_bonus" json:"high_rating_bonus"` // 高评分门槛加分
	HiddenGemBonus  float64      `yaml:"hidden_gem_bonus" json:"hidden_gem_bonus"`   // 中段排名且评分不错的小加分

	// ---- 准入阈值（不对称：有类型重叠的门槛更低） ----
	MinScoreOverlap   float64 `yaml:"min_score_overlap" json:"min_score_overlap"`
	MinScoreNoOverlap float64 `yaml:"min_score_no_overlap" json:"min_score_no_overlap"`

	// ---- 过滤选项 ----
	MinCatalogScore float64  `yaml:"min_catalog_score" json:"min_catalog_score"` // 目录评分下限，0 表示关闭
	IncludeGenres   []string `yaml:"include_genres" json:"include_genres"`       // 非空时候选必须命中其一
	ExcludeGenres   []string `yaml:"exclude_genres" json:"exclude_genres"`       // 命中任一即剔除
	Rules           []string `yaml:"rules" json:"rules"`                         // CEL 排除规则表达式

	// ---- 输出 ----
	DefaultMax      int `yaml:"default_max" json:"default_max"`             // 未指定时的推荐条数
	CallerMaxLimit  int `yaml:"caller_max_limit" json:"caller_max_limit"`   // 调用方可请求的推荐条数上限
	ResponseCap     int `yaml:"response_cap" json:"response_cap"`           // 任何响应的硬上限
	SynopsisLength  int `yaml:"synopsis_length" json:"synopsis_length"`     // 简介截断长度
	MaxPerGenre     int `yaml:"max_per_genre" json:"max_per_genre"`         // 多样性：首轮每个主类型最多条数，0 表示关闭
	CacheTTLSeconds int `yaml:"cache_ttl_seconds" json:"cache_ttl_seconds"` // 条目缓存 TTL
}

// DefaultEngineConfig 返回基准配置。
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		RequestDelaySeconds:   1.0,
		RequestTimeoutSeconds: 10,
		MaxPerQuery:           25,

		MaxSeeds:   10,
		TopGenres:  3,
		TopStudios: 2,

		MaxQueries:        12,
		GenreQueryLimit:   8,
		StudioQueryLimit:  6,
		TierQueryLimit:    12,
		VarietyQueryLimit: 6,
		VarietyTrigger:    30,
		MaxConcurrent:     4,

		Weights: ScoreWeights{
			Genre:      0.60,
			Rating:     0.15,
			Popularity: 0.10,
			Studio:     0.10,
		},
		GenreBonus2:     0.3,
		GenreBonus3:     0.5,
		MembersBonus:    0.02,
		HighRatingBonus: 0.02,
		HiddenGemBonus:  0.01,

		MinScoreOverlap:   0.25,
		MinScoreNoOverlap: 0.45,

		DefaultMax:      10,
		CallerMaxLimit:  25,
		ResponseCap:     50,
		SynopsisLength:  200,
		MaxPerGenre:     3,
		CacheTTLSeconds: 3600,
	}
}

// RequestDelay 返回目录请求最小间隔。
func (c *EngineConfig) RequestDelay() time.Duration {
	return time.Duration(c.RequestDelaySeconds * float64(time.Second))
}

// RequestTimeout 返回单次外部调用超时。
func (c *EngineConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds * float64(time.Second))
}

// LoadEngineConfig 从 YAML 文件加载配置，未出现的字段保持基准值。
func LoadEngineConfig(path string) (*EngineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	cfg := DefaultEngineConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return cfg, nil
}
