package core

// Anime 是目录条目的强类型表示，所有字段都有明确的缺省语义：
//   - Score == 0 表示评分未知（目录未评分或数据缺失）
//   - Popularity/Rank == 0 表示未排名（排名越小越热门）
//   - Genres/Studios 为 nil 时视同空列表
//
// Anime 在一次请求内抓取后不可变；打分等瞬时信息挂在 Item 上，不回写 Anime。
type Anime struct {
	MALID         int64    `json:"mal_id" yaml:"mal_id"`
	Title         string   `json:"title" yaml:"title"`
	TitleEnglish  string   `json:"title_english,omitempty" yaml:"title_english,omitempty"`
	TitleJapanese string   `json:"title_japanese,omitempty" yaml:"title_japanese,omitempty"`
	Score         float64  `json:"score" yaml:"score"`
	ScoredBy      int64    `json:"scored_by" yaml:"scored_by"`
	Rank          int      `json:"rank" yaml:"rank"`
	Popularity    int      `json:"popularity" yaml:"popularity"`
	Members       int64    `json:"members" yaml:"members"`
	Favorites     int64    `json:"favorites" yaml:"favorites"`
	Synopsis      string   `json:"synopsis" yaml:"synopsis"`
	Genres        []string `json:"genres" yaml:"genres"`
	Studios       []string `json:"studios" yaml:"studios"`
	Episodes      int      `json:"episodes" yaml:"episodes"`
	Duration      string   `json:"duration,omitempty" yaml:"duration,omitempty"`
	Status        string   `json:"status,omitempty" yaml:"status,omitempty"`
	Rating        string   `json:"rating,omitempty" yaml:"rating,omitempty"`
	Source        string   `json:"source,omitempty" yaml:"source,omitempty"`
	Type          string   `json:"type,omitempty" yaml:"type,omitempty"`
	Year          int      `json:"year,omitempty" yaml:"year,omitempty"`
	Season        string   `json:"season,omitempty" yaml:"season,omitempty"`
	Aired         string   `json:"aired,omitempty" yaml:"aired,omitempty"`
	ImageURL      string   `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	URL           string   `json:"url,omitempty" yaml:"url,omitempty"`
}

// DisplayTitle 返回展示用标题：英文名与原名不同的话以 "原名 (英文名)" 形式返回。
func (a *Anime) DisplayTitle() string {
	if a.TitleEnglish != "" && a.TitleEnglish != a.Title {
		return a.Title + " (" + a.TitleEnglish + ")"
	}
	return a.Title
}

// HasGenre 判断是否包含指定类型（精确匹配）。
func (a *Anime) HasGenre(name string) bool {
	for _, g := range a.Genres {
		if g == name {
			return true
		}
	}
	return false
}

// TruncateSynopsis 返回截断到 n 个字符的简介，超长时追加省略号。
// 按字符（rune）计数截断，保证不会切断多字节文本。n <= 0 表示不截断。
func (a *Anime) TruncateSynopsis(n int) string {
	if n <= 0 {
		return a.Synopsis
	}
	runes := []rune(a.Synopsis)
	if len(runes) <= n {
		return a.Synopsis
	}
	return string(runes[:n]) + "..."
}

// Recommendation 是推荐结果的最终形态：Anime 加上相似度分数与推荐理由。
// SimilarityScore 已经钳制在 [0,1] 并四舍五入到 3 位小数。
type Recommendation struct {
	Anime           `yaml:",inline"`
	SimilarityScore float64 `json:"similarity_score" yaml:"similarity_score"`
	Reason          string  `json:"reason" yaml:"reason"`
	FoundVia        string  `json:"found_via,omitempty" yaml:"found_via,omitempty"`
}
