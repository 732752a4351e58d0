package core

import "sort"

// TasteProfile 是用户口味画像：由种子条目聚合出的类型/制作公司频次与评分偏好。
// 画像是请求级的，每次推荐重新构建，用完即弃。
//
// 维度          作用
// 类型频次      召回检索词 + 打分核心
// 制作公司频次  偏好公司召回与加分
// 平均评分      评分贴近度与分层检索
// 热门度基线    热门度平衡打分
type TasteProfile struct {
	// GenreCounts 记录类型 -> 在种子中出现的次数。
	GenreCounts map[string]int

	// StudioCounts 记录制作公司 -> 在种子中出现的次数。
	StudioCounts map[string]int

	// AvgScore 是种子条目（有评分者）的平均评分；无可用评分时为 7.0。
	AvgScore float64

	// AvgPopularity 是种子热门度伪分（1/排名）的均值；无数据时为 0。
	AvgPopularity float64

	// SeedsResolved 是实际解析成功的种子数量。
	SeedsResolved int

	// 插入顺序，计数相同时按首次出现顺序决胜。
	genreOrder  []string
	studioOrder []string
}

func NewTasteProfile() *TasteProfile {
	return &TasteProfile{
		GenreCounts:  make(map[string]int),
		StudioCounts: make(map[string]int),
		AvgScore:     7.0,
	}
}

// AddGenre 累计一次类型出现。
func (p *TasteProfile) AddGenre(name string) {
	if name == "" {
		return
	}
	if _, ok := p.GenreCounts[name]; !ok {
		p.genreOrder = append(p.genreOrder, name)
	}
	p.GenreCounts[name]++
}

// AddStudio 累计一次制作公司出现。
func (p *TasteProfile) AddStudio(name string) {
	if name == "" {
		return
	}
	if _, ok := p.StudioCounts[name]; !ok {
		p.studioOrder = append(p.studioOrder, name)
	}
	p.StudioCounts[name]++
}

// TopGenres 返回出现次数最多的前 k 个类型，计数相同按首次出现顺序。
func (p *TasteProfile) TopGenres(k int) []string {
	return topByCount(p.genreOrder, p.GenreCounts, k, 1)
}

// PreferredStudios 返回出现 >= 2 次的制作公司，按次数降序取前 k 个。
// 只出现一次的公司不构成明确偏好。
func (p *TasteProfile) PreferredStudios(k int) []string {
	return topByCount(p.studioOrder, p.StudioCounts, k, 2)
}

// TotalGenreCount 返回类型出现的总次数（所有计数之和）。
func (p *TasteProfile) TotalGenreCount() int {
	total := 0
	for _, c := range p.GenreCounts {
		total += c
	}
	return total
}

// HasGenre 判断画像中是否含有该类型。
func (p *TasteProfile) HasGenre(name string) bool {
	_, ok := p.GenreCounts[name]
	return ok
}

// GenreOverlap 返回候选类型列表与画像的交集，保持候选内的出现顺序。
func (p *TasteProfile) GenreOverlap(genres []string) []string {
	if len(p.GenreCounts) == 0 {
		return nil
	}
	var overlap []string
	for _, g := range genres {
		if _, ok := p.GenreCounts[g]; ok {
			overlap = append(overlap, g)
		}
	}
	return overlap
}

func topByCount(order []string, counts map[string]int, k, minCount int) []string {
	out := make([]string, 0, len(order))
	for _, name := range order {
		if counts[name] >= minCount {
			out = append(out, name)
		}
	}
	// 稳定排序：计数降序，计数相同保持首次出现顺序
	sort.SliceStable(out, func(i, j int) bool {
		return counts[out[i]] > counts[out[j]]
	})
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}
