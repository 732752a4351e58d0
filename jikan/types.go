package jikan

import "github.com/rushteam/anirec/core"

// Jikan v4 的响应结构，只声明本库用到的字段。
// 上游的 null 值由 encoding/json 落到零值，与 core.Anime 的缺省语义一致。

type animeEnvelope struct {
	Data *animePayload `json:"data"`
}

type listEnvelope struct {
	Data []*animePayload `json:"data"`
}

type named struct {
	Name string `json:"name"`
}

type animePayload struct {
	MALID         int64   `json:"mal_id"`
	Title         string  `json:"title"`
	TitleEnglish  string  `json:"title_english"`
	TitleJapanese string  `json:"title_japanese"`
	Score         float64 `json:"score"`
	ScoredBy      int64   `json:"scored_by"`
	Rank          int     `json:"rank"`
	Popularity    int     `json:"popularity"`
	Members       int64   `json:"members"`
	Favorites     int64   `json:"favorites"`
	Synopsis      string  `json:"synopsis"`
	Episodes      int     `json:"episodes"`
	Duration      string  `json:"duration"`
	Status        string  `json:"status"`
	Rating        string  `json:"rating"`
	Source        string  `json:"source"`
	Type          string  `json:"type"`
	Year          int     `json:"year"`
	Season        string  `json:"season"`
	URL           string  `json:"url"`

	Genres       []named `json:"genres"`
	Themes       []named `json:"themes"`
	Demographics []named `json:"demographics"`
	Studios      []named `json:"studios"`

	Aired struct {
		String string `json:"string"`
	} `json:"aired"`

	Images struct {
		JPG struct {
			ImageURL      string `json:"image_url"`
			LargeImageURL string `json:"large_image_url"`
		} `json:"jpg"`
	} `json:"images"`
}

// toAnime 把上游条目规整成领域模型。
// 类型维度合并 genres/themes/demographics 三组标签，上游把"Psychological"
// 这类主题与"Shounen"这类受众放在 genres 之外，合并后才是完整的类型画像。
func (p *animePayload) toAnime() *core.Anime {
	if p == nil {
		return nil
	}

	genres := make([]string, 0, len(p.Genres)+len(p.Themes)+len(p.Demographics))
	for _, g := range p.Genres {
		genres = append(genres, g.Name)
	}
	for _, t := range p.Themes {
		genres = append(genres, t.Name)
	}
	for _, d := range p.Demographics {
		genres = append(genres, d.Name)
	}

	studios := make([]string, 0, len(p.Studios))
	for _, s := range p.Studios {
		studios = append(studios, s.Name)
	}

	image := p.Images.JPG.LargeImageURL
	if image == "" {
		image = p.Images.JPG.ImageURL
	}

	return &core.Anime{
		MALID:         p.MALID,
		Title:         p.Title,
		TitleEnglish:  p.TitleEnglish,
		TitleJapanese: p.TitleJapanese,
		Score:         p.Score,
		ScoredBy:      p.ScoredBy,
		Rank:          p.Rank,
		Popularity:    p.Popularity,
		Members:       p.Members,
		Favorites:     p.Favorites,
		Synopsis:      p.Synopsis,
		Genres:        genres,
		Studios:       studios,
		Episodes:      p.Episodes,
		Duration:      p.Duration,
		Status:        p.Status,
		Rating:        p.Rating,
		Source:        p.Source,
		Type:          p.Type,
		Year:          p.Year,
		Season:        p.Season,
		Aired:         p.Aired.String,
		ImageURL:      image,
		URL:           p.URL,
	}
}

func toAnimeList(payloads []*animePayload) []*core.Anime {
	out := make([]*core.Anime, 0, len(payloads))
	for _, p := range payloads {
		if a := p.toAnime(); a != nil {
			out = append(out, a)
		}
	}
	return out
}
