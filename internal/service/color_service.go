package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/user/celluloid/internal/config"
	"github.com/user/celluloid/internal/model"
	"github.com/user/celluloid/internal/utils"
)

// ColorService 感知色彩搜索：在 CIE L*a*b* 空间按 ΔE 距离排名
type ColorService struct {
	films FilmStore
	cfg   config.SearchConfig
}

// NewColorService 创建色彩搜索服务
func NewColorService(films FilmStore, cfg config.SearchConfig) *ColorService {
	return &ColorService{films: films, cfg: cfg}
}

// parsePalette 解析逗号分隔的色板
// 不带 # 前缀的色块静默跳过；单个色块解析失败只记日志，不影响整体
func parsePalette(hexCodes string) []utils.Lab {
	parts := strings.Split(hexCodes, ",")
	palette := make([]utils.Lab, 0, len(parts))
	for _, part := range parts {
		swatch := strings.TrimSpace(part)
		if !strings.HasPrefix(swatch, "#") {
			continue
		}
		lab, err := utils.HexToLab(swatch)
		if err != nil {
			log.Printf("[ColorService] 色块解析失败，跳过: %v", err)
			continue
		}
		palette = append(palette, lab)
	}
	return palette
}

// SearchByColor 单色模式：按每部电影色板中离目标色最近的色块排名
// 分值 = max(0, 100 − 最小ΔE)，只保留正分，取前 ColorTopK 条
func (s *ColorService) SearchByColor(ctx context.Context, hexColor string) ([]model.FilmResult, error) {
	target, err := utils.HexToLab(hexColor)
	if err != nil {
		return nil, fmt.Errorf("目标色值非法: %w", err)
	}

	films, err := s.films.ListWithPalette()
	if err != nil {
		return nil, fmt.Errorf("读取色板候选集失败: %w", err)
	}

	scored := make([]model.ScoredFilm, 0, len(films))
	for _, f := range films {
		palette := parsePalette(f.HexCodes)
		if len(palette) == 0 {
			continue
		}

		minDist := utils.DeltaE(target, palette[0])
		for _, swatch := range palette[1:] {
			if d := utils.DeltaE(target, swatch); d < minDist {
				minDist = d
			}
		}

		score := 100 - minDist
		if score <= 0 {
			continue
		}
		scored = append(scored, model.ScoredFilm{Film: f, Similarity: score})
	}

	sort.Slice(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})
	if len(scored) > s.cfg.ColorTopK {
		scored = scored[:s.cfg.ColorTopK]
	}

	results := make([]model.FilmResult, 0, len(scored))
	for _, sf := range scored {
		results = append(results, model.NewFilmResult(sf.Film, sf.Similarity))
	}
	return results, nil
}

// SearchByPalette 色板模式：以参考电影的整个色板找相近电影
// 对每个参考色块取它到候选色板的最小ΔE，换算为 0-100 分后再平均；
// 参考电影本身排在结果首位，其后是前 ColorTopK−1 条相近电影
func (s *ColorService) SearchByPalette(ctx context.Context, movieID int, rawHexCodes string) ([]model.FilmResult, error) {
	var reference *model.Film
	hexCodes := rawHexCodes

	if movieID > 0 {
		film, err := s.films.FindByID(movieID)
		if err != nil {
			return nil, fmt.Errorf("读取参考电影失败: %w", err)
		}
		if film == nil {
			return nil, fmt.Errorf("参考电影不存在: %d", movieID)
		}
		reference = film
		hexCodes = film.HexCodes
	}

	refPalette := parsePalette(hexCodes)
	if len(refPalette) == 0 {
		return nil, fmt.Errorf("参考色板为空")
	}

	films, err := s.films.ListWithPalette()
	if err != nil {
		return nil, fmt.Errorf("读取色板候选集失败: %w", err)
	}

	scored := make([]model.ScoredFilm, 0, len(films))
	for _, f := range films {
		if reference != nil && f.ID == reference.ID {
			continue
		}
		candidate := parsePalette(f.HexCodes)
		if len(candidate) == 0 {
			continue
		}

		var total float64
		for _, ref := range refPalette {
			minDist := utils.DeltaE(ref, candidate[0])
			for _, swatch := range candidate[1:] {
				if d := utils.DeltaE(ref, swatch); d < minDist {
					minDist = d
				}
			}
			swatchScore := 100 - minDist
			if swatchScore < 0 {
				swatchScore = 0
			}
			total += swatchScore
		}

		avg := total / float64(len(refPalette))
		if avg <= 0 {
			continue
		}
		scored = append(scored, model.ScoredFilm{Film: f, Similarity: avg})
	}

	sort.Slice(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})

	tailLimit := s.cfg.ColorTopK - 1
	if len(scored) > tailLimit {
		scored = scored[:tailLimit]
	}

	results := make([]model.FilmResult, 0, len(scored)+1)
	if reference != nil {
		results = append(results, model.NewFilmResult(*reference, 100))
	}
	for _, sf := range scored {
		results = append(results, model.NewFilmResult(sf.Film, sf.Similarity))
	}
	return results, nil
}
