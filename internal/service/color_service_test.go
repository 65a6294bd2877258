package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/celluloid/internal/model"
)

func paletteFilm(id int, title, hexCodes string) model.Film {
	f := testFilm(id, title, 1970)
	f.HexCodes = hexCodes
	return f
}

// 单色模式：近色高分在前，所有分值落在 (0,100] 区间
func TestSearchByColorRanking(t *testing.T) {
	store := &stubStore{
		listWithPalette: func() ([]model.Film, error) {
			return []model.Film{
				paletteFilm(1, "Almost Red", "#FE0100,#000000"),
				paletteFilm(2, "Pure Green", "#00FF00"),
				paletteFilm(3, "No Palette", ""),
			}, nil
		},
	}
	svc := NewColorService(store, testSearchConfig())

	results, err := svc.SearchByColor(context.Background(), "#FF0000")
	require.NoError(t, err)
	require.NotEmpty(t, results)

	// 近似红色的电影排第一且分值接近 100
	assert.Equal(t, 1, results[0].MovieID)
	assert.Greater(t, results[0].SimilarityScore, 99.0)

	for i, r := range results {
		assert.Greater(t, r.SimilarityScore, 0.0)
		assert.LessOrEqual(t, r.SimilarityScore, 100.0)
		if i > 0 {
			assert.GreaterOrEqual(t, results[i-1].SimilarityScore, r.SimilarityScore)
		}
	}
}

// 目标色值非法直接报错
func TestSearchByColorInvalidHex(t *testing.T) {
	svc := NewColorService(&stubStore{}, testSearchConfig())

	_, err := svc.SearchByColor(context.Background(), "FF0000")
	assert.Error(t, err)
	_, err = svc.SearchByColor(context.Background(), "#XYZ123")
	assert.Error(t, err)
}

// 色板模式：参考电影排首位、分值 100，且不出现在后续结果里
func TestSearchByPaletteReferenceFirst(t *testing.T) {
	reference := paletteFilm(1, "Reference", "#102030,#FFEEDD")
	store := &stubStore{
		findByID: func(id int) (*model.Film, error) {
			require.Equal(t, 1, id)
			return &reference, nil
		},
		listWithPalette: func() ([]model.Film, error) {
			return []model.Film{
				reference,
				paletteFilm(2, "Close Match", "#112131,#FEEDDC"),
				paletteFilm(3, "Far Away", "#00FF00,#FF00FF"),
			}, nil
		},
	}
	svc := NewColorService(store, testSearchConfig())

	results, err := svc.SearchByPalette(context.Background(), 1, "")
	require.NoError(t, err)
	require.NotEmpty(t, results)

	assert.Equal(t, 1, results[0].MovieID)
	assert.Equal(t, 100.0, results[0].SimilarityScore)
	for _, r := range results[1:] {
		assert.NotEqual(t, 1, r.MovieID)
	}
	assert.LessOrEqual(t, len(results), testSearchConfig().ColorTopK)

	// 相近色板应排在差异大的前面
	assert.Equal(t, 2, results[1].MovieID)
}

// 色板模式：不带参考电影时用原始色板检索，结果最多 ColorTopK−1 条
func TestSearchByPaletteRawHexCodes(t *testing.T) {
	store := &stubStore{
		listWithPalette: func() ([]model.Film, error) {
			films := make([]model.Film, 10)
			for i := range films {
				films[i] = paletteFilm(i+1, "Film", "#112233")
			}
			return films, nil
		},
	}
	svc := NewColorService(store, testSearchConfig())

	results, err := svc.SearchByPalette(context.Background(), 0, "#112233,#445566")
	require.NoError(t, err)
	assert.Len(t, results, testSearchConfig().ColorTopK-1)
}

// 参考色板解析后为空时报错
func TestSearchByPaletteEmptyReference(t *testing.T) {
	svc := NewColorService(&stubStore{}, testSearchConfig())

	_, err := svc.SearchByPalette(context.Background(), 0, "112233,nothex")
	assert.Error(t, err)
}

// 不带 # 前缀或解析失败的色块静默跳过
func TestParsePaletteSkipsInvalid(t *testing.T) {
	palette := parsePalette("#FF0000, 00FF00, #GGGGGG, #0000FF")
	assert.Len(t, palette, 2)
}
