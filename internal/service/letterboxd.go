package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// FilmMeta 从影片页抓取的元数据（入库流程用）
type FilmMeta struct {
	Title    string `json:"title"`
	Year     int    `json:"year"`
	Poster   string `json:"poster"`
	Synopsis string `json:"synopsis"`
	Link     string `json:"link"`
}

// LetterboxdFetcher Letterboxd 影片页抓取
type LetterboxdFetcher struct {
	client *http.Client
}

// NewLetterboxdFetcher 创建抓取器
func NewLetterboxdFetcher() *LetterboxdFetcher {
	return &LetterboxdFetcher{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// og:title 形如 "Chinatown (1974)"
var titleYearRe = regexp.MustCompile(`^(.*)\s+\((\d{4})\)$`)

// FetchMeta 抓取影片页的标题/年份/海报/简介
func (f *LetterboxdFetcher) FetchMeta(ctx context.Context, pageURL string) (*FilmMeta, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("链接非法: %w", err)
	}
	host := strings.TrimPrefix(parsed.Hostname(), "www.")
	if host != "letterboxd.com" {
		return nil, fmt.Errorf("不支持的站点: %s", parsed.Hostname())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}
	// 模拟浏览器，避免被直接拒绝
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("抓取失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("影片页返回状态 %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("解析页面失败: %w", err)
	}

	meta := &FilmMeta{Link: pageURL}

	ogTitle, _ := doc.Find(`meta[property="og:title"]`).Attr("content")
	if m := titleYearRe.FindStringSubmatch(strings.TrimSpace(ogTitle)); len(m) == 3 {
		meta.Title = m[1]
		meta.Year, _ = strconv.Atoi(m[2])
	} else {
		meta.Title = strings.TrimSpace(ogTitle)
	}

	if meta.Year == 0 {
		yearText := strings.TrimSpace(doc.Find("small.number a").First().Text())
		meta.Year, _ = strconv.Atoi(yearText)
	}

	meta.Poster, _ = doc.Find(`meta[property="og:image"]`).Attr("content")
	meta.Synopsis, _ = doc.Find(`meta[name="description"]`).Attr("content")

	if meta.Title == "" {
		return nil, fmt.Errorf("页面缺少标题，可能不是影片页")
	}

	return meta, nil
}
