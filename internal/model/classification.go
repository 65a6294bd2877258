package model

// 查询分类的检索类型
const (
	SearchTypeAesthetic = "aesthetic" // 向量检索
	SearchTypeThematic  = "thematic"  // 结构化元数据检索
	SearchTypeHybrid    = "hybrid"    // 先主题后向量
)

// RecommendedFilm 分类器给出的候选影片（片名 + 上映年份）
type RecommendedFilm struct {
	Title string `json:"title"`
	Year  int    `json:"year"`
}

// QueryClassification 分类器对一次自由文本查询的裁定
// 请求期间存在，不落库
type QueryClassification struct {
	SearchType        string            `json:"search_type"`
	RecommendedMovies []RecommendedFilm `json:"recommended_movies"`
	AestheticKeywords string            `json:"aesthetic_keywords"`
	Confidence        float64           `json:"confidence"`
}

// KeywordBuckets 标签分类结果：年代 / 美学 / 语境 三个桶
type KeywordBuckets struct {
	Decade    []string `json:"decade"`
	Aesthetic []string `json:"aesthetic"`
	Context   []string `json:"context"`
}

// QueryInfo 随搜索结果返回的裁定摘要
type QueryInfo struct {
	SearchType        string  `json:"search_type"`
	AestheticKeywords string  `json:"aesthetic_keywords,omitempty"`
	Confidence        float64 `json:"confidence"`
	FallbackUsed      bool    `json:"fallback_used,omitempty"`
}
