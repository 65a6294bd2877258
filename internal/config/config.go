package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config 应用配置
type Config struct {
	Env          string
	Port         string
	DatabaseURL  string
	GeminiAPIKey string
	GeminiModel  string
	OpenAIAPIKey string
	SiteName     string
	Search       SearchConfig
	Backfill     BackfillConfig
}

// SearchConfig 搜索策略常量
// 注意 ThematicMinRatio 只作用于纯主题检索的兜底判断，
// HybridAcceptRatio 只作用于混合检索的接受判断，两者数值不同，不要合并。
type SearchConfig struct {
	DefaultLimit        int     // 未指定 limit 时的默认返回条数
	CandidateMultiplier int     // 向量召回按 limit 的倍数取候选
	ThematicMultiplier  int     // 主题检索按 limit 的倍数取行
	SimilarityThreshold float64 // 向量相似度下限
	HybridAcceptRatio   float64 // 混合检索：主题结果 ≥ limit×该比例 时直接采用
	ThematicMinRatio    float64 // 主题检索：结果 < max(floor, limit×该比例) 时触发兜底
	ThematicMinFloor    int
	ColorTopK           int // 色彩搜索固定返回条数
	WordTopK            int // 关键词搜索固定返回条数
}

// BackfillConfig 向量回填任务配置
type BackfillConfig struct {
	BatchSize int           // 每批并发生成的向量数
	Delay     time.Duration // 批次之间的等待时间
}

// Load 加载配置
func Load() *Config {
	dbUser := getEnv("DB_USER", "postgres")
	dbPass := getEnv("DB_PASSWORD", "postgres")
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbName := getEnv("DB_NAME", "celluloid")
	dbSSL := getEnv("DB_SSLMODE", "disable")

	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbUser, dbPass, dbHost, dbPort, dbName, dbSSL)

	return &Config{
		Env:          getEnv("APP_ENV", "development"),
		Port:         getEnv("PORT", "5008"),
		DatabaseURL:  dbURL,
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		SiteName:     getEnv("SITE_NAME", "Celluloid by Design"),
		Search: SearchConfig{
			DefaultLimit:        getEnvInt("SEARCH_DEFAULT_LIMIT", 10),
			CandidateMultiplier: getEnvInt("SEARCH_CANDIDATE_MULTIPLIER", 5),
			ThematicMultiplier:  getEnvInt("SEARCH_THEMATIC_MULTIPLIER", 2),
			SimilarityThreshold: getEnvFloat("SEARCH_SIMILARITY_THRESHOLD", 0.35),
			HybridAcceptRatio:   getEnvFloat("SEARCH_HYBRID_ACCEPT_RATIO", 0.7),
			ThematicMinRatio:    getEnvFloat("SEARCH_THEMATIC_MIN_RATIO", 0.3),
			ThematicMinFloor:    getEnvInt("SEARCH_THEMATIC_MIN_FLOOR", 3),
			ColorTopK:           getEnvInt("SEARCH_COLOR_TOP_K", 7),
			WordTopK:            getEnvInt("SEARCH_WORD_TOP_K", 7),
		},
		Backfill: BackfillConfig{
			BatchSize: getEnvInt("BACKFILL_BATCH_SIZE", 10),
			Delay:     time.Duration(getEnvInt("BACKFILL_DELAY_MS", 1000)) * time.Millisecond,
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
