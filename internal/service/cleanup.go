package service

import (
	"log"
	"time"

	"github.com/user/celluloid/internal/repository"
)

// 搜索日志保留天数
const searchLogRetentionDays = 90

// CleanupService 清理服务
type CleanupService struct {
	repos *repository.Repositories
}

// NewCleanupService 创建清理服务
func NewCleanupService(repos *repository.Repositories) *CleanupService {
	return &CleanupService{repos: repos}
}

// Start 启动定时清理任务
func (s *CleanupService) Start() {
	ticker := time.NewTicker(24 * time.Hour)

	// 启动时先运行一次
	go s.runCleanup()

	go func() {
		for range ticker.C {
			s.runCleanup()
		}
	}()
}

func (s *CleanupService) runCleanup() {
	affected, err := s.repos.SearchLog.DeleteOldLogs(searchLogRetentionDays)
	if err != nil {
		log.Printf("[CleanupService] 清理搜索日志失败: %v", err)
	} else if affected > 0 {
		log.Printf("[CleanupService] 已清理 %d 条过期搜索日志", affected)
	}
}
