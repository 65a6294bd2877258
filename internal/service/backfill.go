package service

import (
	"context"
	"log"
	"time"

	"github.com/pgvector/pgvector-go"
	"github.com/user/celluloid/internal/config"
	"github.com/user/celluloid/internal/model"
	"golang.org/x/sync/errgroup"
)

// BackfillStore 回填任务需要的数据访问
type BackfillStore interface {
	ListMissingEmbedding(afterID, limit int) ([]model.Film, error)
	UpdateEmbedding(id int, emb pgvector.Vector) error
}

// BackfillService 向量回填任务
// 用 id 游标分页遍历缺向量的电影，每批并发生成后回写，批间等待。
// 可重复执行：每次都只会选中仍然缺向量的行。
type BackfillService struct {
	store    BackfillStore
	embedder Embedder
	cfg      config.BackfillConfig
}

// NewBackfillService 创建回填任务
func NewBackfillService(store BackfillStore, embedder Embedder, cfg config.BackfillConfig) *BackfillService {
	return &BackfillService{store: store, embedder: embedder, cfg: cfg}
}

// Run 执行回填，返回成功回写的条数
func (s *BackfillService) Run(ctx context.Context) (int, error) {
	total := 0
	cursor := 0

	for {
		films, err := s.store.ListMissingEmbedding(cursor, s.cfg.BatchSize)
		if err != nil {
			return total, err
		}
		if len(films) == 0 {
			break
		}

		g, gctx := errgroup.WithContext(ctx)
		for _, film := range films {
			f := film
			g.Go(func() error {
				emb, err := s.embedder.GenerateEmbedding(gctx, f.AestheticSummary)
				if err != nil {
					log.Printf("[Backfill] 电影 %d 向量生成失败: %v", f.ID, err)
					return err
				}
				return s.store.UpdateEmbedding(f.ID, pgvector.NewVector(emb))
			})
		}
		if err := g.Wait(); err != nil {
			return total, err
		}

		total += len(films)
		cursor = films[len(films)-1].ID
		log.Printf("[Backfill] 已回填 %d 条，游标 %d", total, cursor)

		// 批间等待，给上游接口留点喘息
		select {
		case <-ctx.Done():
			return total, ctx.Err()
		case <-time.After(s.cfg.Delay):
		}
	}

	return total, nil
}
