package utils

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"
)

// 向量维度需与 films.embedding 列的定义一致
const embeddingDimensions = 1536

// EmbeddingClient OpenAI 向量生成客户端
type EmbeddingClient struct {
	sdk openai.Client
}

// NewEmbeddingClient 创建向量客户端
func NewEmbeddingClient(apiKey string) *EmbeddingClient {
	return &EmbeddingClient{
		sdk: openai.NewClient(option.WithAPIKey(apiKey)),
	}
}

// GenerateEmbedding 为文本生成定长向量（text-embedding-3-small）
func (c *EmbeddingClient) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("embedding input is empty")
	}

	resp, err := c.sdk.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{
			OfString: param.NewOpt(text),
		},
		Model:      openai.EmbeddingModelTextEmbedding3Small,
		Dimensions: param.NewOpt(int64(embeddingDimensions)),
	})
	if err != nil {
		return nil, fmt.Errorf("openai embedding failed: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("openai returned no embedding")
	}

	emb := resp.Data[0].Embedding
	out := make([]float32, len(emb))
	for i, v := range emb {
		out[i] = float32(v)
	}
	return out, nil
}
