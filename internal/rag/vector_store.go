package rag

import "context"

// Record 向量存储中的持久化单元：分块文本、嵌入向量与少量元数据。
// 写入后不再更新或删除，存储模型是仅追加的。
type Record struct {
	ID          string         `json:"id"`
	Content     string         `json:"content"`
	ContentHash string         `json:"content_hash"`
	ChunkIndex  int            `json:"chunk_index"`
	Embedding   []float32      `json:"embedding"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// VectorStore 抽象向量写入与相似度检索，可由不同后端实现（Redis、本地文件）。
// 调用方只传原始文本，嵌入计算由各后端借助 EmbeddingProvider 透明完成。
type VectorStore interface {
	// AddTexts 写入一批分块文本，返回实际写入数量
	AddTexts(ctx context.Context, texts []string) (int, error)

	// SimilaritySearch 返回与查询最相似的 topK 条分块文本，按相似度降序
	SimilaritySearch(ctx context.Context, query string, topK int) ([]string, error)

	// Name 后端名称，用于日志与指标
	Name() string
}
