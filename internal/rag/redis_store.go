package rag

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisVectorStore 基于 Redis + RediSearch 的网络化向量存储
// 所有文档共用一个固定索引名（单一全局命名空间）。
type RedisVectorStore struct {
	client   redis.UniversalClient
	embedder EmbeddingProvider
	index    string
	prefix   string
	dim      int
}

// NewRedisVectorStore 创建 Redis 向量存储并确保索引存在
func NewRedisVectorStore(ctx context.Context, client redis.UniversalClient, embedder EmbeddingProvider, index string, dim int) (*RedisVectorStore, error) {
	if index == "" {
		index = "rag-index"
	}
	if dim <= 0 {
		dim = 1536
	}

	s := &RedisVectorStore{
		client:   client,
		embedder: embedder,
		index:    index,
		prefix:   index + ":doc:",
		dim:      dim,
	}

	if err := s.ensureIndex(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

// ensureIndex 创建向量索引，已存在则忽略
func (s *RedisVectorStore) ensureIndex(ctx context.Context) error {
	err := s.client.FTCreate(ctx, s.index,
		&redis.FTCreateOptions{
			OnHash: true,
			Prefix: []interface{}{s.prefix},
		},
		&redis.FieldSchema{
			FieldName: "content",
			FieldType: redis.SearchFieldTypeText,
		},
		&redis.FieldSchema{
			FieldName: "embedding",
			FieldType: redis.SearchFieldTypeVector,
			VectorArgs: &redis.FTVectorArgs{
				FlatOptions: &redis.FTFlatOptions{
					Type:           "FLOAT32",
					Dim:            s.dim,
					DistanceMetric: "COSINE",
				},
			},
		},
	).Err()

	if err != nil && !strings.Contains(err.Error(), "Index already exists") {
		return fmt.Errorf("创建 RediSearch 索引失败: %w", err)
	}
	return nil
}

// AddTexts 向量化并写入一批分块文本
// 同一批次内的分块按原文档顺序写入。
func (s *RedisVectorStore) AddTexts(ctx context.Context, texts []string) (int, error) {
	if len(texts) == 0 {
		return 0, nil
	}

	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("向量化失败: %w", err)
	}
	if len(embeddings) != len(texts) {
		return 0, fmt.Errorf("向量数量不匹配: 期望%d, 实际%d", len(texts), len(embeddings))
	}

	pipe := s.client.Pipeline()
	for i, text := range texts {
		if len(embeddings[i]) != s.dim {
			return 0, fmt.Errorf("向量维度不匹配: 期望%d, 实际%d", s.dim, len(embeddings[i]))
		}
		key := s.prefix + uuid.New().String()
		pipe.HSet(ctx, key, map[string]interface{}{
			"content":      text,
			"content_hash": hashContent(text),
			"chunk_index":  i,
			"embedding":    encodeVector(embeddings[i]),
		})
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("写入 Redis 失败: %w", err)
	}

	return len(texts), nil
}

// SimilaritySearch KNN 相似度检索，按余弦距离升序（最相似在前）
func (s *RedisVectorStore) SimilaritySearch(ctx context.Context, query string, topK int) ([]string, error) {
	if topK <= 0 {
		topK = 4
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("查询向量化失败: %w", err)
	}

	knnQuery := fmt.Sprintf("*=>[KNN %d @embedding $vec AS vector_score]", topK)
	res, err := s.client.FTSearchWithArgs(ctx, s.index, knnQuery, &redis.FTSearchOptions{
		Return: []redis.FTSearchReturn{
			{FieldName: "content"},
			{FieldName: "vector_score"},
		},
		SortBy: []redis.FTSearchSortBy{
			{FieldName: "vector_score", Asc: true},
		},
		Limit:          topK,
		Params:         map[string]interface{}{"vec": encodeVector(queryVec)},
		DialectVersion: 2,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("RediSearch 检索失败: %w", err)
	}

	contents := make([]string, 0, len(res.Docs))
	for _, doc := range res.Docs {
		if content, ok := doc.Fields["content"]; ok {
			contents = append(contents, content)
		}
	}

	return contents, nil
}

// Name 后端名称
func (s *RedisVectorStore) Name() string {
	return "redis"
}

// encodeVector 将向量编码为 float32 小端字节串（RediSearch VECTOR 字段格式）
func encodeVector(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}
