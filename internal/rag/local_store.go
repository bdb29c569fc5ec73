package rag

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// LocalVectorStore 本地文件向量存储，网络后端不可用时的回退实现
// 记录以 JSON Lines 追加写入固定目录，全量加载到内存后用
// 暴力余弦相似度检索。数据规模与单进程场景下足够使用。
type LocalVectorStore struct {
	embedder EmbeddingProvider
	path     string

	mu      sync.RWMutex
	records []Record
}

const localStoreFile = "records.jsonl"

// NewLocalVectorStore 打开（必要时创建）本地向量存储目录并加载已有记录
func NewLocalVectorStore(dir string, embedder EmbeddingProvider) (*LocalVectorStore, error) {
	if dir == "" {
		dir = "./vector_db"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("创建向量存储目录失败: %w", err)
	}

	s := &LocalVectorStore{
		embedder: embedder,
		path:     filepath.Join(dir, localStoreFile),
	}

	if err := s.load(); err != nil {
		return nil, err
	}

	return s, nil
}

// load 加载磁盘上的全部记录
func (s *LocalVectorStore) load() error {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("打开向量存储文件失败: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	// 每行包含完整嵌入向量，默认缓冲不够用
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return fmt.Errorf("解析向量存储记录失败: %w", err)
		}
		s.records = append(s.records, rec)
	}

	return scanner.Err()
}

// AddTexts 向量化并追加写入一批分块文本
func (s *LocalVectorStore) AddTexts(ctx context.Context, texts []string) (int, error) {
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

	newRecords := make([]Record, len(texts))
	for i, text := range texts {
		newRecords[i] = Record{
			ID:          uuid.New().String(),
			Content:     text,
			ContentHash: hashContent(text),
			ChunkIndex:  i,
			Embedding:   embeddings[i],
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return 0, fmt.Errorf("打开向量存储文件失败: %w", err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	for _, rec := range newRecords {
		if err := enc.Encode(rec); err != nil {
			return 0, fmt.Errorf("写入向量存储记录失败: %w", err)
		}
	}

	s.records = append(s.records, newRecords...)
	return len(newRecords), nil
}

// SimilaritySearch 暴力余弦相似度检索，按相似度降序返回前 topK 条
func (s *LocalVectorStore) SimilaritySearch(ctx context.Context, query string, topK int) ([]string, error) {
	if topK <= 0 {
		topK = 4
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("查询向量化失败: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	type scored struct {
		content string
		score   float64
	}
	results := make([]scored, 0, len(s.records))
	for _, rec := range s.records {
		results = append(results, scored{
			content: rec.Content,
			score:   cosineSimilarity(queryVec, rec.Embedding),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	if topK > len(results) {
		topK = len(results)
	}
	contents := make([]string, topK)
	for i := 0; i < topK; i++ {
		contents[i] = results[i].content
	}

	return contents, nil
}

// Name 后端名称
func (s *LocalVectorStore) Name() string {
	return "local"
}

// cosineSimilarity 余弦相似度，维度不一致时按较短长度计算
func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
