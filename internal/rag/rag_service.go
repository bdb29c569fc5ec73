package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"backend/internal/ai"
	"backend/internal/extract"
	"backend/internal/logger"
	"backend/internal/metrics"

	"go.uber.org/zap"
)

// StoreProvider 提供进程内唯一的向量存储后端
type StoreProvider interface {
	Store(ctx context.Context) (VectorStore, error)
}

// RAGService 知识库服务：文档摄取与检索增强问答两条流水线
type RAGService struct {
	extractors *extract.Registry
	chunker    *Chunker
	stores     StoreProvider
	chat       ai.ChatClient
	topK       int
}

// NewRAGService 创建 RAG 服务实例
func NewRAGService(extractors *extract.Registry, chunker *Chunker, stores StoreProvider, chat ai.ChatClient, topK int) *RAGService {
	if topK <= 0 {
		topK = 4
	}
	return &RAGService{
		extractors: extractors,
		chunker:    chunker,
		stores:     stores,
		chat:       chat,
		topK:       topK,
	}
}

// IngestResult 摄取结果，直接作为接口响应体
type IngestResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Chunks  int    `json:"chunks,omitempty"`
}

// QueryResult 问答结果
type QueryResult struct {
	Result string `json:"result"`
}

// Ingest 摄取一篇文档：抽取文本 → 分块 → 向量化入库
// 任一环节失败都转换为结构化错误结果返回，不向上抛出。
// 摄取过程中不会产生部分索引后又回滚的状态：入库失败时整批报错。
func (s *RAGService) Ingest(ctx context.Context, data []byte, docType string) *IngestResult {
	start := time.Now()

	text, err := s.extractors.Extract(data, docType)
	if err != nil {
		metrics.IngestsTotal.WithLabelValues(docType, "error").Inc()
		return ingestError(docType, err)
	}

	chunks := s.chunker.Split(text)

	store, err := s.stores.Store(ctx)
	if err != nil {
		metrics.IngestsTotal.WithLabelValues(docType, "error").Inc()
		return &IngestResult{
			Status:  "error",
			Message: fmt.Sprintf("Failed to ingest document: %v", err),
		}
	}

	count, err := store.AddTexts(ctx, chunks)
	if err != nil {
		metrics.IngestsTotal.WithLabelValues(docType, "error").Inc()
		return &IngestResult{
			Status:  "error",
			Message: fmt.Sprintf("Failed to ingest document: %v", err),
		}
	}

	metrics.IngestsTotal.WithLabelValues(docType, "success").Inc()
	metrics.IngestedChunksTotal.Add(float64(count))
	metrics.IngestDuration.Observe(time.Since(start).Seconds())

	logger.WithContext(ctx).Info("文档摄取完成",
		zap.String("doc_type", docType),
		zap.Int("chunks", count),
		zap.String("backend", store.Name()),
	)

	return &IngestResult{
		Status:  "success",
		Message: fmt.Sprintf("%s document ingested successfully. Created %d chunks.", capitalize(docType), count),
		Chunks:  count,
	}
}

// ingestError 将抽取错误映射为用户可读的错误结果
func ingestError(docType string, err error) *IngestResult {
	switch {
	case errors.Is(err, extract.ErrUnsupportedType):
		return &IngestResult{
			Status:  "error",
			Message: fmt.Sprintf("Document type '%s' not supported. Use 'text' or 'pdf'.", docType),
		}
	case errors.Is(err, extract.ErrNoExtractableText):
		return &IngestResult{
			Status:  "error",
			Message: "No extractable text found in PDF.",
		}
	default:
		return &IngestResult{
			Status:  "error",
			Message: fmt.Sprintf("Failed to ingest document: %v", err),
		}
	}
}

// qaPromptTemplate 检索增强问答提示词模板
const qaPromptTemplate = `Use the following pieces of context to answer the question at the end. If you don't know the answer, just say that you don't know, don't try to make up an answer.

%s

Question: %s
Helpful Answer:`

// Query 检索增强问答：向量检索 → 组装提示词 → 调用生成模型
// 检索结果为空时仍以空上下文调用生成模型，回答质量退化但不报错。
func (s *RAGService) Query(ctx context.Context, question string) (*QueryResult, error) {
	start := time.Now()

	store, err := s.stores.Store(ctx)
	if err != nil {
		metrics.QueriesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("向量存储不可用: %w", err)
	}

	docs, err := store.SimilaritySearch(ctx, question, s.topK)
	if err != nil {
		metrics.QueriesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("相似度检索失败: %w", err)
	}

	prompt := BuildPrompt(docs, question)

	answer, err := s.chat.Complete(ctx, prompt)
	if err != nil {
		metrics.QueriesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("生成回答失败: %w", err)
	}

	metrics.QueriesTotal.WithLabelValues("success").Inc()
	metrics.QueryDuration.Observe(time.Since(start).Seconds())

	logger.WithContext(ctx).Info("问答完成",
		zap.Int("retrieved", len(docs)),
		zap.String("backend", store.Name()),
	)

	return &QueryResult{Result: answer}, nil
}

// BuildPrompt 将检索到的分块与问题组装为提示词
func BuildPrompt(contexts []string, question string) string {
	return fmt.Sprintf(qaPromptTemplate, strings.Join(contexts, "\n\n"), question)
}

// capitalize 首字母大写
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
