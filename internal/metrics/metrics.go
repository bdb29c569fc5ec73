package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 摄取指标
var (
	// IngestsTotal 文档摄取总数
	IngestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "knowledge_ingests_total",
			Help: "文档摄取总数",
		},
		[]string{"doc_type", "status"},
	)

	// IngestedChunksTotal 已索引分块总数
	IngestedChunksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "knowledge_ingested_chunks_total",
			Help: "已索引分块总数",
		},
	)

	// IngestDuration 摄取耗时（秒）
	IngestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "knowledge_ingest_duration_seconds",
			Help:    "文档摄取耗时分布",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
	)
)

// 查询指标
var (
	// QueriesTotal RAG 查询总数
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "knowledge_queries_total",
			Help: "RAG 查询总数",
		},
		[]string{"status"},
	)

	// QueryDuration RAG 查询耗时（秒）
	QueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "knowledge_query_duration_seconds",
			Help:    "RAG 查询耗时分布",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
	)
)

// 后端选择指标
var (
	// VectorBackendSelected 向量存储后端选择结果（进程内只会递增一次）
	VectorBackendSelected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "knowledge_vector_backend_selected_total",
			Help: "向量存储后端选择结果",
		},
		[]string{"backend"},
	)
)

// API 指标
var (
	// APIRequestsTotal API 请求总数
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "knowledge_api_requests_total",
			Help: "API 请求总数",
		},
		[]string{"method", "path", "status"},
	)
)
