package extract

import (
	"errors"
	"fmt"
)

// 抽取错误分类：不支持的类型与"解析成功但无文本"需要区分，
// 上层据此生成不同的用户提示。
var (
	ErrUnsupportedType   = errors.New("document type not supported")
	ErrNoExtractableText = errors.New("no extractable text")
)

// Extractor 将原始上传字节转换为纯文本
type Extractor interface {
	Extract(data []byte) (string, error)
}

// Registry 按 doc_type 分发抽取器
type Registry struct {
	extractors map[string]Extractor
}

// NewRegistry 创建注册表并注册默认抽取器
func NewRegistry() *Registry {
	r := &Registry{
		extractors: make(map[string]Extractor),
	}

	r.Register("text", NewTextExtractor())
	r.Register("pdf", NewPDFExtractor())

	return r
}

// Register 注册抽取器
func (r *Registry) Register(docType string, e Extractor) {
	r.extractors[docType] = e
}

// Extract 根据 doc_type 选择抽取器并执行
// 未知类型在任何解码发生之前即被拒绝。
func (r *Registry) Extract(data []byte, docType string) (string, error) {
	e, ok := r.extractors[docType]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, docType)
	}
	return e.Extract(data)
}
