package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dslipak/pdf"

	"backend/internal/logger"

	"go.uber.org/zap"
)

// PDFExtractor PDF 文本抽取器
// 按页序抽取文本并以换行拼接，无法抽取文本的页（如扫描页）跳过而不中断整篇。
type PDFExtractor struct{}

// NewPDFExtractor 创建 PDF 抽取器
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// Extract 解析 PDF 字节流并抽取文本
// 整篇无可抽取文本时返回 ErrNoExtractableText，与解析失败区分。
func (e *PDFExtractor) Extract(data []byte) (text string, err error) {
	// dslipak/pdf 对个别损坏文件会 panic，统一转换为解析错误
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("解析 PDF 失败: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("打开 PDF 失败: %w", err)
	}

	var buf strings.Builder
	numPages := reader.NumPage()

	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		// 无内容流的空白页合法但没有可抽取文本，
		// 且 dslipak/pdf 对其词法分析不会终止，必须在此跳过
		if page.V.IsNull() || page.V.Key("Contents").IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// 单页失败只记录，继续处理剩余页面
			logger.Warn("解析 PDF 页面失败",
				zap.Int("page", i),
				zap.Error(err),
			)
			continue
		}
		if pageText == "" {
			continue
		}

		buf.WriteString(pageText)
		buf.WriteString("\n") // 页面间换行分隔
	}

	if strings.TrimSpace(buf.String()) == "" {
		return "", ErrNoExtractableText
	}

	return buf.String(), nil
}
