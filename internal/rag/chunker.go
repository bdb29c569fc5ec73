package rag

import (
	"crypto/sha256"
	"fmt"
	"unicode"
)

// Chunker 文档分块器
// 滑动窗口切分：后一块从前一块末尾回退 ChunkOverlap 个字符开始，
// 保证块边界处的语义上下文不丢失。
type Chunker struct {
	ChunkSize    int // 分块大小(字符数)
	ChunkOverlap int // 重叠大小(字符数)
}

// NewChunker 创建新的分块器
// chunkSize: 每个分块的最大字符数
// chunkOverlap: 相邻分块之间的重叠字符数
func NewChunker(chunkSize, chunkOverlap int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = 500 // 默认500字符
	}
	if chunkOverlap < 0 {
		chunkOverlap = 0
	}
	if chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize / 10 // 重叠不小于大小时视为无效配置
	} else if chunkOverlap > chunkSize/2 {
		// findBreak 最早在窗口中点切分；重叠超过一半时窗口可能无法前进，
		// 重叠不变式也随之失效，因此钳制到一半
		chunkOverlap = chunkSize / 2
	}

	return &Chunker{
		ChunkSize:    chunkSize,
		ChunkOverlap: chunkOverlap,
	}
}

// Split 将文本切分为带重叠的有序分块
// 纯函数：同一输入与配置必然产生相同输出。
// 空文本产生 0 个分块；短于 ChunkSize 的文本产生恰好 1 个分块。
func (c *Chunker) Split(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	if len(runes) <= c.ChunkSize {
		return []string{text}
	}

	chunks := make([]string, 0, len(runes)/(c.ChunkSize-c.ChunkOverlap)+1)
	start := 0

	for {
		end := start + c.ChunkSize
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}

		cut := c.findBreak(runes, start, end)
		chunks = append(chunks, string(runes[start:cut]))

		next := cut - c.ChunkOverlap
		if next <= start {
			// 极端配置下保证前进，避免死循环
			next = cut
		}
		start = next
	}

	return chunks
}

// findBreak 在窗口 (start, end] 内选择切分点
// 优先在较大的语义边界断开：段落 > 句子 > 词 > 硬切。
// 为避免产生过小的分块，只在窗口后半段内回找边界。
func (c *Chunker) findBreak(runes []rune, start, end int) int {
	lo := start + c.ChunkSize/2

	// 段落边界：空行之后
	for i := end - 1; i > lo; i-- {
		if runes[i] == '\n' && runes[i-1] == '\n' {
			return i + 1
		}
	}

	// 句子边界：句末标点且后随空白
	for i := end - 1; i > lo; i-- {
		if isSentenceEnd(runes[i]) && i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			return i + 1
		}
	}

	// 词边界
	for i := end - 1; i > lo; i-- {
		if unicode.IsSpace(runes[i]) {
			return i + 1
		}
	}

	// 硬切
	return end
}

// isSentenceEnd 判断是否为句末标点
func isSentenceEnd(r rune) bool {
	switch r {
	case '.', '!', '?', '。', '！', '？':
		return true
	}
	return false
}

// hashContent 计算内容哈希
func hashContent(content string) string {
	hash := sha256.Sum256([]byte(content))
	return fmt.Sprintf("%x", hash)
}
