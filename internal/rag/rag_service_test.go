package rag

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"backend/internal/extract"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRAGService(t *testing.T, chat *fakeChat) *RAGService {
	t.Helper()

	store, err := NewLocalVectorStore(t.TempDir(), &fakeEmbedder{})
	require.NoError(t, err)

	return NewRAGService(
		extract.NewRegistry(),
		NewChunker(500, 50),
		&fixedStoreProvider{store: store},
		chat,
		4,
	)
}

func TestRAGService_Ingest_Text(t *testing.T) {
	svc := newTestRAGService(t, &fakeChat{answer: "ok"})

	text := strings.Repeat("Hello world. ", 100)
	result := svc.Ingest(context.Background(), []byte(text), "text")

	assert.Equal(t, "success", result.Status)
	assert.Greater(t, result.Chunks, 1)
	assert.Contains(t, result.Message, "Text document ingested successfully.")
	assert.Contains(t, result.Message, "chunks")
}

func TestRAGService_Ingest_ShortText(t *testing.T) {
	svc := newTestRAGService(t, &fakeChat{answer: "ok"})

	result := svc.Ingest(context.Background(), []byte("one short document"), "text")

	assert.Equal(t, "success", result.Status)
	assert.Equal(t, 1, result.Chunks)
}

func TestRAGService_Ingest_UnsupportedType(t *testing.T) {
	svc := newTestRAGService(t, &fakeChat{answer: "ok"})

	result := svc.Ingest(context.Background(), []byte("whatever"), "docx")

	assert.Equal(t, "error", result.Status)
	assert.Contains(t, result.Message, "not supported")
	assert.Zero(t, result.Chunks)
}

// blankPagePDF 构造一个单页且无内容流的最小合法 PDF
func blankPagePDF() []byte {
	var buf bytes.Buffer
	offsets := make([]int, 3)
	buf.WriteString("%PDF-1.4\n")

	write := func(n int, body string) {
		offsets[n-1] = buf.Len()
		buf.WriteString(body)
	}
	write(1, "1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	write(2, "2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
	write(3, "3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>\nendobj\n")

	xref := buf.Len()
	buf.WriteString("xref\n0 4\n")
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		buf.WriteString(fmt.Sprintf("%010d 00000 n \n", off))
	}
	buf.WriteString(fmt.Sprintf("trailer\n<< /Size 4 /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", xref))
	return buf.Bytes()
}

func TestRAGService_Ingest_PDFWithoutText(t *testing.T) {
	store, err := NewLocalVectorStore(t.TempDir(), &fakeEmbedder{})
	require.NoError(t, err)

	svc := NewRAGService(
		extract.NewRegistry(),
		NewChunker(500, 50),
		&fixedStoreProvider{store: store},
		&fakeChat{answer: "ok"},
		4,
	)

	ctx := context.Background()
	result := svc.Ingest(ctx, blankPagePDF(), "pdf")

	assert.Equal(t, "error", result.Status)
	assert.Equal(t, "No extractable text found in PDF.", result.Message)
	assert.Zero(t, result.Chunks)

	// 失败的摄取不得向存储写入任何记录
	docs, err := store.SimilaritySearch(ctx, "anything", 4)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestRAGService_Ingest_GarbagePDF(t *testing.T) {
	svc := newTestRAGService(t, &fakeChat{answer: "ok"})

	result := svc.Ingest(context.Background(), []byte("this is not a pdf"), "pdf")

	assert.Equal(t, "error", result.Status)
	assert.NotEmpty(t, result.Message)
}

func TestRAGService_Ingest_StoreUnavailable(t *testing.T) {
	svc := NewRAGService(
		extract.NewRegistry(),
		NewChunker(500, 50),
		&fixedStoreProvider{err: errFakeUnavailable},
		&fakeChat{answer: "ok"},
		4,
	)

	result := svc.Ingest(context.Background(), []byte("text"), "text")

	assert.Equal(t, "error", result.Status)
	assert.Contains(t, result.Message, "Failed to ingest document")
}

func TestRAGService_Query_EndToEnd(t *testing.T) {
	chat := &fakeChat{answer: "The document repeats hello world."}
	svc := newTestRAGService(t, chat)

	ctx := context.Background()
	ingest := svc.Ingest(ctx, []byte(strings.Repeat("Hello world. ", 100)), "text")
	require.Equal(t, "success", ingest.Status)

	result, err := svc.Query(ctx, "What does the document say?")
	require.NoError(t, err)
	assert.Equal(t, "The document repeats hello world.", result.Result)

	// 提示词应包含检索到的上下文与原始问题
	assert.Contains(t, chat.lastPrompt, "Hello world.")
	assert.Contains(t, chat.lastPrompt, "Question: What does the document say?")
	assert.Contains(t, chat.lastPrompt, "Helpful Answer:")
}

func TestRAGService_Query_EmptyIndex(t *testing.T) {
	chat := &fakeChat{answer: "I don't know."}
	svc := newTestRAGService(t, chat)

	// 空索引不报错，以空上下文调用生成模型
	result, err := svc.Query(context.Background(), "anything indexed?")
	require.NoError(t, err)
	assert.Equal(t, "I don't know.", result.Result)
}

func TestRAGService_Query_ChatFailure(t *testing.T) {
	svc := newTestRAGService(t, &fakeChat{failWith: errFakeUnavailable})

	_, err := svc.Query(context.Background(), "question")
	assert.Error(t, err)
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt([]string{"chunk one", "chunk two"}, "what?")

	assert.Contains(t, prompt, "chunk one\n\nchunk two")
	assert.Contains(t, prompt, "Question: what?")
	assert.True(t, strings.HasSuffix(prompt, "Helpful Answer:"))
}
