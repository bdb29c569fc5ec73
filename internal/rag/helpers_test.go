package rag

import (
	"context"
	"errors"
	"math"
	"strings"
	"unicode"
)

// fakeEmbedder 确定性向量化器：26 维字母频率向量
// 相同文本必然得到相同向量，词面重合度越高余弦相似度越高。
type fakeEmbedder struct {
	failWith error
}

func (f *fakeEmbedder) embedOne(text string) []float32 {
	vec := make([]float32, 26)
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' {
			vec[r-'a']++
		} else if unicode.IsLetter(r) {
			vec[int(r)%26]++
		}
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= scale
		}
	}
	return vec
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.embedOne(text), nil
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = f.embedOne(t)
	}
	return out, nil
}

func (f *fakeEmbedder) GetModel() string        { return "letter-frequency" }
func (f *fakeEmbedder) GetProviderName() string { return "fake" }

// fakeChat 记录收到的提示词并返回固定回答
type fakeChat struct {
	answer     string
	lastPrompt string
	failWith   error
}

func (f *fakeChat) Complete(_ context.Context, prompt string) (string, error) {
	if f.failWith != nil {
		return "", f.failWith
	}
	f.lastPrompt = prompt
	return f.answer, nil
}

func (f *fakeChat) Name() string { return "fake" }

// fixedStoreProvider 直接返回给定的向量存储
type fixedStoreProvider struct {
	store VectorStore
	err   error
}

func (p *fixedStoreProvider) Store(_ context.Context) (VectorStore, error) {
	return p.store, p.err
}

var errFakeUnavailable = errors.New("backend unavailable")
