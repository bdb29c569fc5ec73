package nl2sql

import (
	"context"
	"fmt"

	"backend/internal/ai"
)

// Result 自然语言转 SQL 的结果
// 只生成 SQL 文本，从不执行；result 字段为占位说明。
type Result struct {
	SQL    string `json:"sql"`
	Result string `json:"result"`
}

// Service 自然语言转 SQL 服务：单次提示词调用，无查询执行
type Service struct {
	chat ai.ChatClient
}

// NewService 创建 NL2SQL 服务
func NewService(chat ai.ChatClient) *Service {
	return &Service{chat: chat}
}

const nl2sqlPromptTemplate = `
    You are an expert in translating natural language to SQL. Given the question, generate a SQL query.
    Question: %s
    SQL:`

// Translate 将自然语言问题翻译为 SQL 文本
func (s *Service) Translate(ctx context.Context, question string) (*Result, error) {
	sql, err := s.chat.Complete(ctx, fmt.Sprintf(nl2sqlPromptTemplate, question))
	if err != nil {
		return nil, fmt.Errorf("生成 SQL 失败: %w", err)
	}

	return &Result{
		SQL:    sql,
		Result: "[MOCKED] DB results would appear here.",
	}, nil
}
