package ai

import "context"

// ChatClient 生成服务适配器
// 对上层是不透明的外部协作者：输入组装好的提示词，返回自由文本补全。
type ChatClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Name() string
}
