package generator

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"github.com/iWorld-y/news_writer/app/news_writer/pkg/config"
)

// NewOpenAIChatModel 按配置创建 OpenAI 兼容的 chat model
func NewOpenAIChatModel(ctx context.Context, cfg config.LLMConfig) (model.BaseChatModel, error) {
	temperature := cfg.Temperature
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL:     cfg.BaseURL,
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		Temperature: &temperature,
		Timeout:     time.Duration(cfg.Timeout) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}
	return chatModel, nil
}
