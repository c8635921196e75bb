package ioc

import (
	"context"

	"github.com/KNICEX/ai-tutor/internal/service/llm/gemini"
	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"google.golang.org/api/option"
)

func InitGeminiCli() *genai.Client {
	apiKey := viper.GetString("llm.gemini.api_key")
	if apiKey == "" {
		panic("no gemini api key set, export GEMINI_API_KEY or set llm.gemini.api_key")
	}

	cli, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		panic(err)
	}
	return cli
}

func InitLLMService(cli *genai.Client, logger zerolog.Logger) *gemini.Service {
	return gemini.NewService(cli,
		gemini.WithModel(viper.GetString("llm.gemini.model")),
		gemini.WithLogger(logger.With().Str("component", "gemini").Logger()),
	)
}
