package gemini

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/KNICEX/ai-tutor/internal/service/llm"
	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
)

var (
	_ llm.Generator = (*Service)(nil)
	_ llm.FileStore = (*Service)(nil)
)

const DefaultModel = "learnlm-1.5-pro-experimental"

var errEmptyResponse = errors.New("gemini returned no text candidate")

type Service struct {
	client    *genai.Client
	modelName string
	logger    zerolog.Logger
}

func NewService(client *genai.Client, opts ...Option) *Service {
	svc := &Service{
		client:    client,
		modelName: DefaultModel,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type Option func(service *Service)

func WithModel(name string) Option {
	return func(service *Service) {
		if name != "" {
			service.modelName = name
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(service *Service) {
		service.logger = logger
	}
}

func (s *Service) ModelName() string {
	return s.modelName
}

func (s *Service) Generate(ctx context.Context, req llm.GenerateRequest) (llm.Turn, error) {
	model := s.client.GenerativeModel(s.modelName)
	applyConfig(model, req.Config)
	if req.SystemInstruction != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.SystemInstruction)},
		}
	}

	session := model.StartChat()
	session.History = toContents(req.History)

	s.logger.Debug().
		Int("history", len(req.History)).
		Str("model", s.modelName).
		Msg("sending message to gemini")

	resp, err := session.SendMessage(ctx, toParts(req.Prompt.Parts)...)
	if err != nil {
		return llm.Turn{}, llm.NewGenerationError(err)
	}
	text, ok := parseResponse(resp)
	if !ok {
		return llm.Turn{}, llm.NewGenerationError(errEmptyResponse)
	}
	if resp.UsageMetadata != nil {
		s.logger.Debug().
			Int32("input_token", resp.UsageMetadata.PromptTokenCount).
			Int32("output_token", resp.UsageMetadata.CandidatesTokenCount).
			Msg("gemini usage")
	}
	return llm.ModelTurn(text), nil
}

func (s *Service) Upload(ctx context.Context, path, mimeType string) (llm.RemoteFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return llm.RemoteFile{}, err
	}
	defer f.Close()

	file, err := s.client.UploadFile(ctx, "", f, &genai.UploadFileOptions{
		DisplayName: filepath.Base(path),
		MIMEType:    mimeType,
	})
	if err != nil {
		return llm.RemoteFile{}, err
	}
	s.logger.Info().Str("name", file.Name).Str("uri", file.URI).Msg("uploaded file")

	remote := toRemoteFile(file)
	remote.LocalPath = path
	return remote, nil
}

func (s *Service) Status(ctx context.Context, f llm.RemoteFile) (llm.FileState, error) {
	file, err := s.client.GetFile(ctx, f.Name)
	if err != nil {
		return "", fmt.Errorf("get file %s: %w", f.Name, err)
	}
	return toFileState(file.State), nil
}

func applyConfig(model *genai.GenerativeModel, cfg llm.GenerationConfig) {
	model.SetTemperature(cfg.Temperature)
	if cfg.TopP > 0 {
		model.SetTopP(cfg.TopP)
	}
	if cfg.TopK > 0 {
		model.SetTopK(cfg.TopK)
	}
	if cfg.MaxOutputTokens > 0 {
		model.SetMaxOutputTokens(cfg.MaxOutputTokens)
	}
	model.ResponseMIMEType = cfg.ResponseMIMEType
}
