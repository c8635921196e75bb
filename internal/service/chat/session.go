package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/KNICEX/ai-tutor/internal/service/llm"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

var ErrEmptyMessage = errors.New("message is empty")

// Session owns one transcript and forwards it to the model on every Send.
// Turns are only appended after the model answered, two at a time.
type Session struct {
	id       string
	gen      llm.Generator
	system   string
	config   llm.GenerationConfig
	followup string
	logger   zerolog.Logger
	seedErr  error

	mu    sync.Mutex
	turns []llm.Turn
}

type Option func(s *Session)

func WithID(id string) Option {
	return func(s *Session) {
		s.id = id
	}
}

// WithHistory seeds the transcript with prior turns. Every file referenced by
// the turns must already be active.
func WithHistory(turns ...llm.Turn) Option {
	return func(s *Session) {
		if err := checkFilesActive(turns); err != nil {
			s.seedErr = err
			return
		}
		s.turns = append(s.turns, cloneTurns(turns)...)
	}
}

func WithFollowupTemplate(tmpl string) Option {
	return func(s *Session) {
		s.followup = tmpl
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

func NewSession(gen llm.Generator, systemInstruction string, cfg llm.GenerationConfig, opts ...Option) (*Session, error) {
	s := &Session{
		gen:      gen,
		system:   systemInstruction,
		config:   cfg,
		followup: DefaultFollowupTemplate,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.seedErr != nil {
		return nil, s.seedErr
	}
	if err := validateTemplate(s.followup); err != nil {
		return nil, err
	}
	s.logger = s.logger.With().Str("session", s.id).Logger()
	return s, nil
}

func (s *Session) ID() string {
	return s.id
}

// Send appends text (and any attached active files) as a user turn, asks the
// model and appends its reply. On failure the transcript is left unchanged.
func (s *Session) Send(ctx context.Context, text string, attachments ...llm.RemoteFile) (llm.Turn, error) {
	prompt, err := userPrompt(text, attachments)
	if err != nil {
		return llm.Turn{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.send(ctx, prompt)
}

// DeriveFollowup embeds priorReply into the follow-up template and sends it
// as a new user turn.
func (s *Session) DeriveFollowup(ctx context.Context, priorReply string) (llm.Turn, error) {
	return s.Send(ctx, s.FollowupPrompt(priorReply))
}

// SendWithFollowup sends text and then the follow-up prompt built from the
// reply without letting another send in between. When only the follow-up
// fails, the reply is still returned together with the error.
func (s *Session) SendWithFollowup(ctx context.Context, text string, attachments ...llm.RemoteFile) (reply, followup llm.Turn, err error) {
	prompt, err := userPrompt(text, attachments)
	if err != nil {
		return llm.Turn{}, llm.Turn{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	reply, err = s.send(ctx, prompt)
	if err != nil {
		return llm.Turn{}, llm.Turn{}, err
	}
	followup, err = s.send(ctx, llm.UserTurn(s.FollowupPrompt(reply.Text())))
	if err != nil {
		return reply, llm.Turn{}, err
	}
	return reply, followup, nil
}

// send must be called with s.mu held.
func (s *Session) send(ctx context.Context, prompt llm.Turn) (llm.Turn, error) {
	reply, err := s.gen.Generate(ctx, llm.GenerateRequest{
		SystemInstruction: s.system,
		Config:            s.config,
		History:           cloneTurns(s.turns),
		Prompt:            prompt,
	})
	if err != nil {
		s.logger.Error().Err(err).Int("turns", len(s.turns)).Msg("failed to generate reply")
		var genErr *llm.GenerationError
		if !errors.As(err, &genErr) {
			err = llm.NewGenerationError(err)
		}
		return llm.Turn{}, err
	}
	reply.Role = llm.RoleModel
	s.turns = append(s.turns, prompt.Clone(), reply.Clone())
	s.logger.Debug().Int("turns", len(s.turns)).Msg("appended exchange")
	return reply, nil
}

func (s *Session) FollowupPrompt(priorReply string) string {
	return renderFollowup(s.followup, priorReply)
}

// Transcript returns a copy of every turn in order.
func (s *Session) Transcript() []llm.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTurns(s.turns)
}

func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.turns)
}

func userPrompt(text string, attachments []llm.RemoteFile) (llm.Turn, error) {
	if strings.TrimSpace(text) == "" {
		return llm.Turn{}, ErrEmptyMessage
	}
	prompt := llm.UserTurn(text, attachments...)
	if err := checkFilesActive([]llm.Turn{prompt}); err != nil {
		return llm.Turn{}, err
	}
	return prompt, nil
}

func cloneTurns(turns []llm.Turn) []llm.Turn {
	return lo.Map(turns, func(t llm.Turn, _ int) llm.Turn {
		return t.Clone()
	})
}

func checkFilesActive(turns []llm.Turn) error {
	for _, t := range turns {
		f, found := lo.Find(t.Files(), func(f llm.RemoteFile) bool {
			return f.State != llm.FileStateActive
		})
		if found {
			return fmt.Errorf("%w: %s is %s", llm.ErrFileNotActive, f.Name, f.State)
		}
	}
	return nil
}
