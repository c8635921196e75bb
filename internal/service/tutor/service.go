package tutor

import (
	"context"

	"github.com/KNICEX/ai-tutor/internal/service/chat"
	"github.com/KNICEX/ai-tutor/internal/service/llm"
	"github.com/rs/zerolog"
)

// Exchange is the outcome of one student message.
type Exchange struct {
	Question llm.Turn  `json:"question"`
	Reply    llm.Turn  `json:"reply"`
	Followup *llm.Turn `json:"followup,omitempty"`
}

type Service struct {
	sessions *chat.Manager
	followup bool
	logger   zerolog.Logger
}

func NewService(sessions *chat.Manager, followup bool, logger zerolog.Logger) *Service {
	return &Service{
		sessions: sessions,
		followup: followup,
		logger:   logger,
	}
}

// NewSessionFactory returns a chat.Factory that seeds every session with
// history and the configured follow-up template.
func NewSessionFactory(gen llm.Generator, systemInstruction string, cfg Config, history []llm.Turn, logger zerolog.Logger) chat.Factory {
	return func(ctx context.Context, id string) (*chat.Session, error) {
		return newSession(gen, systemInstruction, cfg, history, id, logger)
	}
}

// NewDeferredSessionFactory is like NewSessionFactory but builds the seed
// history from docs, waiting for them to settle first. Sessions created after
// a failed upload start without documents.
func NewDeferredSessionFactory(gen llm.Generator, systemInstruction string, cfg Config, docs *Documents, logger zerolog.Logger) chat.Factory {
	return func(ctx context.Context, id string) (*chat.Session, error) {
		files, err := docs.Wait(ctx)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if err != nil {
			logger.Warn().Err(err).Str("session", id).Msg("starting session without documents")
		}
		return newSession(gen, systemInstruction, cfg, SeedHistory(cfg, files), id, logger)
	}
}

func newSession(gen llm.Generator, systemInstruction string, cfg Config, history []llm.Turn, id string, logger zerolog.Logger) (*chat.Session, error) {
	opts := []chat.Option{
		chat.WithID(id),
		chat.WithHistory(history...),
		chat.WithLogger(logger),
	}
	if cfg.FollowupTemplate != "" {
		opts = append(opts, chat.WithFollowupTemplate(chat.ResolveFollowupTemplate(cfg.FollowupTemplate)))
	}
	return chat.NewSession(gen, systemInstruction, cfg.Generation, opts...)
}

func (s *Service) Sessions() *chat.Manager {
	return s.sessions
}

// Ask sends text on the session identified by sessionID and, when follow-ups
// are enabled, asks the model for a follow-up question on its reply. If only
// the follow-up fails, the returned exchange still carries the reply.
func (s *Service) Ask(ctx context.Context, sessionID, text string) (Exchange, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return Exchange{}, err
	}

	exchange := Exchange{Question: llm.UserTurn(text)}
	if !s.followup {
		reply, err := session.Send(ctx, text)
		if err != nil {
			return Exchange{}, err
		}
		exchange.Reply = reply
		return exchange, nil
	}

	reply, followup, err := session.SendWithFollowup(ctx, text)
	if err != nil {
		if len(reply.Parts) == 0 {
			return Exchange{}, err
		}
		s.logger.Warn().Err(err).Str("session", sessionID).Msg("failed to derive follow-up question")
		exchange.Reply = reply
		return exchange, err
	}
	exchange.Reply = reply
	exchange.Followup = &followup
	return exchange, nil
}
