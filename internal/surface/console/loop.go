package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/KNICEX/ai-tutor/internal/service/display"
	"github.com/KNICEX/ai-tutor/internal/service/llm"
	"github.com/KNICEX/ai-tutor/internal/service/tutor"
	"github.com/KNICEX/ai-tutor/internal/surface"
	"github.com/rs/zerolog"
)

const (
	Title       = "Year 8 Python AI Tutor Chatbot"
	inputPrompt = "Enter your question or response for the tutor (type 'bye' to quit):"
	exitWord    = "bye"
)

var _ surface.Surface = (*Loop)(nil)

// Loop reads one line of student text per turn and renders the tutor's
// answers to a display sink.
type Loop struct {
	svc       *tutor.Service
	sessionID string
	in        io.Reader
	sink      display.Sink
	logger    zerolog.Logger
}

func NewLoop(svc *tutor.Service, sessionID string, in io.Reader, sink display.Sink, logger zerolog.Logger) *Loop {
	return &Loop{
		svc:       svc,
		sessionID: sessionID,
		in:        in,
		sink:      sink,
		logger:    logger,
	}
}

func (l *Loop) Name() string {
	return "console chat loop"
}

func (l *Loop) Run(ctx context.Context) error {
	session, err := l.svc.Sessions().Get(l.sessionID)
	if err != nil {
		return err
	}

	l.sink.Block(Title, "Ask the tutor questions about the unit, and it will guide you with content from the provided document.\n"+
		"Example questions:\n"+
		"- What should I focus on when learning Python programming?\n"+
		"- What's the difference between an algorithm and a programme?")
	l.replay(session.Transcript())

	readCtx, stopReading := context.WithCancel(ctx)
	defer stopReading()
	lines, scanErr := l.readLines(readCtx)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		l.sink.Notice("\n" + inputPrompt)

		var line string
		select {
		case <-ctx.Done():
			return ctx.Err()
		case text, ok := <-lines:
			if !ok {
				return *scanErr
			}
			line = text
		}

		text := strings.TrimSpace(line)
		if strings.EqualFold(text, exitWord) {
			l.sink.Notice("Goodbye!")
			return nil
		}
		if text == "" {
			continue
		}
		l.ask(ctx, text)
	}
}

// readLines scans input on its own goroutine so a blocked read never keeps
// Run from seeing ctx. scanErr is only valid once lines is closed.
func (l *Loop) readLines(ctx context.Context) (<-chan string, *error) {
	lines := make(chan string)
	var scanErr error
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(l.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr = scanner.Err()
	}()
	return lines, &scanErr
}

func (l *Loop) ask(ctx context.Context, text string) {
	ex, err := l.svc.Ask(ctx, l.sessionID, text)
	if len(ex.Reply.Parts) > 0 {
		l.sink.Block(display.LabelReply, ex.Reply.Text())
	}
	if ex.Followup != nil {
		l.sink.Block(display.LabelFollowup, ex.Followup.Text())
	}
	if err != nil {
		l.logger.Error().Err(err).Str("session", l.sessionID).Msg("tutor request failed")
		l.sink.Error(err)
	}
}

func (l *Loop) replay(turns []llm.Turn) {
	for _, t := range turns {
		text := t.Text()
		if text == "" {
			continue
		}
		label := display.LabelReply
		if t.Role == llm.RoleUser {
			label = display.LabelUser
			if n := len(t.Files()); n > 0 {
				text = fmt.Sprintf("%s\n[%d attached document(s)]", text, n)
			}
		}
		l.sink.Block(label, text)
	}
}
