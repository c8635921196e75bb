package console

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/KNICEX/ai-tutor/internal/service/chat"
	"github.com/KNICEX/ai-tutor/internal/service/display"
	"github.com/KNICEX/ai-tutor/internal/service/llm"
	"github.com/KNICEX/ai-tutor/internal/service/tutor"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type block struct {
	label string
	text  string
}

type recordingSink struct {
	blocks  []block
	notices []string
	errs    []error
}

func (r *recordingSink) Block(label, text string) {
	r.blocks = append(r.blocks, block{label: label, text: text})
}
func (r *recordingSink) Notice(text string) { r.notices = append(r.notices, text) }
func (r *recordingSink) Error(err error) { r.errs = append(r.errs, err) }

type mockGenerator struct {
	calls int
	errs  []error
}

func (m *mockGenerator) Generate(ctx context.Context, req llm.GenerateRequest) (llm.Turn, error) {
	call := m.calls
	m.calls++
	if call < len(m.errs) && m.errs[call] != nil {
		return llm.Turn{}, m.errs[call]
	}
	return llm.ModelTurn("tutor: " + req.Prompt.Text()), nil
}

func newTestLoop(t *testing.T, gen llm.Generator, input string) (*Loop, *recordingSink, *chat.Session) {
	cfg := tutor.DefaultConfig()
	factory := tutor.NewSessionFactory(gen, tutor.SystemInstruction(cfg, ""), cfg, tutor.SeedHistory(cfg, nil), zerolog.Nop())
	svc := tutor.NewService(chat.NewManager(factory, zerolog.Nop()), true, zerolog.Nop())
	session, err := svc.Sessions().Create(context.Background())
	require.NoError(t, err)

	sink := &recordingSink{}
	return NewLoop(svc, session.ID(), strings.NewReader(input), sink, zerolog.Nop()), sink, session
}

func TestLoop_Run(t *testing.T) {
	loop, sink, session := newTestLoop(t, &mockGenerator{}, "What is Python?\n\n  \nbye\nignored\n")

	require.NoError(t, loop.Run(context.Background()))

	assert.Equal(t, 5, session.Len())
	require.Len(t, sink.blocks, 4)
	assert.Equal(t, Title, sink.blocks[0].label)
	assert.Equal(t, block{label: display.LabelReply, text: tutor.DefaultGreeting}, sink.blocks[1])
	assert.Equal(t, block{label: display.LabelReply, text: "tutor: What is Python?"}, sink.blocks[2])
	assert.Equal(t, display.LabelFollowup, sink.blocks[3].label)
	assert.Contains(t, sink.notices, "Goodbye!")
	assert.Empty(t, sink.errs)
}

func TestLoop_DisplaysErrorsAndContinues(t *testing.T) {
	cause := errors.New("quota exceeded")
	loop, sink, session := newTestLoop(t, &mockGenerator{errs: []error{cause}}, "first\nsecond\n")

	require.NoError(t, loop.Run(context.Background()))

	require.Len(t, sink.errs, 1)
	assert.ErrorIs(t, sink.errs[0], cause)
	// 第二条成功: greeting + 4
	assert.Equal(t, 5, session.Len())
}

func TestLoop_Cancelled(t *testing.T) {
	loop, _, _ := newTestLoop(t, &mockGenerator{}, "hello\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, loop.Run(ctx), context.Canceled)
}

func TestLoop_CancelWhileWaitingForInput(t *testing.T) {
	cfg := tutor.DefaultConfig()
	factory := tutor.NewSessionFactory(&mockGenerator{}, tutor.SystemInstruction(cfg, ""), cfg, tutor.SeedHistory(cfg, nil), zerolog.Nop())
	svc := tutor.NewService(chat.NewManager(factory, zerolog.Nop()), true, zerolog.Nop())
	session, err := svc.Sessions().Create(context.Background())
	require.NoError(t, err)

	// 从不写入的输入, 模拟学生停在提示符
	in, w := io.Pipe()
	defer w.Close()
	loop := NewLoop(svc, session.ID(), in, &recordingSink{}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- loop.Run(ctx)
	}()
	time.AfterFunc(50*time.Millisecond, cancel)

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after ctx was cancelled")
	}
}
