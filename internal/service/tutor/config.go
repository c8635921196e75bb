package tutor

import (
	"github.com/KNICEX/ai-tutor/internal/service/chat"
	"github.com/KNICEX/ai-tutor/internal/service/file"
	"github.com/KNICEX/ai-tutor/internal/service/llm"
)

const (
	DefaultPersona = "Be a friendly, supportive tutor. Guide the student to meet their goals, gently\n" +
		"nudging them on task if they stray. Ask guiding questions to help your students\n" +
		"take incremental steps toward understanding big concepts, and ask probing\n" +
		"questions to help them dig deep into those ideas. Pose just one question per\n" +
		"conversation turn so you don't overwhelm the student. Wrap up this conversation\n" +
		"once the student has shown evidence of understanding."
	DefaultTopic    = "The topic is from the Key Stage 3 Computer Science Curriculum for year 8 an Introduction to Python programming."
	DefaultGreeting = "Let's begin! What's the difference between an algorithm and a programme?"
	// DefaultDocumentPrompt accompanies attached documents in the seeded history.
	DefaultDocumentPrompt = "Use this unit guide to answer the student's questions and to choose what to ask next."
)

type Config struct {
	Persona          string               `mapstructure:"persona"`
	Topic            string               `mapstructure:"topic"`
	Greeting         string               `mapstructure:"greeting"`
	GuidePDF         string               `mapstructure:"guide_pdf"`
	Documents        []file.Document      `mapstructure:"documents"`
	DocumentPrompt   string               `mapstructure:"document_prompt"`
	Followup         bool                 `mapstructure:"followup"`
	FollowupTemplate string               `mapstructure:"followup_template"`
	Generation       llm.GenerationConfig `mapstructure:"generation"`
}

func DefaultConfig() Config {
	return Config{
		Persona:          DefaultPersona,
		Topic:            DefaultTopic,
		Greeting:         DefaultGreeting,
		DocumentPrompt:   DefaultDocumentPrompt,
		Followup:         true,
		FollowupTemplate: chat.DefaultFollowupTemplate,
		Generation: llm.GenerationConfig{
			Temperature:      1,
			TopP:             0.95,
			TopK:             64,
			MaxOutputTokens:  8192,
			ResponseMIMEType: "text/plain",
		},
	}
}
