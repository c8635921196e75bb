package tutor

import (
	"strings"

	"github.com/KNICEX/ai-tutor/internal/service/llm"
)

// SystemInstruction builds the fixed persona and curriculum scope. guideText
// is the extracted unit guide and may be empty.
func SystemInstruction(cfg Config, guideText string) string {
	var sb strings.Builder
	sb.WriteString(cfg.Persona)
	if cfg.Topic != "" {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(cfg.Topic)
	}
	if guideText = strings.TrimSpace(guideText); guideText != "" {
		sb.WriteString("\n\nUnit guide:\n")
		sb.WriteString(guideText)
	}
	return sb.String()
}

// SeedHistory is the transcript every new session starts from: the attached
// documents, if any, then the model's opening question.
func SeedHistory(cfg Config, files []llm.RemoteFile) []llm.Turn {
	var turns []llm.Turn
	if len(files) > 0 {
		turns = append(turns, llm.UserTurn(cfg.DocumentPrompt, files...))
	}
	if cfg.Greeting != "" {
		turns = append(turns, llm.ModelTurn(cfg.Greeting))
	}
	return turns
}
