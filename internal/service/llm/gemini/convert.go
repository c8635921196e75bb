package gemini

import (
	"strings"

	"github.com/KNICEX/ai-tutor/internal/service/llm"
	"github.com/google/generative-ai-go/genai"
	"github.com/samber/lo"
)

func toContents(turns []llm.Turn) []*genai.Content {
	return lo.Map(turns, func(t llm.Turn, _ int) *genai.Content {
		return &genai.Content{
			Role:  string(t.Role),
			Parts: toParts(t.Parts),
		}
	})
}

func toParts(parts []llm.Part) []genai.Part {
	return lo.Map(parts, func(p llm.Part, _ int) genai.Part {
		if p.File != nil {
			return genai.FileData{MIMEType: p.File.MIMEType, URI: p.File.URI}
		}
		return genai.Text(p.Text)
	})
}

func toRemoteFile(f *genai.File) llm.RemoteFile {
	return llm.RemoteFile{
		Name:        f.Name,
		DisplayName: f.DisplayName,
		URI:         f.URI,
		MIMEType:    f.MIMEType,
		State:       toFileState(f.State),
	}
}

func toFileState(state genai.FileState) llm.FileState {
	switch state {
	case genai.FileStateProcessing:
		return llm.FileStateProcessing
	case genai.FileStateActive:
		return llm.FileStateActive
	case genai.FileStateFailed:
		return llm.FileStateFailed
	default:
		return llm.FileStatePending
	}
}

// parseResponse joins the text parts of the first candidate. ok is false when
// there is no candidate or the candidate carries anything but text.
func parseResponse(resp *genai.GenerateContentResponse) (string, bool) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", false
	}
	var resStr strings.Builder
	for i, part := range resp.Candidates[0].Content.Parts {
		if part == nil {
			continue
		}
		text, ok := part.(genai.Text)
		if !ok {
			return "", false
		}
		if i > 0 {
			resStr.WriteString("\n")
		}
		resStr.WriteString(string(text))
	}
	return resStr.String(), resStr.Len() > 0
}
