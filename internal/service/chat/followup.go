package chat

import (
	"fmt"
	"strings"
)

const replyPlaceholder = "{reply}"

const (
	DefaultFollowupTemplate  = "Based on the student's answer: {reply}, ask a Socratic question to deepen their understanding."
	ThoughtProvokingTemplate = "Based on this response: {reply}, ask the student a thought-provoking question that checks their understanding."
)

// followupPresets are the template names accepted in config.
var followupPresets = map[string]string{
	"socratic":          DefaultFollowupTemplate,
	"thought_provoking": ThoughtProvokingTemplate,
}

// ResolveFollowupTemplate maps a preset name to its template. Anything else
// is taken as a literal template.
func ResolveFollowupTemplate(nameOrTemplate string) string {
	if tmpl, ok := followupPresets[strings.TrimSpace(nameOrTemplate)]; ok {
		return tmpl
	}
	return nameOrTemplate
}

func validateTemplate(tmpl string) error {
	if !strings.Contains(tmpl, replyPlaceholder) {
		return fmt.Errorf("follow-up template must contain %s", replyPlaceholder)
	}
	return nil
}

func renderFollowup(tmpl, reply string) string {
	return strings.ReplaceAll(tmpl, replyPlaceholder, reply)
}
