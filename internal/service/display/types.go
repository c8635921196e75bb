package display

const (
	LabelUser     = "You:"
	LabelReply    = "AI Tutor Response"
	LabelFollowup = "Follow-up Question"
)

// Sink renders text to the user. It is write-only.
type Sink interface {
	Block(label, text string)
	Notice(text string)
	Error(err error)
}

type discard struct{}

func (discard) Block(string, string) {}
func (discard) Notice(string) {}
func (discard) Error(error) {}

var Discard Sink = discard{}
