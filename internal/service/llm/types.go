package llm

import (
	"context"
	"strings"

	"github.com/samber/lo"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

type FileState string

const (
	FileStatePending    FileState = "pending"
	FileStateProcessing FileState = "processing"
	FileStateActive     FileState = "active"
	FileStateFailed     FileState = "failed"
)

// Terminal reports whether no further transition is expected.
func (s FileState) Terminal() bool {
	return s == FileStateActive || s == FileStateFailed
}

// RemoteFile 上传到模型服务端的文件句柄
type RemoteFile struct {
	Name        string    `json:"name"` // 服务端资源名, 如 files/abc123
	DisplayName string    `json:"display_name"`
	LocalPath   string    `json:"local_path"`
	URI         string    `json:"uri"`
	MIMEType    string    `json:"mime_type"`
	State       FileState `json:"state"`
}

// Part is either plain text or a reference to an uploaded file.
type Part struct {
	Text string      `json:"text,omitempty"`
	File *RemoteFile `json:"file,omitempty"`
}

func TextPart(text string) Part {
	return Part{Text: text}
}

func FilePart(f RemoteFile) Part {
	return Part{File: &f}
}

func (p Part) IsFile() bool {
	return p.File != nil
}

type Turn struct {
	Role  Role   `json:"role"`
	Parts []Part `json:"parts"`
}

func UserTurn(text string, files ...RemoteFile) Turn {
	parts := lo.Map(files, func(f RemoteFile, _ int) Part {
		return FilePart(f)
	})
	return Turn{Role: RoleUser, Parts: append(parts, TextPart(text))}
}

func ModelTurn(text string) Turn {
	return Turn{Role: RoleModel, Parts: []Part{TextPart(text)}}
}

// Text joins the text parts of the turn with newlines.
func (t Turn) Text() string {
	texts := lo.FilterMap(t.Parts, func(p Part, _ int) (string, bool) {
		return p.Text, !p.IsFile() && p.Text != ""
	})
	return strings.Join(texts, "\n")
}

func (t Turn) Files() []RemoteFile {
	return lo.FilterMap(t.Parts, func(p Part, _ int) (RemoteFile, bool) {
		if p.File == nil {
			return RemoteFile{}, false
		}
		return *p.File, true
	})
}

// Clone returns a deep copy, file references included.
func (t Turn) Clone() Turn {
	parts := lo.Map(t.Parts, func(p Part, _ int) Part {
		if p.File != nil {
			f := *p.File
			p.File = &f
		}
		return p
	})
	return Turn{Role: t.Role, Parts: parts}
}

type GenerationConfig struct {
	Temperature      float32 `mapstructure:"temperature"`
	TopP             float32 `mapstructure:"top_p"`
	TopK             int32   `mapstructure:"top_k"`
	MaxOutputTokens  int32   `mapstructure:"max_output_tokens"`
	ResponseMIMEType string  `mapstructure:"response_mime_type"`
}

type GenerateRequest struct {
	SystemInstruction string
	Config            GenerationConfig
	// History 已有对话, 按时间顺序
	History []Turn
	Prompt  Turn
}

// Generator produces the next model turn for a transcript.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (Turn, error)
}

// FileStore uploads documents and reports their processing state.
type FileStore interface {
	Upload(ctx context.Context, path, mimeType string) (RemoteFile, error)
	Status(ctx context.Context, f RemoteFile) (FileState, error)
}
