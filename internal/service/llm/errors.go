package llm

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/googleapi"
)

var ErrFileNotActive = errors.New("file is not active")

// UploadError 上传调用失败
type UploadError struct {
	Path string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s: %v", e.Path, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// FileProcessingFailed is returned when a remote file settles in a non-active
// terminal state.
type FileProcessingFailed struct {
	File RemoteFile
}

func (e *FileProcessingFailed) Error() string {
	name := e.File.DisplayName
	if name == "" {
		name = e.File.Name
	}
	return fmt.Sprintf("file %s (%s) failed to process", name, e.File.Name)
}

// GenerationError wraps any failure of a generation call. Network, auth,
// quota and content filtering all end up here; Retryable is the only
// distinction made.
type GenerationError struct {
	Err       error
	Retryable bool
}

func NewGenerationError(err error) *GenerationError {
	return &GenerationError{Err: err, Retryable: retryable(err)}
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err is a failure worth submitting again later.
func IsRetryable(err error) bool {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr.Retryable
	}
	var upErr *UploadError
	if errors.As(err, &upErr) {
		return retryable(upErr.Err)
	}
	return false
}

func retryable(err error) bool {
	if err == nil {
		return false
	}
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return false
	}
	code := httpCode(err)
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func httpCode(err error) int {
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPCode() > 0 {
		return apiErr.HTTPCode()
	}
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return gErr.Code
	}
	return 0
}
