package transcribe

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Exports for testing. These allow black-box tests to inject dependencies
// without modifying the public API.

// NewTestTranscriber creates an OpenAITranscriber around a mock client.
func NewTestTranscriber(client audioTranscriber, opts ...TranscriberOption) *OpenAITranscriber {
	return newOpenAITranscriber(client, opts...)
}

// AudioTranscriber exports audioTranscriber for mocks.
type AudioTranscriber = audioTranscriber

// Function exports for unit testing internal logic.
var (
	ClassifyError    = classifyError
	IsRetryableError = isRetryableError
)

// Retry exports retry for string-valued functions.
func Retry(ctx context.Context, retries int, base, maxDelay time.Duration, fn func() (string, error), shouldRetry func(error) bool) (string, error) {
	return retry(ctx, backoff{retries: retries, base: base, max: maxDelay}, zap.NewNop(), fn, shouldRetry)
}
