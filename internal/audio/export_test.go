package audio

// Export internal functions for testing.
// This file is only compiled during tests (suffix _test.go).

// DecodeArgs exports decodeArgs for testing.
var DecodeArgs = decodeArgs

// EncodeArgs exports encodeArgs for testing.
var EncodeArgs = encodeArgs

// PipeRunner exports pipeRunner interface for testing.
type PipeRunner = pipeRunner

// FileStatter exports fileStatter interface for testing.
type FileStatter = fileStatter
