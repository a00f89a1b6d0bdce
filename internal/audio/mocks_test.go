package audio_test

import (
	"context"
	"os"
	"slices"
	"sync"
	"time"
)

// mockPipeRunner records every ffmpeg invocation.
type mockPipeRunner struct {
	mu    sync.Mutex
	calls []pipeCall

	PipeFunc func(ctx context.Context, path string, args []string, stdin []byte) ([]byte, error)
}

type pipeCall struct {
	Path  string
	Args  []string
	Stdin []byte
}

func (m *mockPipeRunner) Pipe(ctx context.Context, path string, args []string, stdin []byte) ([]byte, error) {
	m.mu.Lock()
	m.calls = append(m.calls, pipeCall{Path: path, Args: slices.Clone(args), Stdin: stdin})
	m.mu.Unlock()
	if m.PipeFunc != nil {
		return m.PipeFunc(ctx, path, args, stdin)
	}
	return nil, nil
}

func (m *mockPipeRunner) Calls() []pipeCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.calls)
}

// mockStatter reports the listed paths as existing files.
type mockStatter struct {
	files map[string]bool // path -> isDir
}

func (m mockStatter) Stat(name string) (os.FileInfo, error) {
	isDir, ok := m.files[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	return mockFileInfo{name: name, isDir: isDir}, nil
}

type mockFileInfo struct {
	name  string
	isDir bool
}

func (m mockFileInfo) Name() string       { return m.name }
func (m mockFileInfo) Size() int64        { return 0 }
func (m mockFileInfo) Mode() os.FileMode  { return 0644 }
func (m mockFileInfo) ModTime() time.Time { return time.Time{} }
func (m mockFileInfo) IsDir() bool        { return m.isDir }
func (m mockFileInfo) Sys() any           { return nil }
