package audio

import (
	"context"
	"os"

	"github.com/alnah/go-vadsplit/internal/ffmpeg"
)

// pipeRunner runs ffmpeg feeding stdin and returning stdout.
type pipeRunner interface {
	Pipe(ctx context.Context, ffmpegPath string, args []string, stdin []byte) ([]byte, error)
}

// fileStatter retrieves file information.
type fileStatter interface {
	Stat(name string) (os.FileInfo, error)
}

// --- Default implementations using real OS functions ---

var (
	_ pipeRunner  = (*ffmpeg.Executor)(nil)
	_ fileStatter = osFileStatter{}
)

// osFileStatter implements fileStatter using os.Stat.
type osFileStatter struct{}

func (osFileStatter) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}
