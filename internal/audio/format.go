package audio

import (
	"fmt"
	"strings"
)

// Format is an output container for saved chunks. Its value is the file
// extension.
type Format string

// Supported output formats.
const (
	FormatMP3  Format = "mp3"
	FormatOGG  Format = "ogg"
	FormatWAV  Format = "wav"
	FormatFLAC Format = "flac"
)

// DefaultFormat is used when no format is configured.
const DefaultFormat = FormatMP3

// Formats lists the supported output formats.
func Formats() []Format {
	return []Format{FormatMP3, FormatOGG, FormatWAV, FormatFLAC}
}

// ParseFormat parses a case-insensitive format name, with or without a
// leading dot.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")))
	if _, ok := codecArgs[f]; !ok {
		return "", fmt.Errorf("%w: %q (supported: mp3, ogg, wav, flac)", ErrUnsupportedFormat, s)
	}
	return f, nil
}

// Ext returns the file extension without the dot.
func (f Format) Ext() string {
	return string(f)
}

var codecArgs = map[Format][]string{
	FormatMP3:  {"-acodec", "mp3"},
	FormatOGG:  {"-acodec", "libvorbis", "-q:a", "2"},
	FormatWAV:  {"-acodec", "pcm_s16le"},
	FormatFLAC: {"-acodec", "flac"},
}
