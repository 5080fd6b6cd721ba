package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/youpy/go-riff"
)

var (
	ErrIOFailure           = errors.New("unreadable file")
	ErrBadHeader           = errors.New("not a RIFF/WAVE container")
	ErrMissingFormat       = errors.New("no valid fmt chunk")
	ErrMissingData         = errors.New("no data chunk")
	ErrUnsupportedBitDepth = errors.New("unsupported bit depth")
)

// DecodeError reports why a container could not be decoded. It unwraps to one of the
// sentinel errors above.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return "decode: " + e.Err.Error()
	}
	return "decode " + e.Path + ": " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error { return e.Err }

const (
	headerSize   = 12
	fmtChunkSize = 16
)

// WaveFormat is the payload of a "fmt " chunk.
type WaveFormat struct {
	FormatCode    uint16
	Channels      uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
}

// DecodeFile reads and decodes the container at path.
func DecodeFile(path string) (*Sample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: fmt.Errorf("%w: %w", ErrIOFailure, err)}
	}
	snd, err := Decode(data)
	if err != nil {
		var derr *DecodeError
		if errors.As(err, &derr) {
			derr.Path = path
		}
		return nil, err
	}
	return snd, nil
}

// Decode parses a RIFF/WAVE container holding 16-bit linear PCM. Chunks other than
// "fmt " and "data" are skipped, in any order. Odd-sized chunks are expected to carry
// the RIFF pad byte.
func Decode(data []byte) (*Sample, error) {
	chunks, err := readChunks(data)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}

	var (
		format  WaveFormat
		hasFmt  bool
		payload []byte
		hasData bool
	)
	for _, c := range chunks {
		switch string(c.ChunkID) {
		case "fmt ":
			if hasFmt {
				continue
			}
			body, err := io.ReadAll(c)
			if err != nil {
				return nil, &DecodeError{Err: fmt.Errorf("%w: %w", ErrIOFailure, err)}
			}
			if len(body) < fmtChunkSize {
				return nil, &DecodeError{Err: fmt.Errorf("%w: fmt chunk is %d bytes", ErrMissingFormat, len(body))}
			}
			format = WaveFormat{
				FormatCode:    binary.LittleEndian.Uint16(body[0:2]),
				Channels:      binary.LittleEndian.Uint16(body[2:4]),
				SampleRate:    binary.LittleEndian.Uint32(body[4:8]),
				ByteRate:      binary.LittleEndian.Uint32(body[8:12]),
				BlockAlign:    binary.LittleEndian.Uint16(body[12:14]),
				BitsPerSample: binary.LittleEndian.Uint16(body[14:16]),
			}
			hasFmt = true
		case "data":
			if hasData {
				continue
			}
			// a data chunk cut short by the end of the file yields what is present
			payload, err = io.ReadAll(c)
			if err != nil {
				return nil, &DecodeError{Err: fmt.Errorf("%w: %w", ErrIOFailure, err)}
			}
			hasData = true
		}
	}

	switch {
	case !hasFmt:
		return nil, &DecodeError{Err: ErrMissingFormat}
	case format.Channels == 0 || format.SampleRate == 0:
		return nil, &DecodeError{Err: fmt.Errorf("%w: %d channels at %dHz", ErrMissingFormat, format.Channels, format.SampleRate)}
	case format.BitsPerSample != 16:
		return nil, &DecodeError{Err: fmt.Errorf("%w: %d bits", ErrUnsupportedBitDepth, format.BitsPerSample)}
	case !hasData:
		return nil, &DecodeError{Err: ErrMissingData}
	}

	pcm := make([]int16, len(payload)/2)
	for i := range pcm {
		pcm[i] = int16(binary.LittleEndian.Uint16(payload[i*2:]))
	}
	return NewSample(pcm, int(format.SampleRate), int(format.Channels)), nil
}

// readChunks lists the chunks of a RIFF/WAVE container. The container size in the
// header is clamped so the walk stops at the last complete chunk header in data; a
// chunk whose size runs past the end is listed with what is present.
func readChunks(data []byte) (chunks []*riff.Chunk, err error) {
	if len(data) < headerSize {
		return nil, ErrBadHeader
	}
	buf := bytes.Clone(data)
	// the reader walks while the absolute offset is below the size field
	limit := min(binary.LittleEndian.Uint32(buf[4:8]), uint32(len(buf)-8)) + 1
	binary.LittleEndian.PutUint32(buf[4:8], limit)

	defer func() {
		// go-riff panics when a read fails
		if r := recover(); r != nil {
			chunks, err = nil, fmt.Errorf("%w: %v", ErrBadHeader, r)
		}
	}()
	src := &forwardReader{Reader: bytes.NewReader(buf), last: -1, walking: true}
	c, err := riff.NewReader(src).Read()
	src.walking = false
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	if string(c.FileType) != "WAVE" {
		return nil, fmt.Errorf("%w: file type %q", ErrBadHeader, c.FileType)
	}
	return c.Chunks, nil
}

var errChunkOverlap = errors.New("chunk size wraps the container offset")

// forwardReader rejects reads behind the previous one while the chunk list is walked,
// which only happens when a chunk size overflows the 32-bit offset.
type forwardReader struct {
	*bytes.Reader
	last    int64
	walking bool
}

func (r *forwardReader) ReadAt(p []byte, off int64) (int, error) {
	if r.walking {
		if off <= r.last {
			return 0, errChunkOverlap
		}
		r.last = off
	}
	return r.Reader.ReadAt(p, off)
}
