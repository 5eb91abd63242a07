package source

import (
	"context"
	"io"
	"os"
)

type FileState struct {
	FilePath string
}

func NewFileState(filePath string) *FileState {
	return &FileState{FilePath: filePath}
}

func (f *FileState) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(f.FilePath)
}

// ReaderState reads everything from r once, e.g. stdin.
type ReaderState struct {
	r io.Reader
}

func NewReaderState(r io.Reader) *ReaderState {
	return &ReaderState{r: r}
}

func (s *ReaderState) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return io.ReadAll(s.r)
}
