package report

import "context"

// MarkSource supplies the marks sheet that reports are computed from
type MarkSource interface {
	Marks(ctx context.Context) ([]MarkRecord, error)
}

// FileSource reads a CSV file on every call so edits show up immediately
type FileSource struct {
	Path string
}

// NewFileSource creates a source over the CSV at path
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Marks implements MarkSource
func (s *FileSource) Marks(ctx context.Context) ([]MarkRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ReadMarksFile(s.Path)
}
