package recorder

import (
	"context"
	"fmt"
	"os"
	"sync"

	"SignalSentinel/internal/model"
)

// entryTimeLayout matches the "YYYY-MM-DD HH:MM:SS.ffffff" form of the log.
const entryTimeLayout = "2006-01-02 15:04:05.000000"

// FileRecorder appends one "<timestamp> - <batch text>" entry per batch to a
// text file. The file is opened and closed on every write.
type FileRecorder struct {
	path string
	mu   sync.Mutex
}

func NewFileRecorder(path string) *FileRecorder {
	return &FileRecorder{path: path}
}

func (r *FileRecorder) Append(_ context.Context, batch model.AlertBatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", ErrPersist, r.path, err)
	}
	entry := fmt.Sprintf("%s - %s\n", batch.CreatedAt.Format(entryTimeLayout), batch.Text())
	if _, err := f.WriteString(entry); err != nil {
		f.Close()
		return fmt.Errorf("%w: write %s: %w", ErrPersist, r.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", ErrPersist, r.path, err)
	}
	return nil
}

func (r *FileRecorder) Close() error { return nil }
