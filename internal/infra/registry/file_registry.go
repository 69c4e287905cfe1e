package registry

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"payment-status-bot/internal/domain"
	"payment-status-bot/internal/domain/model"
	"payment-status-bot/internal/domain/ports/repository"
	"payment-status-bot/internal/infra/metrics"

	"github.com/rs/zerolog"
)

var _ repository.Registry = (*FileRegistry)(nil)

// FileRegistry keeps registrations in an append-only text file, one
// "chatId,accountId" record per line, mirrored by a last-wins Index.
type FileRegistry struct {
	path  string
	log   *zerolog.Logger
	index *Index

	mu   sync.Mutex // serialises appends
	file *os.File
}

// Open loads path into memory and keeps an append handle for Register.
// A missing file (and its directory) is created empty.
func Open(path string, logger *zerolog.Logger) (*FileRegistry, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: create dir: %v", domain.ErrRegistryUnavailable, err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrRegistryUnavailable, path, err)
	}

	idx := NewIndex()
	skipped, err := ReadLog(f, func(rec model.Registration) { idx.Put(rec.ChatID, rec.AccountID) })
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %v", domain.ErrRegistryUnavailable, err)
	}
	if err := ensureTrailingNewline(f); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %v", domain.ErrRegistryUnavailable, err)
	}

	logger.Info().Str("path", path).Int("chats", idx.Len()).Int("skipped", skipped).Msg("registry loaded")
	metrics.SetRegistryEntries(idx.Len())
	metrics.AddRegistrySkipped(skipped)

	return &FileRegistry{path: path, log: logger, index: idx, file: f}, nil
}

// ensureTrailingNewline terminates a last line left unterminated by a crash
// so the next append starts on a fresh line.
func ensureTrailingNewline(f *os.File) error {
	st, err := f.Stat()
	if err != nil {
		return err
	}
	if st.Size() == 0 {
		return nil
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, st.Size()-1); err != nil {
		return err
	}
	if last[0] == '\n' {
		return nil
	}
	if _, err := f.Write([]byte("\n")); err != nil {
		return err
	}
	return f.Sync()
}

func (r *FileRegistry) Lookup(_ context.Context, chatID int64) (string, bool) {
	return r.index.Get(chatID)
}

// Register appends one record with a single write and fsyncs it before the
// index is updated. A failed write leaves the index untouched.
func (r *FileRegistry) Register(_ context.Context, chatID int64, accountID string) error {
	acc, err := model.NormalizeAccountID(accountID)
	if err != nil {
		return err
	}
	line := FormatLine(chatID, acc)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return fmt.Errorf("%w: closed", domain.ErrRegistryUnavailable)
	}
	if _, err := r.file.WriteString(line); err != nil {
		metrics.IncRegistration(false)
		return fmt.Errorf("%w: append: %v", domain.ErrRegistryUnavailable, err)
	}
	if err := r.file.Sync(); err != nil {
		metrics.IncRegistration(false)
		return fmt.Errorf("%w: sync: %v", domain.ErrRegistryUnavailable, err)
	}
	r.index.Put(chatID, acc)
	metrics.IncRegistration(true)
	metrics.SetRegistryEntries(r.index.Len())
	r.log.Debug().Int64("chat_id", chatID).Msg("registry entry appended")
	return nil
}

func (r *FileRegistry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	if err != nil && !errors.Is(err, os.ErrClosed) {
		return err
	}
	return nil
}
