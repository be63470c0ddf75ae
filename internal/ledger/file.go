package ledger

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"

	errorvalues "github.com/limbo/accountability/internal/error_values"
	"github.com/limbo/accountability/pkg/entity"
)

const (
	DefaultFilePath = "data/pool-reset.json"
	lockRetries     = 50
	lockSpacing     = 20 * time.Millisecond
	staleLockAge    = 30 * time.Second
)

// File keeps the record as a small JSON document. Writes go through a temp file and rename.
type File struct {
	path string
}

func NewFile(path string) *File {
	if path == "" {
		path = DefaultFilePath
	}
	return &File{path: path}
}

func (f *File) Read(_ context.Context) (*entity.PoolResetRecord, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.New("reading pool reset file error: " + err.Error())
	}
	var rec entity.PoolResetRecord
	if err := sonic.ConfigStd.Unmarshal(data, &rec); err != nil {
		return nil, errors.New("decoding pool reset file error: " + err.Error())
	}
	if rec.LastResetWeekStart == "" {
		return nil, nil
	}
	if err := ValidateWeekStart(rec.LastResetWeekStart); err != nil {
		return nil, fmt.Errorf("pool reset file holds %q: %w", rec.LastResetWeekStart, err)
	}
	return &rec, nil
}

func (f *File) Write(_ context.Context, rec entity.PoolResetRecord) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return errors.New("creating ledger dir error: " + err.Error())
	}
	data, err := sonic.ConfigStd.MarshalIndent(rec, "", "  ")
	if err != nil {
		return errors.New("encoding pool reset record error: " + err.Error())
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".pool-reset-*.tmp")
	if err != nil {
		return errors.New("creating temp ledger file error: " + err.Error())
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.New("writing temp ledger file error: " + err.Error())
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.New("syncing temp ledger file error: " + err.Error())
	}
	if err := tmp.Close(); err != nil {
		return errors.New("closing temp ledger file error: " + err.Error())
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return errors.New("replacing ledger file error: " + err.Error())
	}
	return nil
}

// WriteIfAbsent holds a lock file across processes while it checks and writes.
func (f *File) WriteIfAbsent(ctx context.Context, rec entity.PoolResetRecord) (entity.PoolResetRecord, error) {
	unlock, err := f.lock(ctx)
	if err != nil {
		return entity.PoolResetRecord{}, err
	}
	defer unlock()

	current, err := f.Read(ctx)
	if err == nil && current != nil {
		return *current, nil
	}
	if err := f.Write(ctx, rec); err != nil {
		return entity.PoolResetRecord{}, err
	}
	return rec, nil
}

func (f *File) lock(ctx context.Context) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return nil, errors.New("creating ledger dir error: " + err.Error())
	}
	lockPath := f.path + ".lock"
	for i := 0; i < lockRetries; i++ {
		lf, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if err == nil {
			lf.Close()
			return func() { os.Remove(lockPath) }, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, errors.New("creating ledger lock error: " + err.Error())
		}
		// a crashed holder leaves the lock behind
		if info, statErr := os.Stat(lockPath); statErr == nil && time.Since(info.ModTime()) > staleLockAge {
			os.Remove(lockPath)
			continue
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockSpacing):
		}
	}
	return nil, errorvalues.ErrLedgerLocked
}
