package layout

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/arloliu/nuklei/errs"
	"github.com/arloliu/nuklei/internal/mmap"
)

// Mode selects what a deferred handle does on first access.
type Mode uint8

const (
	// ModeAttach maps an existing file.
	ModeAttach Mode = iota
	// ModeCreate creates a new file and maps it.
	ModeCreate
)

func (m Mode) String() string {
	switch m {
	case ModeAttach:
		return "attach"
	case ModeCreate:
		return "create"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

type state uint8

const (
	stateUnmapped state = iota
	stateMapped
	stateClosed
)

// handle is the mapping lifecycle shared by Control and Streams.
type handle struct {
	path  string
	mode  Mode
	cfg   *HandleConfig
	state state
	data  []byte
}

// acquire maps the file on first use. A failed mapping leaves the handle
// unmapped so a later access can retry.
func (h *handle) acquire(mapFn func() ([]byte, error)) error {
	switch h.state {
	case stateMapped:
		return nil
	case stateClosed:
		return fmt.Errorf("%w: %s", errs.ErrLayoutClosed, h.path)
	}

	data, err := mapFn()
	if err != nil {
		return err
	}

	h.data = data
	h.state = stateMapped

	return nil
}

func (h *handle) release() error {
	if h.state == stateClosed {
		return nil
	}

	prev := h.state
	h.state = stateClosed
	if prev == stateUnmapped {
		return nil
	}

	data := h.data
	h.data = nil
	if err := mmap.Unmap(data); err != nil {
		return err
	}

	h.logger().Debug("unmapped layout file", slog.String("path", h.path), slog.Int("size", len(data)))

	return nil
}

// flush writes dirty pages of a mapped file back to disk. An unmapped handle
// has nothing to write.
func (h *handle) flush() error {
	switch h.state {
	case stateUnmapped:
		return nil
	case stateClosed:
		return fmt.Errorf("%w: %s", errs.ErrLayoutClosed, h.path)
	}

	if err := mmap.Sync(h.data); err != nil {
		return fmt.Errorf("flush %s: %w", h.path, err)
	}
	h.logger().Debug("flushed layout file", slog.String("path", h.path), slog.Int("size", len(h.data)))

	return nil
}

func (h *handle) logger() *slog.Logger {
	return h.cfg.logger
}

// createMapped creates path with exactly size zeroed bytes and maps all of it.
// On failure nothing is left behind.
func createMapped(path string, size int, cfg *HandleConfig) (data []byte, err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create parent of %s: %w", path, err)
	}

	flags := os.O_RDWR | os.O_CREATE | os.O_EXCL
	if cfg.overwrite {
		flags = os.O_RDWR | os.O_CREATE | os.O_TRUNC
	}

	f, err := os.OpenFile(path, flags, cfg.fileMode)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("%w: %s", errs.ErrAlreadyExists, path)
		}

		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	if err = f.Truncate(int64(size)); err != nil {
		return nil, fmt.Errorf("truncate %s: %w", path, err)
	}

	data, err = mmap.Map(f, size)
	if err != nil {
		return nil, err
	}

	cfg.logger.Debug("created layout file", slog.String("path", path), slog.Int("size", size))

	return data, nil
}

// attachMapped maps an existing file. sizeFn inspects the file size and the
// file itself and returns how many bytes to map.
func attachMapped(path string, cfg *HandleConfig, sizeFn func(f *os.File, fileSize int64) (int, error)) ([]byte, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", errs.ErrNotFound, path)
		}

		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	size, err := sizeFn(f, info.Size())
	if err != nil {
		return nil, err
	}

	data, err := mmap.Map(f, size)
	if err != nil {
		return nil, err
	}

	cfg.logger.Debug("attached layout file", slog.String("path", path), slog.Int("size", size))

	return data, nil
}

func undersized(path string, have int64, want int) error {
	return fmt.Errorf("%w: %s is %d bytes, layout needs %d", errs.ErrNotFound, path, have, want)
}
