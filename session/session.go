// Package session owns a decoded save while it is being edited: it picks
// the format, decodes, tracks whether anything changed and backs up the
// original before handing out new bytes.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/andreyvit/savecodec"
	"github.com/andreyvit/savecodec/backup"
)

type Options struct {
	Registry *Registry // defaults to DefaultRegistry()
	Format   string    // force a format by name instead of picking one

	// Backups receives the original bytes on every Save. Optional.
	Backups *backup.Store

	Logger *slog.Logger
}

type Session struct {
	name    string
	format  *Format
	root    savecodec.Value
	backups *backup.Store
	logger  *slog.Logger

	original []byte
	origSum  uint64

	errMu  sync.Mutex
	errors []error
}

// Open decodes data, read from the file called name, into a new session.
// Decoding runs on its own goroutine; if ctx is cancelled first, Open
// returns ctx.Err() and the result is discarded.
func Open(ctx context.Context, name string, data []byte, o Options) (*Session, error) {
	if o.Registry == nil {
		o.Registry = DefaultRegistry()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}

	var format *Format
	if o.Format != "" {
		format = o.Registry.Lookup(o.Format)
		if format == nil {
			return nil, fmt.Errorf("%s: %w %q", name, ErrUnknownFormat, o.Format)
		}
	} else {
		var err error
		format, err = o.Registry.Pick(name, data)
		if err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data = slices.Clone(data)
	root := format.New()
	done := make(chan error, 1)
	go func() {
		done <- savecodec.Decode(data, root)
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case err := <-done:
		if err != nil {
			attrs := []slog.Attr{slog.String("name", name), slog.String("format", format.Name), slog.Any("err", err)}
			o.Logger.LogAttrs(ctx, slog.LevelWarn, "session: decode failed", append(attrs, savecodec.ErrorAttrs(err)...)...)
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}

	o.Logger.LogAttrs(ctx, slog.LevelDebug, "session: opened", slog.String("name", name), slog.String("format", format.Name), slog.Int("size", len(data)))
	return &Session{
		name:     name,
		format:   format,
		root:     root,
		backups:  o.Backups,
		logger:   o.Logger,
		original: data,
		origSum:  xxhash.Sum64(data),
	}, nil
}

func (s *Session) Name() string    { return s.name }
func (s *Session) Format() *Format { return s.format }

// Root is the decoded tree. Edits made through it are what Save writes.
func (s *Session) Root() savecodec.Value { return s.root }

// Draw exposes the whole tree to an editor.
func (s *Session) Draw(ed savecodec.Editor) {
	s.root.DrawRaw(ed, "")
}

func (s *Session) Encode() []byte {
	return savecodec.Encode(s.root)
}

// Dirty reports whether saving would produce different bytes than the
// file was last read or saved as.
func (s *Session) Dirty() bool {
	return xxhash.Sum64(s.Encode()) != s.origSum
}

// Save backs up the bytes the session was opened (or last saved) with and
// returns the new encoding for the caller to write. If the backup fails,
// nothing is returned.
func (s *Session) Save(ctx context.Context) ([]byte, error) {
	data := s.Encode()
	if s.backups != nil {
		m, err := s.backups.Put(ctx, s.name, s.format.Name, s.original)
		if err != nil {
			err = fmt.Errorf("backing up %s before saving: %w", s.name, err)
			s.ReportError(err)
			return nil, err
		}
		s.logger.LogAttrs(ctx, slog.LevelInfo, "session: backed up", slog.String("name", s.name), slog.String("sum", m.SumString()))
	}
	s.original = data
	s.origSum = xxhash.Sum64(data)
	return slices.Clone(data), nil
}

// Restore replaces the tree with a backed-up version of this save. The
// session becomes dirty relative to what was last saved.
func (s *Session) Restore(ctx context.Context, sum uint64) error {
	if s.backups == nil {
		return fmt.Errorf("%s: no backup store", s.name)
	}
	data, err := s.backups.Get(s.name, sum)
	if err != nil {
		s.ReportError(err)
		return err
	}
	root := s.format.New()
	if err := savecodec.Decode(data, root); err != nil {
		err = fmt.Errorf("%s@%s: %w", s.name, backup.FormatSum(sum), err)
		s.ReportError(err)
		return err
	}
	s.root = root
	s.logger.LogAttrs(ctx, slog.LevelInfo, "session: restored", slog.String("name", s.name), slog.String("sum", backup.FormatSum(sum)))
	return nil
}

// ReportError adds err to the list shown to the user.
func (s *Session) ReportError(err error) {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	s.errors = append(s.errors, err)
}

func (s *Session) Errors() []error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return slices.Clone(s.errors)
}

// DismissError removes the i-th error from the list.
func (s *Session) DismissError(i int) {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	if i >= 0 && i < len(s.errors) {
		s.errors = slices.Delete(s.errors, i, i+1)
	}
}
