// Package sources opens captured search tool output for the scan pipeline.
package sources

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mholt/archives"

	"github.com/qgrepcode/qgrepcode/logging"
	"github.com/qgrepcode/qgrepcode/scan"
)

// Stdin is the input name that selects standard input.
const Stdin = "-"

// ErrArchive is returned for inputs that hold several files, such as tar or
// zip archives. Only single compressed streams are read.
var ErrArchive = errors.New("archives are not supported")

var stdin io.Reader = os.Stdin

// Open opens the named input. Compressed input (gzip, zstd, xz, ...) is
// decompressed transparently.
func Open(ctx context.Context, name string) (io.ReadCloser, error) {
	var (
		r      io.Reader
		closer io.Closer
		path   = name
	)
	if name == Stdin {
		// the caller owns stdin
		r, closer, path = stdin, io.NopCloser(stdin), ""
	} else {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		r, closer = f, f
	}

	format, stream, err := archives.Identify(ctx, path, r)
	switch {
	case errors.Is(err, archives.NoMatch):
		logging.Trace().Str("input", name).Msg("reading uncompressed input")
		return readCloser{Reader: stream, closers: []io.Closer{closer}}, nil
	case err != nil:
		_ = closer.Close()
		return nil, fmt.Errorf("identify %s: %w", name, err)
	}

	if _, ok := format.(archives.Extractor); ok {
		_ = closer.Close()
		return nil, fmt.Errorf("%s: %w (%s)", name, ErrArchive, format.Extension())
	}
	dec, ok := format.(archives.Decompressor)
	if !ok {
		_ = closer.Close()
		return nil, fmt.Errorf("%s: unsupported format %s", name, format.Extension())
	}
	rc, err := dec.OpenReader(stream)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("decompress %s: %w", name, err)
	}
	logging.Debug().Str("input", name).Str("format", format.Extension()).Msg("decompressing input")
	return readCloser{Reader: rc, closers: []io.Closer{rc, closer}}, nil
}

// OpenAll opens every input as a pipeline source. The returned function
// closes all of them. No inputs means standard input.
func OpenAll(ctx context.Context, names []string) ([]scan.Source, func() error, error) {
	if len(names) == 0 {
		names = []string{Stdin}
	}

	var (
		srcs    []scan.Source
		closers []io.Closer
	)
	closeAll := func() error {
		var errs []error
		for _, c := range closers {
			errs = append(errs, c.Close())
		}
		return errors.Join(errs...)
	}
	for _, name := range names {
		rc, err := Open(ctx, name)
		if err != nil {
			_ = closeAll()
			return nil, nil, err
		}
		closers = append(closers, rc)
		srcs = append(srcs, scan.Source{Name: name, Reader: rc})
	}
	return srcs, closeAll, nil
}

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (rc readCloser) Close() error {
	var errs []error
	for _, c := range rc.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
