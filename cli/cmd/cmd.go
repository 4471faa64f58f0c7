package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
)

type (
	kongContextKey struct{}
	sourcesKey     struct{}
	stdinKey       struct{}
	stdoutKey      struct{}
)

// WithContext returns a context carrying the parsed command line.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, kongContextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, _ := ctx.Value(kongContextKey{}).(*kong.Context)

	return ktx
}

// WithSourceFiles returns a context carrying the paths that commands read
// expressions from when none are given as arguments. The path "-" names
// standard input.
func WithSourceFiles(ctx context.Context, paths []string) context.Context {
	return context.WithValue(ctx, sourcesKey{}, paths)
}

// WithStdin overrides the reader used for standard input.
func WithStdin(ctx context.Context, r io.Reader) context.Context {
	return context.WithValue(ctx, stdinKey{}, r)
}

// WithStdout overrides the writer commands print results to.
func WithStdout(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, stdoutKey{}, w)
}

func stdinFrom(ctx context.Context) io.Reader {
	if r, ok := ctx.Value(stdinKey{}).(io.Reader); ok && r != nil {
		return r
	}

	return os.Stdin
}

func stdoutFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(stdoutKey{}).(io.Writer); ok && w != nil {
		return w
	}

	return os.Stdout
}

// stdinSource is the path that names standard input.
const stdinSource = "-"

// sources reads the configured source files in order, followed by standard
// input when it was named.
type sources struct {
	files  []*os.File
	reader io.Reader
}

func (s *sources) Read(p []byte) (int, error) { return s.reader.Read(p) }

// Close closes every opened file. Standard input is left open.
func (s *sources) Close() error {
	var errs []error

	for _, f := range s.files {
		errs = append(errs, f.Close())
	}

	return errors.Join(errs...)
}

// openSources opens the source files stored in ctx. Without any, it reads
// standard input.
//
// Paths are deduplicated by device and inode, so a file named twice through
// different paths or symlinks is read once. Standard input is read last
// regardless of where "-" appears.
func openSources(ctx context.Context) (*sources, error) {
	paths, _ := ctx.Value(sourcesKey{}).([]string)
	stdin := stdinFrom(ctx)

	if len(paths) == 0 {
		return &sources{reader: stdin}, nil
	}

	var (
		src      sources
		readers  []io.Reader
		useStdin bool
		seen     = make(map[fileKey]struct{})
	)

	if f, ok := stdin.(*os.File); ok {
		if info, err := f.Stat(); err == nil {
			if key, ok := makeFileKey(info); ok {
				seen[key] = struct{}{}
			}
		}
	}

	for _, path := range paths {
		if path == stdinSource {
			useStdin = true

			continue
		}

		f, dup, err := openUnique(path, seen)
		if err != nil {
			_ = src.Close()

			return nil, ErrOpenSource.Wrap(err).With(slog.String("path", path))
		}

		if dup {
			continue
		}

		src.files = append(src.files, f)
		readers = append(readers, f)
	}

	if useStdin {
		readers = append(readers, stdin)
	}

	src.reader = io.MultiReader(readers...)

	return &src, nil
}

// fileKey identifies a file by device and inode.
type fileKey struct {
	dev uint64
	ino uint64
}

// openUnique opens path unless a file with the same identity was already
// seen. Files whose identity cannot be determined are always opened.
func openUnique(path string, seen map[fileKey]struct{}) (*os.File, bool, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil, false, err
	}

	f, err := os.Open(resolved)
	if err != nil {
		return nil, false, err
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()

		return nil, false, err
	}

	key, ok := makeFileKey(info)
	if !ok {
		return f, false, nil
	}

	if _, exists := seen[key]; exists {
		_ = f.Close()

		return nil, true, nil
	}

	seen[key] = struct{}{}

	return f, false, nil
}

func makeFileKey(info os.FileInfo) (fileKey, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fileKey{}, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}
