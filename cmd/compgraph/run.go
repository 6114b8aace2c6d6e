package main

import (
	"bufio"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/nightsea987/compgraph"
	"github.com/nightsea987/compgraph/config"
)

// lineStream adapts a bufio.Scanner over an *os.File to compgraph.Stream,
// parsing each line as one JSON row and closing the file at exhaustion or
// on explicit Close.
type lineStream struct {
	scanner *bufio.Scanner
	file    *os.File
	path    string
	closed  bool
}

func newLineStream(scanner *bufio.Scanner, file *os.File) *lineStream {
	return &lineStream{scanner: scanner, file: file}
}

func (s *lineStream) Next() (compgraph.Row, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			s.Close()
			return nil, err
		}
		s.Close()
		return nil, io.EOF
	}
	return parseJSONRow(s.scanner.Text())
}

func (s *lineStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.file.Close()
}

// fileSourceFactory returns a Stream factory over path's JSON-lines rows,
// reopening the file fresh each call so the same Graph run against the same
// sources yields the same result every time.
func fileSourceFactory(path string) func() compgraph.Stream {
	return func() compgraph.Stream {
		f, err := os.Open(path)
		if err != nil {
			return errStream(err)
		}
		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		return newLineStream(scanner, f)
	}
}

type errStreamImpl struct{ err error }

func errStream(err error) compgraph.Stream { return &errStreamImpl{err: err} }

func (s *errStreamImpl) Next() (compgraph.Row, error) { return nil, s.err }
func (s *errStreamImpl) Close() error                 { return nil }

// runGraph executes graph against sources and writes its output as
// JSON-lines to stdout.
func runGraph(graph *compgraph.Graph, sources map[string]func() compgraph.Stream, cfg config.Config, logger *zap.Logger) error {
	exec := &compgraph.Executor{
		Logger:         logger,
		SortChunkBytes: cfg.ChunkBytes,
		SortTempDir:    cfg.TempDir,
	}
	out, err := exec.Run(graph, sources)
	if err != nil {
		return err
	}
	defer out.Close()
	return writeRows(os.Stdout, out)
}
