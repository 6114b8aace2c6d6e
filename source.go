package compgraph

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/nightsea987/compgraph/cgerrors"
)

// iterSource looks up a named stream factory in the sources map an executor
// was given, binding each named iterator source to the actual data it
// should pull from for this run.
func iterSource(name string, sources map[string]func() Stream) (Stream, error) {
	factory, ok := sources[name]
	if !ok {
		return nil, cgerrors.NewConfigError(fmt.Sprintf("unknown source %q: not present in sources map", name))
	}
	return factory(), nil
}

// RowParser turns one line of a text-file source into a Row. Parse errors
// are the caller's to wrap (fileSource wraps them in cgerrors.ParseError so
// the offending line is preserved in the error message).
type RowParser func(line string) (Row, error)

// fileSource opens path and parses it line by line with parse, returning a
// Stream that closes the file on Close() or upstream exhaustion. Rows are
// read lazily, one at a time, as the caller pulls them.
func fileSource(path string, parse RowParser) Stream {
	f, err := os.Open(path)
	if err != nil {
		return errStream(cgerrors.WrapIO(err, "open", path))
	}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	closed := false
	closeFile := func() error {
		if closed {
			return nil
		}
		closed = true
		return f.Close()
	}

	return &funcStream{
		next: func() (Row, error) {
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return nil, cgerrors.WrapIO(err, "read", path)
				}
				_ = closeFile()
				return nil, io.EOF
			}
			line := scanner.Text()
			row, err := parse(line)
			if err != nil {
				return nil, cgerrors.WrapParse(err, line)
			}
			return row, nil
		},
		close: closeFile,
	}
}
