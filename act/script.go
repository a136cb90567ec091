// file:arbor/act/script.go
package act

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/shlex"
)

// Step is one parsed script line.
type Step struct {
	Line int
	Name string
	Args []any
}

// ParseLine splits a shell-quoted line into an action name and string
// arguments. Blank lines and lines starting with '#' yield ok == false.
func ParseLine(line string) (name string, args []any, ok bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", nil, false, nil
	}
	words, err := shlex.Split(line)
	if err != nil {
		return "", nil, false, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(words) == 0 {
		return "", nil, false, nil
	}
	args = make([]any, 0, len(words)-1)
	for _, w := range words[1:] {
		args = append(args, w)
	}
	return words[0], args, true, nil
}

// Parse reads a whole script.
func Parse(r io.Reader) ([]Step, error) {
	var steps []Step
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		name, args, ok, err := ParseLine(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		if ok {
			steps = append(steps, Step{Line: n, Name: name, Args: args})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return steps, nil
}

// RunScript parses r and executes every step in order, stopping at the
// first failure. Each result is passed to emit when it is not nil.
func (r *Registry) RunScript(ctx context.Context, src io.Reader, emit func(Step, any)) error {
	steps, err := Parse(src)
	if err != nil {
		return err
	}
	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		out, err := r.Exec(ctx, s.Name, s.Args...)
		if err != nil {
			return fmt.Errorf("line %d: %s: %w", s.Line, s.Name, err)
		}
		if emit != nil {
			emit(s, out)
		}
	}
	return nil
}
