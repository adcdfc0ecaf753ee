package arff

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

var command = exec.Command

// ExecDecoder converts packed feature files by piping their bytes through an
// external conversion command that writes ARFF text on stdout. The packed
// byte layout stays the tool's concern; this side only parses the text.
type ExecDecoder struct {
	argv []string
}

// NewExecDecoder builds a decoder around the given command line.
func NewExecDecoder(argv ...string) (*ExecDecoder, error) {
	if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
		return nil, fmt.Errorf("packed decoder: empty command")
	}
	return &ExecDecoder{argv: append([]string(nil), argv...)}, nil
}

// Decode runs the external command with the packed bytes on stdin.
func (d *ExecDecoder) Decode(r io.Reader) (*Relation, error) {
	cmd := command(d.argv[0], d.argv[1:]...) //nolint:gosec
	cmd.Stdin = r
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("decoder %s: %w: %s", d.argv[0], err, msg)
		}
		return nil, fmt.Errorf("decoder %s: %w", d.argv[0], err)
	}
	return Parse(&stdout)
}
