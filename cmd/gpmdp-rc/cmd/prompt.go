package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

const codePrompt = "Enter the 4-digit code from GPMDP: "

// linePrompter asks for the pairing code on out and reads one line from in.
// out is stderr in practice so the prompt stays out of captured output.
type linePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newLinePrompter(in io.Reader, out io.Writer) *linePrompter {
	return &linePrompter{in: bufio.NewReader(in), out: out}
}

// PromptCode implements session.CodePrompter.
func (p *linePrompter) PromptCode(ctx context.Context) (string, error) {
	if _, err := io.WriteString(p.out, codePrompt); err != nil {
		return "", err
	}

	type result struct {
		line string
		err  error
	}
	read := make(chan result, 1)
	go func() {
		line, err := p.in.ReadString('\n')
		read <- result{line, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-read:
		if r.err != nil && !(r.err == io.EOF && r.line != "") {
			return "", fmt.Errorf("failed to read pairing code: %w", r.err)
		}
		return strings.TrimSpace(r.line), nil
	}
}
