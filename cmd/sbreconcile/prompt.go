package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// prompter owns all interactive terminal input so nothing below the CLI
// layer ever touches stdin.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

func (p *prompter) line(msg string) string {
	fmt.Fprint(p.out, msg)
	text, err := p.in.ReadString('\n')
	if err != nil && text == "" {
		return ""
	}
	return strings.TrimSpace(text)
}

func (p *prompter) confirm(msg string) bool {
	answer := strings.ToLower(p.line(msg + " (y/n): "))
	return answer == "y" || answer == "yes"
}
