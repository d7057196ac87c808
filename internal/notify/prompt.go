package notify

import (
	"bufio"
	"io"
	"sync"
)

// Prompter shows a message the user has to acknowledge. Prompt blocks until
// that happens.
type Prompter interface {
	Prompt(title, body string)
}

type PrompterFunc func(title, body string)

func (f PrompterFunc) Prompt(title, body string) { f(title, body) }

// TerminalPrompter rings the bell and prints "title\nbody". With an input
// attached it waits for enter before returning.
type TerminalPrompter struct {
	mu  sync.Mutex
	out io.Writer
	in  *bufio.Reader
}

func NewTerminalPrompter(out io.Writer, in io.Reader) *TerminalPrompter {
	p := &TerminalPrompter{out: out}
	if in != nil {
		p.in = bufio.NewReader(in)
	}
	return p
}

func (p *TerminalPrompter) Prompt(title, body string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.out == nil {
		return
	}
	_, _ = io.WriteString(p.out, "\a"+title+"\n"+body+"\n")
	if p.in == nil {
		return
	}
	_, _ = io.WriteString(p.out, "[press enter to dismiss]\n")
	_, _ = p.in.ReadString('\n')
}
