package terminal

import (
	"fmt"
	"io"
	"sync"
)

// Console serialises output from the input loop and the poll goroutine.
type Console struct {
	mu     sync.Mutex
	out    io.Writer
	styles styles
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out, styles: newStyles()}
}

func (c *Console) Println(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintln(c.out, text)
}

func (c *Console) Printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintf(c.out, format, args...)
}

func (c *Console) Warn(text string) {
	c.Println(c.styles.warning.Render(text))
}
