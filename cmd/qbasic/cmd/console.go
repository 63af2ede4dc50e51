package cmd

import (
	"bufio"
	"fmt"
	"os"
)

// stdioConsole is the run subcommand's Console: output goes to stdout,
// INPUT reads a line from stdin per call. Sprite calls are accepted
// but not rendered; this driver exposes the device hooks without a
// real renderer behind them.
type stdioConsole struct {
	in *bufio.Reader
}

func newStdioConsole() *stdioConsole {
	return &stdioConsole{in: bufio.NewReader(os.Stdin)}
}

func (c *stdioConsole) Print(s string)               { fmt.Print(s) }
func (c *stdioConsole) Cls()                         {}
func (c *stdioConsole) Locate(row, col int)           {}
func (c *stdioConsole) Color(fg int, bg, border *int) {}
func (c *stdioConsole) Screen(mode int)               {}
func (c *stdioConsole) Width(w, h int)                {}

func (c *stdioConsole) Input() <-chan string {
	ch := make(chan string, 1)
	go func() {
		line, err := c.in.ReadString('\n')
		if err != nil && line == "" {
			close(ch)
			return
		}
		for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
			line = line[:len(line)-1]
		}
		ch <- line
		close(ch)
	}()
	return ch
}

func (c *stdioConsole) GetKeyFromBuffer() int { return 0 }

func (c *stdioConsole) CreateSprite(n int, image string, frames int) <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (c *stdioConsole) OffsetSprite(n int, x, y float64)        {}
func (c *stdioConsole) ScaleSprite(n int, sx, sy float64)       {}
func (c *stdioConsole) RotateSprite(n int, angle float64)       {}
func (c *stdioConsole) HomeSprite(n int, hx, hy float64)        {}
func (c *stdioConsole) DisplaySprite(n int, show bool)          {}
func (c *stdioConsole) AnimateSprite(n int, from, to int, loop bool) {}
func (c *stdioConsole) ClearSprite(n int)                       {}

// stdioAudio is the run subcommand's Audio: it records nothing and
// plays nothing back. PLAY still completes (its channel closes
// immediately) so BASIC programs that block on it don't hang.
type stdioAudio struct{}

func (stdioAudio) PlayMusic(music string, repeat bool) <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (stdioAudio) StopMusic() {}
