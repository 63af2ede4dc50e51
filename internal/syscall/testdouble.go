package syscall

import (
	"strings"
	"sync"

	"github.com/basiclang/qbvm/internal/bytecode"
)

// spriteState is one SPSET slot's recorded transform; it is unexported
// and there is no renderer behind it.
type spriteState struct {
	image         string
	frames        int
	x, y          float64
	sx, sy        float64
	angle         float64
	hx, hy        float64
	visible       bool
	animFrom, animTo int
	animLoop      bool
}

// MemoryConsole is the in-memory Console double the module ships
// instead of a real terminal/graphics surface: Print appends to an
// Output buffer, Input is fed programmatically via Feed, and sprite
// calls just record their last-set state for assertions.
type MemoryConsole struct {
	mu      sync.Mutex
	Output  strings.Builder
	lines   chan string
	keys    []int
	sprites map[int]*spriteState
}

// NewMemoryConsole returns a ready-to-use double; Feed queues INPUT
// lines before running a program that reads them.
func NewMemoryConsole() *MemoryConsole {
	return &MemoryConsole{
		lines:   make(chan string, 64),
		sprites: map[int]*spriteState{},
	}
}

// Feed queues one line for a future INPUT statement to consume.
func (c *MemoryConsole) Feed(line string) { c.lines <- line }

// FeedKey queues one key code for a future INKEY$ call.
func (c *MemoryConsole) FeedKey(k int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keys = append(c.keys, k)
}

func (c *MemoryConsole) Print(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Output.WriteString(s)
}

func (c *MemoryConsole) Cls() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Output.Reset()
}

func (c *MemoryConsole) Locate(row, col int)             {}
func (c *MemoryConsole) Color(fg int, bg, border *int)   {}
func (c *MemoryConsole) Screen(mode int)                 {}
func (c *MemoryConsole) Width(w, h int)                  {}

// Input returns a channel that yields exactly one previously-Feed'd
// line, matching the real CLI console's "one line per INPUT" contract.
func (c *MemoryConsole) Input() <-chan string {
	ch := make(chan string, 1)
	line, ok := <-c.lines
	if ok {
		ch <- line
	}
	close(ch)
	return ch
}

func (c *MemoryConsole) GetKeyFromBuffer() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.keys) == 0 {
		return 0
	}
	k := c.keys[0]
	c.keys = c.keys[1:]
	return k
}

func (c *MemoryConsole) sprite(n int) *spriteState {
	s, ok := c.sprites[n]
	if !ok {
		s = &spriteState{}
		c.sprites[n] = s
	}
	return s
}

func (c *MemoryConsole) CreateSprite(n int, image string, frames int) <-chan struct{} {
	c.mu.Lock()
	s := c.sprite(n)
	s.image, s.frames, s.visible = image, frames, true
	c.mu.Unlock()
	ch := make(chan struct{})
	close(ch)
	return ch
}

func (c *MemoryConsole) OffsetSprite(n int, x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.sprite(n)
	s.x, s.y = x, y
}

func (c *MemoryConsole) ScaleSprite(n int, sx, sy float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.sprite(n)
	s.sx, s.sy = sx, sy
}

func (c *MemoryConsole) RotateSprite(n int, angle float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sprite(n).angle = angle
}

func (c *MemoryConsole) HomeSprite(n int, hx, hy float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.sprite(n)
	s.hx, s.hy = hx, hy
}

func (c *MemoryConsole) DisplaySprite(n int, show bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sprite(n).visible = show
}

func (c *MemoryConsole) AnimateSprite(n int, from, to int, loop bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.sprite(n)
	s.animFrom, s.animTo, s.animLoop = from, to, loop
}

func (c *MemoryConsole) ClearSprite(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sprites, n)
}

// MemoryAudio is the in-memory Audio double: PlayMusic/StopMusic just
// record the last call; there is no sound device behind it.
type MemoryAudio struct {
	mu       sync.Mutex
	LastPlay string
	Playing  bool
}

func NewMemoryAudio() *MemoryAudio { return &MemoryAudio{} }

func (a *MemoryAudio) PlayMusic(music string, repeat bool) <-chan struct{} {
	a.mu.Lock()
	a.LastPlay = music
	a.Playing = true
	a.mu.Unlock()
	ch := make(chan struct{})
	close(ch)
	return ch
}

func (a *MemoryAudio) StopMusic() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Playing = false
}

var _ bytecode.Console = (*MemoryConsole)(nil)
var _ bytecode.Audio = (*MemoryAudio)(nil)
