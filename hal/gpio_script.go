package hal

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Edge is a scheduled level change, relative to the pin's creation time.
type Edge struct {
	At    time.Duration
	Level bool
}

// ParseScript parses a comma separated press timeline such as
// "press@100ms,release@180ms". With activeLow set a press drives the line low.
func ParseScript(s string, activeLow bool) ([]Edge, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var edges []Edge
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		action, at, ok := strings.Cut(part, "@")
		if !ok {
			return nil, fmt.Errorf("gpio: script %q: missing @", part)
		}
		d, err := time.ParseDuration(strings.TrimSpace(at))
		if err != nil {
			return nil, fmt.Errorf("gpio: script %q: %w", part, err)
		}
		if d < 0 {
			return nil, fmt.Errorf("gpio: script %q: negative offset", part)
		}

		var pressed bool
		switch strings.ToLower(strings.TrimSpace(action)) {
		case "press", "down", "p":
			pressed = true
		case "release", "up", "r":
			pressed = false
		default:
			return nil, fmt.Errorf("gpio: script %q: unknown action %q", part, action)
		}
		edges = append(edges, Edge{At: d, Level: pressed != activeLow})
	}

	sort.SliceStable(edges, func(i, j int) bool { return edges[i].At < edges[j].At })
	return edges, nil
}

// ScriptedPin replays a fixed timeline of level changes against a clock.
type ScriptedPin struct {
	mu    sync.Mutex
	name  string
	mode  GPIOMode
	idle  bool
	edges []Edge
	clock clockwork.Clock
	t0    time.Time
}

// NewScriptedPin returns an input pin that rests at idle and follows edges.
// The timeline starts at the clock's current time.
func NewScriptedPin(name string, idle bool, edges []Edge, clock clockwork.Clock) *ScriptedPin {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	sorted := append([]Edge(nil), edges...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].At < sorted[j].At })
	return &ScriptedPin{
		name:  name,
		mode:  GPIOModeInput,
		idle:  idle,
		edges: sorted,
		clock: clock,
		t0:    clock.Now(),
	}
}

func (p *ScriptedPin) Name() string   { return p.name }
func (p *ScriptedPin) Caps() GPIOCaps { return GPIOCapInput | GPIOCapPullUp }

func (p *ScriptedPin) Configure(mode GPIOMode, pull GPIOPull) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if mode != GPIOModeInput {
		return fmt.Errorf("gpio: pin %s: only input supported", p.name)
	}
	if pull == GPIOPullDown {
		return fmt.Errorf("gpio: pin %s: pull-down unsupported", p.name)
	}
	p.mode = mode
	return nil
}

func (p *ScriptedPin) Read() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.mode != GPIOModeInput {
		return false, fmt.Errorf("gpio: pin %s: not configured for input", p.name)
	}

	elapsed := p.clock.Since(p.t0)
	level := p.idle
	for _, e := range p.edges {
		if e.At > elapsed {
			break
		}
		level = e.Level
	}
	return level, nil
}

func (p *ScriptedPin) Write(level bool) error {
	_ = level
	return fmt.Errorf("gpio: pin %s: output unsupported", p.name)
}

// Done reports whether every scheduled edge has been replayed.
func (p *ScriptedPin) Done() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.edges) == 0 {
		return true
	}
	return p.clock.Since(p.t0) >= p.edges[len(p.edges)-1].At
}
