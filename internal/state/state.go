package state

import (
	"errors"
	"fmt"
	"sync"

	"healthcare-chart/internal/svg"
)

// Phase of a container
type Phase string

const (
	Empty    Phase = "EMPTY"
	Rendered Phase = "RENDERED"
)

var (
	// ErrNoContainer is returned when the mount point does not exist
	ErrNoContainer = errors.New("chart container not found")
	// ErrStale is returned when a newer pass has already been committed
	ErrStale = errors.New("render pass superseded")
)

// Surface is the host document: a set of mount points addressed by selector
type Surface struct {
	mu         sync.RWMutex
	containers map[string]*Container
}

// NewSurface creates a surface with the given mount selectors (".chart", "#plot")
func NewSurface(selectors ...string) *Surface {
	s := &Surface{containers: make(map[string]*Container)}
	for _, sel := range selectors {
		s.containers[sel] = &Container{Selector: sel, node: svg.New("div")}
	}
	return s
}

// Container looks up a mount point
func (s *Surface) Container(selector string) (*Container, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.containers[selector]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoContainer, selector)
	}
	return c, nil
}

// Container holds at most one chart root
type Container struct {
	Selector string

	mu         sync.RWMutex
	node       *svg.Element
	generation uint64
	marks      int
	width      float64
	height     float64
}

// Snapshot is a read-only view of a container
type Snapshot struct {
	Phase      Phase
	Generation uint64
	Marks      int
	Width      float64
	Height     float64
	Root       *svg.Element
}

// Replace tears down any existing root and attaches root.
// A pass older than the committed one is rejected with ErrStale.
func (c *Container) Replace(generation uint64, root *svg.Element, marks int, width, height float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if generation < c.generation {
		return fmt.Errorf("%w: pass %d, committed %d", ErrStale, generation, c.generation)
	}

	c.teardown()
	c.node.AppendChild(root)
	c.generation = generation
	c.marks = marks
	c.width = width
	c.height = height
	return nil
}

// Clear removes the chart root. Safe when nothing is rendered.
func (c *Container) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.teardown()
	c.marks = 0
	c.width, c.height = 0, 0
}

func (c *Container) teardown() {
	c.node.RemoveChildren(func(e *svg.Element) bool { return e.Name == "svg" })
}

// Roots returns how many chart roots are attached
func (c *Container) Roots() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.node.ByName("svg"))
}

// Snapshot returns the current state of the container
func (c *Container) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := Snapshot{
		Phase:      Empty,
		Generation: c.generation,
		Marks:      c.marks,
		Width:      c.width,
		Height:     c.height,
	}
	for _, child := range c.node.Children {
		if child.Name == "svg" {
			snap.Phase = Rendered
			snap.Root = child
			break
		}
	}
	return snap
}
