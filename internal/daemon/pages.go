package daemon

import (
	"context"
	"sync"
	"time"

	"git.home.luguber.info/inful/themesync/internal/events"
	"git.home.luguber.info/inful/themesync/internal/preview"
	"git.home.luguber.info/inful/themesync/internal/surface"
)

// Pages holds the served shell and frame documents. The frame is
// rebuilt whenever the content directory changes, which discards any
// previously applied visual state; the synchronizer re-asserts it in
// response to the rendered event.
type Pages struct {
	mu    sync.RWMutex
	shell *surface.HTMLDocument
	frame *surface.HTMLDocument
}

// NewPages builds the shell document and an initial frame from the
// content directory. An empty contentDir yields an empty frame.
func NewPages(title, contentDir string) (*Pages, error) {
	shell, err := preview.BuildShell(title)
	if err != nil {
		return nil, err
	}

	p := &Pages{shell: shell}
	if err := p.rebuildFrame(contentDir); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Pages) rebuildFrame(contentDir string) error {
	var fragment []byte
	if contentDir != "" {
		var err error
		if fragment, _, err = preview.LoadContent(contentDir); err != nil {
			return err
		}
	}

	frame, err := preview.BuildFrame(fragment)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.frame = frame
	p.mu.Unlock()
	return nil
}

// Rebuild replaces the frame with freshly rendered content and
// announces the render on the bus.
func (p *Pages) Rebuild(ctx context.Context, contentDir string, bus *events.Bus) error {
	if err := p.rebuildFrame(contentDir); err != nil {
		return err
	}
	return bus.Publish(ctx, events.DocsRendered{Source: contentDir, RenderedAt: time.Now()})
}

// Root implements surface.Shell.
func (p *Pages) Root() surface.ClassTarget {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.shell.Root()
}

// ClassTarget implements surface.Frame.
func (p *Pages) ClassTarget(selector string) surface.ClassTarget {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.frame.ClassTarget(selector)
}

// AttributeTarget implements surface.Frame.
func (p *Pages) AttributeTarget(selector string) surface.AttributeTarget {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.frame.AttributeTarget(selector)
}

// ShellHTML renders the current shell document.
func (p *Pages) ShellHTML() ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.shell.Bytes()
}

// FrameHTML renders the current frame document.
func (p *Pages) FrameHTML() ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.frame.Bytes()
}
