// Package loader fetches and decodes catalog resources concurrently and
// hands the results to the scene.
package loader

import (
	"context"
	"log"
	"sync"

	"github.com/pkg/errors"

	"github.com/mogaika/meshview/catalog"
	"github.com/mogaika/meshview/mesh"
	"github.com/mogaika/meshview/scene"
)

type Dispatcher interface {
	Dispatch(cmd scene.Command) bool
}

// Progress is called after every settled load.
type Progress func(done, total int, d catalog.Descriptor, err error)

// Pipeline runs one independent load per descriptor. A failed load is
// final: it is reported and never retried, and other loads go on.
type Pipeline struct {
	resolver   Resolver
	decoder    Decoder
	dispatcher Dispatcher
	OnProgress Progress

	wg    sync.WaitGroup
	mu    sync.Mutex
	done  int
	total int
}

func NewPipeline(resolver Resolver, decoder Decoder, dispatcher Dispatcher) *Pipeline {
	return &Pipeline{
		resolver:   resolver,
		decoder:    decoder,
		dispatcher: dispatcher,
	}
}

func (p *Pipeline) Start(ctx context.Context, c catalog.Catalog) {
	p.mu.Lock()
	p.total += len(c)
	p.mu.Unlock()

	for _, d := range c {
		p.wg.Add(1)
		go func(d catalog.Descriptor) {
			defer p.wg.Done()
			p.load(ctx, d)
		}(d)
	}
}

// Wait blocks until every started load has been handed to the scene.
func (p *Pipeline) Wait() {
	p.wg.Wait()
}

func (p *Pipeline) load(ctx context.Context, d catalog.Descriptor) {
	geometry, err := p.fetchAndDecode(ctx, d)

	var cmd scene.Command
	if err != nil {
		log.Printf("[loader] Failed to load resource %d %q: %v", d.Index, d.URL, err)
		cmd = scene.LoadFailed{Descriptor: d, Err: err}
	} else {
		log.Printf("[loader] Loaded resource %d %q: %d triangles", d.Index, d.URL, geometry.TrianglesCount())
		cmd = scene.Loaded{Descriptor: d, Geometry: geometry}
	}
	if !p.dispatcher.Dispatch(cmd) {
		log.Printf("[loader] Scene stopped before resource %d %q was attached", d.Index, d.URL)
	}

	p.mu.Lock()
	p.done++
	done, total := p.done, p.total
	p.mu.Unlock()

	if p.OnProgress != nil {
		p.OnProgress(done, total, d, err)
	}
}

func (p *Pipeline) fetchAndDecode(ctx context.Context, d catalog.Descriptor) (*mesh.Geometry, error) {
	raw, err := p.resolver.Resolve(ctx, d.URL)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve")
	}
	geometry, err := p.decoder.Decode(ctx, raw)
	if err != nil {
		return nil, errors.Wrapf(err, "decode")
	}
	return geometry, nil
}
