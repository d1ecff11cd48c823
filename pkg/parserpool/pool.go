// Package parserpool provides a pool of gnparser instances for concurrent
// canonicalization of species names.
// This is a pure package - parsing is computation, not I/O.
package parserpool

import (
	"runtime"

	"github.com/gnames/gnlib/ent/nomcode"
	"github.com/gnames/gnparser"
)

// Pool provides a pool of gnparser instances for concurrent parsing.
// Vegetation surveys record plants, so all parsers use the botanical
// nomenclatural code.
type Pool interface {
	// Canonical returns the simple canonical form of a species name
	// string, stripping authorship and annotations. When the name cannot
	// be parsed the input is returned unchanged, so unparseable strings
	// still aggregate under their verbatim spelling.
	// This method is safe for concurrent use.
	Canonical(nameString string) string

	// Close shuts down the parser pool and releases resources.
	// After calling Close, the pool should not be used.
	Close()
}

// PoolImpl implements the Pool interface using gnparser.NewPool.
type PoolImpl struct {
	ch       chan gnparser.GNparser
	poolSize int
}

// NewPool creates a new parser pool with the specified number of workers.
// If jobsNum is 0, it defaults to runtime.NumCPU().
func NewPool(jobsNum int) Pool {
	poolSize := jobsNum
	if poolSize == 0 {
		poolSize = runtime.NumCPU()
	}

	// Botanical code avoids issues like "Aus (Bus)" parsing incorrectly.
	cfg := gnparser.NewConfig(gnparser.OptCode(nomcode.Botanical))
	ch := gnparser.NewPool(cfg, poolSize)

	return &PoolImpl{ch: ch, poolSize: poolSize}
}

// Canonical parses a name string with a pooled parser and returns its
// simple canonical form, or the input itself when parsing fails.
func (p *PoolImpl) Canonical(nameString string) string {
	// Get a parser from the pool (blocks if all parsers are busy).
	parser := <-p.ch
	parsed := parser.ParseName(nameString)
	p.ch <- parser

	if parsed.Parsed && parsed.Canonical != nil {
		return parsed.Canonical.Simple
	}
	return nameString
}

// Close shuts down the parser pool and releases resources.
func (p *PoolImpl) Close() {
	if p.ch != nil {
		close(p.ch)
		// Drain the channel
		for range p.ch {
		}
	}
}
