/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package generators

import (
	"math/rand"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/hyperledger-labs/difftest/pkg/types"
)

type binding struct {
	req   types.Request
	build Lazy
}

// Builder collects generator registrations.
// A Builder is not safe for concurrent use.
type Builder struct {
	known      map[types.Request]*binding
	duplicates []types.Request
}

func NewBuilder() *Builder {
	return &Builder{
		known: map[types.Request]*binding{},
	}
}

// Register binds gen to req.
func (b *Builder) Register(req types.Request, gen Generator) *Builder {
	return b.RegisterLazy(req, func(Resolver) (Generator, error) {
		return gen, nil
	})
}

// RegisterFunc binds the generator function f to req.
func (b *Builder) RegisterFunc(req types.Request, f func(complexity int, random *rand.Rand) interface{}) *Builder {
	return b.Register(req, Func(f))
}

// RegisterLazy binds to req a generator that is only constructed when Build needs it.
// Registering a second binding for the same request is an error reported by Build.
func (b *Builder) RegisterLazy(req types.Request, build Lazy) *Builder {
	if _, ok := b.known[req]; ok {
		b.duplicates = append(b.duplicates, req)
		return b
	}
	b.known[req] = &binding{req: req, build: build}
	return b
}

// Build resolves a generator for every request in required.
// For each request it uses, in order, a binding registered for exactly that request,
// the single registered binding whose type is assignable to the requested one,
// or a default generator for built-in types.
func (b *Builder) Build(required ...types.Request) (*Catalog, error) {
	if len(b.duplicates) > 0 {
		names := make([]string, len(b.duplicates))
		for i, req := range b.duplicates {
			names[i] = req.String()
		}
		return nil, types.Misusef("duplicate generator for %s", strings.Join(names, ", "))
	}

	r := &resolution{
		builder:  b,
		defaults: map[types.Request]*binding{},
		forced:   map[types.Request]Generator{},
		forcing:  map[types.Request]bool{},
		catalog:  map[types.Request]Generator{},
	}

	for _, req := range required {
		if _, err := r.Resolve(req); err != nil {
			return nil, err
		}
	}

	return &Catalog{generators: r.catalog}, nil
}

// resolution holds the state of a single Build.
type resolution struct {
	builder  *Builder
	defaults map[types.Request]*binding
	forced   map[types.Request]Generator
	forcing  map[types.Request]bool
	catalog  map[types.Request]Generator
}

func (r *resolution) Resolve(req types.Request) (Generator, error) {
	if gen, ok := r.catalog[req]; ok {
		return gen, nil
	}

	b, err := r.selectBinding(req)
	if err != nil {
		return nil, err
	}

	gen, err := r.force(b)
	if err != nil {
		return nil, err
	}

	r.catalog[req] = gen
	return gen, nil
}

func (r *resolution) force(b *binding) (Generator, error) {
	if gen, ok := r.forced[b.req]; ok {
		return gen, nil
	}

	if r.forcing[b.req] {
		return nil, types.Misusef("cyclic generator dependency involving %s", b.req)
	}

	r.forcing[b.req] = true
	gen, err := b.build(r)
	delete(r.forcing, b.req)
	if err != nil {
		if types.IsMisuse(err) {
			return nil, errors.WithMessagef(err, "could not build generator for %s", b.req)
		}
		return nil, types.Misusef("could not build generator for %s: %s", b.req, err)
	}
	if gen == nil {
		return nil, types.Misusef("binding for %s produced no generator", b.req)
	}

	r.forced[b.req] = gen
	return gen, nil
}

func (r *resolution) selectBinding(req types.Request) (*binding, error) {
	if b, ok := r.builder.known[req]; ok {
		return b, nil
	}

	var compatible []*binding
	for known, b := range r.builder.known {
		if known.Name == req.Name && known.Type != req.Type && known.Type.AssignableTo(req.Type) {
			compatible = append(compatible, b)
		}
	}
	switch len(compatible) {
	case 0:
	case 1:
		return compatible[0], nil
	default:
		names := make([]string, len(compatible))
		for i, b := range compatible {
			names[i] = b.req.String()
		}
		sort.Strings(names)
		return nil, types.Misusef("ambiguous generator for %s, candidates: %s", req, strings.Join(names, ", "))
	}

	if b, ok := r.defaults[req]; ok {
		return b, nil
	}
	if build := defaultFor(req); build != nil {
		b := &binding{req: req, build: build}
		r.defaults[req] = b
		return b, nil
	}

	if req.IsDefault() {
		return nil, types.Misusef("no generator found for required type %v", req.Type)
	}
	return nil, types.Misusef("no generator found for required generator %q of type %v", req.Name, req.Type)
}
