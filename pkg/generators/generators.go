/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package generators maps generator requests to functions producing values
// of a requested type at a requested complexity.
//
// A Catalog is assembled by a Builder in two phases. First, every generator
// is registered as a deferred binding, so that bindings may refer to each
// other regardless of registration order. Then Build forces the bindings of
// the requested generators, deriving default generators for built-in types
// on the way, and reports missing, duplicate, ambiguous and cyclic bindings
// as misuse errors.
package generators

import (
	"math/rand"
	"sort"

	"github.com/pkg/errors"

	"github.com/hyperledger-labs/difftest/pkg/types"
)

// Generator produces a value at a given complexity.
// Given the same complexity and the same state of random,
// a Generator must always produce the same value.
type Generator interface {
	Generate(complexity int, random *rand.Rand) interface{}
}

// Func is a Generator implemented by a plain function.
type Func func(complexity int, random *rand.Rand) interface{}

func (f Func) Generate(complexity int, random *rand.Rand) interface{} {
	return f(complexity, random)
}

// Resolver gives a deferred binding access to the other generators of the catalog being built.
type Resolver interface {
	Resolve(req types.Request) (Generator, error)
}

// Lazy constructs a Generator once all generators are registered.
type Lazy func(resolver Resolver) (Generator, error)

// Catalog is the immutable result of a Builder.
type Catalog struct {
	generators map[types.Request]Generator
}

// Lookup returns the generator resolved for req, if req was part of the build.
func (c *Catalog) Lookup(req types.Request) (Generator, bool) {
	gen, ok := c.generators[req]
	return gen, ok
}

// Generate invokes the generator resolved for req.
func (c *Catalog) Generate(req types.Request, complexity int, random *rand.Rand) (interface{}, error) {
	gen, ok := c.generators[req]
	if !ok {
		return nil, errors.Errorf("no generator for %s in catalog", req)
	}
	return gen.Generate(complexity, random), nil
}

// Requests returns all requests the catalog can serve, in a stable order.
func (c *Catalog) Requests() []types.Request {
	reqs := make([]types.Request, 0, len(c.generators))
	for req := range c.generators {
		reqs = append(reqs, req)
	}
	sort.Slice(reqs, func(i, j int) bool {
		return reqs[i].String() < reqs[j].String()
	})
	return reqs
}
