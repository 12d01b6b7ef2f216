/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package cases_test

import (
	"math/rand"
	"reflect"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/hyperledger-labs/difftest/pkg/cases"
	"github.com/hyperledger-labs/difftest/pkg/generators"
	"github.com/hyperledger-labs/difftest/pkg/types"
)

var (
	intType    = reflect.TypeOf(0)
	stringType = reflect.TypeOf("")
	sliceType  = reflect.TypeOf([]int{})
	boolType   = reflect.TypeOf(false)
)

var _ = Describe("Catalog", func() {
	var catalog *cases.Catalog

	BeforeEach(func() {
		catalog = cases.NewDefaultCatalog()
	})

	It("has the library defaults", func() {
		edge, ok := catalog.EdgeCasesFor(intType)
		Expect(ok).To(BeTrue())
		Expect(edge).To(Equal(cases.List{0}))

		simple, ok := catalog.SimpleCasesFor(stringType)
		Expect(ok).To(BeTrue())
		Expect(simple).To(Equal(cases.List{"a", "A", "0"}))

		edge, ok = catalog.EdgeCasesFor(boolType)
		Expect(ok).To(BeTrue())
		Expect(edge).To(BeEmpty())

		edge, _ = catalog.EdgeCasesFor(reflect.TypeOf([]bool{}))
		Expect(edge).To(HaveLen(2))
		Expect(edge[0]).To(Equal([]bool{}))
		Expect(edge[1]).To(BeNil())

		simple, _ = catalog.SimpleCasesFor(sliceType)
		Expect(simple).To(Equal(cases.List{[]int{0}}))
	})

	It("replaces a default list on override", func() {
		Expect(catalog.Override(types.EdgeCases, intType, 7, 8)).To(Succeed())
		edge, _ := catalog.EdgeCasesFor(intType)
		Expect(edge).To(Equal(cases.List{7, 8}))

		simple, _ := catalog.SimpleCasesFor(intType)
		Expect(simple).To(Equal(cases.List{-1, 1}))
	})

	It("converts override values to the target type", func() {
		Expect(catalog.Override(types.SimpleCases, reflect.TypeOf(int64(0)), 3)).To(Succeed())
		simple, _ := catalog.SimpleCasesFor(reflect.TypeOf(int64(0)))
		Expect(simple).To(Equal(cases.List{int64(3)}))
	})

	It("rejects values of the wrong type", func() {
		err := catalog.Override(types.SimpleCases, intType, "one")
		Expect(err).To(HaveOccurred())
		Expect(types.IsMisuse(err)).To(BeTrue())
	})

	It("clones independently", func() {
		clone := catalog.Clone()
		Expect(clone.Override(types.EdgeCases, intType, 5)).To(Succeed())
		edge, _ := catalog.EdgeCasesFor(intType)
		Expect(edge).To(Equal(cases.List{0}))
	})
})

var _ = Describe("MethodArgumentCases", func() {
	var random *rand.Rand

	counter := generators.Func(func(complexity int, random *rand.Rand) interface{} {
		return complexity + 100
	})

	BeforeEach(func() {
		random = rand.New(rand.NewSource(1))
	})

	It("multiplies the sizes of the case lists", func() {
		mac, err := cases.NewMethodArgumentCases(nil, []cases.Parameter{
			{Type: intType, Cases: cases.List{1, 2, 3}},
			{Type: stringType, Cases: cases.List{"a", "b"}},
			{Type: boolType, Fallback: generators.BoolGenerator},
		}, cases.EdgeFallbackComplexity)
		Expect(err).NotTo(HaveOccurred())
		Expect(mac.Total()).To(Equal(6))
		Expect(mac.HasCases()).To(BeTrue())
	})

	It("decodes indices as mixed-radix numbers", func() {
		mac, err := cases.NewMethodArgumentCases(cases.List{"r0", nil, "r1"}, []cases.Parameter{
			{Type: intType, Cases: cases.List{10, 20, 30}},
			{Type: intType, Fallback: counter},
		}, cases.SimpleFallbackComplexity)
		Expect(err).NotTo(HaveOccurred())
		Expect(mac.Total()).To(Equal(6))

		c, err := mac.Case(5, random)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.HasReceiver).To(BeTrue())
		Expect(c.Receiver).To(Equal("r1"))
		Expect(c.Args).To(Equal([]interface{}{30, 102}))

		c, err = mac.Case(2, random)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Receiver).To(Equal("r0"))
		Expect(c.Args[0]).To(Equal(20))

		_, err = mac.Case(6, random)
		Expect(err).To(HaveOccurred())
	})

	It("returns independent copies", func() {
		mac, err := cases.NewMethodArgumentCases(nil, []cases.Parameter{
			{Type: sliceType, Cases: cases.List{[]int{1, 2}}},
		}, 0)
		Expect(err).NotTo(HaveOccurred())

		first, _ := mac.Case(0, random)
		first.Args[0].([]int)[0] = 99
		second, _ := mac.Case(0, random)
		Expect(second.Args[0]).To(Equal([]int{1, 2}))
	})

	It("enumerates every combination exactly once", func() {
		mac, err := cases.NewMethodArgumentCases(nil, []cases.Parameter{
			{Type: intType, Cases: cases.List{1, 2, 3, 4}},
			{Type: intType, Cases: cases.List{5, 6}},
		}, 0)
		Expect(err).NotTo(HaveOccurred())

		for round := 0; round < 2; round++ {
			seen := map[[2]int]bool{}
			for mac.HasNext() {
				c, err := mac.NextCase(random)
				Expect(err).NotTo(HaveOccurred())
				key := [2]int{c.Args[0].(int), c.Args[1].(int)}
				Expect(seen).NotTo(HaveKey(key))
				seen[key] = true
			}
			Expect(seen).To(HaveLen(8))
			mac.Reset()
			Expect(mac.HasNext()).To(BeTrue())
		}
	})

	It("builds the enumeration for a method from the catalog", func() {
		catalog := cases.NewDefaultCatalog()
		fallback := generators.Func(func(complexity int, random *rand.Rand) interface{} {
			return complexity
		})

		mac, err := catalog.ForMethod(types.SimpleCases, nil, []reflect.Type{intType, boolType}, []generators.Generator{fallback, fallback})
		Expect(err).NotTo(HaveOccurred())
		Expect(mac.Total()).To(Equal(2))

		c, err := mac.Case(1, rand.New(rand.NewSource(1)))
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Args[0]).To(Equal(1))
		Expect(c.Args[1]).To(Equal(cases.SimpleFallbackComplexity))

		_, err = catalog.ForMethod(types.EdgeCases, nil, []reflect.Type{intType}, nil)
		Expect(err).To(HaveOccurred())
	})

	It("rejects parameters that cannot be satisfied", func() {
		_, err := cases.NewMethodArgumentCases(nil, []cases.Parameter{{Type: intType}}, 0)
		Expect(err).To(HaveOccurred())
		Expect(types.IsMisuse(err)).To(BeTrue())
	})
})

var _ = Describe("Enumerator", func() {
	It("is a permutation of its range", func() {
		random := rand.New(rand.NewSource(9))
		e := cases.NewEnumerator(10)
		var drawn []int
		for e.HasNext() {
			drawn = append(drawn, e.Next(random))
		}
		Expect(drawn).To(ConsistOf(0, 1, 2, 3, 4, 5, 6, 7, 8, 9))
		Expect(e.Remaining()).To(BeZero())
	})
})
