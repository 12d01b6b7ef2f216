/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package receiver_test

import (
	"math/rand"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"

	"github.com/hyperledger-labs/difftest/pkg/receiver"
	"github.com/hyperledger-labs/difftest/pkg/types"
)

type counter struct {
	value int
}

var (
	next = func(previous interface{}, iteration int, random *rand.Rand) interface{} {
		if previous == nil {
			return &counter{}
		}
		return &counter{value: previous.(*counter).value + iteration}
	}
	generator = func(complexity int, random *rand.Rand) interface{} {
		return &counter{value: complexity}
	}
	constructor = func() interface{} {
		return &counter{value: -1}
	}
)

var _ = Describe("Strategy", func() {
	DescribeTable("selection priority",
		func(hooks receiver.Hooks, expected receiver.Kind) {
			s, err := receiver.Select(hooks, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Kind()).To(Equal(expected))
		},
		Entry("next wins", receiver.Hooks{Next: next, Generator: generator, Constructor: constructor}, receiver.Next),
		Entry("generator before constructor", receiver.Hooks{Generator: generator, Constructor: constructor}, receiver.Generator),
		Entry("constructor as last resort", receiver.Hooks{Constructor: constructor}, receiver.DefaultConstructor),
	)

	It("uses no receiver for stateless methods", func() {
		s, err := receiver.Select(receiver.Hooks{Constructor: constructor}, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Kind()).To(Equal(receiver.None))
		Expect(s.Generate(nil, 0, 5, nil)).To(BeNil())
	})

	It("refuses to leave instance methods without a receiver", func() {
		_, err := receiver.Select(receiver.Hooks{}, true)
		Expect(err).To(HaveOccurred())
		Expect(types.IsMisuse(err)).To(BeTrue())
	})

	It("dispatches per kind", func() {
		random := rand.New(rand.NewSource(0))

		s, _ := receiver.Select(receiver.Hooks{Next: next}, true)
		first := s.Generate(nil, 0, 50, random)
		Expect(first).To(Equal(&counter{}))
		Expect(s.Generate(&counter{value: 3}, 4, 50, random)).To(Equal(&counter{value: 7}))

		s, _ = receiver.Select(receiver.Hooks{Generator: generator}, true)
		Expect(s.Generate(first, 9, 50, random)).To(Equal(&counter{value: 50}))

		s, _ = receiver.Select(receiver.Hooks{Constructor: constructor}, true)
		Expect(s.Generate(first, 9, 50, random)).To(Equal(&counter{value: -1}))
	})

	It("requires the submission to offer the selected hook", func() {
		s, _ := receiver.Select(receiver.Hooks{Next: next}, true)
		_, err := s.ForSide(receiver.Hooks{Constructor: constructor})
		Expect(types.IsMisuse(err)).To(BeTrue())

		other, err := s.ForSide(receiver.Hooks{Next: next})
		Expect(err).NotTo(HaveOccurred())
		Expect(other.Kind()).To(Equal(receiver.Next))
	})
})
