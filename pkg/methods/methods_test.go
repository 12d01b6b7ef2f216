/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package methods_test

import (
	"reflect"
	"strconv"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/hyperledger-labs/difftest/pkg/methods"
	"github.com/hyperledger-labs/difftest/pkg/types"
)

type stack struct {
	items []int
}

func (s *stack) Push(v int) int {
	s.items = append(s.items, v)
	return len(s.items)
}

func (s *stack) Pop() int {
	v := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return v
}

func divmod(a, b int) (int, int) {
	return a / b, a % b
}

var _ = Describe("Method", func() {
	It("calls functions", func() {
		m := methods.MustFunc("Atoi", strconv.Atoi)
		Expect(m.NeedsReceiver()).To(BeFalse())
		Expect(m.ReturnsError()).To(BeTrue())
		Expect(m.ResultTypes()).To(Equal([]reflect.Type{reflect.TypeOf(0)}))

		output, threw, err := m.Invoke(nil, []interface{}{"42"})
		Expect(err).NotTo(HaveOccurred())
		Expect(threw).NotTo(HaveOccurred())
		Expect(output).To(Equal(42))

		output, threw, err = m.Invoke(nil, []interface{}{"x"})
		Expect(err).NotTo(HaveOccurred())
		Expect(threw).To(HaveOccurred())
		Expect(output).To(BeNil())
	})

	It("collects several results", func() {
		m := methods.MustFunc("divmod", divmod)
		output, _, err := m.Invoke(nil, []interface{}{7, 2})
		Expect(err).NotTo(HaveOccurred())
		Expect(output).To(Equal([]interface{}{3, 1}))
	})

	It("turns panics into thrown errors", func() {
		m := methods.MustFunc("divmod", divmod)
		_, threw, err := m.Invoke(nil, []interface{}{7, 0})
		Expect(err).NotTo(HaveOccurred())
		pe, ok := threw.(*methods.PanicError)
		Expect(ok).To(BeTrue())
		Expect(pe.Error()).To(ContainSubstring("divide by zero"))
	})

	It("calls method expressions on receivers", func() {
		m := methods.MustInstance("Push", (*stack).Push)
		Expect(m.NeedsReceiver()).To(BeTrue())
		Expect(m.ReceiverType()).To(Equal(reflect.TypeOf(&stack{})))
		Expect(m.ParamTypes()).To(Equal([]reflect.Type{reflect.TypeOf(0)}))

		s := &stack{}
		output, _, err := m.Invoke(s, []interface{}{5})
		Expect(err).NotTo(HaveOccurred())
		Expect(output).To(Equal(1))
		Expect(s.items).To(Equal([]int{5}))

		_, threw, _ := methods.MustInstance("Pop", (*stack).Pop).Invoke(&stack{}, nil)
		Expect(threw).To(BeAssignableToTypeOf(&methods.PanicError{}))
	})

	It("converts nil and convertible arguments", func() {
		m := methods.MustFunc("len", func(xs []int, n int64) int64 { return int64(len(xs)) + n })
		output, _, err := m.Invoke(nil, []interface{}{nil, 3})
		Expect(err).NotTo(HaveOccurred())
		Expect(output).To(Equal(int64(3)))
	})

	It("rejects unfitting arguments", func() {
		m := methods.MustFunc("divmod", divmod)
		_, _, err := m.Invoke(nil, []interface{}{1})
		Expect(err).To(HaveOccurred())
		_, _, err = m.Invoke(nil, []interface{}{"a", 1})
		Expect(err).To(HaveOccurred())
	})

	It("requests named generators", func() {
		m := methods.MustFunc("divmod", divmod, methods.UseGenerator(1, "nonZero"), methods.Printer())
		Expect(m.IsPrinter()).To(BeTrue())
		Expect(m.Requests()).To(Equal([]types.Request{
			types.DefaultRequest(reflect.TypeOf(0)),
			types.NamedRequest(reflect.TypeOf(0), "nonZero"),
		}))

		_, err := methods.Func("divmod", divmod, methods.UseGenerator(2, "nonZero"))
		Expect(types.IsMisuse(err)).To(BeTrue())
	})

	It("rejects non-functions", func() {
		_, err := methods.Func("x", 5)
		Expect(types.IsMisuse(err)).To(BeTrue())
		_, err = methods.Instance("x", func() {})
		Expect(types.IsMisuse(err)).To(BeTrue())
	})
})
