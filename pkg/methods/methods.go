/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package methods adapts plain Go functions and method expressions so that the
// test engine can invoke them uniformly with a receiver and a list of arguments.
package methods

import (
	"fmt"
	"reflect"
	"runtime/debug"

	"github.com/pkg/errors"

	"github.com/hyperledger-labs/difftest/pkg/types"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// PanicError is what a call that panicked is recorded as having thrown.
type PanicError struct {
	Value interface{}
	Stack []byte
}

func (pe *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", pe.Value)
}

// Method is a callable under test, or a helper of the same shape.
type Method struct {
	name         string
	fn           reflect.Value
	receiverType reflect.Type
	params       []reflect.Type
	results      []reflect.Type
	errorResult  bool
	printer      bool
	generators   map[int]string
}

// Option configures a Method.
type Option func(*Method)

// Printer declares that the method writes to standard output or standard error,
// which is then captured and compared.
func Printer() Option {
	return func(m *Method) {
		m.printer = true
	}
}

// UseGenerator makes the generated values of parameter index come from the generator registered under name.
func UseGenerator(index int, name string) Option {
	return func(m *Method) {
		if m.generators == nil {
			m.generators = map[int]string{}
		}
		m.generators[index] = name
	}
}

// Func adapts a function without receiver.
func Func(name string, fn interface{}, opts ...Option) (*Method, error) {
	return newMethod(name, fn, false, opts)
}

// Instance adapts a method expression such as (*Counter).Add,
// whose first parameter is the receiver.
func Instance(name string, fn interface{}, opts ...Option) (*Method, error) {
	return newMethod(name, fn, true, opts)
}

// MustFunc is like Func but panics on error. It simplifies declaring questions as package variables.
func MustFunc(name string, fn interface{}, opts ...Option) *Method {
	m, err := Func(name, fn, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// MustInstance is like Instance but panics on error.
func MustInstance(name string, fn interface{}, opts ...Option) *Method {
	m, err := Instance(name, fn, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

func newMethod(name string, fn interface{}, instance bool, opts []Option) (*Method, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return nil, types.Misusef("%s: expected a function, got %T", name, fn)
	}
	t := v.Type()
	if t.IsVariadic() {
		return nil, types.Misusef("%s: variadic functions are not supported", name)
	}

	m := &Method{
		name: name,
		fn:   v,
	}

	first := 0
	if instance {
		if t.NumIn() == 0 {
			return nil, types.Misusef("%s: instance method needs a receiver parameter", name)
		}
		m.receiverType = t.In(0)
		first = 1
	}
	for i := first; i < t.NumIn(); i++ {
		m.params = append(m.params, t.In(i))
	}

	for i := 0; i < t.NumOut(); i++ {
		m.results = append(m.results, t.Out(i))
	}
	if n := len(m.results); n > 0 && m.results[n-1] == errorType {
		m.errorResult = true
		m.results = m.results[:n-1]
	}

	for _, opt := range opts {
		opt(m)
	}
	for index := range m.generators {
		if index < 0 || index >= len(m.params) {
			return nil, types.Misusef("%s: generator requested for parameter %d, but there are %d parameters", name, index, len(m.params))
		}
	}

	return m, nil
}

func (m *Method) Name() string {
	return m.name
}

// ReceiverType is nil for functions without receiver.
func (m *Method) ReceiverType() reflect.Type {
	return m.receiverType
}

func (m *Method) NeedsReceiver() bool {
	return m.receiverType != nil
}

// ParamTypes returns the types of the parameters, excluding the receiver.
func (m *Method) ParamTypes() []reflect.Type {
	return m.params
}

// ResultTypes returns the types of the results, excluding a trailing error.
func (m *Method) ResultTypes() []reflect.Type {
	return m.results
}

// ReturnsError reports whether the last result is an error.
func (m *Method) ReturnsError() bool {
	return m.errorResult
}

func (m *Method) IsPrinter() bool {
	return m.printer
}

// Requests returns, per parameter, the generator request its generated values come from.
func (m *Method) Requests() []types.Request {
	reqs := make([]types.Request, len(m.params))
	for i, t := range m.params {
		reqs[i] = types.NamedRequest(t, m.generators[i])
	}
	return reqs
}

// Invoke calls the method. The results other than a trailing error are returned as output:
// nil if there are none, the value itself if there is one, and a []interface{} otherwise.
// A panic or a non-nil trailing error is returned as threw.
// err is only set if the arguments do not fit the method.
func (m *Method) Invoke(receiver interface{}, args []interface{}) (output interface{}, threw error, err error) {
	if len(args) != len(m.params) {
		return nil, nil, errors.Errorf("%s: expected %d arguments, got %d", m.name, len(m.params), len(args))
	}

	in := make([]reflect.Value, 0, len(args)+1)
	if m.receiverType != nil {
		rv, err := types.ValueFor(receiver, m.receiverType)
		if err != nil {
			return nil, nil, errors.WithMessagef(err, "%s: receiver", m.name)
		}
		in = append(in, rv)
	}
	for i, arg := range args {
		av, err := types.ValueFor(arg, m.params[i])
		if err != nil {
			return nil, nil, errors.WithMessagef(err, "%s: argument %d", m.name, i)
		}
		in = append(in, av)
	}

	out, threw := m.call(in)
	if threw != nil {
		return nil, threw, nil
	}

	if m.errorResult {
		last := out[len(out)-1]
		out = out[:len(out)-1]
		if !last.IsNil() {
			// The other results are meaningless alongside an error.
			return nil, last.Interface().(error), nil
		}
	}

	switch len(out) {
	case 0:
	case 1:
		output = out[0].Interface()
	default:
		values := make([]interface{}, len(out))
		for i, o := range out {
			values[i] = o.Interface()
		}
		output = values
	}

	return output, threw, nil
}

func (m *Method) call(in []reflect.Value) (out []reflect.Value, threw error) {
	defer func() {
		if r := recover(); r != nil {
			threw = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return m.fn.Call(in), nil
}
