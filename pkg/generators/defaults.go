/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package generators

import (
	"math"
	"math/rand"
	"reflect"
	"strings"
	"unicode"

	"github.com/hyperledger-labs/difftest/pkg/types"
)

// defaultFor returns the deferred default binding for req, or nil if there is none.
// Composite defaults resolve their element generators through the catalog being built,
// so a registered element generator is used in preference to the default one.
func defaultFor(req types.Request) Lazy {
	if req == types.CharRequest {
		return Value(CharGenerator)
	}
	if !req.IsDefault() {
		return nil
	}

	t := req.Type
	switch t.Kind() {
	case reflect.Bool:
		return Value(converted(t, BoolGenerator))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32:
		return Value(converted(t, IntGenerator))
	case reflect.Int64:
		return Value(converted(t, Int64Generator))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Value(converted(t, UintGenerator))
	case reflect.Float32, reflect.Float64:
		return Value(converted(t, FloatGenerator))
	case reflect.String:
		return func(resolver Resolver) (Generator, error) {
			chars, err := resolver.Resolve(types.CharRequest)
			if err != nil {
				return nil, err
			}
			return converted(t, StringGenerator(chars)), nil
		}
	case reflect.Slice:
		return func(resolver Resolver) (Generator, error) {
			elem, err := resolver.Resolve(types.DefaultRequest(t.Elem()))
			if err != nil {
				return nil, err
			}
			return SliceGenerator(t, elem), nil
		}
	case reflect.Array:
		return func(resolver Resolver) (Generator, error) {
			elem, err := resolver.Resolve(types.DefaultRequest(t.Elem()))
			if err != nil {
				return nil, err
			}
			return ArrayGenerator(t, elem), nil
		}
	case reflect.Ptr:
		return func(resolver Resolver) (Generator, error) {
			elem, err := resolver.Resolve(types.DefaultRequest(t.Elem()))
			if err != nil {
				return nil, err
			}
			return PointerGenerator(t, elem), nil
		}
	case reflect.Map:
		return func(resolver Resolver) (Generator, error) {
			key, err := resolver.Resolve(types.DefaultRequest(t.Key()))
			if err != nil {
				return nil, err
			}
			elem, err := resolver.Resolve(types.DefaultRequest(t.Elem()))
			if err != nil {
				return nil, err
			}
			return MapGenerator(t, key, elem), nil
		}
	default:
		return nil
	}
}

// Value returns a binding that needs no other generator.
func Value(gen Generator) Lazy {
	return func(Resolver) (Generator, error) {
		return gen, nil
	}
}

// converted wraps gen so that its values have type t.
// Named types with a built-in underlying type are served by the built-in generators.
func converted(t reflect.Type, gen Generator) Generator {
	return Func(func(complexity int, random *rand.Rand) interface{} {
		return reflect.ValueOf(gen.Generate(complexity, random)).Convert(t).Interface()
	})
}

// IntGenerator produces ints uniformly from [-complexity, complexity].
var IntGenerator = Func(func(complexity int, random *rand.Rand) interface{} {
	c := complexity
	if c > math.MaxInt32/2 {
		c = math.MaxInt32 / 2
	}
	return random.Intn(2*c+1) - c
})

// Int64Generator produces int64s uniformly from [-2*complexity, 2*complexity].
var Int64Generator = Func(func(complexity int, random *rand.Rand) interface{} {
	c := int64(complexity)
	if c > math.MaxInt64/8 {
		c = math.MaxInt64 / 8
	}
	return random.Int63n(4*c+1) - 2*c
})

// UintGenerator produces uints uniformly from [0, complexity].
var UintGenerator = Func(func(complexity int, random *rand.Rand) interface{} {
	c := complexity
	if c > math.MaxInt32-1 {
		c = math.MaxInt32 - 1
	}
	return uint(random.Intn(c + 1))
})

// FloatGenerator produces float64s in [-complexity, complexity] with a random denominator,
// so that values are rarely integral.
var FloatGenerator = Func(func(complexity int, random *rand.Rand) interface{} {
	c := float64(complexity)
	denom := random.Float64()*(1e10-1) + 1
	num := random.Float64()*2*c*denom - c*denom
	return num / denom
})

var BoolGenerator = Func(func(complexity int, random *rand.Rand) interface{} {
	return random.Intn(2) == 0
})

// CharGenerator mostly produces printable ASCII characters. The chance of a
// printable character outside ASCII grows with complexity up to 15%.
var CharGenerator = Func(func(complexity int, random *rand.Rand) interface{} {
	if random.Float64() < math.Min(.15/32*float64(complexity), .15) {
		for {
			ch := rune(random.Intn(0x10000))
			if unicode.In(ch, unicode.Cyrillic, unicode.Tamil, unicode.Ethiopic, unicode.Katakana, unicode.Han, unicode.Sc) {
				return ch
			}
		}
	}
	return rune(random.Intn(95) + 32)
})

// StringGenerator produces strings of up to complexity characters drawn from chars.
func StringGenerator(chars Generator) Generator {
	return Func(func(complexity int, random *rand.Rand) interface{} {
		length := random.Intn(complexity + 1)
		sb := strings.Builder{}
		for i := 0; i < length; i++ {
			sb.WriteRune(chars.Generate(complexity, random).(rune))
		}
		return sb.String()
	})
}

// SliceGenerator produces slices of type t with up to complexity elements,
// each generated at a random complexity no greater than complexity.
func SliceGenerator(t reflect.Type, elem Generator) Generator {
	return Func(func(complexity int, random *rand.Rand) interface{} {
		length := random.Intn(complexity + 1)
		slice := reflect.MakeSlice(t, length, length)
		for i := 0; i < length; i++ {
			setGenerated(slice.Index(i), elem, random.Intn(complexity+1), random)
		}
		return slice.Interface()
	})
}

// ArrayGenerator produces arrays of type t, each element generated at a
// random complexity no greater than complexity.
func ArrayGenerator(t reflect.Type, elem Generator) Generator {
	return Func(func(complexity int, random *rand.Rand) interface{} {
		array := reflect.New(t).Elem()
		for i := 0; i < t.Len(); i++ {
			setGenerated(array.Index(i), elem, random.Intn(complexity+1), random)
		}
		return array.Interface()
	})
}

// PointerGenerator produces non-nil pointers of type t to generated values.
func PointerGenerator(t reflect.Type, elem Generator) Generator {
	return Func(func(complexity int, random *rand.Rand) interface{} {
		ptr := reflect.New(t.Elem())
		setGenerated(ptr.Elem(), elem, complexity, random)
		return ptr.Interface()
	})
}

// MapGenerator produces maps of type t with up to complexity entries.
// Colliding keys overwrite each other, so maps may end up smaller.
func MapGenerator(t reflect.Type, key, elem Generator) Generator {
	return Func(func(complexity int, random *rand.Rand) interface{} {
		length := random.Intn(complexity + 1)
		m := reflect.MakeMapWithSize(t, length)
		for i := 0; i < length; i++ {
			k := reflect.New(t.Key()).Elem()
			setGenerated(k, key, random.Intn(complexity+1), random)
			v := reflect.New(t.Elem()).Elem()
			setGenerated(v, elem, random.Intn(complexity+1), random)
			m.SetMapIndex(k, v)
		}
		return m.Interface()
	})
}

func setGenerated(target reflect.Value, gen Generator, complexity int, random *rand.Rand) {
	v, err := types.ValueFor(gen.Generate(complexity, random), target.Type())
	if err != nil {
		panic(err)
	}
	target.Set(v)
}
