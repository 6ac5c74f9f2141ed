// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// ParseResult is a decoded document together with the unified CUE value it
// was decoded from.
type ParseResult[T any] struct {
	Value   *T
	Unified cue.Value
}

// ParseAndDecode compiles data (CUE or JSON), unifies it with the definition
// at schemaPath in schema, validates the result and decodes it into T.
// Schema defaults apply. Documents larger than the size limit are rejected
// before compilation.
func ParseAndDecode[T any](schema, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	s := newSettings(opts)
	name := s.displayName()

	if err := CheckFileSize(data, s.maxSize, name); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()
	doc := ctx.CompileBytes(data, cue.Filename(name))
	if err := doc.Err(); err != nil {
		return nil, FormatError(err, name)
	}
	return decode[T](ctx, schema, schemaPath, doc, s)
}

// ParseAndDecodeString is ParseAndDecode for a schema held in a string.
func ParseAndDecodeString[T any](schema string, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	return ParseAndDecode[T]([]byte(schema), data, schemaPath, opts...)
}

// DecodeValue runs the same validation on a Go value produced by another
// decoder, e.g. the map read from a TOML or YAML catalog. The size limit is
// the caller's job since the raw bytes are not seen here.
func DecodeValue[T any](schema []byte, value any, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	s := newSettings(opts)

	ctx := cuecontext.New()
	doc := ctx.Encode(value)
	if err := doc.Err(); err != nil {
		return nil, FormatError(err, s.displayName())
	}
	return decode[T](ctx, schema, schemaPath, doc, s)
}

func decode[T any](ctx *cue.Context, schema []byte, schemaPath string, doc cue.Value, s settings) (*ParseResult[T], error) {
	compiled := ctx.CompileBytes(schema)
	if err := compiled.Err(); err != nil {
		return nil, fmt.Errorf("internal error: compile schema: %w", err)
	}
	def := compiled.LookupPath(cue.ParsePath(schemaPath))
	if err := def.Err(); err != nil {
		return nil, fmt.Errorf("internal error: schema definition %s: %w", schemaPath, err)
	}

	name := s.displayName()
	unified := def.Unify(doc)
	if err := unified.Validate(cue.Concrete(!s.partial)); err != nil {
		return nil, FormatError(err, name)
	}

	var out T
	if err := unified.Decode(&out); err != nil {
		return nil, FormatError(err, name)
	}
	return &ParseResult[T]{Value: &out, Unified: unified}, nil
}
