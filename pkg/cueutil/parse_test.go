// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"strings"
	"testing"
)

const testSchema = `
#Item: {
	tag:  string & !=""
	mpl:  *1.0 | (number & >0)
	pow:  *1 | int
	base: *[] | [...#Item]
}

#Doc: {
	items: [...#Item]
}
`

type (
	testItem struct {
		Tag  string     `json:"tag"`
		Mpl  float64    `json:"mpl"`
		Pow  int        `json:"pow"`
		Base []testItem `json:"base"`
	}

	testDoc struct {
		Items []testItem `json:"items"`
	}
)

func TestParseAndDecode(t *testing.T) {
	t.Parallel()

	t.Run("defaults are applied", func(t *testing.T) {
		t.Parallel()

		data := []byte(`items: [{tag: "м"}, {tag: "км", base: [{tag: "м", mpl: 1000}]}]`)
		result, err := ParseAndDecode[testDoc]([]byte(testSchema), data, "#Doc")
		if err != nil {
			t.Fatalf("ParseAndDecode failed: %v", err)
		}

		items := result.Value.Items
		if len(items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(items))
		}
		if items[0].Mpl != 1.0 || items[0].Pow != 1 {
			t.Errorf("expected defaults mpl=1 pow=1, got mpl=%v pow=%d", items[0].Mpl, items[0].Pow)
		}
		if len(items[1].Base) != 1 || items[1].Base[0].Mpl != 1000 {
			t.Errorf("nested base not decoded: %+v", items[1].Base)
		}
	})

	t.Run("JSON input is accepted", func(t *testing.T) {
		t.Parallel()

		data := []byte(`{"items": [{"tag": "с", "pow": -1}]}`)
		result, err := ParseAndDecode[testDoc]([]byte(testSchema), data, "#Doc")
		if err != nil {
			t.Fatalf("ParseAndDecode failed: %v", err)
		}
		if result.Value.Items[0].Pow != -1 {
			t.Errorf("expected pow -1, got %d", result.Value.Items[0].Pow)
		}
	})

	t.Run("schema violation carries the path", func(t *testing.T) {
		t.Parallel()

		data := []byte(`items: [{tag: "м", mpl: -2}]`)
		_, err := ParseAndDecode[testDoc]([]byte(testSchema), data, "#Doc", WithFilename("bad.cue"))
		if err == nil {
			t.Fatal("expected error for negative mpl")
		}
		if !strings.Contains(err.Error(), "bad.cue") {
			t.Errorf("error should contain filename, got: %v", err)
		}
		if !IsValidationError(err) {
			t.Errorf("expected a validation error, got %T", err)
		}
	})

	t.Run("size limit", func(t *testing.T) {
		t.Parallel()

		data := []byte(`items: []`)
		_, err := ParseAndDecode[testDoc]([]byte(testSchema), data, "#Doc", WithMaxFileSize(4))
		if err == nil {
			t.Fatal("expected size error")
		}
	})

	t.Run("unknown schema path is an internal error", func(t *testing.T) {
		t.Parallel()

		_, err := ParseAndDecodeString[testDoc](testSchema, []byte(`items: []`), "#Missing")
		if err == nil || !strings.Contains(err.Error(), "internal error") {
			t.Fatalf("expected internal error, got %v", err)
		}
	})
}

func TestDecodeValue(t *testing.T) {
	t.Parallel()

	t.Run("plain Go values unify with the schema", func(t *testing.T) {
		t.Parallel()

		value := map[string]any{
			"items": []any{
				map[string]any{"tag": "ч", "base": []any{map[string]any{"tag": "с", "mpl": int64(3600)}}},
			},
		}
		result, err := DecodeValue[testDoc]([]byte(testSchema), value, "#Doc")
		if err != nil {
			t.Fatalf("DecodeValue failed: %v", err)
		}
		item := result.Value.Items[0]
		if item.Pow != 1 || item.Base[0].Mpl != 3600 {
			t.Errorf("unexpected decode: %+v", item)
		}
	})

	t.Run("violations are reported like CUE input", func(t *testing.T) {
		t.Parallel()

		value := map[string]any{"items": []any{map[string]any{"tag": ""}}}
		_, err := DecodeValue[testDoc]([]byte(testSchema), value, "#Doc", WithFilename("units.toml"))
		if err == nil {
			t.Fatal("expected error for empty tag")
		}
		if !strings.Contains(err.Error(), "units.toml") {
			t.Errorf("error should contain filename, got: %v", err)
		}
	})
}

func TestParseAndDecodePartial(t *testing.T) {
	t.Parallel()

	const schema = `
#Settings: close({
	output?: {
		precision?: int & >=0 & <=15
		threshold?: number & >0
	}
})
`
	data := []byte(`output: precision: 5`)

	result, err := ParseAndDecodeString[map[string]any](schema, data, "#Settings", WithPartial())
	if err != nil {
		t.Fatalf("partial decode failed: %v", err)
	}
	output, ok := (*result.Value)["output"].(map[string]any)
	if !ok {
		t.Fatalf("output section missing: %v", *result.Value)
	}
	if _, set := output["threshold"]; set {
		t.Error("unset optional field should not be decoded")
	}

	_, err = ParseAndDecodeString[map[string]any](schema, []byte(`output: precision: 99`), "#Settings",
		WithPartial(), WithFilename("config.cue"))
	if err == nil {
		t.Fatal("expected a constraint violation")
	}
	if !IsValidationError(err) || !strings.Contains(err.Error(), "config.cue") {
		t.Errorf("error = %v, want a validation error naming config.cue", err)
	}
}
