// SPDX-License-Identifier: MPL-2.0

// Package catalog holds the unit catalog and the metric prefix table.
//
// A catalog maps unit tags (e.g. "м", "Па", "сут") to definitions. A definition
// is atomic when it has no base, or composite when it lists the units it is
// made of, each with its own exponent and multiplier:
//
//	{tag: "Па", base: [{tag: "Н"}, {tag: "м", pow: -2}]}
//	{tag: "ч",  base: [{tag: "с", mpl: 3600}]}
//
// Catalog documents are CUE (or JSON, TOML, YAML) files validated against an
// embedded schema. Load merges the builtin SI catalog with user sources and
// rejects documents that define a tag twice, reference unknown units, put a
// multiplier on a composite unit, or define a unit in terms of itself.
//
// A *Catalog is safe for concurrent lookups. Insert takes the write lock and is
// meant for the loading phase; inserting while expressions are being
// evaluated is not supported.
package catalog
