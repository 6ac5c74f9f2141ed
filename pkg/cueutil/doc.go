// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE parsing utilities.
//
// The package consolidates the 3-step CUE parsing pattern used by the unit
// catalog loader and the configuration layer:
//
//  1. Compile the embedded schema
//  2. Compile (or encode) user data and unify with schema
//  3. Validate and decode to Go struct
//
// # Usage
//
//	//go:embed catalog_schema.cue
//	var schemaBytes []byte
//
//	result, err := cueutil.ParseAndDecode[Document](
//	    schemaBytes,
//	    userFileBytes,
//	    "#Catalog",
//	    cueutil.WithFilename("units.cue"),
//	)
//	if err != nil {
//	    return nil, err  // Error includes CUE path for debugging
//	}
//	return result.Value, nil
//
// Documents written in other formats (TOML, YAML) are decoded into plain Go
// values first and handed to DecodeValue, which encodes them into CUE and runs
// the same unification, so every format shares one schema and one set of
// defaults.
package cueutil
