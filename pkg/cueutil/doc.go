// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides the shared schema-validation flow used for module
// metadata and the user configuration file.
//
// Both callers follow the same three steps:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify it with the schema
//  3. Validate and decode into a Go struct
//
// JSON is a subset of CUE, so phobos.meta.json files go through the same path
// as config.cue without a separate decoder.
//
// # Usage
//
//	//go:embed meta_schema.cue
//	var metaSchema []byte
//
//	result, err := cueutil.ParseAndDecode[Meta](
//	    metaSchema,
//	    data,
//	    "#Meta",
//	    cueutil.WithFilename("react-router/phobos.meta.json"),
//	)
//	if err != nil {
//	    return err // includes the offending field path
//	}
//	return result.Value, nil
package cueutil
