// SPDX-License-Identifier: MPL-2.0

// Package catalog discovers feature modules in a template tree and turns
// their phobos.meta.json files into fixed-shape descriptors.
//
// A catalog root holds one directory per module; the directory name is the
// module key. Metadata is validated against an embedded CUE schema. A module
// whose metadata is missing gets a defaulted descriptor, and a module whose
// metadata is invalid is kept as a file-only module with a warning in the
// returned report. Only an unreadable root is fatal.
//
// A loaded Catalog is immutable: accessors hand out copies.
package catalog
