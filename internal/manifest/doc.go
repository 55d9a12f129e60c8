// SPDX-License-Identifier: MPL-2.0

// Package manifest loads, merges and saves a project's package.json.
//
// Only the dependencies, devDependencies and scripts sections are modelled;
// every other top-level field is kept byte for byte and in its original
// position. Merging is a shallow last-write-wins per section, applied in
// selection order.
package manifest
