// SPDX-License-Identifier: MPL-2.0

// Package types defines small value types shared by the catalog, the composer
// and the CLI. Each type carries its own validation and typed error.
//
// Besides the standard library it only imports internal/platform for file
// naming rules.
package types
