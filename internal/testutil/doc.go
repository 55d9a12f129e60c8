// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers for tests that build template trees and
// inspect generated projects on afero filesystems. Helpers fail the test
// immediately instead of returning errors.
package testutil
