// SPDX-License-Identifier: MPL-2.0

// Package report collects typed per-item outcomes produced while composing a
// project. Components return a *Report instead of printing, so callers and
// tests can assert on what was applied and what was skipped.
package report
