// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and
// remediation hints. The issue catalog holds Markdown help pages, rendered
// with glamour, that the CLI prints below an error: one per failure class
// (unknown unit, incoherent conversion, syntax error, catalog or config
// load failure, server start failure).
package issue
