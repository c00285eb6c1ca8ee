// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries what was attempted, on which resource, and how to
// fix it. The issue catalog holds longer Markdown guidance for the failure
// classes a launcher run can hit, rendered in the terminal with glamour.
package issue
