// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Common helpers include environment variable management (MustSetenv, MustUnsetenv,
// SetConfigHome), file operations (MustMkdirAll, MustWriteFile), and stub
// pipelines (WriteStubPipeline) that record their arguments and exit with a chosen code.
package testutil
