// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Helpers cover environment variables (MustSetenv, MustUnsetenv, SetHomeDir),
// the filesystem (MustChdir, MustMkdirAll, MustWriteFile) and resource
// cleanup (MustClose, DeferStop).
package testutil
