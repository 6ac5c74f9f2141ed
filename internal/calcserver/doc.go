// SPDX-License-Identifier: MPL-2.0

// Package calcserver serves the unit calculator over SSH using the Wish library.
//
// Every session gets its own interpreter over a shared, read-only catalog, so
// the decomposition state of one client never leaks into another. A session
// started with a command ("ssh host '1 км=>м'") evaluates that single statement
// and exits with status 1 on failure. A shell session evaluates one statement
// per line until EOF or "exit"; when the client requests a PTY the session gets
// line editing and a prompt.
package calcserver
