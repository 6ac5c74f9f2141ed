// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the unitfold command tree.
//
// Commands are built per App so tests can inject configuration, catalogs
// and I/O. Execute wires the tree into fang and maps ExitError to the
// process exit code.
package cmd
