// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors and a catalog of Markdown guides
// for the failures a mod build commonly runs into. The CLI prints the error
// with its suggestions, then renders the linked guide. Verbose mode adds the
// chain of underlying causes.
package issue
