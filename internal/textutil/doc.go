// Package textutil provides small text helpers shared by deck resolution and
// file naming.
//
// StripMarkup reduces a rich card field to the plain text a speech engine
// should read. SanitizeToken turns arbitrary names into filesystem-safe tokens.
package textutil
