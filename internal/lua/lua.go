// Package lua builds Lua source fragments from untrusted input.
//
// Every value interpolated into a generated script must pass through
// String or Path. Numbers are formatted by the caller with %d or %g.
package lua

import "strings"

// escaper rewrites the bytes that cannot appear verbatim inside a
// double-quoted Lua short string. NUL is written as a three-digit
// decimal escape so a following digit in the input cannot extend it.
var escaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\x00", `\000`,
)

// String returns s as a double-quoted Lua string literal.
func String(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	_, _ = escaper.WriteString(&b, s)
	b.WriteByte('"')
	return b.String()
}

// NormalizePath rewrites backslash separators to forward slashes.
// Aseprite's Lua file APIs accept forward slashes on every platform.
func NormalizePath(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// Path returns p normalized and quoted as a Lua string literal.
func Path(p string) string {
	return String(NormalizePath(p))
}

// Bool formats b as a Lua boolean.
func Bool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
