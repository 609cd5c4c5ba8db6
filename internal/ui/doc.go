// Package ui provides the text formatters used for lockfiles output.
//
// Each formatter names a kind of content rather than a color:
//
//	ui.Path.Sprint("notes.txt.locked")
//	ui.Flag.Sprint("--overwrite")
//	ui.Success.Sprint("✓")
//	ui.Warning.Sprint("[dry-run]")
//	ui.Muted.Sprint("nothing was changed")
//
// Colors are turned off when NO_COLOR is set or when fatih/color finds no
// color capable terminal. Code, Highlight and Muted then fall back to
// `backticks`, 'quotes' and (parentheses) so the distinction survives.
package ui
