// Package viz renders fields and batch summaries for the terminal.
//
// Grids use the plain dump glyphs ('.', 'c', 'P'); with color enabled each glyph is
// styled with lipgloss so offspring stand out from their parents. Summaries follow
// the report layout: a totals table and per-flower rates.
package viz
