// Package spotlight computes and applies the dim regions of focus mode.
//
// The core is ComputeDimmedRanges, a pure function from a cursor line set to
// the maximal disjoint closed intervals not holding a cursor. Its cost is
// O(number of cursors), independent of document size, so emphasis updates do
// not degrade on very large documents.
//
// Marker wraps the visual side: it owns a dim tcell style derived from the
// configured opacity and applies or clears line ranges on a Surface. Style
// parameters are immutable once built; configuration changes go through
// Recreate.
package spotlight
