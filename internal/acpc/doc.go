// Package acpc converts the street-relative action and board encoding shown by
// the web table into ACPC match-state notation.
//
// The table reports each raise relative to the chips committed at the start of
// the current street ("b100c/b200"), while ACPC expresses raises as the total a
// player has contributed over the whole hand ("r100c/r300"). Translator carries
// the running maximum bet across streets to rewrite one into the other.
//
// Everything in this package is pure: no I/O, no shared state, safe for
// concurrent use.
package acpc
