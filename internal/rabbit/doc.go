// Package rabbit implements the slice of the Rabbit presentation renderer
// that the converter drives: Markdown slide parsing, per-slide HTML
// generation and slide rasterization, behind a command-line style entry
// point (Run).
//
// # Slides
//
// A level-1 heading opens a slide. The first slide is the title slide
// (index 0). Everything up to the next level-1 heading belongs to the slide
// body:
//
//	# Deck title
//
//	An author
//
//	# Second slide
//
//	* point one
//	* point two
//
// # Extension Points
//
// The renderer never returns its output. Callers observe it through two
// injected strategies:
//
//   - HeadingHook claims headings while parsing and redirects the blocks
//     below them (see NoteSetter).
//   - Saver receives every slide after its image has been written, and the
//     final combined-output step.
//
// Both are supplied through Env, so nothing in this package is patched at
// runtime and two concurrent Run calls never share state.
package rabbit
