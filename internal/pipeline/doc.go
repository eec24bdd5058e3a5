// Package pipeline lays out a business document as a single self-contained
// HTML page ready for printing.
//
// Text bodies are printed as escaped text with their line breaks kept, so
// nothing the generator wrote is reinterpreted as markup. JSON bodies become
// fenced code blocks that goldmark highlights with chroma and bluemonday
// sanitizes.
//
// The sections are placed in the document template next to the company
// header, title, type label and issue date, together with the stylesheet and
// the font fallback rules. Relative images in a custom template resolve
// against the asset directory. Printing the page is done by the root bizdoc
// package through a headless browser.
package pipeline
