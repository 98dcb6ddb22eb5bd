// Package processor contains the headless document pipeline: it reads a
// document, segments it into paragraphs, runs the translation scheduler to
// completion and renders the bilingual result as text. The GUI uses the
// same underlying pieces; this package wires them for command-line use.
package processor
