// Package translate provides the machine translation providers used to fill
// the translation pane. Providers share a common interface and are selected
// by name through configuration; every provider call is guarded by a
// circuit breaker and oversized paragraphs are chunked before being sent.
package translate
