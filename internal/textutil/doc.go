// Package textutil provides text canonicalization and similarity primitives
// for matching script lines against ASR transcripts.
//
// The primary use cases are:
//   - Normalizing dialogue and transcript text into a canonical comparable form
//   - Computing a sequence similarity ratio between two normalized strings
//   - Sanitizing take names for safe filesystem use
//
// Normalization lowercases text, folds Unicode to its ASCII-comparable base
// form, strips punctuation, and collapses whitespace runs. The similarity
// ratio is a longest-matching-blocks metric in [0, 1], symmetric in its
// arguments.
package textutil
