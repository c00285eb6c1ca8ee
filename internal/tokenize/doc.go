// SPDX-License-Identifier: MPL-2.0

// Package tokenize produces the parallel character and phone token streams
// used to train a char_phone recipe, either as tokenized text (one line per
// input line) or as frequency-sorted vocabularies.
//
// Input lines may carry an utterance id; ParseField selects the text columns
// with 1-based cut(1)-style ranges such as "2-".
package tokenize
