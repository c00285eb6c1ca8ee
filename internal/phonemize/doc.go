// SPDX-License-Identifier: MPL-2.0

// Package phonemize appends grapheme-to-phoneme output to transcript lines,
// producing the "text<joint>phones" input consumed by pre-phonemized
// tokenization.
//
// The converter itself is external: any command that reads one text per
// line on stdin and writes one phoneme string per line on stdout works.
package phonemize
