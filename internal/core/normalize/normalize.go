// Package normalize flattens raw commit metadata into stable tabular form
//
// Pipeline for messages
// 1 UTF-8 repair drop invalid bytes
// 2 Unicode NFC normalization
// 3 Remove format chars ZWJ ZWNJ FEFF etc
// 4 Collapse whitespace to single spaces and trim
// 5 Truncate to the row width with an ellipsis
//
// The pipeline is idempotent: feeding an output back through yields the same
// string, so rows can be re-normalized safely on replay.
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Missing is the sentinel for fields with no usable value.
const Missing = "N/A"

const (
	// maxMessage is the widest a message cell may be, in runes.
	maxMessage = 200
	// truncateAt leaves room for the ellipsis.
	truncateAt = 197
)

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFC,
			runes.Remove(runes.In(unicode.Cf)), // strip format chars ZWJ ZWNJ FEFF etc
		)
	},
}

// CleanMessage returns the tabular form of a raw commit message.
// Empty input, or input that is nothing but noise, yields Missing.
func CleanMessage(s string) string {
	if s == "" {
		return Missing
	}

	// 1 repair UTF-8 drop invalid bytes
	s = strings.ToValidUTF8(s, "")

	// 2-3 transform via pooled chain then reset and return it
	tr := chainPool.Get().(transform.Transformer)
	ns, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err == nil {
		s = ns
	}

	// 4 collapse runs of whitespace including newlines
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return Missing
	}

	// 5 truncate on rune boundaries
	r := []rune(s)
	if len(r) > maxMessage {
		s = string(r[:truncateAt]) + "..."
	}
	return s
}
