// Package numbering formats and increments human-facing entry and account numbers.
package numbering

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultEntryPrefix is used when no prefix is configured.
	DefaultEntryPrefix = "JE"

	entrySeqWidth   = 5
	maxSeqDigits    = 18
	accountNumWidth = 4
)

// EntryBucket returns the "<PREFIX>-<YYYYMM>-" bucket an entry dated date falls into.
func EntryBucket(prefix string, date time.Time) string {
	if prefix == "" {
		prefix = DefaultEntryPrefix
	}
	return fmt.Sprintf("%s-%04d%02d-", prefix, date.Year(), int(date.Month()))
}

// EntrySequence extracts the sequence of an automatically formatted number:
// bucket followed by at least five digits. Anything else reports false.
func EntrySequence(bucket, number string) (int, bool) {
	rest, ok := strings.CutPrefix(number, bucket)
	if !ok || len(rest) < entrySeqWidth || len(rest) > maxSeqDigits {
		return 0, false
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}

// NextEntryNumber returns the number following sequence highest within bucket.
// Past 99999 the sequence simply grows a sixth digit.
func NextEntryNumber(bucket string, highest int) string {
	return fmt.Sprintf("%s%0*d", bucket, entrySeqWidth, highest+1)
}

// NextAccountNumber returns the next account number for the classification
// prefix. The first account of a classification gets "<prefix>000".
func NextAccountNumber(prefix, highest string) (string, error) {
	if highest == "" {
		return prefix + strings.Repeat("0", accountNumWidth-len(prefix)), nil
	}
	n, err := strconv.Atoi(highest)
	if err != nil {
		return "", fmt.Errorf("account number %q is not numeric: %w", highest, err)
	}
	next := strconv.Itoa(n + 1)
	if !strings.HasPrefix(next, prefix) || len(next) != accountNumWidth {
		return "", fmt.Errorf("account number range for prefix %s is exhausted", prefix)
	}
	return next, nil
}
