package board

import (
	"strings"
	"time"
)

// fingerprintPrefix is the number of leading content runes that take part
// in a combined id.
const fingerprintPrefix = 50

// CombinedID derives the fingerprint used to associate per-channel records
// of the same content: the first 50 runes of the caption with whitespace
// removed, and the UTC calendar day of the timestamp.
//
// Two different captions sharing a client, a day and the same first 50
// characters collapse into one group. That false merge is accepted.
func CombinedID(content string, ts time.Time) string {
	runes := []rune(content)
	if len(runes) > fingerprintPrefix {
		runes = runes[:fingerprintPrefix]
	}
	prefix := strings.Join(strings.Fields(string(runes)), "")
	return prefix + "_" + ts.UTC().Format(time.DateOnly)
}
