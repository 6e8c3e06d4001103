package normalize

import "time"

// rowTime is the timestamp layout used in output rows.
const rowTime = "2006-01-02 15:04:05"

// ShortSHA abbreviates a commit hash to its first 8 hex chars.
func ShortSHA(sha string) string {
	if sha == "" {
		return Missing
	}
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}

// FormatDate rewrites an RFC 3339 commit timestamp into row form.
// Empty input yields Missing; anything unparseable passes through untouched
// rather than losing the raw value.
func FormatDate(iso string) string {
	if iso == "" {
		return Missing
	}
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return iso
	}
	return t.UTC().Format(rowTime)
}
