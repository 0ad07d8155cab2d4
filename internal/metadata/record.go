package metadata

import "net/url"

// Key identifies one dictionary entry.
type Key struct {
	Language string
	Headword string
}

// Record is one validated pronunciation record. It only exists after its
// line parsed, its key fields were present and its audio file was found
// on disk.
type Record struct {
	Username    string
	Gender      string
	Country     string
	Votes       int
	FilePath    string
	DownloadURL string
	AudioID     int64
}

// logLine is the raw shape of one metadata log line.
type logLine struct {
	Language    string   `json:"language"`
	Headword    string   `json:"headword"`
	QueryWord   string   `json:"query_word"`
	Origin      []string `json:"origin"`
	Votes       int      `json:"votes"`
	DownloadURL string   `json:"download_url"`
	ID          int64    `json:"id"`
}

// splitOrigin applies the lenient positional defaulting for the origin
// field: [username, gender, country, ...], with a missing username
// defaulting to "unknown" and missing gender/country to "". Extra
// elements are ignored.
func splitOrigin(origin []string) (username, gender, country string) {
	username = "unknown"
	if len(origin) > 0 {
		username = origin[0]
	}
	if len(origin) > 1 {
		gender = origin[1]
	}
	if len(origin) > 2 {
		country = origin[2]
	}
	return username, gender, country
}

// resolveHeadword applies the headword correction: when query_word is
// present and differs from the stored headword, the log's headword field
// is stale and the percent-decoded query word wins. Plus signs are not
// treated as spaces and an undecodable value is used verbatim.
func resolveHeadword(headword, queryWord string) string {
	if queryWord == "" || queryWord == headword {
		return headword
	}
	decoded, err := url.PathUnescape(queryWord)
	if err != nil {
		return queryWord
	}
	return decoded
}
