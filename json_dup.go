package goalter

import (
	"github.com/reoring/goalter/internal/jsondup"
)

// DuplicateKeys reports every object key repeated in the JSON text data as a
// duplicate_key issue. max > 0 caps the number reported. Decoding keeps the
// last value of a repeated key, so callers decide whether to warn or refuse.
func DuplicateKeys(data []byte, max int) (Issues, error) {
	dups, err := jsondup.Detect(data, max)
	var iss Issues
	for _, d := range dups {
		it := newIssue(Unknown, CodeDuplicateKey, map[string]string{"key": d.Key})
		it.Path = d.Path
		iss = append(iss, *it)
	}
	return iss, err
}
