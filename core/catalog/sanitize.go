package catalog

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidIdentifier is returned when a table name sanitizes down to nothing.
var ErrInvalidIdentifier = errors.New("invalid table identifier")

var identStripRegex = regexp.MustCompile(`[^A-Za-z0-9_]`)

// Sanitize is the single choke point every dynamically-composed table name
// must pass through before being interpolated into a query string. It strips
// quoting characters and anything outside [A-Za-z0-9_]. The result is an
// opaque identifier; callers must not re-derive names by further string
// surgery. Backend quoting is applied by the storage layer afterwards.
func Sanitize(name string) (string, error) {
	if name == "" {
		return "", ErrInvalidIdentifier
	}
	clean := strings.NewReplacer("`", "", `"`, "").Replace(name)
	sanitized := identStripRegex.ReplaceAllString(clean, "")
	if sanitized == "" {
		return "", errors.Wrapf(ErrInvalidIdentifier, "%q", name)
	}
	return sanitized, nil
}
