package finance

import (
	"strings"

	"github.com/google/uuid"
)

// SystemPrefix marks ids of records seeded by the application itself. They are
// never rewritten and never pushed.
const SystemPrefix = "sys-"

// exceptionNamespace seeds derived recurring exception ids.
var exceptionNamespace = uuid.MustParse("5b0f3a4e-8c1d-4f57-9a43-2f6c1d7e9b10")

// NewID returns a fresh canonical identifier.
func NewID() string {
	return uuid.NewString()
}

// IsCanonicalID reports whether id is a lowercase hyphenated UUID.
func IsCanonicalID(id string) bool {
	if len(id) != 36 || strings.ToLower(id) != id {
		return false
	}

	_, err := uuid.Parse(id)

	return err == nil
}

// IsSystemID reports whether id belongs to an application-seeded record.
func IsSystemID(id string) bool {
	return strings.HasPrefix(id, SystemPrefix)
}

// ExceptionID derives the id of the exception for ruleID on date.
func ExceptionID(ruleID, date string) string {
	return uuid.NewSHA1(exceptionNamespace, []byte(ruleID+"|"+date)).String()
}
