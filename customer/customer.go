package customer

import "regexp"

// idPattern restricts customer ids to what is safe inside a storage key segment
var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

/* Customer is the ingestion policy of one tenant.
 * Outlets are secondary identifiers resolving to the same policy.
 */
type Customer struct {
	ID      string
	Format  Format
	Outlets []string
}

// ValidID reports whether s is a syntactically valid customer id or outlet alias
func ValidID(s string) bool {
	return idPattern.MatchString(s)
}
