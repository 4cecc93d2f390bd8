package authsdk

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	bootstrapRequiredReason = "required"
	bootstrapOnlyAlphanum   = "must only contain a-z, A-Z, 0-9, _ or -"
)

var (
	reBootstrapName  = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	reBootstrapScope = regexp.MustCompile(`^[a-z][a-z0-9._:-]*$`)
)

// Validate checks if the bootstrap request fields are valid.
// Returns a map of field names to error messages, or nil if all fields are valid.
// An empty scope list is valid; the server substitutes its registration scope.
func (b BootstrapRequest) Validate() map[string]string {
	errs := make(map[string]string)

	b.validateClientName(errs)
	b.validateScopes(errs)

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (b BootstrapRequest) validateClientName(errs map[string]string) {
	cname := strings.TrimSpace(b.ClientName)
	switch {
	case cname == "":
		errs["client_name"] = bootstrapRequiredReason
	case len(cname) > 100:
		errs["client_name"] = "too long (max 100)"
	case !reBootstrapName.MatchString(cname):
		errs["client_name"] = bootstrapOnlyAlphanum
	}
}

func (b BootstrapRequest) validateScopes(errs map[string]string) {
	seen := make(map[string]struct{}, len(b.Scopes))
	for _, s := range b.Scopes {
		if !reBootstrapScope.MatchString(s) {
			errs["scopes"] = fmt.Sprintf("invalid scope: %q", s)
			return
		}
		if _, dup := seen[s]; dup {
			errs["scopes"] = "duplicate scopes"
			return
		}
		seen[s] = struct{}{}
	}
}
