package shared

import (
	"fmt"
	"strings"
)

// Neighborhood is the (RT, RW) key that partitions residents, admins and
// every ledger record reachable through them.
type Neighborhood struct {
	RT string `json:"rt"`
	RW string `json:"rw"`
}

// NewNeighborhood validates and normalizes an RT/RW pair
func NewNeighborhood(rt, rw string) (Neighborhood, error) {
	rt = strings.TrimSpace(rt)
	rw = strings.TrimSpace(rw)
	if rt == "" || rw == "" {
		return Neighborhood{}, NewValidationError("INVALID_NEIGHBORHOOD", "RT and RW are required")
	}
	return Neighborhood{RT: rt, RW: rw}, nil
}

// IsZero reports whether the neighborhood is unset
func (n Neighborhood) IsZero() bool {
	return n.RT == "" && n.RW == ""
}

// Equals compares two neighborhoods
func (n Neighborhood) Equals(other Neighborhood) bool {
	return n.RT == other.RT && n.RW == other.RW
}

// String renders the key as "RT 001/RW 002"
func (n Neighborhood) String() string {
	return fmt.Sprintf("RT %s/RW %s", n.RT, n.RW)
}
