package listing

import (
	"fmt"
	"strings"

	humanize "github.com/dustin/go-humanize"
)

// String renders the compensation the way the listing cards show it,
// e.g. "50,000 - 70,000 per month" or "40,000 per month".
func (c Compensation) String() string {
	var s string
	switch c.Type {
	case PayRange:
		s = fmt.Sprintf("%s - %s", humanize.Commaf(c.Min), humanize.Commaf(c.Max))
	case PayFixed:
		s = humanize.Commaf(c.Amount)
	default:
		return ""
	}
	if rate := strings.TrimSpace(c.Rate); rate != "" {
		s = s + " " + rate
	}
	return s
}
