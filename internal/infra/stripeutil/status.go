package stripeutil

import "strings"

// NormalizeStatus collapses Stripe's subscription-status vocabulary for
// presentation. The raw value stays on the user record untouched.
func NormalizeStatus(s string) string {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return "none"
	case "active":
		return "active"
	case "trialing":
		return "trialing"
	case "past_due", "unpaid":
		return "past_due"
	case "canceled", "incomplete_expired":
		return "canceled"
	default:
		return s
	}
}
