package stripeutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStatus(t *testing.T) {
	cases := map[string]string{
		"":                   "none",
		"  ":                 "none",
		"active":             "active",
		"trialing":           "trialing",
		"past_due":           "past_due",
		"unpaid":             "past_due",
		"canceled":           "canceled",
		"incomplete_expired": "canceled",
		"paused":             "paused",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeStatus(in), "NormalizeStatus(%q)", in)
	}
}
