package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInviteUsable(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	cases := []struct {
		name string
		inv  Invite
		want bool
	}{
		{name: "fresh", inv: Invite{}, want: true},
		{name: "unlimited uses", inv: Invite{MaxUses: 0, UseCount: 100}, want: true},
		{name: "uses left", inv: Invite{MaxUses: 3, UseCount: 2}, want: true},
		{name: "exhausted", inv: Invite{MaxUses: 3, UseCount: 3}, want: false},
		{name: "not yet expired", inv: Invite{ExpiresAt: &future}, want: true},
		{name: "expired", inv: Invite{ExpiresAt: &past}, want: false},
		{name: "expires exactly now", inv: Invite{ExpiresAt: &now}, want: false},
		{name: "revoked", inv: Invite{RevokedAt: &past}, want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.inv.Usable(now))
		})
	}
}
