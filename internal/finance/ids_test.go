package finance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/pocketbook/internal/finance"
)

func TestIsCanonicalID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{name: "Generated", id: finance.NewID(), want: true},
		{name: "Lowercase", id: "0b6c1a52-3f1e-4c43-9a57-1f0e2d3c4b5a", want: true},
		{name: "Uppercase", id: "0B6C1A52-3F1E-4C43-9A57-1F0E2D3C4B5A", want: false},
		{name: "Braced", id: "{0b6c1a52-3f1e-4c43-9a57-1f0e2d3c4b5a}", want: false},
		{name: "Legacy", id: "cat-legacy", want: false},
		{name: "Timestamp", id: "1699999999999", want: false},
		{name: "Empty", id: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, finance.IsCanonicalID(tt.id))
		})
	}
}

func TestExceptionID_Deterministic(t *testing.T) {
	rule := finance.NewID()

	a := finance.ExceptionID(rule, "2024-03-01")
	b := finance.ExceptionID(rule, "2024-03-01")
	c := finance.ExceptionID(rule, "2024-04-01")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.True(t, finance.IsCanonicalID(a))
}

func TestSettingsPatch_Apply(t *testing.T) {
	now := int64(1_700_000_000_000)
	cleared := ""

	s := finance.Settings{LastPullAt: 1, LastPushAt: 2, LastSyncError: "categories pull: boom"}

	got := finance.SettingsPatch{LastPullAt: &now, LastPushAt: &now, LastSyncError: &cleared}.Apply(s)
	assert.Equal(t, finance.Settings{LastPullAt: now, LastPushAt: now}, got)

	msg := "fatal: no scope"
	got = finance.SettingsPatch{LastSyncError: &msg}.Apply(s)
	assert.Equal(t, finance.Settings{LastPullAt: 1, LastPushAt: 2, LastSyncError: msg}, got)
}
