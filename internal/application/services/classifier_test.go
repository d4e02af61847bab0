package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyLocationTitle(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Nizami ATM", "ATM"},
		{"atm - 28 May", "ATM"},
		{"Payment terminal Ganjlik", "Payment Terminal"},
		{"Self-service Terminal", "Payment Terminal"},
		{"Head Office", "Branch"},
		{"Sumgait filial", "Branch"},
		{"", "Branch"},
		// both markers present: the atm rule is checked first
		{"ATM terminal corner", "ATM"},
	}

	for _, tc := range cases {
		t.Run(tc.title, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyLocationTitle(tc.title))
		})
	}
}

func TestIsActualBranchName(t *testing.T) {
	assert.True(t, IsActualBranchName("Central Branch"))
	assert.True(t, IsActualBranchName("Nizami FILIAL"))
	assert.True(t, IsActualBranchName("Head office"))
	assert.False(t, IsActualBranchName("Ganjlik Mall kiosk"))
	assert.False(t, IsActualBranchName(""))
}

func TestShouldRecategorizeAsServicePoint(t *testing.T) {
	assert.False(t, ShouldRecategorizeAsServicePoint("28 May Branch"))
	assert.True(t, ShouldRecategorizeAsServicePoint("Port Baku kiosk"))
}
