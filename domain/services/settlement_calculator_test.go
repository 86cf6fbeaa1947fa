package services

import (
	"testing"

	"pickem/domain/entities"

	"github.com/stretchr/testify/assert"
)

func TestDetermineWinners(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		parts   []*entities.Participation
		top     int64
		winners []string
	}{
		{
			name:    "no participants",
			parts:   nil,
			top:     0,
			winners: nil,
		},
		{
			name: "single top scorer",
			parts: []*entities.Participation{
				{AccountID: "b", Paid: true, LivePoints: 30},
				{AccountID: "a", Paid: true, LivePoints: 10},
			},
			top:     30,
			winners: []string{"b"},
		},
		{
			name: "tie sorted by account id",
			parts: []*entities.Participation{
				{AccountID: "zed", Paid: true, LivePoints: 100},
				{AccountID: "amy", Paid: true, LivePoints: 100},
				{AccountID: "kim", Paid: true, LivePoints: 70},
			},
			top:     100,
			winners: []string{"amy", "zed"},
		},
		{
			name: "everyone scored zero",
			parts: []*entities.Participation{
				{AccountID: "b", Paid: true},
				{AccountID: "a", Paid: true},
			},
			top:     0,
			winners: []string{"a", "b"},
		},
		{
			name: "unpaid rows ignored",
			parts: []*entities.Participation{
				{AccountID: "a", Paid: false, LivePoints: 90},
				{AccountID: "b", Paid: true, LivePoints: 20},
			},
			top:     20,
			winners: []string{"b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			top, winners := DetermineWinners(tt.parts)
			assert.Equal(t, tt.top, top)
			assert.Equal(t, tt.winners, winners)
		})
	}
}

func TestSplitPot(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pot      int64
		n        int
		expected []int64
	}{
		{9, 2, []int64{5, 4}},
		{4, 1, []int64{4}},
		{10, 3, []int64{4, 3, 3}},
		{0, 2, []int64{0, 0}},
		{2, 3, []int64{1, 1, 0}},
		{5, 0, nil},
	}

	for _, tt := range tests {
		shares := SplitPot(tt.pot, tt.n)
		assert.Equal(t, tt.expected, shares, "pot %d among %d", tt.pot, tt.n)

		var sum int64
		for _, s := range shares {
			sum += s
		}
		if tt.n > 0 {
			assert.Equal(t, tt.pot, sum, "shares must add up to the pot")
		}
	}
}

func TestDeterministicBonus(t *testing.T) {
	t.Parallel()

	candidates := []int64{0, 5, 10, 25}
	for id := int64(1); id <= 50; id++ {
		first := DeterministicBonus(id, candidates)
		assert.Equal(t, first, DeterministicBonus(id, candidates), "contest %d", id)
		assert.Contains(t, candidates, first)
	}
	assert.Equal(t, int64(0), DeterministicBonus(1, nil))
	assert.Equal(t, int64(7), DeterministicBonus(123, []int64{7}))
}
