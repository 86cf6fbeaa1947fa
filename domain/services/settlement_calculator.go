package services

import (
	"hash/fnv"
	"sort"
	"strconv"

	"pickem/domain/entities"
)

// DetermineWinners returns the top live score and every paid account that reached it,
// sorted by account id. No participations means no winners.
func DetermineWinners(participations []*entities.Participation) (int64, []string) {
	var top int64
	found := false
	for _, p := range participations {
		if !p.Paid {
			continue
		}
		if !found || p.LivePoints > top {
			top = p.LivePoints
			found = true
		}
	}
	if !found {
		return 0, nil
	}

	var winners []string
	for _, p := range participations {
		if p.Paid && p.LivePoints == top {
			winners = append(winners, p.AccountID)
		}
	}
	sort.Strings(winners)
	return top, winners
}

// SplitPot divides pot into n shares that sum exactly to pot.
// The remainder goes one credit at a time to the first shares.
func SplitPot(pot int64, n int) []int64 {
	if n <= 0 {
		return nil
	}
	shares := make([]int64, n)
	base := pot / int64(n)
	remainder := pot % int64(n)
	for i := range shares {
		shares[i] = base
		if int64(i) < remainder {
			shares[i]++
		}
	}
	return shares
}

// DeterministicBonus picks a bonus value by hashing the contest id into the candidate list,
// so every settlement attempt of a contest picks the same value.
func DeterministicBonus(contestID int64, candidates []int64) int64 {
	if len(candidates) == 0 {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(strconv.FormatInt(contestID, 10)))
	return candidates[int(h.Sum32()%uint32(len(candidates)))]
}
