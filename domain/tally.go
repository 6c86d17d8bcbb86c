package domain

import (
	"fmt"
	"sort"
)

// CountingPolicy decides how repeated swipes of one voter on one card are counted.
type CountingPolicy string

const (
	// CountAll counts every recorded swipe, duplicates included.
	CountAll CountingPolicy = "all"
	// CountLatest keeps only the latest swipe of each voter on a card.
	// Swipes without a known voter are all kept.
	CountLatest CountingPolicy = "latest"
)

func ParseCountingPolicy(s string) (CountingPolicy, error) {
	switch CountingPolicy(s) {
	case CountAll, "":
		return CountAll, nil
	case CountLatest:
		return CountLatest, nil
	default:
		return "", fmt.Errorf("unknown swipe counting policy %q", s)
	}
}

// CardResult is the tally of one card.
// Rank is the dense rank by right swipes, 1 being the most liked.
type CardResult struct {
	CardID      string `json:"cardId"`
	Title       string `json:"cardTitle"`
	RightSwipes int    `json:"rightSwipes"`
	LeftSwipes  int    `json:"leftSwipes"`
	Rank        int    `json:"rank"`
}

// Tally partitions the swipes of every card into right and left counts.
// Results follow the card insertion order.
func Tally(room Room, policy CountingPolicy) []CardResult {
	right := make(map[string]int, len(room.Cards))
	left := make(map[string]int, len(room.Cards))
	for _, s := range countedSwipes(room.Swipes, policy) {
		if s.IsRightSwipe {
			right[s.CardID]++
		} else {
			left[s.CardID]++
		}
	}

	results := make([]CardResult, 0, len(room.Cards))
	for _, c := range room.Cards {
		results = append(results, CardResult{
			CardID:      c.ID,
			Title:       c.Title,
			RightSwipes: right[c.ID],
			LeftSwipes:  left[c.ID],
		})
	}
	rank(results)
	return results
}

func countedSwipes(swipes []Swipe, policy CountingPolicy) []Swipe {
	if policy != CountLatest {
		return swipes
	}
	type key struct{ voter, card string }
	latest := make(map[key]int, len(swipes))
	for i, s := range swipes {
		if s.Voter == "" {
			continue
		}
		latest[key{s.Voter, s.CardID}] = i
	}
	kept := make([]Swipe, 0, len(swipes))
	for i, s := range swipes {
		if s.Voter != "" && latest[key{s.Voter, s.CardID}] != i {
			continue
		}
		kept = append(kept, s)
	}
	return kept
}

func rank(results []CardResult) {
	distinct := make([]int, 0, len(results))
	seen := make(map[int]struct{}, len(results))
	for _, r := range results {
		if _, ok := seen[r.RightSwipes]; !ok {
			seen[r.RightSwipes] = struct{}{}
			distinct = append(distinct, r.RightSwipes)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(distinct)))
	position := make(map[int]int, len(distinct))
	for i, v := range distinct {
		position[v] = i + 1
	}
	for i := range results {
		results[i].Rank = position[results[i].RightSwipes]
	}
}
