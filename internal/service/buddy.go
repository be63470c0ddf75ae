package service

import (
	"cmp"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/limbo/accountability/pkg/entity"
)

const (
	buddyOnTrackRate    = 80.0
	buddyStrugglingRate = 60.0
)

// AnalyzeBuddies pairs users with their declared buddy. A buddy is matched by nickname first,
// then by name, both case-insensitive. Each unordered pair is reported once.
func AnalyzeBuddies(users []*entity.User, compliance []entity.UserCompliance) entity.BuddyPerformance {
	byID := make(map[uuid.UUID]entity.UserCompliance, len(compliance))
	for _, uc := range compliance {
		byID[uc.UserID] = uc
	}
	result := entity.BuddyPerformance{Pairs: []entity.BuddyPair{}}
	seen := make(map[string]struct{})
	for _, u := range users {
		own, hasOwn := byID[u.ID]
		buddy := strings.TrimSpace(u.Buddy)
		if buddy == "" {
			if hasOwn {
				result.UnpairedCount++
			}
			continue
		}
		partner := resolveBuddy(u, buddy, users)
		if partner == nil || !hasOwn {
			result.UnresolvedCount++
			continue
		}
		other, ok := byID[partner.ID]
		if !ok {
			result.UnresolvedCount++
			continue
		}
		key := pairKey(u.ID, partner.ID)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		result.Pairs = append(result.Pairs, entity.BuddyPair{
			UserA:                  u.Name,
			UserB:                  partner.Name,
			CombinedCompletionRate: (own.OverallCompletionRate + other.OverallCompletionRate) / 2,
			Status:                 buddyStatus(own.OverallCompletionRate, other.OverallCompletionRate),
		})
	}
	slices.SortStableFunc(result.Pairs, func(a, b entity.BuddyPair) int {
		return cmp.Compare(b.CombinedCompletionRate, a.CombinedCompletionRate)
	})
	return result
}

func resolveBuddy(u *entity.User, buddy string, users []*entity.User) *entity.User {
	for _, other := range users {
		if other.ID != u.ID && other.Nickname != "" && strings.EqualFold(strings.TrimSpace(other.Nickname), buddy) {
			return other
		}
	}
	for _, other := range users {
		if other.ID != u.ID && strings.EqualFold(strings.TrimSpace(other.Name), buddy) {
			return other
		}
	}
	return nil
}

func pairKey(a, b uuid.UUID) string {
	x, y := a.String(), b.String()
	if x > y {
		x, y = y, x
	}
	return x + "|" + y
}

func buddyStatus(a, b float64) entity.BuddyStatus {
	switch {
	case a >= buddyOnTrackRate && b >= buddyOnTrackRate:
		return entity.BuddyBothOnTrack
	case a < buddyStrugglingRate && b < buddyStrugglingRate:
		return entity.BuddyBothStruggling
	}
	return entity.BuddyMixed
}
