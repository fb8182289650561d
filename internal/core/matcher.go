package core

// missionEligible is the set of categories allowed to be linked to a
// mission. All other categories stay unlinked regardless of window
// overlap.
var missionEligible = NewCategorySet(
	CategoryWorkedDay,
	CategoryOvertime,
	CategoryOnCall,
)

// MissionEligible reports whether activities of this category may carry
// a mission link.
func MissionEligible(c ActivityCategory) bool {
	return missionEligible.Contains(c)
}

// MatchMission selects the mission an activity should be linked to, or
// nil when it stays unlinked. Candidates are missions whose inclusive
// [start, end] window contains the date; the first candidate in input
// order wins. Overlapping missions are not disambiguated further; list
// order is the tie-break, a documented limitation of the matching
// policy.
func MatchMission(date Date, category ActivityCategory, missions []Mission) *Mission {
	if !MissionEligible(category) {
		return nil
	}
	for i := range missions {
		if missions[i].Covers(date) {
			return &missions[i]
		}
	}
	return nil
}
