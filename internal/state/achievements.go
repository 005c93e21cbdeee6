package state

import "slices"

// Achievement is a static catalog entry.
type Achievement struct {
	ID          string
	Name        string
	Description string
	Icon        string

	// unlocks is evaluated after the run has been appended to history.
	unlocks func(history []RunRecord, run RunRecord) bool
}

// AchievementStatus pairs a catalog entry with its unlock flag.
type AchievementStatus struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Unlocked    bool   `json:"unlocked"`
}

// catalog order is the display order.
var catalog = []Achievement{
	{
		ID: "first_win", Name: "First Steps", Description: "Complete your first quiz", Icon: "🐣",
		unlocks: func(h []RunRecord, _ RunRecord) bool { return len(h) >= 1 },
	},
	{
		ID: "perfect_10", Name: "Perfect 10", Description: "Get 10/10 in a quiz", Icon: "🎯",
		unlocks: func(_ []RunRecord, r RunRecord) bool { return r.Score == 10 && r.Total == 10 },
	},
	{
		ID: "speedster", Name: "Speedster", Description: "Score >80% in Speed Run mode", Icon: "⚡",
		unlocks: func(_ []RunRecord, r RunRecord) bool {
			return r.Mode == ModeSpeed && r.Total > 0 && 5*r.Score >= 4*r.Total
		},
	},
	{
		ID: "scholar", Name: "Scholar", Description: "Play 10 games", Icon: "🎓",
		unlocks: func(h []RunRecord, _ RunRecord) bool { return len(h) >= 10 },
	},
	{
		ID: "master", Name: "Trivia Master", Description: "Get 100% accuracy in a 50-question quiz", Icon: "👑",
		unlocks: func(_ []RunRecord, r RunRecord) bool { return r.Total == 50 && r.Score == r.Total },
	},
}

// evalOrder is the order in which new unlocks are appended.
var evalOrder = []string{"first_win", "perfect_10", "scholar", "speedster", "master"}

// Catalog returns the achievement definitions in display order.
func Catalog() []Achievement {
	return slices.Clone(catalog)
}

// LookupAchievement returns the catalog entry for id.
func LookupAchievement(id string) (Achievement, bool) {
	for _, a := range catalog {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

// evaluateAchievements appends newly unlocked ids to unlocked and returns
// the ids that were added. Already unlocked ids are left alone.
func evaluateAchievements(unlocked []string, history []RunRecord, run RunRecord) ([]string, []string) {
	var added []string
	for _, id := range evalOrder {
		a, _ := LookupAchievement(id)
		if slices.Contains(unlocked, id) || !a.unlocks(history, run) {
			continue
		}
		unlocked = append(unlocked, id)
		added = append(added, id)
	}
	return unlocked, added
}

// AchievementStatuses reports every catalog entry against the unlocked ids.
func AchievementStatuses(unlocked []string) []AchievementStatus {
	out := make([]AchievementStatus, len(catalog))
	for i, a := range catalog {
		out[i] = AchievementStatus{
			ID:          a.ID,
			Name:        a.Name,
			Description: a.Description,
			Icon:        a.Icon,
			Unlocked:    slices.Contains(unlocked, a.ID),
		}
	}
	return out
}
