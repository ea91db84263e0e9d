package main

// Achievement definitions
type AchievementDef struct {
	ID          string
	Name        string
	Description string
}

var Achievements = []AchievementDef{
	{"first_meal", "First Meal", "Eat your first grain"},
	{"glutton", "Glutton", "Eat 500 things across all runs"},
	{"ouroboros", "Ouroboros", "Eat 5000 things across all runs"},
	{"century", "Century", "Score 100 in a single run"},
	{"high_roller", "High Roller", "Score 500 in a single run"},
	{"clean_run", "Clean Run", "Win a run without dying once"},
	{"winner", "Winner", "Win your first run"},
	{"conqueror", "Conqueror", "Win 10 runs"},
	{"persistent", "Persistent", "Finish 50 runs"},
	{"veteran", "Veteran", "Reach level 10"},
	{"elite", "Elite", "Reach level 25"},
	{"legend", "Legend", "Reach level 50"},
}

// CheckAchievements checks if any new achievements should unlock after a
// run. Returns the newly unlocked definitions.
func CheckAchievements(db *DB, playerID int64, runScore, runDeaths int, won bool) []AchievementDef {
	if db == nil {
		return nil
	}

	stats, err := db.GetStats(playerID)
	if err != nil || stats == nil {
		return nil
	}

	existing, err := db.GetAchievements(playerID)
	if err != nil {
		return nil
	}
	has := make(map[string]bool, len(existing))
	for _, a := range existing {
		has[a] = true
	}

	var unlocked []AchievementDef

	check := func(id string) bool {
		if has[id] {
			return false
		}
		switch id {
		case "first_meal":
			return stats.Eaten >= 1
		case "glutton":
			return stats.Eaten >= 500
		case "ouroboros":
			return stats.Eaten >= 5000
		case "century":
			return runScore >= 100
		case "high_roller":
			return runScore >= 500
		case "clean_run":
			return won && runDeaths == 0
		case "winner":
			return stats.Wins >= 1
		case "conqueror":
			return stats.Wins >= 10
		case "persistent":
			return stats.Runs >= 50
		case "veteran":
			return stats.Level >= 10
		case "elite":
			return stats.Level >= 25
		case "legend":
			return stats.Level >= 50
		}
		return false
	}

	for _, def := range Achievements {
		if check(def.ID) {
			if newlyUnlocked, err := db.UnlockAchievement(playerID, def.ID); err == nil && newlyUnlocked {
				unlocked = append(unlocked, def)
			}
		}
	}

	return unlocked
}
