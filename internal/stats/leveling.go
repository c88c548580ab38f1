package stats

import "math"

// Level describes where a cumulative XP total sits on the level curve.
// Thresholds follow xpForLevel(L) = (L-1)^2 * 100: level 2 at 100 XP,
// level 3 at 400, level 4 at 900, and so on.
type Level struct {
	Level              int `json:"level"`
	CurrentLevelXP     int `json:"currentLevelXP"`
	NextLevelXP        int `json:"nextLevelXP"`
	ProgressToNext     int `json:"progressToNext"`
	XPNeededForNext    int `json:"xpNeededForNext"`
	ProgressPercentage int `json:"progressPercentage"`
}

// XPForLevel returns the XP threshold at which the given level begins.
func XPForLevel(level int) int {
	if level < 1 {
		return 0
	}
	return (level - 1) * (level - 1) * 100
}

// LevelOf maps a non-negative XP total to its level. Pure and total; the
// level-up semantics must stay identical wherever this runs.
func LevelOf(xp int) Level {
	if xp < 0 {
		xp = 0
	}
	level := int(math.Sqrt(float64(xp)/100)) + 1
	// guard against float rounding at exact thresholds
	for XPForLevel(level+1) <= xp {
		level++
	}
	for level > 1 && XPForLevel(level) > xp {
		level--
	}

	currentLevelXP := XPForLevel(level)
	nextLevelXP := XPForLevel(level + 1)
	progress := xp - currentLevelXP
	needed := nextLevelXP - currentLevelXP
	return Level{
		Level:              level,
		CurrentLevelXP:     currentLevelXP,
		NextLevelXP:        nextLevelXP,
		ProgressToNext:     progress,
		XPNeededForNext:    needed,
		ProgressPercentage: int(math.Round(float64(progress) / float64(needed) * 100)),
	}
}

var levelTitles = map[int]string{
	1:  "Beginner",
	2:  "Learner",
	3:  "Student",
	4:  "Apprentice",
	5:  "Developer",
	6:  "Skilled",
	7:  "Expert",
	8:  "Master",
	9:  "Guru",
	10: "Legend",
}

// LevelTitle returns the cosmetic title for a level, clamping at "Legend".
func LevelTitle(level int) string {
	if level >= 10 {
		return "Legend"
	}
	if title, ok := levelTitles[level]; ok {
		return title
	}
	return "Beginner"
}
