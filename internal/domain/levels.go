package domain

// LevelThresholds holds the XP required to reach each level; index i is level i+1.
var LevelThresholds = []int{
	0,     // Level 1
	200,   // Level 2
	500,   // Level 3
	1000,  // Level 4
	2000,  // Level 5
	3500,  // Level 6
	5500,  // Level 7
	8000,  // Level 8
	11000, // Level 9
	15000, // Level 10
}

// LevelForXP returns the highest level whose threshold the given XP meets.
// XP past the last threshold stays at the maximum level.
func LevelForXP(xp int) int {
	for i := len(LevelThresholds) - 1; i >= 0; i-- {
		if xp >= LevelThresholds[i] {
			return i + 1
		}
	}
	return 1
}

// MaxLevel is the highest defined level.
func MaxLevel() int { return len(LevelThresholds) }
