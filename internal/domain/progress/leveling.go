package progress

// ══════════════════════════════════════════════════════════════════════════════
// XP POLICY
// ══════════════════════════════════════════════════════════════════════════════

// XP awarded per solved problem. Policy constants, not derived.
const (
	PointsEasy   = 10
	PointsMedium = 25
	PointsHard   = 50
)

// XPPerLevel is the width of every level band.
const XPPerLevel = 200

// XP is an experience point total.
type XP int

// Int returns the underlying int value.
func (x XP) Int() int {
	return int(x)
}

// Level returns floor(x / XPPerLevel) + 1.
func (x XP) Level() Level {
	return Level(int(x)/XPPerLevel + 1)
}

// IntoLevel returns the XP earned inside the current level band.
func (x XP) IntoLevel() int {
	return int(x) % XPPerLevel
}

// XPFor computes the experience total for the given solve counts.
func XPFor(easy, medium, hard int) XP {
	return XP(easy*PointsEasy + medium*PointsMedium + hard*PointsHard)
}

// ══════════════════════════════════════════════════════════════════════════════
// LEVELS AND TITLES
// ══════════════════════════════════════════════════════════════════════════════

// Level is a coarse progress tier. Level 1 is the lowest.
type Level int

// Int returns the underlying int value.
func (l Level) Int() int {
	return int(l)
}

// NextLevelXP returns the XP total at which the following level starts.
func (l Level) NextLevelXP() int {
	return int(l) * XPPerLevel
}

// TitleBand maps a minimum level to a title.
type TitleBand struct {
	MinLevel Level
	Title    string
}

// titleBands is ordered by strictly increasing MinLevel.
var titleBands = []TitleBand{
	{0, "Novice Physicist"},
	{5, "Student Researcher"},
	{10, "Problem Solver"},
	{15, "Physics Expert"},
	{20, "Theoretical Master"},
	{30, "Physics Legend"},
}

// TitleBands returns a copy of the title table.
func TitleBands() []TitleBand {
	out := make([]TitleBand, len(titleBands))
	copy(out, titleBands)
	return out
}

// Title returns the title of the highest band whose lower bound is ≤ l.
// Levels below the first band fall back to the first title.
func (l Level) Title() string {
	title := titleBands[0].Title
	for _, band := range titleBands {
		if band.MinLevel > l {
			break
		}
		title = band.Title
	}
	return title
}

// ══════════════════════════════════════════════════════════════════════════════
// CALCULATOR
// ══════════════════════════════════════════════════════════════════════════════

// LevelInfo is the leveling view of a user's progress.
type LevelInfo struct {
	XP               int
	Level            int
	Title            string
	XPIntoLevel      int
	XPForNextLevel   int
	ProgressFraction float64
}

// Calculate derives XP, level and title from the solve counters.
// It performs no validation: negative counters yield defined but meaningless output.
func Calculate(s UserStats) LevelInfo {
	xp := XPFor(s.EasySolved, s.MediumSolved, s.HardSolved)
	level := xp.Level()
	into := xp.IntoLevel()

	return LevelInfo{
		XP:               xp.Int(),
		Level:            level.Int(),
		Title:            level.Title(),
		XPIntoLevel:      into,
		XPForNextLevel:   level.NextLevelXP(),
		ProgressFraction: float64(into) / XPPerLevel,
	}
}
