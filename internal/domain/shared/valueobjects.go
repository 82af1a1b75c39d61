package shared

import "math"

// Round rounds half up (toward +Inf), so 2.5 → 3 and -2.5 → -2.
// Display figures across the dashboard use this rule.
func Round(x float64) int {
	return int(math.Floor(x + 0.5))
}

// RatioRound returns round(numerator / denominator), or 0 when the
// denominator is not positive.
func RatioRound(numerator, denominator int) int {
	if denominator <= 0 {
		return 0
	}
	return Round(float64(numerator) / float64(denominator))
}

// Percent returns round(100 * part / whole), or 0 when whole is not positive.
func Percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return Round(100 * float64(part) / float64(whole))
}
