package leaderboard

import (
	"sort"

	"github.com/gosimple/slug"

	"github.com/physics-hub/practice-hub/internal/domain/shared"
)

// DefaultTopTopics is how many topics the dashboard highlights.
const DefaultTopTopics = 5

// ══════════════════════════════════════════════════════════════════════════════
// RANK LABEL
// ══════════════════════════════════════════════════════════════════════════════

// RankLabel is an ordinal mastery label attached to a topic by the catalog.
// It is carried through as-is and never recomputed from progress.
type RankLabel string

const (
	RankExpert       RankLabel = "Expert"
	RankAdvanced     RankLabel = "Advanced"
	RankIntermediate RankLabel = "Intermediate"
	RankBeginner     RankLabel = "Beginner"
	RankNovice       RankLabel = "Novice"
)

// IsValid reports whether l is one of the known labels.
func (l RankLabel) IsValid() bool {
	switch l {
	case RankExpert, RankAdvanced, RankIntermediate, RankBeginner, RankNovice:
		return true
	}
	return false
}

// String returns the label text.
func (l RankLabel) String() string {
	return string(l)
}

// ══════════════════════════════════════════════════════════════════════════════
// TOPIC RECORD
// ══════════════════════════════════════════════════════════════════════════════

// TopicRecord is a user's progress within one physics topic.
type TopicRecord struct {
	Name      string
	Slug      string
	Solved    int
	Total     int
	XP        int
	RankLabel RankLabel
}

// NewTopicRecord builds a record and derives its URL slug from the name.
func NewTopicRecord(name string, solved, total, xp int, label RankLabel) TopicRecord {
	return TopicRecord{
		Name:      name,
		Slug:      slug.Make(name),
		Solved:    solved,
		Total:     total,
		XP:        xp,
		RankLabel: label,
	}
}

// ProgressPercent returns round(100*Solved/Total), or 0 for an empty topic.
func (t TopicRecord) ProgressPercent() int {
	return shared.Percent(t.Solved, t.Total)
}

// RankTopics returns the topics ordered by XP descending.
// Ties keep their catalog order. The input slice is not modified.
func RankTopics(topics []TopicRecord) []TopicRecord {
	ranked := make([]TopicRecord, len(topics))
	copy(ranked, topics)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].XP > ranked[j].XP
	})
	return ranked
}

// TopTopics returns at most n topics from the head of the ranked list.
func TopTopics(topics []TopicRecord, n int) []TopicRecord {
	ranked := RankTopics(topics)
	if n < 0 {
		n = 0
	}
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}
