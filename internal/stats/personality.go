package stats

import (
	"fmt"
	"strings"

	"cwrapped/internal/model"
)

// Personality is the coding-personality label derived from the stats.
type Personality struct {
	Emoji       string
	Title       string
	Description string
}

// personalityRule pairs a predicate with the personality it awards.
// Rules are evaluated top to bottom; the first match wins, so ordering
// is part of the contract.
type personalityRule struct {
	match func(*model.WrappedStats) bool
	label func(*model.WrappedStats) Personality
}

func nightMessages(s *model.WrappedStats) int {
	n := 0
	for h := 22; h < 24; h++ {
		n += s.HourlyDistribution[h]
	}
	for h := 0; h < 6; h++ {
		n += s.HourlyDistribution[h]
	}
	return n
}

func dayMessages(s *model.WrappedStats) int {
	n := 0
	for h := 6; h < 22; h++ {
		n += s.HourlyDistribution[h]
	}
	return n
}

func familyMessages(s *model.WrappedStats, prefix string) int {
	n := 0
	for _, e := range s.ModelsUsed {
		if strings.HasPrefix(e.Label, prefix) {
			n += e.Count
		}
	}
	return n
}

var personalityRules = []personalityRule{
	{
		match: func(s *model.WrappedStats) bool {
			return float64(nightMessages(s)) > float64(dayMessages(s))*0.4
		},
		label: func(*model.WrappedStats) Personality {
			return Personality{"🦉", "Night Owl", "The quiet hours are your sanctuary."}
		},
	},
	{
		match: func(s *model.WrappedStats) bool { return s.StreakLongest >= 14 },
		label: func(s *model.WrappedStats) Personality {
			return Personality{"🔥", "Streak Master", fmt.Sprintf("%d days. Unstoppable.", s.StreakLongest)}
		},
	},
	{
		match: func(s *model.WrappedStats) bool { return topTool(s) == "Edit" },
		label: func(*model.WrappedStats) Personality {
			return Personality{"🎨", "The Refactorer", "You see beauty in clean code."}
		},
	},
	{
		match: func(s *model.WrappedStats) bool { return topTool(s) == "Bash" },
		label: func(*model.WrappedStats) Personality {
			return Personality{"⚡", "Terminal Warrior", "Command line is your domain."}
		},
	},
	{
		match: func(s *model.WrappedStats) bool { return s.TotalProjects >= 5 },
		label: func(s *model.WrappedStats) Personality {
			return Personality{"🚀", "Empire Builder", fmt.Sprintf("%d projects. Legend.", s.TotalProjects)}
		},
	},
	{
		match: func(s *model.WrappedStats) bool {
			weekend := s.WeekdayDistribution[5] + s.WeekdayDistribution[6]
			weekday := 0
			for i := 0; i < 5; i++ {
				weekday += s.WeekdayDistribution[i]
			}
			return float64(weekend) > float64(weekday)*0.5
		},
		label: func(*model.WrappedStats) Personality {
			return Personality{"🌙", "Weekend Warrior", "Passion fuels your weekends."}
		},
	},
	{
		match: func(s *model.WrappedStats) bool {
			return familyMessages(s, "Opus") > familyMessages(s, "Sonnet")
		},
		label: func(*model.WrappedStats) Personality {
			return Personality{"🎯", "Perfectionist", "Only the best will do."}
		},
	},
}

var defaultPersonality = Personality{"💻", "Dedicated Dev", "Steady and reliable."}

func topTool(s *model.WrappedStats) string {
	if len(s.TopTools) == 0 {
		return ""
	}
	return s.TopTools[0].Label
}

// DeterminePersonality runs the rule chain and returns the first match.
func DeterminePersonality(s *model.WrappedStats) Personality {
	for _, rule := range personalityRules {
		if rule.match(s) {
			return rule.label(s)
		}
	}
	return defaultPersonality
}

// FunFact is one line of the bloopers & fun facts slide.
type FunFact struct {
	Emoji string
	Text  string
}

// FunFacts picks up to three highlight facts from the stats.
func FunFacts(s *model.WrappedStats) []FunFact {
	var facts []FunFact

	if s.LateNightDays > 0 {
		facts = append(facts, FunFact{"🌙",
			fmt.Sprintf("You coded after midnight on %d days. Sleep is overrated.", s.LateNightDays)})
	}
	if s.MostActiveDay != nil {
		facts = append(facts, FunFact{"📅",
			fmt.Sprintf("Your biggest day was a %s. %s messages. Epic.",
				s.MostActiveDay.Date.Format("Monday"), formatCount(s.MostActiveDay.Messages))})
	}
	if s.StreakLongest >= 1 {
		facts = append(facts, FunFact{"🔥",
			fmt.Sprintf("Your %d-day streak was legendary. Consistency wins.", s.StreakLongest)})
	}

	return facts
}

// formatCount adds comma separators to a count for display in facts.
func formatCount(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
