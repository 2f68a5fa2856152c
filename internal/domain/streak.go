package domain

// StreakConsumed replaces both completion dates once a day's streak has been
// counted. It never equals a real YYYY-MM-DD date.
const StreakConsumed = "consumed"

// StreakState tracks whether two partners finished the quiz on the same day.
// Empty dates mean the user has not completed since the last reset.
// LastStreakDate is the most recent day already counted.
type StreakState struct {
	User1LastDate  string `json:"user1_last_date"`
	User2LastDate  string `json:"user2_last_date"`
	StreakCount    int    `json:"streak_count"`
	LastStreakDate string `json:"last_streak_date"`
}

// StreakResult is the outcome of a completion event.
type StreakResult struct {
	StreakIncreased bool   `json:"streak_increased"`
	StreakCount     int    `json:"streak_count"`
	Message         string `json:"message"`
}

// Complete applies a completion by userID on today. users holds the two
// recognized identifiers in order; any other userID leaves the state untouched.
func (s *StreakState) Complete(users [2]string, userID, today string) StreakResult {
	switch userID {
	case users[0]:
		s.User1LastDate = today
	case users[1]:
		s.User2LastDate = today
	}

	if s.User1LastDate == today && s.User2LastDate == today {
		s.User1LastDate = StreakConsumed
		s.User2LastDate = StreakConsumed
		if s.LastStreakDate == today {
			return StreakResult{StreakCount: s.StreakCount, Message: "Already counted today"}
		}
		s.StreakCount++
		s.LastStreakDate = today
		return StreakResult{StreakIncreased: true, StreakCount: s.StreakCount, Message: "Streak Up!"}
	}
	return StreakResult{StreakCount: s.StreakCount, Message: "Waiting for partner..."}
}
