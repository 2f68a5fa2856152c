package domain

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPlayer = "Anonymous"
	DefaultAvatar = "🦊"
)

// Session is the quiz progress a client carries between requests.
// The server never stores it; scores are trusted as sent.
type Session struct {
	Player string
	Avatar string
	Score  int
}

// SessionFromQuery reads player, avatar and score, substituting defaults for
// anything missing or malformed.
func SessionFromQuery(values url.Values) Session {
	s := Session{
		Player: strings.TrimSpace(values.Get("player")),
		Avatar: strings.TrimSpace(values.Get("avatar")),
	}
	if s.Player == "" {
		s.Player = DefaultPlayer
	}
	if s.Avatar == "" {
		s.Avatar = DefaultAvatar
	}
	if raw := values.Get("score"); raw != "" {
		if score, err := strconv.Atoi(raw); err == nil && score > 0 {
			s.Score = score
		} else if f, err := strconv.ParseFloat(raw, 64); err == nil && f > 0 && f < math.MaxInt32 {
			s.Score = int(f)
		}
	}
	return s
}

// Query encodes the session as request parameters.
func (s Session) Query() url.Values {
	values := url.Values{}
	values.Set("player", s.Player)
	values.Set("avatar", s.Avatar)
	values.Set("score", strconv.Itoa(s.Score))
	return values
}

// QuestionPath is the URL of question index carrying this session.
func (s Session) QuestionPath(index int) string {
	return "/q/" + strconv.Itoa(index) + "?" + s.Query().Encode()
}

// NextPath is the URL of question index without the score, which the page
// script appends once the answer is checked.
func (s Session) NextPath(index int) string {
	values := s.Query()
	values.Del("score")
	return "/q/" + strconv.Itoa(index) + "?" + values.Encode()
}
