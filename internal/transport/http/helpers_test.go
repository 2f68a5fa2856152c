package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quiz-arcade/internal/app"
	"quiz-arcade/internal/domain"
	"quiz-arcade/internal/infra/memory"
	"quiz-arcade/internal/render"
)

var testDay = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

type testEnv struct {
	server *httptest.Server
	battle *app.BattleService
	client *http.Client
}

func newTestEnv(t *testing.T, lobby bool) *testEnv {
	t.Helper()

	pages, err := render.New()
	if err != nil {
		t.Fatalf("templates: %v", err)
	}
	banks := memory.NewBankRepository(memory.NewStaticBankLoader(map[string]domain.QuestionBank{
		"default": twoQuestionBank(),
	}), time.Minute)
	battle := app.NewBattleService(memory.NewRoomStore())
	services := Services{
		Quiz:   app.NewQuizService(banks, memory.NewProgressStore(), "default"),
		Streak: app.NewStreakServiceWithClock(memory.NewStreakStore(), [2]string{"user1", "user2"}, time.UTC, func() time.Time { return testDay }),
		Battle: battle,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := httptest.NewServer(NewRouter(services, pages, Options{Lobby: lobby, CORSOrigins: []string{"*"}, Logger: logger}))
	t.Cleanup(server.Close)

	return &testEnv{
		server: server,
		battle: battle,
		client: &http.Client{
			CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
		},
	}
}

func (e *testEnv) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := e.client.Get(e.server.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

func twoQuestionBank() domain.QuestionBank {
	return domain.QuestionBank{
		ID:    "default",
		Title: "Biology",
		Questions: []domain.Question{
			{
				Text:         "What is the crucial role of the enzyme RuBisCO during the Calvin cycle?",
				Options:      []string{"Reducing NADP+ to NADPH", "Synthesising ATP", "Catalysing the initial fixation of carbon dioxide to RuBP", "Splitting water molecules"},
				CorrectIndex: 2,
			},
			{
				Text:         "Which cellular organelle is the primary site of cellular respiration?",
				Options:      []string{"Nucleus", "Mitochondria", "Ribosome", "Chloroplast"},
				CorrectIndex: 1,
			},
		},
	}
}
