package footballdata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/football-dashboard/internal/platform/resilience"
	"github.com/riskibarqy/football-dashboard/internal/usecase"
)

const testAPIKey = "test-key-123"

const competitionsPayload = `{
  "count": 3,
  "competitions": [
    {"id": 2021, "name": "Premier League", "code": "PL", "type": "LEAGUE", "emblem": "https://crests.football-data.org/PL.png", "area": {"id": 2072, "name": "England"}},
    {"id": 2013, "name": "Campeonato Brasileiro Série A", "code": "BSA", "area": {"id": 2032, "name": "Brazil"}},
    {"id": 2014, "name": "Primera Division", "code": "PD", "area": {"id": 2224, "name": "Spain"}}
  ]
}`

const standingsPayload = `{
  "competition": {"id": 2014, "name": "Primera Division", "code": "PD"},
  "season": {"id": 2317, "startDate": "2025-08-15", "endDate": "2026-05-24", "currentMatchday": 1},
  "standings": [
    {"stage": "REGULAR_SEASON", "type": "TOTAL", "group": null, "table": [
      {"position": 1, "team": {"id": 86, "name": "Real Madrid CF", "shortName": "Real Madrid", "crest": "https://crests.football-data.org/86.png"}, "playedGames": 1, "won": 1, "draw": 0, "lost": 0, "points": 3, "goalsFor": 3, "goalsAgainst": 0, "goalDifference": 3},
      {"position": 2, "team": {"id": 81, "name": "FC Barcelona", "shortName": "Barça"}, "playedGames": 1, "won": 0, "draw": 1, "lost": 0, "points": 1, "goalsFor": 1, "goalsAgainst": 1, "goalDifference": 0},
      {"position": 3, "team": {"id": 92, "name": "Real Sociedad de Fútbol", "shortName": ""}, "playedGames": 1, "won": 0, "draw": 0, "lost": 1, "points": 0, "goalsFor": 0, "goalsAgainst": 3, "goalDifference": -3}
    ]},
    {"stage": "REGULAR_SEASON", "type": "HOME", "group": null, "table": [
      {"position": 1, "team": {"id": 1, "name": "ignored"}, "playedGames": 9, "points": 27}
    ]}
  ]
}`

const scorersPayload = `{
  "count": 2,
  "scorers": [
    {"player": {"id": 1, "name": "Kylian Mbappé"}, "team": {"id": 86, "name": "Real Madrid CF"}, "playedMatches": 8, "goals": 12, "assists": 3, "penalties": 2},
    {"player": {"id": 2, "name": "Robert Lewandowski"}, "team": {"id": 81, "name": "FC Barcelona"}, "playedMatches": null, "goals": 9, "assists": null, "penalties": null}
  ]
}`

const teamsPayload = `{
  "count": 1,
  "teams": [
    {"id": 86, "name": "Real Madrid CF", "shortName": "Real Madrid", "crest": "https://crests.football-data.org/86.png",
     "address": "Avenida Concha Espina, 1 Madrid 28036", "website": "http://www.realmadrid.com", "founded": 1902,
     "clubColors": "White / Purple", "venue": "Estadio Santiago Bernabéu",
     "squad": [
       {"id": 3, "name": "Thibaut Courtois", "position": "Goalkeeper", "dateOfBirth": "1992-05-11", "nationality": "Belgium"},
       {"id": 4, "name": "Canterano", "position": null, "dateOfBirth": null, "nationality": "Spain"}
     ]}
  ]
}`

type fakeProvider struct {
	mu     sync.Mutex
	calls  map[string]int
	tokens []string
	status int
	delay  time.Duration
}

func newFakeProvider(t *testing.T) (*fakeProvider, *httptest.Server) {
	t.Helper()

	fp := &fakeProvider{calls: map[string]int{}, status: http.StatusOK}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fp.mu.Lock()
		fp.calls[r.URL.Path]++
		fp.tokens = append(fp.tokens, r.Header.Get("X-Auth-Token"))
		status := fp.status
		delay := fp.delay
		fp.mu.Unlock()

		if delay > 0 {
			time.Sleep(delay)
		}
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"message": "The resource you are looking for is restricted.", "errorCode": 403}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/v4/competitions":
			_, _ = w.Write([]byte(competitionsPayload))
		case strings.HasSuffix(r.URL.Path, "/standings"):
			_, _ = w.Write([]byte(standingsPayload))
		case strings.HasSuffix(r.URL.Path, "/scorers"):
			_, _ = w.Write([]byte(scorersPayload))
		case strings.HasSuffix(r.URL.Path, "/teams"):
			_, _ = w.Write([]byte(teamsPayload))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return fp, srv
}

func (fp *fakeProvider) callCount(path string) int {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	return fp.calls[path]
}

func (fp *fakeProvider) setStatus(status int) {
	fp.mu.Lock()
	fp.status = status
	fp.mu.Unlock()
}

func newTestClient(baseURL string) *Client {
	return NewClient(ClientConfig{
		BaseURL:              baseURL,
		APIKey:               testAPIKey,
		Timeout:              2 * time.Second,
		ExcludedCompetitions: []string{"Campeonato Brasileiro Série A"},
	})
}

func TestClient_ListCompetitions_TrimsNamesAndSkipsMalformed(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"competitions": [
		  {"id": 2013, "name": "  Campeonato Brasileiro Série A ", "code": "BSA"},
		  {"id": 0, "name": "Friendlies"},
		  {"id": 2019, "name": "   "},
		  {"id": 2019, "name": " Serie A ", "code": "SA"}
		]}`))
	}))
	t.Cleanup(srv.Close)

	got, err := newTestClient(srv.URL).ListCompetitions(context.Background())
	if err != nil {
		t.Fatalf("ListCompetitions error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected only Serie A, got %+v", got)
	}
	if got[0].ID != 2019 || got[0].Name != "Serie A" {
		t.Fatalf("unexpected competition %+v", got[0])
	}
}

func TestClient_ListCompetitions_ExcludesConfiguredNames(t *testing.T) {
	t.Parallel()

	fp, srv := newFakeProvider(t)
	client := newTestClient(srv.URL)

	got, err := client.ListCompetitions(context.Background())
	if err != nil {
		t.Fatalf("ListCompetitions error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 competitions after exclusion, got %d", len(got))
	}
	if got[0].ID != 2021 || got[0].AreaName != "England" || got[0].EmblemURL == "" {
		t.Fatalf("unexpected first competition %+v", got[0])
	}
	for _, c := range got {
		if c.Name == "Campeonato Brasileiro Série A" {
			t.Fatalf("excluded competition returned")
		}
	}
	fp.mu.Lock()
	tokens := append([]string(nil), fp.tokens...)
	fp.mu.Unlock()
	if len(tokens) != 1 || tokens[0] != testAPIKey {
		t.Fatalf("expected X-Auth-Token header, got %v", tokens)
	}
}

func TestClient_GetStandings_UsesFirstGroup(t *testing.T) {
	t.Parallel()

	_, srv := newFakeProvider(t)
	client := newTestClient(srv.URL)

	table, err := client.GetStandings(context.Background(), 2014)
	if err != nil {
		t.Fatalf("GetStandings error: %v", err)
	}
	if len(table.Entries) != 3 {
		t.Fatalf("expected 3 rows from the TOTAL table, got %d", len(table.Entries))
	}
	if table.Season.StartYear() != "2025" || table.Season.CurrentMatchday == nil || *table.Season.CurrentMatchday != 1 {
		t.Fatalf("unexpected season %+v", table.Season)
	}
	if table.Entries[2].Team.DisplayName() != "Real Sociedad de Fútbol" {
		t.Fatalf("expected name fallback, got %q", table.Entries[2].Team.DisplayName())
	}

	total := 0
	for i, entry := range table.Entries {
		if entry.Position != i+1 {
			t.Fatalf("rows out of order at %d: %+v", i, entry)
		}
		total += entry.Points
	}
	if total > 3*len(table.Entries) {
		t.Fatalf("points %d exceed 3 per team after one matchday", total)
	}
}

func TestClient_ListScorers_NullsDecodeAsZero(t *testing.T) {
	t.Parallel()

	_, srv := newFakeProvider(t)
	client := newTestClient(srv.URL)

	got, err := client.ListScorers(context.Background(), 2014)
	if err != nil {
		t.Fatalf("ListScorers error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 scorers, got %d", len(got))
	}
	if got[0].GoalsPerMatch() != 1.5 {
		t.Fatalf("unexpected goals per match %v", got[0].GoalsPerMatch())
	}
	if got[1].Assists != 0 || got[1].PlayedMatches != 0 || got[1].GoalsPerMatch() != 0 {
		t.Fatalf("expected null fields as zero, got %+v", got[1])
	}
}

func TestClient_ListTeams_MapsSquad(t *testing.T) {
	t.Parallel()

	_, srv := newFakeProvider(t)
	client := newTestClient(srv.URL)

	got, err := client.ListTeams(context.Background(), 2014)
	if err != nil {
		t.Fatalf("ListTeams error: %v", err)
	}
	if len(got) != 1 || len(got[0].Squad) != 2 {
		t.Fatalf("unexpected teams %+v", got)
	}
	if got[0].Venue != "Estadio Santiago Bernabéu" || got[0].ClubColors != "White / Purple" {
		t.Fatalf("unexpected team fields %+v", got[0])
	}
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	if age, ok := got[0].Squad[0].Age(now); !ok || age != 34 {
		t.Fatalf("unexpected age %d ok=%v", age, ok)
	}
	if _, ok := got[0].Squad[1].Age(now); ok {
		t.Fatalf("expected no age for null date of birth")
	}
	if got[0].Squad[1].DisplayPosition() != "N/A" {
		t.Fatalf("expected N/A position, got %q", got[0].Squad[1].DisplayPosition())
	}
}

func TestClient_NonSuccessStatusReturnsRequestError(t *testing.T) {
	t.Parallel()

	fp, srv := newFakeProvider(t)
	fp.setStatus(http.StatusForbidden)
	client := newTestClient(srv.URL)

	_, err := client.ListScorers(context.Background(), 2000)
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "status=403") {
		t.Fatalf("expected status in error, got %v", err)
	}
	if strings.Contains(err.Error(), testAPIKey) {
		t.Fatalf("api key leaked into error: %v", err)
	}
}

func TestClient_TransportFailureReturnsRequestError(t *testing.T) {
	t.Parallel()

	_, srv := newFakeProvider(t)
	baseURL := srv.URL
	srv.Close()

	client := newTestClient(baseURL)
	if _, err := client.ListCompetitions(context.Background()); !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed for closed server, got %v", err)
	}
}

func TestClient_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(competitionsPayload))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL, APIKey: testAPIKey, MaxRetries: 1})
	got, err := client.ListCompetitions(context.Background())
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if len(got) != 3 || calls.Load() != 2 {
		t.Fatalf("unexpected result len=%d calls=%d", len(got), calls.Load())
	}
}

func TestClient_CircuitBreakerOpensAfterTransientFailures(t *testing.T) {
	t.Parallel()

	fp, srv := newFakeProvider(t)
	fp.setStatus(http.StatusServiceUnavailable)
	client := NewClient(ClientConfig{
		BaseURL: srv.URL,
		APIKey:  testAPIKey,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	for i := 0; i < 2; i++ {
		if _, err := client.ListTeams(context.Background(), 2021); !errors.Is(err, ErrRequestFailed) {
			t.Fatalf("attempt %d: expected request error, got %v", i, err)
		}
	}

	_, err := client.ListTeams(context.Background(), 2021)
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected breaker to reject, got %v", err)
	}
	if got := fp.callCount("/v4/competitions/2021/teams"); got != 2 {
		t.Fatalf("expected 2 upstream calls, got %d", got)
	}
}

func TestClient_HonorsContextDeadline(t *testing.T) {
	t.Parallel()

	fp, srv := newFakeProvider(t)
	fp.mu.Lock()
	fp.delay = 300 * time.Millisecond
	fp.mu.Unlock()
	client := newTestClient(srv.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	started := time.Now()
	if _, err := client.GetStandings(ctx, 2014); !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("expected timeout as request error, got %v", err)
	}
	if elapsed := time.Since(started); elapsed > 250*time.Millisecond {
		t.Fatalf("request outlived context deadline: %s", elapsed)
	}
}

type recordingObserver struct {
	mu       sync.Mutex
	outcomes []string
}

func (o *recordingObserver) ObserveProviderRequest(endpoint, outcome string, _ time.Duration) {
	o.mu.Lock()
	o.outcomes = append(o.outcomes, endpoint+":"+outcome)
	o.mu.Unlock()
}

func TestClient_ReportsOutcomesToObserver(t *testing.T) {
	t.Parallel()

	fp, srv := newFakeProvider(t)
	obs := &recordingObserver{}
	client := NewClient(ClientConfig{BaseURL: srv.URL, APIKey: testAPIKey, Observer: obs})

	if _, err := client.ListCompetitions(context.Background()); err != nil {
		t.Fatalf("ListCompetitions error: %v", err)
	}
	fp.setStatus(http.StatusTooManyRequests)
	_, _ = client.ListScorers(context.Background(), 2014)

	if len(obs.outcomes) != 2 || obs.outcomes[0] != "competitions:ok" || obs.outcomes[1] != "scorers:error" {
		t.Fatalf("unexpected observations %v", obs.outcomes)
	}
}
