package server_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nathanieltooley/pokeduel/duel"
	"github.com/nathanieltooley/pokeduel/global"
	"github.com/nathanieltooley/pokeduel/server"
	"github.com/nathanieltooley/pokeduel/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	*httptest.Server
	Repo *storage.Repository
}

func newStats(hp, atk, def, spa, spd, spe int) duel.BaseStats {
	return duel.BaseStats{
		duel.STAT_HP:       hp,
		duel.STAT_ATTACK:   atk,
		duel.STAT_DEFENSE:  def,
		duel.STAT_SPATTACK: spa,
		duel.STAT_SPDEF:    spd,
		duel.STAT_SPEED:    spe,
	}
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	global.StopLogging()

	db, err := storage.Open(storage.DRIVER_SQLITE, ":memory:", false)
	require.NoError(t, err)
	repo := storage.NewRepository(db)

	data := duel.GameData{
		Roster: duel.Roster{Combatants: []duel.Combatant{
			{ID: 1, Name: "bulbasaur", Types: []string{"grass", "poison"}, BaseStats: newStats(45, 49, 49, 65, 65, 45)},
			{ID: 4, Name: "charmander", Types: []string{"fire"}, BaseStats: newStats(39, 52, 43, 60, 50, 65)},
			{ID: 150, Name: "mewtwo", Types: []string{"psychic"}, BaseStats: newStats(106, 110, 90, 154, 90, 130)},
			{ID: 201, Name: "missingno", Types: []string{"normal"}},
		}},
		Catalog: duel.NewMoveCatalog([]duel.Move{
			{Name: "Tackle", Type: "normal", Power: 40, Accuracy: 100, Category: "physical"},
			{Name: "Ember", Type: "fire", Power: 40, Accuracy: 100, Category: "special"},
		}),
	}

	s := server.New(data, repo, 0)
	s.Now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }

	ts := httptest.NewServer(s.Router())
	t.Cleanup(func() {
		ts.Close()
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return &testServer{Server: ts, Repo: repo}
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var body T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func (ts *testServer) postBattle(t *testing.T, body string) *http.Response {
	t.Helper()

	resp, err := http.Post(ts.URL+"/api/battles", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	return resp
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))
}

func TestListCombatants(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/combatants")
	require.NoError(t, err)
	all := decode[server.CombatantsResponse](t, resp)
	assert.Len(t, all.Combatants, 4)

	resp, err = http.Get(ts.URL + "/api/combatants?type=Fire")
	require.NoError(t, err)
	fire := decode[server.CombatantsResponse](t, resp)
	require.Len(t, fire.Combatants, 1)
	assert.Equal(t, "charmander", fire.Combatants[0].Name)
}

func TestGetCombatant(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name           string
		key            string
		expectedStatus int
	}{
		{name: "by id", key: "1", expectedStatus: http.StatusOK},
		{name: "by name", key: "Mewtwo", expectedStatus: http.StatusOK},
		{name: "unknown", key: "pikachu", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(ts.URL + "/api/combatants/" + tt.key)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}

	resp, err := http.Get(ts.URL + "/api/combatants/1")
	require.NoError(t, err)
	bulbasaur := decode[server.CombatantResponse](t, resp)
	assert.Equal(t, 146, bulbasaur.MaxHealth)
	assert.Equal(t, 11, bulbasaur.Level)
	assert.Zero(t, bulbasaur.Record.Battles)
}

func TestCreateBattle(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.postBattle(t, `{"combatant1Id": 1, "combatant2Id": 4, "seed": 77}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[server.BattleResponse](t, resp)

	assert.Equal(t, int64(77), created.Seed)
	assert.NotEmpty(t, created.Result.Rounds)
	assert.Contains(t, []int{1, 4}, created.Result.WinnerID)

	// same seed, same battle
	resp = ts.postBattle(t, `{"combatant1Id": 1, "combatant2Id": 4, "seed": 77}`)
	again := decode[server.BattleResponse](t, resp)
	assert.Equal(t, created.Result, again.Result)
	assert.NotEqual(t, created.ID, again.ID)

	resp, err := http.Get(fmt.Sprintf("%s/api/battles/%s", ts.URL, created.ID))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	record := decode[storage.BattleRecord](t, resp)
	assert.Equal(t, created.Result.WinnerID, record.WinnerID)
	assert.Equal(t, len(created.Result.Rounds), record.RoundCount)

	resp, err = http.Get(ts.URL + "/api/combatants/4")
	require.NoError(t, err)
	charmander := decode[server.CombatantResponse](t, resp)
	assert.Equal(t, 2, charmander.Record.Battles)
}

func TestCreateBattleErrors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{name: "self battle", body: `{"combatant1Id": 1, "combatant2Id": 1}`, expectedStatus: http.StatusBadRequest},
		{name: "unknown combatant", body: `{"combatant1Id": 1, "combatant2Id": 999}`, expectedStatus: http.StatusNotFound},
		{name: "no stats", body: `{"combatant1Id": 1, "combatant2Id": 201}`, expectedStatus: http.StatusBadRequest},
		{name: "missing second combatant", body: `{"combatant1Id": 1}`, expectedStatus: http.StatusBadRequest},
		{name: "missing first combatant", body: `{"combatant2Id": 4, "seed": 3}`, expectedStatus: http.StatusBadRequest},
		{name: "bad json", body: `{"combatant1Id":`, expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.postBattle(t, tt.body)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			body := decode[server.ErrorResponse](t, resp)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestListBattles(t *testing.T) {
	ts := newTestServer(t)

	for seed := range 3 {
		resp := ts.postBattle(t, fmt.Sprintf(`{"combatant1Id": 1, "combatant2Id": 150, "seed": %d}`, seed))
		resp.Body.Close()
	}

	resp, err := http.Get(ts.URL + "/api/battles?limit=2")
	require.NoError(t, err)
	battles := decode[server.BattlesResponse](t, resp)
	assert.Len(t, battles.Battles, 2)

	resp, err = http.Get(ts.URL + "/api/battles?limit=lots")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetBattleErrors(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/battles/not-a-uuid")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/api/battles/4b0ad8a4-8b1c-4f5c-9d2e-6a3c1f0e9b7d")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCompare(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/compare?a=bulbasaur&b=150")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[map[string]any](t, resp)
	assert.Equal(t, "combatant2", body["prediction"])

	resp, err = http.Get(ts.URL + "/api/compare?a=bulbasaur")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/api/compare/chart?a=1&b=4")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}

func TestStreamBattle(t *testing.T) {
	ts := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/battle?a=1&b=4&seed=77&delay=0"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	rounds := 0
	var final server.StreamMessage
	for {
		var msg server.StreamMessage
		require.NoError(t, conn.ReadJSON(&msg))

		if msg.Type == server.MESSAGE_RESULT {
			final = msg
			break
		}

		require.Equal(t, server.MESSAGE_ROUND, msg.Type)
		require.NotNil(t, msg.Round)
		rounds++
		assert.Equal(t, rounds, msg.Round.Round)
	}

	require.NotNil(t, final.Result)
	assert.Equal(t, rounds, len(final.Result.Rounds))
	assert.NotEmpty(t, final.BattleID)

	// the streamed battle is the same one the rest api plays for the same seed
	resp := ts.postBattle(t, `{"combatant1Id": 1, "combatant2Id": 4, "seed": 77}`)
	created := decode[server.BattleResponse](t, resp)
	assert.Equal(t, created.Result.TotalDamage, final.Result.TotalDamage)
}

func TestStreamBattleRejectsBeforeUpgrade(t *testing.T) {
	ts := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/battle?a=1&b=1"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
