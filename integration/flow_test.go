package integration

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/qingyun/xiuxian/server/api/response"
	"github.com/qingyun/xiuxian/server/config"
	"github.com/qingyun/xiuxian/server/dal"
	"github.com/qingyun/xiuxian/server/game/character"
	mw "github.com/qingyun/xiuxian/server/middleware"
	"github.com/qingyun/xiuxian/server/model"
	"github.com/qingyun/xiuxian/server/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSeeds(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		resource.RealmsFile: `[
			{"level": 0, "name": "Qi Refining", "stage": "mortal", "cultivation_limit": 100},
			{"level": 1, "name": "Foundation Establishment", "stage": "mortal", "cultivation_limit": 300},
			{"level": 2, "name": "Core Formation", "stage": "immortal", "cultivation_limit": 900}
		]`,
		resource.SkillsFile: `[
			{"id": 1, "name": "Fireball", "type": "attack", "element": "fire"},
			{"id": 2, "name": "Golden Bell", "type": "defense", "element": "metal"},
			null
		]`,
		resource.ItemsFile:                 `[{"id": 10, "name": "Foundation Pill"}, {"id": 11, "name": "Green Bamboo Sword"}]`,
		resource.ItemCategoriesFile:        `[{"id": 1, "name": "Pills"}]`,
		resource.ItemCategoryRelationsFile: `[{"item_id": 10, "category_id": 1}]`,
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func TestHealth(t *testing.T) {
	ts := NewTestServer(t, Options{})

	resp, env := ts.Get(t, "/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)
	assert.NotEmpty(t, resp.Header.Get(mw.TraceIDHeader))
	assert.False(t, env.Timestamp.IsZero())
}

func TestSeededReferenceData(t *testing.T) {
	ts := NewTestServer(t, Options{SeedDir: writeSeeds(t)})
	assert.Equal(t, 3, ts.Res.Seeded["realms"])
	assert.Equal(t, 2, ts.Res.Seeded["skills"])

	_, env := ts.Get(t, "/api/skills?type=attack")
	var page dal.Page[model.SkillInfo]
	Decode(t, env, &page)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Fireball", page.Data[0].Name)

	_, env = ts.Get(t, "/api/item-categories/1/items")
	var items []model.ItemInfo
	Decode(t, env, &items)
	require.Len(t, items, 1)
	assert.Equal(t, 10, items[0].ID)

	resp, env := ts.Get(t, "/api/sects/1")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, response.CodeNotFound, env.Error.Code)
}

func TestCharacterLifecycle(t *testing.T) {
	ts := NewTestServer(t, Options{SeedDir: writeSeeds(t)})
	trace := http.Header{mw.TraceIDHeader: []string{"lifecycle-trace"}}

	resp, env := ts.Do(t, http.MethodPost, "/api/characters", gin.H{
		"name":                   "Han Li",
		"gender":                 "male",
		"cultivation_limit_base": 100,
		"strength":               gin.H{"hp": 50, "max_hp": 50},
		"currency":               gin.H{"spirit_stone": 5},
	}, trace)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "lifecycle-trace", resp.Header.Get(mw.TraceIDHeader))
	var agg character.Aggregate
	Decode(t, env, &agg)
	id := agg.Character.ID
	base := "/api/characters/" + id

	resp, _ = ts.Do(t, http.MethodPost, base+"/cultivation/start", nil, trace)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = ts.Do(t, http.MethodPost, base+"/cultivation/add", gin.H{"amount": 100}, trace)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, env = ts.Do(t, http.MethodPost, base+"/breakthrough", nil, trace)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var res character.BreakthroughResult
	Decode(t, env, &res)
	assert.True(t, res.Success)
	assert.Equal(t, 1, res.Character.RealmLevel)
	assert.Equal(t, int64(300), res.Character.CultivationLimitBase)

	resp, env = ts.PostJSON(t, base+"/items", gin.H{"item_id": 11})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var item model.CharacterItem
	Decode(t, env, &item)
	resp, _ = ts.PostJSON(t, base+"/items/"+strconv.FormatInt(item.ID, 10)+"/equip", gin.H{"slot": 0})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, env = ts.Get(t, base+"/full")
	var full character.Aggregate
	Decode(t, env, &full)
	assert.Equal(t, int64(50), full.Strength.HP)
	assert.Equal(t, int64(5), full.Currency.SpiritStone)
	require.Len(t, full.Items, 1)
	assert.True(t, full.Items[0].Equipped)

	resp, _ = ts.Do(t, http.MethodDelete, base, nil, trace)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	for _, table := range []string{
		"characters", "character_affinities", "character_strengths", "character_body_types",
		"character_skills", "character_weapons", "character_currencies", "character_items",
	} {
		col := "character_id"
		if table == "characters" {
			col = "id"
		}
		var n int64
		require.NoError(t, ts.DB.Table(table).Where(col+" = ?", id).Count(&n).Error)
		assert.Zero(t, n, table)
	}

	ts.Close()
	var logs []model.AuditLog
	require.NoError(t, ts.DB.Where("character_id = ?", id).Order("id").Find(&logs).Error)
	actions := make([]string, 0, len(logs))
	for _, l := range logs {
		actions = append(actions, l.Action)
		assert.Equal(t, "lifecycle-trace", l.TraceID, l.Action)
	}
	assert.Contains(t, actions, "character.create")
	assert.Contains(t, actions, "character.cultivation_start")
	assert.Contains(t, actions, "character.breakthrough")
	assert.Contains(t, actions, "character.delete")
}

func TestConcurrentBreakthroughOverHTTP(t *testing.T) {
	ts := NewTestServer(t, Options{})
	created, err := ts.Svc.CreateCharacter(context.Background(), character.CreateInput{
		Character: model.Character{Name: "Han Li", CultivationLimitBase: 100, CultivationValue: 100},
	})
	require.NoError(t, err)
	url := ts.URL + "/api/characters/" + created.Character.ID + "/breakthrough"

	const n = 8
	codes := make([]int, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := http.Post(url, "application/json", nil)
			if err != nil {
				return
			}
			resp.Body.Close()
			codes[i] = resp.StatusCode
		}()
	}
	wg.Wait()

	ok := 0
	for _, code := range codes {
		switch code {
		case http.StatusOK:
			ok++
		case http.StatusConflict, http.StatusUnprocessableEntity:
		default:
			t.Errorf("unexpected status %d", code)
		}
	}
	assert.Equal(t, 1, ok)

	c, err := ts.Svc.GetCharacter(context.Background(), created.Character.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, c.RealmLevel)
}

func TestBreakthroughFailureRoll(t *testing.T) {
	rules := config.DefaultGame()
	rules.Breakthrough.FailureProbability = 1
	ts := NewTestServer(t, Options{Game: &rules})
	created, err := ts.Svc.CreateCharacter(context.Background(), character.CreateInput{
		Character: model.Character{Name: "Li Feiyu", CultivationLimitBase: 100, CultivationValue: 100},
	})
	require.NoError(t, err)

	resp, env := ts.PostJSON(t, "/api/characters/"+created.Character.ID+"/breakthrough", gin.H{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var res character.BreakthroughResult
	Decode(t, env, &res)
	assert.False(t, res.Success)
	assert.Equal(t, 0, res.Character.RealmLevel)
	assert.Equal(t, 1, res.Character.BreakthroughFailures)
	assert.Equal(t, int64(50), res.Character.CultivationValue)
}

func TestRateLimit(t *testing.T) {
	ts := NewTestServer(t, Options{Sec: &config.SecurityConfig{RateLimitRPS: 0.001, RateLimitBurst: 1}})

	resp, _ := ts.Get(t, "/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, env := ts.Get(t, "/health")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, response.CodeRateLimited, env.Error.Code)
}
