package main

import (
	"path/filepath"
	"reflect"
	"sort"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPlayerLifecycle(t *testing.T) {
	db := openTestDB(t)

	id, err := db.CreatePlayer("mallow", "hash")
	if err != nil {
		t.Fatalf("CreatePlayer: %v", err)
	}
	if id == 0 {
		t.Fatal("player id is zero")
	}
	if _, err := db.CreatePlayer("mallow", "other"); err == nil {
		t.Error("duplicate username accepted")
	}

	p, err := db.GetPlayerByUsername("mallow")
	if err != nil || p == nil {
		t.Fatalf("GetPlayerByUsername = %+v, %v", p, err)
	}
	if p.ID != id || p.PassHash != "hash" {
		t.Errorf("player row = %+v", p)
	}
	byID, err := db.GetPlayerByID(id)
	if err != nil || byID == nil || byID.Username != "mallow" {
		t.Errorf("GetPlayerByID = %+v, %v", byID, err)
	}
	if missing, err := db.GetPlayerByUsername("nobody"); err != nil || missing != nil {
		t.Errorf("absent player = %+v, %v, want nil, nil", missing, err)
	}

	exists, err := db.UsernameExists("mallow")
	if err != nil || !exists {
		t.Errorf("UsernameExists(mallow) = %t, %v", exists, err)
	}
	if exists, _ := db.UsernameExists("nobody"); exists {
		t.Error("UsernameExists reports a name nobody took")
	}

	// CreatePlayer seeds the stats row
	stats, err := db.GetStats(id)
	if err != nil || stats == nil {
		t.Fatalf("GetStats = %+v, %v", stats, err)
	}
	if stats.Runs != 0 || stats.Coins != 0 || stats.Level != 1 || stats.Skin != "" {
		t.Errorf("fresh stats = %+v", stats)
	}
	if s, err := db.GetStats(9999); err != nil || s != nil {
		t.Errorf("stats for unknown player = %+v, %v", s, err)
	}
}

func TestStatsAfterRun(t *testing.T) {
	db := openTestDB(t)
	id, err := db.CreatePlayer("runner", "h")
	if err != nil {
		t.Fatalf("CreatePlayer: %v", err)
	}

	xp, level, err := db.UpdateStatsAfterRun(id, 120, 3, 1, true, 120, 47)
	if err != nil {
		t.Fatalf("UpdateStatsAfterRun: %v", err)
	}
	if xp != 120 || level != 2 {
		t.Errorf("first run = xp %d, level %d, want 120, 2", xp, level)
	}

	// a weaker second run keeps the best score
	xp, level, err = db.UpdateStatsAfterRun(id, 40, 2, 0, false, 40, 14)
	if err != nil {
		t.Fatalf("second UpdateStatsAfterRun: %v", err)
	}
	if xp != 160 || level != 2 {
		t.Errorf("second run = xp %d, level %d, want 160, 2", xp, level)
	}

	stats, err := db.GetStats(id)
	if err != nil || stats == nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.Runs != 2 || stats.Wins != 1 || stats.BestScore != 120 {
		t.Errorf("totals = %+v", stats)
	}
	if stats.Eaten != 5 || stats.Deaths != 1 || stats.Coins != 61 || stats.XP != 160 {
		t.Errorf("accumulators = %+v", stats)
	}
}

func TestSpendCoins(t *testing.T) {
	db := openTestDB(t)
	id, _ := db.CreatePlayer("buyer", "h")

	if paid, err := db.SpendCoins(id, 50); err != nil || paid {
		t.Errorf("spend on empty balance = %t, %v", paid, err)
	}

	if _, _, err := db.UpdateStatsAfterRun(id, 0, 0, 0, false, 0, 100); err != nil {
		t.Fatalf("seed coins: %v", err)
	}
	if paid, err := db.SpendCoins(id, 60); err != nil || !paid {
		t.Fatalf("spend within balance = %t, %v", paid, err)
	}
	if paid, _ := db.SpendCoins(id, 60); paid {
		t.Error("overdraft allowed")
	}
	stats, _ := db.GetStats(id)
	if stats.Coins != 40 {
		t.Errorf("balance = %d, want 40", stats.Coins)
	}
}

func TestSkinOwnership(t *testing.T) {
	db := openTestDB(t)
	id, _ := db.CreatePlayer("fashion", "h")

	if has, err := db.HasSkin(id, "skin_gold"); err != nil || has {
		t.Errorf("HasSkin before grant = %t, %v", has, err)
	}
	if err := db.GrantSkin(id, "skin_gold"); err != nil {
		t.Fatalf("GrantSkin: %v", err)
	}
	if err := db.GrantSkin(id, "skin_gold"); err != nil {
		t.Errorf("repeat grant: %v", err)
	}
	if err := db.GrantSkin(id, "skin_ice"); err != nil {
		t.Fatalf("second GrantSkin: %v", err)
	}

	has, err := db.HasSkin(id, "skin_gold")
	if err != nil || !has {
		t.Errorf("HasSkin after grant = %t, %v", has, err)
	}
	skins, err := db.GetSkins(id)
	if err != nil {
		t.Fatalf("GetSkins: %v", err)
	}
	sort.Strings(skins)
	if !reflect.DeepEqual(skins, []string{"skin_gold", "skin_ice"}) {
		t.Errorf("owned skins = %v", skins)
	}

	if err := db.EquipSkin(id, "skin_ice"); err != nil {
		t.Fatalf("EquipSkin: %v", err)
	}
	stats, _ := db.GetStats(id)
	if stats.Skin != "skin_ice" {
		t.Errorf("equipped = %q", stats.Skin)
	}
	if err := db.EquipSkin(id, ""); err != nil {
		t.Fatalf("unequip: %v", err)
	}
	stats, _ = db.GetStats(id)
	if stats.Skin != "" {
		t.Errorf("skin after unequip = %q", stats.Skin)
	}
}

func TestAchievementStorage(t *testing.T) {
	db := openTestDB(t)
	id, _ := db.CreatePlayer("collector", "h")

	fresh, err := db.UnlockAchievement(id, "first_meal")
	if err != nil || !fresh {
		t.Fatalf("first unlock = %t, %v", fresh, err)
	}
	again, err := db.UnlockAchievement(id, "first_meal")
	if err != nil || again {
		t.Errorf("repeat unlock = %t, %v", again, err)
	}
	if _, err := db.UnlockAchievement(id, "winner"); err != nil {
		t.Fatalf("second unlock: %v", err)
	}

	got, err := db.GetAchievements(id)
	if err != nil {
		t.Fatalf("GetAchievements: %v", err)
	}
	sort.Strings(got)
	if !reflect.DeepEqual(got, []string{"first_meal", "winner"}) {
		t.Errorf("stored = %v", got)
	}
}

func TestSettings(t *testing.T) {
	db := openTestDB(t)

	if v, err := db.GetSetting("absent"); err != nil || v != "" {
		t.Errorf("absent setting = %q, %v", v, err)
	}
	if err := db.SetSetting("motd", "hello"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	if v, _ := db.GetSetting("motd"); v != "hello" {
		t.Errorf("setting = %q", v)
	}
	if err := db.SetSetting("motd", "goodbye"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if v, _ := db.GetSetting("motd"); v != "goodbye" {
		t.Errorf("overwritten setting = %q", v)
	}
}

func TestRunsAndLeaderboard(t *testing.T) {
	db := openTestDB(t)
	alice, _ := db.CreatePlayer("alice", "h")
	bob, _ := db.CreatePlayer("bob", "h")

	// alice won a modest run, bob lost a big one
	if _, _, err := db.UpdateStatsAfterRun(alice, 300, 10, 0, true, 300, 65); err != nil {
		t.Fatalf("alice stats: %v", err)
	}
	if _, _, err := db.UpdateStatsAfterRun(bob, 500, 20, 2, false, 500, 60); err != nil {
		t.Fatalf("bob stats: %v", err)
	}
	for i, score := range []int{100, 200, 300} {
		if _, err := db.RecordRun(alice, "sess-a", score, i, false, 30, 5); err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}
	if _, err := db.RecordRun(0, "sess-anon", 50, 0, false, 12, 2); err != nil {
		t.Fatalf("anonymous RecordRun: %v", err)
	}

	runs, err := db.GetRunHistory(alice, 10)
	if err != nil {
		t.Fatalf("GetRunHistory: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("history rows = %d, want 3", len(runs))
	}
	if short, _ := db.GetRunHistory(alice, 2); len(short) != 2 {
		t.Errorf("limited history rows = %d, want 2", len(short))
	}
	// anonymous runs belong to no account
	if anon, _ := db.GetRunHistory(0, 10); len(anon) != 0 {
		t.Errorf("anonymous history rows = %d, want 0", len(anon))
	}

	best, err := db.GetLeaderboard("best", 10)
	if err != nil {
		t.Fatalf("GetLeaderboard: %v", err)
	}
	if len(best) != 2 || best[0].Username != "bob" || best[0].Rank != 1 || best[1].Username != "alice" {
		t.Errorf("by best = %+v", best)
	}
	wins, err := db.GetLeaderboard("wins", 10)
	if err != nil {
		t.Fatalf("GetLeaderboard wins: %v", err)
	}
	if len(wins) != 2 || wins[0].Username != "alice" {
		t.Errorf("by wins = %+v", wins)
	}
	// unknown columns fall back to best score rather than reaching the query
	bogus, err := db.GetLeaderboard("1; DROP TABLE stats", 10)
	if err != nil {
		t.Fatalf("GetLeaderboard bogus: %v", err)
	}
	if len(bogus) != 2 || bogus[0].Username != "bob" {
		t.Errorf("bogus order = %+v", bogus)
	}
}

func TestXPLadder(t *testing.T) {
	if got := XPForLevel(1); got != 0 {
		t.Errorf("XPForLevel(1) = %d", got)
	}
	if got := XPForLevel(2); got != 100 {
		t.Errorf("XPForLevel(2) = %d", got)
	}
	if got := XPToNextLevel(1); got != 100 {
		t.Errorf("XPToNextLevel(1) = %d", got)
	}
	for lvl := 2; lvl <= 20; lvl++ {
		if XPForLevel(lvl) <= XPForLevel(lvl-1) {
			t.Fatalf("ladder not increasing at level %d", lvl)
		}
		if CalculateLevel(XPForLevel(lvl)) != lvl {
			t.Errorf("CalculateLevel(XPForLevel(%d)) = %d", lvl, CalculateLevel(XPForLevel(lvl)))
		}
	}

	cases := []struct{ xp, want int }{
		{0, 1},
		{99, 1},
		{100, 2},
		{120, 2},
		{2000000000, 100}, // capped
	}
	for _, tc := range cases {
		if got := CalculateLevel(tc.xp); got != tc.want {
			t.Errorf("CalculateLevel(%d) = %d, want %d", tc.xp, got, tc.want)
		}
	}
}
