package main

import (
	"testing"

	"go.uber.org/zap"
)

func TestAnalyticsBatchFlush(t *testing.T) {
	db := openTestDB(t)
	a := NewAnalytics(db, zap.NewNop())

	a.Track(EvtRunStart, 1, "sess-1", "")
	a.Track(EvtDeath, 1, "sess-1", "")
	a.Track(EvtDeath, 2, "sess-1", `{"cause":"obstacle"}`)
	a.Stop() // drains and flushes whatever is buffered

	counts, err := a.EventCounts(1)
	if err != nil {
		t.Fatalf("EventCounts: %v", err)
	}
	if counts[EvtRunStart] != 1 || counts[EvtDeath] != 2 {
		t.Errorf("counts = %v", counts)
	}

	dau, err := a.DAUCount()
	if err != nil {
		t.Fatalf("DAUCount: %v", err)
	}
	if dau != 2 {
		t.Errorf("dau = %d, want 2", dau)
	}
	if wau, _ := a.WAUCount(); wau != 2 {
		t.Errorf("wau = %d, want 2", wau)
	}
	if mau, _ := a.MAUCount(); mau != 2 {
		t.Errorf("mau = %d, want 2", mau)
	}

	history, err := a.DailyActiveHistory(7)
	if err != nil {
		t.Fatalf("DailyActiveHistory: %v", err)
	}
	if len(history) != 1 || history[0].Count != 2 {
		t.Errorf("history = %+v", history)
	}
}

func TestAnalyticsRunStats(t *testing.T) {
	db := openTestDB(t)
	a := NewAnalytics(db, zap.NewNop())
	t.Cleanup(a.Stop)

	if _, err := db.RecordRun(0, "s", 50, 1, false, 30, 5); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if _, err := db.RecordRun(0, "s", 150, 2, true, 60, 12); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	ra, err := a.RunStats(7)
	if err != nil {
		t.Fatalf("RunStats: %v", err)
	}
	if ra.Count != 2 || ra.Wins != 1 {
		t.Errorf("runs = %+v", ra)
	}
	if ra.AvgScore != 100 || ra.AvgDuration != 45 {
		t.Errorf("averages = %+v", ra)
	}
}

func TestAnalyticsPopularPurchases(t *testing.T) {
	db := openTestDB(t)
	a := NewAnalytics(db, zap.NewNop())

	a.Track(EvtPurchase, 1, "s", `{"item_id":"skin_gold"}`)
	a.Track(EvtPurchase, 2, "s", `{"item_id":"skin_gold"}`)
	a.Track(EvtPurchase, 1, "s", `{"item_id":"skin_ice"}`)
	a.Stop()

	top, err := a.PopularPurchases(5)
	if err != nil {
		t.Fatalf("PopularPurchases: %v", err)
	}
	if len(top) != 2 || top[0].ItemID != "skin_gold" || top[0].Count != 2 {
		t.Errorf("top purchases = %+v", top)
	}
}

func TestAnalyticsLiveMetrics(t *testing.T) {
	a := NewAnalytics(nil, zap.NewNop())
	t.Cleanup(a.Stop)

	a.SetConcurrentPeers(4)
	a.SetActiveSessions(2)
	peers, sessions := a.GetLiveMetrics()
	if peers != 4 || sessions != 2 {
		t.Errorf("live metrics = %d, %d", peers, sessions)
	}

	// queries stay quiet without a database behind them
	if n, err := a.DAUCount(); err != nil || n != 0 {
		t.Errorf("DAUCount without db = %d, %v", n, err)
	}
	if counts, err := a.EventCounts(1); err != nil || counts != nil {
		t.Errorf("EventCounts without db = %v, %v", counts, err)
	}
}
