package journal

import (
	"context"
	"strings"
	"testing"
	"time"
)

func openMemory(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(context.Background(), "sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open journal: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestRecordAndRecent(t *testing.T) {
	j := openMemory(t)
	ctx := context.Background()
	started := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	runs := []Run{
		{Source: "a.sm", Program: "x = 1;", Value: "1", Duration: time.Millisecond, StartedAt: started},
		{Source: "b.sm", Program: "x = y;", ErrorKind: "UnboundIdentifier", ErrorMessage: "`y` is not defined", StartedAt: started.Add(time.Second)},
		{Source: "c.sm", Program: ";", Value: "()", StartedAt: started.Add(2 * time.Second)},
	}

	var lastID int64
	for _, run := range runs {
		id, err := j.Record(ctx, run)
		if err != nil {
			t.Fatalf("failed to record run: %v", err)
		}
		if id <= lastID {
			t.Errorf("ids should increase, got %d after %d", id, lastID)
		}
		lastID = id
	}

	recent, err := j.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("failed to list runs: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(recent))
	}
	if recent[0].Source != "c.sm" || recent[1].Source != "b.sm" {
		t.Errorf("runs are not newest first: %s, %s", recent[0].Source, recent[1].Source)
	}

	failed := recent[1]
	if !failed.Failed() || failed.ErrorKind != "UnboundIdentifier" {
		t.Errorf("unexpected failed run %+v", failed)
	}
	if !failed.StartedAt.Equal(started.Add(time.Second)) {
		t.Errorf("started at was not kept, got %v", failed.StartedAt)
	}

	all, err := j.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("failed to list runs: %v", err)
	}
	if len(all) != 3 || all[2].Duration != time.Millisecond || all[2].Failed() {
		t.Errorf("unexpected oldest run %+v", all[len(all)-1])
	}
}

func TestRecentWithoutLimit(t *testing.T) {
	j := openMemory(t)
	runs, err := j.Recent(context.Background(), 0)
	if err != nil || runs != nil {
		t.Errorf("expected no runs and no error, got %v, %v", runs, err)
	}
}

func TestUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "")
	if err == nil || !strings.Contains(err.Error(), "unsupported journal driver 'oracle'") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestPlaceholders(t *testing.T) {
	pg := &Journal{dialect: dialects["postgres"]}
	if got := pg.placeholders(3); got != "$1, $2, $3" {
		t.Errorf("postgres placeholders: %s", got)
	}
	my := &Journal{dialect: dialects["mysql"]}
	if got := my.placeholders(2); got != "?, ?" {
		t.Errorf("mysql placeholders: %s", got)
	}
}
