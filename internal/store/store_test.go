package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "quizgen.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil database handle")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	// Should be monotonically increasing starting from 1.
	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, name := range []string{"generation_logs", "llm_request_events", "global_sequence"} {
		var got string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", name,
		).Scan(&got)
		if err != nil {
			t.Errorf("table %s not found: %v", name, err)
		}
	}
}

func TestReopenKeepsSequence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quizgen.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.GenerationLogRepo().AppendGenerationLog(ctx, GenerationLogData{Source: "manual_text", QuestionCount: 5}); err != nil {
		t.Fatalf("append: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	seq, err := s.seq.Next(ctx)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if seq != 2 {
		t.Errorf("seq after reopen = %d, want 2", seq)
	}
}

func TestGenerationLogAppendAndQuery(t *testing.T) {
	s := openTestStore(t)
	repo := s.GenerationLogRepo()
	ctx := context.Background()

	before := time.Now().UTC().Add(-time.Second)
	entries := []GenerationLogData{
		{RequestID: "a", RequesterID: "u1", Source: "manual_text", QuestionCount: 5, QuestionsGenerated: 5, Attempts: 1, Success: true, TokensUsed: 1200, ElapsedMs: 900},
		{RequestID: "b", RequesterID: "u2", Source: "file_upload", MediaType: "application/pdf", QuestionCount: 10, Attempts: 3, ErrorMessage: "question 0: options: expected 4 options, got 3"},
		{RequestID: "c", RequesterID: "u1", Source: "manual_text", QuestionCount: 8, QuestionsGenerated: 8, Attempts: 2, Success: true, WasTruncated: true, TokensUsed: 800, ElapsedMs: 1500},
	}
	for _, e := range entries {
		if err := repo.AppendGenerationLog(ctx, e); err != nil {
			t.Fatalf("append %s: %v", e.RequestID, err)
		}
	}

	all, err := repo.QueryGenerationLogs(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d logs, want 3", len(all))
	}
	if all[0].RequestID != "c" || all[2].RequestID != "a" {
		t.Errorf("order = %s,%s,%s, want newest first", all[0].RequestID, all[1].RequestID, all[2].RequestID)
	}
	if all[0].Timestamp.Before(before) {
		t.Errorf("timestamp %v earlier than %v", all[0].Timestamp, before)
	}
	if !all[0].WasTruncated || all[0].Attempts != 2 || all[0].ElapsedMs != 1500 {
		t.Errorf("round trip mismatch: %+v", all[0].GenerationLogData)
	}
	if all[1].MediaType != "application/pdf" || all[1].Success {
		t.Errorf("failed entry mismatch: %+v", all[1].GenerationLogData)
	}

	failed, err := repo.QueryGenerationLogs(ctx, QueryOpts{FailedOnly: true})
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(failed) != 1 || failed[0].RequestID != "b" {
		t.Errorf("failed only = %+v, want [b]", failed)
	}

	mine, err := repo.QueryGenerationLogs(ctx, QueryOpts{RequesterID: "u1", Limit: 1})
	if err != nil {
		t.Fatalf("query requester: %v", err)
	}
	if len(mine) != 1 || mine[0].RequestID != "c" {
		t.Errorf("requester u1 limit 1 = %+v, want [c]", mine)
	}

	after, err := repo.QueryGenerationLogs(ctx, QueryOpts{After: all[2].Sequence})
	if err != nil {
		t.Fatalf("query after: %v", err)
	}
	if len(after) != 2 {
		t.Errorf("after first = %d rows, want 2", len(after))
	}
}

func TestGenerationStats(t *testing.T) {
	s := openTestStore(t)
	repo := s.GenerationLogRepo()
	ctx := context.Background()

	for _, e := range []GenerationLogData{
		{Source: "manual_text", QuestionCount: 5, Success: true, TokensUsed: 100, ElapsedMs: 1000},
		{Source: "manual_text", QuestionCount: 5, Success: false, ElapsedMs: 3000},
		{Source: "file_upload", QuestionCount: 5, Success: true, WasTruncated: true, TokensUsed: 50, ElapsedMs: 500},
	} {
		if err := repo.AppendGenerationLog(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	stats, err := repo.GenerationStats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("got %d stat rows, want 2", len(stats))
	}

	// Ordered by source name.
	file, text := stats[0], stats[1]
	if file.Source != "file_upload" || file.Calls != 1 || file.Truncated != 1 || file.TokensUsed != 50 {
		t.Errorf("file_upload stats = %+v", file)
	}
	if text.Source != "manual_text" || text.Calls != 2 || text.Successes != 1 || text.AvgElapsedMs != 2000 {
		t.Errorf("manual_text stats = %+v", text)
	}
}

func TestLLMEventAppendAndUsage(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, e := range []LLMRequestEventData{
		{RequestID: "r1", Requester: "u1", Provider: "openai", Model: "gpt-4o-mini", Purpose: "question-gen", InputTokens: 1000, OutputTokens: 400, LatencyMs: 900, Success: true, RequestBody: "[user]\nhello", ResponseBody: `{"questions":[]}`},
		{RequestID: "r2", Provider: "openai", Model: "gpt-4o-mini", Purpose: "question-gen", InputTokens: 500, OutputTokens: 100, Success: true},
		{RequestID: "r3", Provider: "anthropic", Model: "claude-haiku", Purpose: "question-gen", ErrorMessage: "rate limited"},
	} {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append %s: %v", e.RequestID, err)
		}
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	last := events[2]
	if last.RequestID != "r1" || last.Requester != "u1" || last.RequestBody != "[user]\nhello" || last.ResponseBody != `{"questions":[]}` {
		t.Errorf("round trip mismatch: %+v", last.LLMRequestEventData)
	}

	failed, err := repo.QueryLLMEvents(ctx, QueryOpts{FailedOnly: true})
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(failed) != 1 || failed[0].ErrorMessage != "rate limited" {
		t.Errorf("failed only = %+v", failed)
	}

	usage, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if len(usage) != 2 {
		t.Fatalf("got %d usage rows, want 2", len(usage))
	}
	if usage[1].Model != "gpt-4o-mini" || usage[1].Calls != 2 || usage[1].InputTokens != 1500 || usage[1].OutputTokens != 500 {
		t.Errorf("gpt-4o-mini usage = %+v", usage[1])
	}
}

func TestSequenceSharedAcrossTables(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.EventRepo().AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Model: "mock", Purpose: "question-gen", Success: true}); err != nil {
		t.Fatalf("append event: %v", err)
	}
	if err := s.GenerationLogRepo().AppendGenerationLog(ctx, GenerationLogData{Source: "manual_text", QuestionCount: 5, Success: true}); err != nil {
		t.Fatalf("append log: %v", err)
	}

	events, _ := s.EventRepo().QueryLLMEvents(ctx, QueryOpts{})
	logs, _ := s.GenerationLogRepo().QueryGenerationLogs(ctx, QueryOpts{})
	if len(events) != 1 || len(logs) != 1 {
		t.Fatalf("events=%d logs=%d, want 1 each", len(events), len(logs))
	}
	if events[0].Sequence >= logs[0].Sequence {
		t.Errorf("event seq %d should precede log seq %d", events[0].Sequence, logs[0].Sequence)
	}
}

func TestGetLLMEventAndPurposeUsage(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, e := range []LLMRequestEventData{
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "question-gen", InputTokens: 100, OutputTokens: 50, LatencyMs: 200, Success: true},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "question-gen", InputTokens: 300, OutputTokens: 150, LatencyMs: 400, Success: true},
	} {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 1})
	if err != nil || len(events) != 1 {
		t.Fatalf("query: %v (%d events)", err, len(events))
	}

	got, err := repo.GetLLMEvent(ctx, events[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.InputTokens != 300 {
		t.Errorf("get returned %+v, want the 300-token event", got)
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown id, got %+v", missing)
	}

	usage, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if len(usage) != 1 {
		t.Fatalf("got %d purpose rows, want 1", len(usage))
	}
	u := usage[0]
	if u.Purpose != "question-gen" || u.Calls != 2 || u.InputTokens != 400 || u.OutputTokens != 200 || u.AvgLatencyMs != 300 {
		t.Errorf("purpose usage = %+v", u)
	}
}
