package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// generationLogRepo implements GenerationLogRepo on the ent SQL driver.
type generationLogRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

var generationLogColumns = []string{
	"id", "sequence", "timestamp", "request_id", "requester_id", "source",
	"media_type", "content_length", "question_count", "questions_generated",
	"attempts", "success", "tokens_used", "elapsed_ms", "was_truncated",
	"error_message",
}

func (r *generationLogRepo) AppendGenerationLog(ctx context.Context, data GenerationLogData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(generationLogsTable.Name).
		Columns(generationLogColumns[1:]...).
		Values(
			seqNum,
			time.Now().UTC(),
			data.RequestID,
			data.RequesterID,
			data.Source,
			data.MediaType,
			data.ContentLength,
			data.QuestionCount,
			data.QuestionsGenerated,
			data.Attempts,
			data.Success,
			data.TokensUsed,
			data.ElapsedMs,
			data.WasTruncated,
			data.ErrorMessage,
		).
		Query()

	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("save generation log: %w", err)
	}
	return nil
}

func (r *generationLogRepo) QueryGenerationLogs(ctx context.Context, opts QueryOpts) ([]GenerationLog, error) {
	selector := entsql.Dialect(dialect.SQLite).
		Select(generationLogColumns...).
		From(entsql.Table(generationLogsTable.Name))
	applyQueryOpts(selector, opts)

	query, args := selector.Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query generation logs: %w", err)
	}
	defer rows.Close()

	var out []GenerationLog
	for rows.Next() {
		var g GenerationLog
		if err := rows.Scan(
			&g.ID, &g.Sequence, &g.Timestamp, &g.RequestID, &g.RequesterID,
			&g.Source, &g.MediaType, &g.ContentLength, &g.QuestionCount,
			&g.QuestionsGenerated, &g.Attempts, &g.Success, &g.TokensUsed,
			&g.ElapsedMs, &g.WasTruncated, &g.ErrorMessage,
		); err != nil {
			return nil, fmt.Errorf("scan generation log: %w", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate generation logs: %w", err)
	}
	return out, nil
}

func (r *generationLogRepo) GenerationStats(ctx context.Context) ([]GenerationStat, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(
			"source",
			entsql.As(entsql.Count("*"), "calls"),
			entsql.As(entsql.Sum("success"), "successes"),
			entsql.As(entsql.Sum("was_truncated"), "truncated"),
			entsql.As(entsql.Sum("tokens_used"), "tokens"),
			entsql.As(entsql.Avg("elapsed_ms"), "avg_ms"),
		).
		From(entsql.Table(generationLogsTable.Name)).
		GroupBy("source").
		OrderBy("source").
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query generation stats: %w", err)
	}
	defer rows.Close()

	var out []GenerationStat
	for rows.Next() {
		var (
			st    GenerationStat
			avgMs float64
		)
		if err := rows.Scan(&st.Source, &st.Calls, &st.Successes, &st.Truncated, &st.TokensUsed, &avgMs); err != nil {
			return nil, fmt.Errorf("scan generation stats: %w", err)
		}
		st.AvgElapsedMs = int64(avgMs)
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate generation stats: %w", err)
	}
	return out, nil
}

// applyQueryOpts adds the filters shared by both event tables and orders
// newest first.
func applyQueryOpts(s *entsql.Selector, opts QueryOpts) {
	if opts.After > 0 {
		s.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		s.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		s.Where(entsql.GTE("timestamp", opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		s.Where(entsql.LTE("timestamp", opts.To.UTC()))
	}
	if opts.FailedOnly {
		s.Where(entsql.EQ("success", false))
	}
	if opts.RequesterID != "" {
		s.Where(entsql.EQ("requester_id", opts.RequesterID))
	}
	s.OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		s.Limit(opts.Limit)
	}
}
