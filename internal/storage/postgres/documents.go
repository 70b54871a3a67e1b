package postgres

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/chatpack/internal/domain/errors"
	"github.com/polkiloo/chatpack/internal/domain/model"
)

const (
	ordersTable  = "orders"
	reviewsTable = "reviews"

	// TimestampLayout is how timestamps leave the store.
	TimestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

var (
	newID          = uuid.NewString
	fieldPattern   = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
	reservedFields = []string{"id", "created_date"}
	timeFields     = []string{"paid_at"}
)

type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// collection is a table of JSONB documents decoded into T.
type collection[T any] struct {
	storage *Storage
	table   string
}

func (c collection[T]) insert(ctx context.Context, entity any) (*T, error) {
	payload, err := encodeDocument(entity)
	if err != nil {
		return nil, err
	}
	id := newID()
	query := fmt.Sprintf(`INSERT INTO %s (id, data) VALUES ($1, $2::jsonb) RETURNING created_date`, c.table)
	var created time.Time
	if err := c.storage.pool.QueryRow(ctx, query, id, payload).Scan(&created); err != nil {
		return nil, storeError(err)
	}
	return decodeDocument[T](id, []byte(payload), created)
}

func (c collection[T]) get(ctx context.Context, q queryer, id string, forUpdate bool) (*T, error) {
	query := fmt.Sprintf(`SELECT id, data, created_date FROM %s WHERE id=$1`, c.table)
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var (
		docID   string
		data    []byte
		created time.Time
	)
	if err := q.QueryRow(ctx, query, id).Scan(&docID, &data, &created); err != nil {
		return nil, storeError(err)
	}
	return decodeDocument[T](docID, data, created)
}

func (c collection[T]) merge(ctx context.Context, q queryer, id string, fields map[string]any) (*T, error) {
	patch, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode patch: %w", err)
	}
	query := fmt.Sprintf(`UPDATE %s SET data = data || $2::jsonb WHERE id=$1 RETURNING id, data, created_date`, c.table)
	var (
		docID   string
		data    []byte
		created time.Time
	)
	if err := q.QueryRow(ctx, query, id, string(patch)).Scan(&docID, &data, &created); err != nil {
		return nil, storeError(err)
	}
	return decodeDocument[T](docID, data, created)
}

func (c collection[T]) list(ctx context.Context, filters map[string]any, sort model.Sort) ([]T, error) {
	orderBy, err := orderClause(sort)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT id, data, created_date FROM %s`, c.table)
	var args []any
	if len(filters) > 0 {
		match, err := json.Marshal(filters)
		if err != nil {
			return nil, fmt.Errorf("encode filters: %w", err)
		}
		query += ` WHERE data @> $1::jsonb`
		args = append(args, string(match))
	}
	query += orderBy

	rows, err := c.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, storeError(err)
	}
	defer rows.Close()

	var result []T
	for rows.Next() {
		var (
			docID   string
			data    []byte
			created time.Time
		)
		if err := rows.Scan(&docID, &data, &created); err != nil {
			return nil, storeError(err)
		}
		doc, err := decodeDocument[T](docID, data, created)
		if err != nil {
			return nil, err
		}
		result = append(result, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(err)
	}
	return result, nil
}

func orderClause(sort model.Sort) (string, error) {
	if sort.Field == "" {
		sort = model.NewestFirst
	}
	if !fieldPattern.MatchString(sort.Field) {
		return "", domainErrors.Validation(fmt.Sprintf("invalid sort field %q", sort.Field))
	}
	expr := fmt.Sprintf("data->'%s'", sort.Field)
	if sort.Field == "id" || sort.Field == "created_date" {
		expr = sort.Field
	}
	dir := "ASC"
	if sort.Desc {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, id %s", expr, dir, dir), nil
}

// encodeDocument renders entity as a JSON object without the store-owned fields.
func encodeDocument(entity any) (string, error) {
	fields, err := toFields(entity)
	if err != nil {
		return "", err
	}
	for _, k := range reservedFields {
		delete(fields, k)
	}
	out, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	return string(out), nil
}

// decodeDocument builds T from stored data, id and creation time, normalizing
// timestamps to TimestampLayout.
func decodeDocument[T any](id string, data []byte, created time.Time) (*T, error) {
	fields := map[string]any{}
	if len(data) > 0 {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&fields); err != nil {
			return nil, fmt.Errorf("decode document %s: %w", id, err)
		}
	}
	fields["id"] = id
	fields["created_date"] = FormatTimestamp(created)
	for _, k := range timeFields {
		if raw, ok := fields[k].(string); ok {
			if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
				fields[k] = FormatTimestamp(ts)
			}
		}
	}

	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("decode document %s: %w", id, err)
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", id, err)
	}
	return &out, nil
}

func toFields(entity any) (map[string]any, error) {
	if fields, ok := entity.(map[string]any); ok {
		clone := make(map[string]any, len(fields))
		for k, v := range fields {
			clone[k] = v
		}
		return clone, nil
	}
	raw, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	fields := map[string]any{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return fields, nil
}

// FormatTimestamp renders t as an ISO-8601 UTC string with millisecond precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func storeError(err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return domainErrors.ErrNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %w", domainErrors.ErrStoreUnavailable, err)
	}
}
