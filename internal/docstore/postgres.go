package docstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/podium/backend/internal/db"
)

// PostgresDatabase stores each collection as a table of JSONB documents.
// Tables are created by the SQL migrations shipped with the service.
type PostgresDatabase struct {
	pool db.Pool
}

// NewPostgresDatabase wraps a connection pool.
func NewPostgresDatabase(pool db.Pool) *PostgresDatabase {
	return &PostgresDatabase{pool: pool}
}

func (d *PostgresDatabase) Collection(name string) Collection {
	return &postgresCollection{
		pool:  d.pool,
		name:  name,
		table: pgx.Identifier{name}.Sanitize(),
	}
}

func (d *PostgresDatabase) Backend() string { return "postgres" }

func (d *PostgresDatabase) Close(context.Context) error {
	d.pool.Close()
	return nil
}

type postgresCollection struct {
	pool  db.Pool
	name  string
	table string
}

func (c *postgresCollection) Find(ctx context.Context, filter Filter, opts FindOptions) ([]Document, error) {
	filterJSON, err := marshalJSON(Document(filter))
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT doc FROM %s WHERE doc @> $1::jsonb`, c.table)
	args := []any{filterJSON}

	if opts.Sort != nil {
		dir := "ASC"
		if opts.Sort.Direction == Descending {
			dir = "DESC"
		}
		// Extended JSON wraps dates as {"$date": "..."}; order those chronologically
		// and everything else by its JSONB value.
		query += fmt.Sprintf(` ORDER BY (doc->($2::text)->>'$date')::timestamptz %[1]s, doc->($2::text) %[1]s`, dir)
		args = append(args, opts.Sort.Field)
	} else {
		query += ` ORDER BY seq DESC`
	}
	if opts.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, opts.Limit)
	}

	conn, err := c.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", c.name, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan %s: %w", c.name, err)
		}
		doc, err := unmarshalJSON(raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", c.name, err)
	}

	return docs, nil
}

func (c *postgresCollection) FindOne(ctx context.Context, filter Filter) (Document, error) {
	docs, err := c.Find(ctx, filter, FindOptions{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrNotFound
	}
	return docs[0], nil
}

func (c *postgresCollection) Insert(ctx context.Context, doc Document) (Document, error) {
	id, ok := doc[IDField].(string)
	if !ok || id == "" {
		return nil, fmt.Errorf("insert %s: string %s is required", c.name, IDField)
	}

	docJSON, err := marshalJSON(doc)
	if err != nil {
		return nil, err
	}

	conn, err := c.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, fmt.Sprintf(`INSERT INTO %s (id, doc) VALUES ($1, $2::jsonb)`, c.table), id, docJSON)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("insert %s %s: %w", c.name, id, ErrConflict)
		}
		return nil, fmt.Errorf("insert %s: %w", c.name, err)
	}

	return doc, nil
}

func (c *postgresCollection) Update(ctx context.Context, filter Filter, set Document) (int64, error) {
	filterJSON, err := marshalJSON(Document(filter))
	if err != nil {
		return 0, err
	}
	patchJSON, err := marshalJSON(Document(withoutID(set)))
	if err != nil {
		return 0, err
	}

	conn, err := c.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, fmt.Sprintf(`
        UPDATE %[1]s
        SET doc = doc || $2::jsonb
        WHERE id = (SELECT id FROM %[1]s WHERE doc @> $1::jsonb ORDER BY seq DESC LIMIT 1)
    `, c.table), filterJSON, patchJSON)
	if err != nil {
		return 0, fmt.Errorf("update %s: %w", c.name, err)
	}

	return tag.RowsAffected(), nil
}

func (c *postgresCollection) Increment(ctx context.Context, filter Filter, field string, delta int64) (Document, error) {
	filterJSON, err := marshalJSON(Document(filter))
	if err != nil {
		return nil, err
	}

	conn, err := c.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, fmt.Sprintf(`
        UPDATE %[1]s
        SET doc = jsonb_set(doc, ARRAY[$2::text], to_jsonb(COALESCE((doc->>($2::text))::bigint, 0) + $3::bigint))
        WHERE id = (SELECT id FROM %[1]s WHERE doc @> $1::jsonb ORDER BY seq DESC LIMIT 1)
        RETURNING doc
    `, c.table), filterJSON, field, delta)

	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("increment %s.%s: %w", c.name, field, err)
	}

	return unmarshalJSON(raw)
}

// Upsert requires the filter to carry a string _id, which keys the row.
func (c *postgresCollection) Upsert(ctx context.Context, filter Filter, set Document) error {
	id, ok := filter[IDField].(string)
	if !ok || id == "" {
		return fmt.Errorf("upsert %s: filter must select by %s", c.name, IDField)
	}

	merged := Document{}
	for k, v := range filter {
		merged[k] = v
	}
	for k, v := range withoutID(set) {
		merged[k] = v
	}
	docJSON, err := marshalJSON(merged)
	if err != nil {
		return err
	}

	conn, err := c.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, fmt.Sprintf(`
        INSERT INTO %[1]s (id, doc) VALUES ($1, $2::jsonb)
        ON CONFLICT (id) DO UPDATE SET doc = %[1]s.doc || EXCLUDED.doc
    `, c.table), id, docJSON)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", c.name, err)
	}

	return nil
}

func (c *postgresCollection) Delete(ctx context.Context, filter Filter) (int64, error) {
	filterJSON, err := marshalJSON(Document(filter))
	if err != nil {
		return 0, err
	}

	conn, err := c.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, fmt.Sprintf(`
        DELETE FROM %[1]s
        WHERE id = (SELECT id FROM %[1]s WHERE doc @> $1::jsonb ORDER BY seq DESC LIMIT 1)
    `, c.table), filterJSON)
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", c.name, err)
	}

	return tag.RowsAffected(), nil
}

func (c *postgresCollection) Count(ctx context.Context, filter Filter) (int64, error) {
	filterJSON, err := marshalJSON(Document(filter))
	if err != nil {
		return 0, err
	}

	conn, err := c.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var n int64
	if err := conn.QueryRow(ctx, fmt.Sprintf(`SELECT count(*) FROM %s WHERE doc @> $1::jsonb`, c.table), filterJSON).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", c.name, err)
	}
	return n, nil
}

// marshalJSON renders a document as relaxed MongoDB Extended JSON, which keeps
// dates and numeric types recoverable when read back.
func marshalJSON(doc Document) (string, error) {
	if doc == nil {
		doc = Document{}
	}
	out, err := bson.MarshalExtJSON(bson.M(doc), false, false)
	if err != nil {
		return "", fmt.Errorf("marshal document json: %w", err)
	}
	return string(out), nil
}

func unmarshalJSON(raw []byte) (Document, error) {
	var doc bson.M
	if err := bson.UnmarshalExtJSON(raw, false, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal document json: %w", err)
	}
	return Document(doc), nil
}
