package db

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	"contentradar/internal/models"
)

// topicColumns is the standard column list for topic queries.
const topicColumns = `id, label, search_queries, description, status, standalone_url, created_at, updated_at`

// decodeQueries turns the stored blob into a string slice. A malformed
// or empty blob yields an empty slice so one bad row never fails a
// whole listing.
func decodeQueries(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var queries []string
	if err := json.Unmarshal([]byte(raw), &queries); err != nil {
		return []string{}
	}
	if queries == nil {
		return []string{}
	}
	return queries
}

// encodeQueries serializes the slice for storage. The in-memory
// representation is always a plain []string; encoding happens only here.
func encodeQueries(queries []string) string {
	if len(queries) == 0 {
		return "[]"
	}
	data, err := json.Marshal(queries)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// scanTopic scans a row into a Topic struct.
func scanTopic(row pgx.Row) (*models.Topic, error) {
	var topic models.Topic
	var raw string
	err := row.Scan(
		&topic.ID,
		&topic.Label,
		&raw,
		&topic.Description,
		&topic.Status,
		&topic.StandaloneURL,
		&topic.CreatedAt,
		&topic.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTopicNotFound
	}
	if err != nil {
		return nil, err
	}
	topic.SearchQueries = decodeQueries(raw)
	return &topic, nil
}

// scanTopics scans multiple rows into a slice of Topics.
func scanTopics(rows pgx.Rows) ([]models.Topic, error) {
	defer rows.Close()

	var topics []models.Topic
	for rows.Next() {
		var topic models.Topic
		var raw string
		if err := rows.Scan(
			&topic.ID,
			&topic.Label,
			&raw,
			&topic.Description,
			&topic.Status,
			&topic.StandaloneURL,
			&topic.CreatedAt,
			&topic.UpdatedAt,
		); err != nil {
			return nil, err
		}
		topic.SearchQueries = decodeQueries(raw)
		topics = append(topics, topic)
	}

	return topics, rows.Err()
}

// ListTopics returns all topic configurations, newest first.
func (d *DB) ListTopics(ctx context.Context) ([]models.Topic, error) {
	query := `SELECT ` + topicColumns + ` FROM topics ORDER BY created_at DESC, id DESC`
	rows, err := d.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return scanTopics(rows)
}

// GetTopicByID retrieves a topic by its ID.
func (d *DB) GetTopicByID(ctx context.Context, id int64) (*models.Topic, error) {
	query := `SELECT ` + topicColumns + ` FROM topics WHERE id = $1`
	return scanTopic(d.Pool.QueryRow(ctx, query, id))
}

// CreateTopic inserts a new topic configuration.
func (d *DB) CreateTopic(ctx context.Context, topic *models.Topic) error {
	if topic.Status == "" {
		topic.Status = models.TopicPlanned
	}
	query := `
		INSERT INTO topics (label, search_queries, description, status, standalone_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	return d.Pool.QueryRow(ctx, query,
		topic.Label,
		encodeQueries(topic.SearchQueries),
		topic.Description,
		topic.Status,
		topic.StandaloneURL,
	).Scan(&topic.ID, &topic.CreatedAt, &topic.UpdatedAt)
}

// UpdateTopic updates a topic's configuration.
func (d *DB) UpdateTopic(ctx context.Context, topic *models.Topic) error {
	query := `
		UPDATE topics
		SET label = $1, search_queries = $2, description = $3, status = $4,
			standalone_url = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`
	err := d.Pool.QueryRow(ctx, query,
		topic.Label,
		encodeQueries(topic.SearchQueries),
		topic.Description,
		topic.Status,
		topic.StandaloneURL,
		topic.ID,
	).Scan(&topic.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrTopicNotFound
	}
	return err
}

// DeleteTopic removes a topic unconditionally. Deleting an id that does
// not exist is not an error: deletion is idempotent at the API boundary.
func (d *DB) DeleteTopic(ctx context.Context, id int64) error {
	_, err := d.Pool.Exec(ctx, `DELETE FROM topics WHERE id = $1`, id)
	return err
}

// PublishedTopics returns topics with a standalone URL awaiting coverage
// verification.
func (d *DB) PublishedTopics(ctx context.Context) ([]models.Topic, error) {
	query := `
		SELECT ` + topicColumns + `
		FROM topics
		WHERE status = $1 AND standalone_url <> ''
		ORDER BY updated_at ASC
	`
	rows, err := d.Pool.Query(ctx, query, models.TopicPublished)
	if err != nil {
		return nil, err
	}
	return scanTopics(rows)
}
