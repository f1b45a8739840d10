package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/learnhub-api/internal/models"
)

const topicColumns = `id, name, slug, description, created_at, updated_at`

// TopicRepository persists course topics.
type TopicRepository struct {
	db *sqlx.DB
}

// NewTopicRepository constructs the repository.
func NewTopicRepository(db *sqlx.DB) *TopicRepository {
	return &TopicRepository{db: db}
}

// List returns every topic ordered by name.
func (r *TopicRepository) List(ctx context.Context) ([]models.Topic, error) {
	const query = `SELECT ` + topicColumns + ` FROM topics ORDER BY name ASC`
	topics := make([]models.Topic, 0)
	if err := r.db.SelectContext(ctx, &topics, query); err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	return topics, nil
}

// FindBySlug returns one topic or sql.ErrNoRows.
func (r *TopicRepository) FindBySlug(ctx context.Context, slug string) (*models.Topic, error) {
	return r.findOne(ctx, `SELECT `+topicColumns+` FROM topics WHERE slug = $1`, slug)
}

// FindByID returns one topic or sql.ErrNoRows.
func (r *TopicRepository) FindByID(ctx context.Context, id string) (*models.Topic, error) {
	return r.findOne(ctx, `SELECT `+topicColumns+` FROM topics WHERE id = $1`, id)
}

func (r *TopicRepository) findOne(ctx context.Context, query string, arg string) (*models.Topic, error) {
	var topic models.Topic
	if err := r.db.GetContext(ctx, &topic, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find topic: %w", err)
	}
	return &topic, nil
}

// ExistsByNameOrSlug reports whether either value is already used by another topic.
func (r *TopicRepository) ExistsByNameOrSlug(ctx context.Context, name, slug string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM topics WHERE LOWER(name) = LOWER($1) OR slug = $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, name, slug); err != nil {
		return false, fmt.Errorf("check topic exists: %w", err)
	}
	return exists, nil
}

// Create inserts a topic.
func (r *TopicRepository) Create(ctx context.Context, topic *models.Topic) error {
	if topic.ID == "" {
		topic.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	topic.CreatedAt = now
	topic.UpdatedAt = now
	const query = `INSERT INTO topics (` + topicColumns + `) VALUES (:id, :name, :slug, :description, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, topic); err != nil {
		return fmt.Errorf("create topic: %w", err)
	}
	return nil
}
