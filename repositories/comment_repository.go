package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/courtside-app/backend/models"
	"github.com/lib/pq"
)

var (
	ErrCommentMatchInvalid  = errors.New("comment references an unknown match")
	ErrCommentAuthorInvalid = errors.New("comment references an unknown author")
)

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByMatch(ctx context.Context, matchID int) ([]*models.Comment, error)
}

type postgresCommentRepository struct {
	db *sql.DB
}

func NewPostgresCommentRepository(db *sql.DB) CommentRepository {
	return &postgresCommentRepository{db: db}
}

func (r *postgresCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (match_id, author_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		comment.MatchID,
		comment.AuthorID,
		comment.Body,
	).Scan(&comment.ID, &comment.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "comments_match_id_fkey":
				return ErrCommentMatchInvalid
			case "comments_author_id_fkey":
				return ErrCommentAuthorInvalid
			}
		}
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	return nil
}

func (r *postgresCommentRepository) ListByMatch(ctx context.Context, matchID int) ([]*models.Comment, error) {
	query := `
		SELECT id, match_id, author_id, body, created_at
		FROM comments
		WHERE match_id = $1
		ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments for match %d: %w", matchID, err)
	}
	defer rows.Close()

	comments := make([]*models.Comment, 0)
	for rows.Next() {
		var comment models.Comment
		if scanErr := rows.Scan(&comment.ID, &comment.MatchID, &comment.AuthorID, &comment.Body, &comment.CreatedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan comment row: %w", scanErr)
		}
		comments = append(comments, &comment)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during comment rows iteration: %w", err)
	}
	return comments, nil
}
