package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/courtside-app/backend/models"
	"github.com/courtside-app/backend/repositories"
)

// CommentService handles match discussion. Comments are append-only and do
// not participate in bracket state transitions.
type CommentService interface {
	AddComment(ctx context.Context, matchID, authorID int, body string) (*models.Comment, error)
	ListComments(ctx context.Context, matchID int) ([]*models.Comment, error)
}

type commentService struct {
	commentRepo repositories.CommentRepository
	matchRepo   repositories.MatchRepository
	userRepo    repositories.UserRepository
}

func NewCommentService(
	commentRepo repositories.CommentRepository,
	matchRepo repositories.MatchRepository,
	userRepo repositories.UserRepository,
) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		matchRepo:   matchRepo,
		userRepo:    userRepo,
	}
}

func (s *commentService) AddComment(ctx context.Context, matchID, authorID int, body string) (*models.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrCommentBodyRequired
	}

	if _, err := s.matchRepo.GetByID(ctx, matchID); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to fetch match %d: %w", matchID, err)
	}

	comment := &models.Comment{
		MatchID:  matchID,
		AuthorID: authorID,
		Body:     body,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		switch {
		case errors.Is(err, repositories.ErrCommentMatchInvalid):
			return nil, ErrMatchNotFound
		case errors.Is(err, repositories.ErrCommentAuthorInvalid):
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}

func (s *commentService) ListComments(ctx context.Context, matchID int) ([]*models.Comment, error) {
	if _, err := s.matchRepo.GetByID(ctx, matchID); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to fetch match %d: %w", matchID, err)
	}

	comments, err := s.commentRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments for match %d: %w", matchID, err)
	}

	authorIDs := make([]int, 0, len(comments))
	seen := make(map[int]bool, len(comments))
	for _, c := range comments {
		if !seen[c.AuthorID] {
			seen[c.AuthorID] = true
			authorIDs = append(authorIDs, c.AuthorID)
		}
	}
	authors, err := s.userRepo.ListByIDs(ctx, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch comment authors: %w", err)
	}
	byID := make(map[int]*models.User, len(authors))
	for _, u := range authors {
		byID[u.ID] = u
	}
	for _, c := range comments {
		if author, ok := byID[c.AuthorID]; ok {
			c.Author = author
		}
	}
	return comments, nil
}
