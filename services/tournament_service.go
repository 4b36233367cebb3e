package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/courtside-app/backend/models"
	"github.com/courtside-app/backend/repositories"
	"github.com/courtside-app/backend/storage"
	"github.com/google/uuid"
)

type CreateTournamentInput struct {
	Name      string    `json:"name"`
	Sport     string    `json:"sport"`
	Location  *string   `json:"location,omitempty"`
	StartDate time.Time `json:"start_date"`
}

type TournamentService interface {
	CreateTournament(ctx context.Context, organizerID int, input CreateTournamentInput) (*models.Tournament, error)
	GetTournamentByID(ctx context.Context, id int) (*models.Tournament, error)
	ListTournaments(ctx context.Context, filter repositories.ListTournamentsFilter) ([]*models.Tournament, error)
	UpdateTournamentStatus(ctx context.Context, id, currentUserID int, status models.TournamentStatus) (*models.Tournament, error)
	UploadLogo(ctx context.Context, id, currentUserID int, contentType string, body io.Reader) (*models.Tournament, error)
	ListRegistrations(ctx context.Context, tournamentID int) ([]*models.Registration, error)
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	regRepo        repositories.RegistrationRepository
	txStarter      repositories.Transactor
	uploader       storage.FileUploader
	logger         *slog.Logger
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	regRepo repositories.RegistrationRepository,
	txStarter repositories.Transactor,
	uploader storage.FileUploader,
	logger *slog.Logger,
) TournamentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &tournamentService{
		tournamentRepo: tournamentRepo,
		regRepo:        regRepo,
		txStarter:      txStarter,
		uploader:       uploader,
		logger:         logger,
	}
}

func (s *tournamentService) CreateTournament(ctx context.Context, organizerID int, input CreateTournamentInput) (*models.Tournament, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrTournamentNameRequired
	}
	if strings.TrimSpace(input.Sport) == "" {
		return nil, ErrTournamentSportRequired
	}

	tournament := &models.Tournament{
		Name:        strings.TrimSpace(input.Name),
		Sport:       strings.TrimSpace(input.Sport),
		OrganizerID: organizerID,
		Location:    input.Location,
		StartDate:   input.StartDate,
		Status:      models.TournamentUpcoming,
	}
	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNameConflict) {
			return nil, ErrTournamentNameConflict
		}
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}
	return tournament, nil
}

func (s *tournamentService) GetTournamentByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to fetch tournament %d: %w", id, err)
	}
	s.populateLogoURL(tournament)
	return tournament, nil
}

func (s *tournamentService) ListTournaments(ctx context.Context, filter repositories.ListTournamentsFilter) ([]*models.Tournament, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	tournaments, err := s.tournamentRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	for _, t := range tournaments {
		s.populateLogoURL(t)
	}
	return tournaments, nil
}

func (s *tournamentService) UpdateTournamentStatus(ctx context.Context, id, currentUserID int, status models.TournamentStatus) (*models.Tournament, error) {
	if !isValidTournamentStatus(status) {
		return nil, ErrTournamentInvalidStatus
	}

	tournament, err := s.GetTournamentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tournament.OrganizerID != currentUserID {
		return nil, ErrForbiddenOperation
	}
	if !isValidStatusTransition(tournament.Status, status) {
		return nil, ErrTournamentInvalidStatusTransition
	}

	err = s.txStarter.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.tournamentRepo.UpdateStatus(ctx, exec, id, status)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update tournament %d status: %w", id, err)
	}

	s.logger.Info("tournament status updated",
		slog.Int("tournament_id", id),
		slog.String("from", string(tournament.Status)),
		slog.String("to", string(status)))
	tournament.Status = status
	return tournament, nil
}

func (s *tournamentService) UploadLogo(ctx context.Context, id, currentUserID int, contentType string, body io.Reader) (*models.Tournament, error) {
	tournament, err := s.GetTournamentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tournament.OrganizerID != currentUserID {
		return nil, ErrForbiddenOperation
	}
	if s.uploader == nil {
		return nil, errors.New("file storage is not configured")
	}

	ext, err := extensionFromContentType(contentType)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("tournaments/%d/logo-%s%s", id, uuid.NewString(), ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, body); err != nil {
		return nil, fmt.Errorf("failed to upload logo for tournament %d: %w", id, err)
	}

	oldKey := tournament.LogoKey
	if err := s.tournamentRepo.UpdateLogoKey(ctx, id, &key); err != nil {
		return nil, fmt.Errorf("failed to store logo key for tournament %d: %w", id, err)
	}
	if oldKey != nil && *oldKey != "" {
		if delErr := s.uploader.Delete(ctx, *oldKey); delErr != nil {
			s.logger.Warn("failed to delete previous logo",
				slog.Int("tournament_id", id), slog.String("key", *oldKey), slog.Any("error", delErr))
		}
	}

	tournament.LogoKey = &key
	s.populateLogoURL(tournament)
	return tournament, nil
}

func (s *tournamentService) ListRegistrations(ctx context.Context, tournamentID int) ([]*models.Registration, error) {
	if _, err := s.GetTournamentByID(ctx, tournamentID); err != nil {
		return nil, err
	}
	regs, err := s.regRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations for tournament %d: %w", tournamentID, err)
	}
	return regs, nil
}

func (s *tournamentService) populateLogoURL(t *models.Tournament) {
	if t == nil || s.uploader == nil || t.LogoKey == nil || *t.LogoKey == "" {
		return
	}
	if url := s.uploader.GetPublicURL(*t.LogoKey); url != "" {
		t.LogoURL = &url
	}
}

func isValidTournamentStatus(status models.TournamentStatus) bool {
	switch status {
	case models.TournamentUpcoming, models.TournamentOngoing, models.TournamentCompleted, models.TournamentCancelled:
		return true
	}
	return false
}

func isValidStatusTransition(current, next models.TournamentStatus) bool {
	if current == next {
		return true
	}
	allowed := map[models.TournamentStatus][]models.TournamentStatus{
		models.TournamentUpcoming:  {models.TournamentOngoing, models.TournamentCancelled},
		models.TournamentOngoing:   {models.TournamentCompleted, models.TournamentCancelled},
		models.TournamentCompleted: {},
		models.TournamentCancelled: {},
	}
	for _, status := range allowed[current] {
		if next == status {
			return true
		}
	}
	return false
}

func extensionFromContentType(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	default:
		return "", fmt.Errorf("unsupported logo content type: %q", contentType)
	}
}
