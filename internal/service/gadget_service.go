package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gadgetry/internal/auth"
	"gadgetry/internal/codename"
	apperrors "gadgetry/internal/errors"
	"gadgetry/internal/model"
	"gadgetry/internal/repository"
)

// createAttempts bounds insert retries when a generated codename loses a
// race against a concurrent creation.
const createAttempts = 3

// GadgetService implements the gadget lifecycle operations.
type GadgetService interface {
	List(ctx context.Context, status *model.GadgetStatus) ([]model.Gadget, error)
	Create(ctx context.Context, name string) (*model.Gadget, error)
	Update(ctx context.Context, id uuid.UUID, name *string, status *model.GadgetStatus) (*model.Gadget, error)
	Decommission(ctx context.Context, id uuid.UUID) (*model.Gadget, error)
	RequestSelfDestruct(ctx context.Context, id uuid.UUID) (string, error)
	ConfirmSelfDestruct(ctx context.Context, id uuid.UUID, code string) (*model.Gadget, error)
}

type gadgetService struct {
	gadgetRepo repository.GadgetRepository
	codenames  *codename.Generator
	challenges auth.ChallengeStoreInterface
}

// NewGadgetService creates a new gadget service.
func NewGadgetService(gadgetRepo repository.GadgetRepository, codenames *codename.Generator, challenges auth.ChallengeStoreInterface) GadgetService {
	return &gadgetService{
		gadgetRepo: gadgetRepo,
		codenames:  codenames,
		challenges: challenges,
	}
}

// List returns all gadgets, optionally filtered by exact status.
func (s *gadgetService) List(ctx context.Context, status *model.GadgetStatus) ([]model.Gadget, error) {
	if status != nil && !status.Valid() {
		return nil, apperrors.ErrInvalidStatus
	}
	return s.gadgetRepo.List(ctx, status)
}

// Create persists a new gadget in Available status under a freshly generated
// unique codename. The codename column carries a unique index; if the insert
// loses a race against a concurrent creation, a new codename is generated
// and the insert retried.
func (s *gadgetService) Create(ctx context.Context, name string) (*model.Gadget, error) {
	var lastErr error
	for attempt := 0; attempt < createAttempts; attempt++ {
		cn, err := s.codenames.Generate(ctx)
		if err != nil {
			return nil, err
		}

		gadget := &model.Gadget{
			Name:     name,
			Codename: cn,
			Status:   model.GadgetStatusAvailable,
		}
		err = s.gadgetRepo.Create(ctx, gadget)
		if err == nil {
			return gadget, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("create gadget: %w", err)
		}
		lastErr = err
	}
	return nil, fmt.Errorf("create gadget: %w", lastErr)
}

// Update applies the provided fields to an existing gadget. Absent fields
// are left unchanged. Setting status to Decommissioned stamps
// DecommissionedAt in the same write.
func (s *gadgetService) Update(ctx context.Context, id uuid.UUID, name *string, status *model.GadgetStatus) (*model.Gadget, error) {
	if status != nil && !status.Valid() {
		return nil, apperrors.ErrInvalidStatus
	}

	gadget, err := s.findGadget(ctx, id)
	if err != nil {
		return nil, err
	}

	if name != nil {
		gadget.Name = *name
	}
	if status != nil {
		gadget.Status = *status
		if *status == model.GadgetStatusDecommissioned {
			now := time.Now()
			gadget.DecommissionedAt = &now
		}
	}

	if err := s.gadgetRepo.Save(ctx, gadget); err != nil {
		return nil, fmt.Errorf("update gadget: %w", err)
	}
	return gadget, nil
}

// Decommission retires a gadget regardless of its current status. The
// operation is idempotent; repeating it refreshes DecommissionedAt.
func (s *gadgetService) Decommission(ctx context.Context, id uuid.UUID) (*model.Gadget, error) {
	gadget, err := s.findGadget(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	gadget.Status = model.GadgetStatusDecommissioned
	gadget.DecommissionedAt = &now

	if err := s.gadgetRepo.Save(ctx, gadget); err != nil {
		return nil, fmt.Errorf("decommission gadget: %w", err)
	}
	return gadget, nil
}

// RequestSelfDestruct issues a confirmation code for the gadget. The code is
// single use and expires; confirming with it completes the sequence.
func (s *gadgetService) RequestSelfDestruct(ctx context.Context, id uuid.UUID) (string, error) {
	if _, err := s.findGadget(ctx, id); err != nil {
		return "", err
	}
	code, err := s.challenges.Issue(ctx, id)
	if err != nil {
		return "", fmt.Errorf("issue confirmation code: %w", err)
	}
	return code, nil
}

// ConfirmSelfDestruct consumes the outstanding confirmation code and, on
// match, marks the gadget Destroyed. A wrong, expired or never-issued code
// fails with ErrInvalidConfirmationCode and changes nothing.
func (s *gadgetService) ConfirmSelfDestruct(ctx context.Context, id uuid.UUID, code string) (*model.Gadget, error) {
	gadget, err := s.findGadget(ctx, id)
	if err != nil {
		return nil, err
	}

	ok, err := s.challenges.Confirm(ctx, id, code)
	if err != nil {
		return nil, fmt.Errorf("confirm code: %w", err)
	}
	if !ok {
		return nil, apperrors.ErrInvalidConfirmationCode
	}

	gadget.Status = model.GadgetStatusDestroyed
	if err := s.gadgetRepo.Save(ctx, gadget); err != nil {
		return nil, fmt.Errorf("destroy gadget: %w", err)
	}
	return gadget, nil
}

func (s *gadgetService) findGadget(ctx context.Context, id uuid.UUID) (*model.Gadget, error) {
	gadget, err := s.gadgetRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGadgetNotFound
		}
		return nil, fmt.Errorf("find gadget: %w", err)
	}
	return gadget, nil
}
