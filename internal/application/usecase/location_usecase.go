package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/orderflow-api/internal/application/dto"
	"github.com/jhoicas/orderflow-api/internal/application/ports"
	"github.com/jhoicas/orderflow-api/internal/domain"
	"github.com/jhoicas/orderflow-api/internal/domain/entity"
	"github.com/jhoicas/orderflow-api/internal/domain/repository"
)

// LocationUseCase casos de uso CRUD para ubicaciones (bodegas, obras, vehículos).
type LocationUseCase struct {
	repo repository.LocationRepository
	tx   ports.TxRunner
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(repo repository.LocationRepository, tx ports.TxRunner) *LocationUseCase {
	return &LocationUseCase{repo: repo, tx: tx}
}

// Create crea una nueva ubicación.
func (uc *LocationUseCase) Create(ctx context.Context, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	if err := validateLocationType(in.Type); err != nil {
		return nil, err
	}
	now := time.Now()
	location := &entity.Location{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Type:      in.Type,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, location); err != nil {
		return nil, err
	}
	return toLocationResponse(location), nil
}

// GetByID obtiene una ubicación por ID.
func (uc *LocationUseCase) GetByID(ctx context.Context, id string) (*dto.LocationResponse, error) {
	location, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toLocationResponse(location), nil
}

// Update actualiza una ubicación.
func (uc *LocationUseCase) Update(ctx context.Context, id string, in dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	location, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		location.Name = *in.Name
	}
	if in.Type != nil {
		if err := validateLocationType(*in.Type); err != nil {
			return nil, err
		}
		location.Type = *in.Type
	}
	if in.Address != nil {
		location.Address = *in.Address
	}
	location.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, location); err != nil {
		return nil, err
	}
	return toLocationResponse(location), nil
}

// List lista ubicaciones con paginación.
func (uc *LocationUseCase) List(ctx context.Context, limit, offset int) (*dto.LocationListResponse, error) {
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		items = append(items, *toLocationResponse(l))
	}
	return &dto.LocationListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina una ubicación sin stock positivo; los registros en cero se eliminan con ella.
func (uc *LocationUseCase) Delete(ctx context.Context, id string) error {
	return uc.tx.Run(ctx, func(s repository.Stores) error {
		location, err := s.Locations.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if location == nil {
			return fmt.Errorf("%w: ubicación %s", domain.ErrNotFound, id)
		}
		busy, err := s.Stock.HasPositiveStock(ctx, id)
		if err != nil {
			return err
		}
		if busy {
			return fmt.Errorf("%w: la ubicación %s tiene stock", domain.ErrConflict, location.Name)
		}
		if err := s.Stock.DeleteByLocation(ctx, id); err != nil {
			return err
		}
		return s.Locations.Delete(ctx, id)
	})
}

func (uc *LocationUseCase) find(ctx context.Context, id string) (*entity.Location, error) {
	location, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, fmt.Errorf("%w: ubicación %s", domain.ErrNotFound, id)
	}
	return location, nil
}

func validateLocationType(t string) error {
	if t != entity.LocationTypePhysical && t != entity.LocationTypeMobile {
		return fmt.Errorf("%w: tipo de ubicación %q", domain.ErrInvalidInput, t)
	}
	return nil
}

func toLocationResponse(l *entity.Location) *dto.LocationResponse {
	if l == nil {
		return nil
	}
	return &dto.LocationResponse{
		ID:        l.ID,
		Name:      l.Name,
		Type:      l.Type,
		Address:   l.Address,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}
