package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/orderflow-api/internal/application/dto"
	"github.com/jhoicas/orderflow-api/internal/domain"
	"github.com/jhoicas/orderflow-api/internal/domain/entity"
	"github.com/jhoicas/orderflow-api/internal/domain/repository"
)

// ProjectUseCase casos de uso CRUD para proyectos.
type ProjectUseCase struct {
	repo    repository.ProjectRepository
	clients repository.ClientRepository
}

// NewProjectUseCase construye el caso de uso.
func NewProjectUseCase(repo repository.ProjectRepository, clients repository.ClientRepository) *ProjectUseCase {
	return &ProjectUseCase{repo: repo, clients: clients}
}

// Create crea un proyecto activo. Si trae cliente, debe existir.
func (uc *ProjectUseCase) Create(ctx context.Context, in dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	if err := uc.checkClient(ctx, in.ClientID); err != nil {
		return nil, err
	}
	now := time.Now()
	project := &entity.Project{
		ID:        uuid.New().String(),
		Name:      in.Name,
		ClientID:  in.ClientID,
		Address:   in.Address,
		Status:    entity.ProjectStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, project); err != nil {
		return nil, err
	}
	return toProjectResponse(project), nil
}

// GetByID obtiene un proyecto.
func (uc *ProjectUseCase) GetByID(ctx context.Context, id string) (*dto.ProjectResponse, error) {
	project, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProjectResponse(project), nil
}

// Update actualiza un proyecto.
func (uc *ProjectUseCase) Update(ctx context.Context, id string, in dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	project, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		project.Name = *in.Name
	}
	if in.ClientID != nil {
		if err := uc.checkClient(ctx, *in.ClientID); err != nil {
			return nil, err
		}
		project.ClientID = *in.ClientID
	}
	if in.Address != nil {
		project.Address = *in.Address
	}
	if in.Status != nil {
		if *in.Status != entity.ProjectStatusActive && *in.Status != entity.ProjectStatusClosed {
			return nil, fmt.Errorf("%w: estado de proyecto %q", domain.ErrInvalidInput, *in.Status)
		}
		project.Status = *in.Status
	}
	project.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, project); err != nil {
		return nil, err
	}
	return toProjectResponse(project), nil
}

// List lista proyectos, opcionalmente de un cliente.
func (uc *ProjectUseCase) List(ctx context.Context, clientID string, limit, offset int) (*dto.ProjectListResponse, error) {
	list, err := uc.repo.List(ctx, clientID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProjectResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProjectResponse(p))
	}
	return &dto.ProjectListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

// Delete elimina un proyecto.
func (uc *ProjectUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.find(ctx, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *ProjectUseCase) checkClient(ctx context.Context, clientID string) error {
	if clientID == "" {
		return nil
	}
	client, err := uc.clients.GetByID(ctx, clientID)
	if err != nil {
		return err
	}
	if client == nil {
		return fmt.Errorf("%w: cliente %s no existe", domain.ErrInvalidInput, clientID)
	}
	return nil
}

func (uc *ProjectUseCase) find(ctx context.Context, id string) (*entity.Project, error) {
	project, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("%w: proyecto %s", domain.ErrNotFound, id)
	}
	return project, nil
}

func toProjectResponse(p *entity.Project) *dto.ProjectResponse {
	return &dto.ProjectResponse{
		ID:        p.ID,
		Name:      p.Name,
		ClientID:  p.ClientID,
		Address:   p.Address,
		Status:    p.Status,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
