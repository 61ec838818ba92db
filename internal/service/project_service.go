package service

import (
	"errors"
	"fmt"

	"github.com/puedeser233-alt/SiteSnapAI/internal/models"
	"github.com/puedeser233-alt/SiteSnapAI/internal/repository"
)

type ProjectService struct {
	projectRepo *repository.ProjectRepository
	userRepo    *repository.UserRepository
}

func NewProjectService(projectRepo *repository.ProjectRepository, userRepo *repository.UserRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

func (s *ProjectService) CreateProject(userID uint, req models.ProjectRequest) (*models.Project, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, errors.New("user not found")
	}

	// Plan limiti kontrolü
	count, err := s.projectRepo.CountByUserID(userID)
	if err != nil {
		return nil, err
	}
	if !user.Plan.CanCreateProject(int(count)) {
		return nil, fmt.Errorf("%w: project limit for plan %s", ErrPlanLimit, user.Plan)
	}

	project := &models.Project{
		UserID:      userID,
		Name:        req.Name,
		ClientName:  req.ClientName,
		Description: req.Description,
	}

	return s.projectRepo.Create(project)
}

func (s *ProjectService) GetUserProjects(userID uint) ([]models.Project, error) {
	return s.projectRepo.GetUserProjects(userID)
}

func (s *ProjectService) GetProject(userID, projectID uint) (*models.Project, error) {
	project, err := s.projectRepo.GetByID(projectID)
	if err != nil {
		return nil, errors.New("project not found")
	}

	if project.UserID != userID {
		return nil, ErrUnauthorized
	}

	return project, nil
}

func (s *ProjectService) UpdateProject(userID, projectID uint, req models.UpdateProjectRequest) (*models.Project, error) {
	project, err := s.GetProject(userID, projectID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.ClientName != nil {
		project.ClientName = *req.ClientName
	}
	if req.Description != nil {
		project.Description = *req.Description
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, err
	}

	return project, nil
}

func (s *ProjectService) DeleteProject(userID, projectID uint) error {
	project, err := s.GetProject(userID, projectID)
	if err != nil {
		return err
	}

	return s.projectRepo.Delete(project.ID)
}
