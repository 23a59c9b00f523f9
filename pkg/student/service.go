package student

import (
	"context"
	"strings"

	"github.com/dancestudio/manager/internal/apperrors"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	GetStudent(ctx context.Context, id int) (Student, error)
	ListStudents(ctx context.Context) ([]Student, error)
	AddStudent(ctx context.Context, student Student) (Student, error)
}

// Provider is the read-only view of the roster the plan engine depends on.
type Provider interface {
	GetStudent(ctx context.Context, id int) (Student, error)
}

type ServiceImpl struct {
	repo Repository
}

func NewService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) GetStudent(ctx context.Context, id int) (Student, error) {
	return s.repo.Get(ctx, id)
}

func (s *ServiceImpl) ListStudents(ctx context.Context) ([]Student, error) {
	return s.repo.GetAll(ctx)
}

func (s *ServiceImpl) AddStudent(ctx context.Context, student Student) (Student, error) {
	student.FirstName = strings.TrimSpace(student.FirstName)
	student.LastName = strings.TrimSpace(student.LastName)
	if err := apperrors.Struct(student); err != nil {
		return Student{}, err
	}

	id, err := s.repo.Store(ctx, student)
	if err != nil {
		return Student{}, err
	}
	student.Id = id
	log.Debugf("Added student %d (%s)", id, student.DisplayName())
	return student, nil
}
