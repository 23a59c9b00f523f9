package student

import (
	"context"
	"sort"
)

type RepositoryStub struct {
	nextId   int
	students map[int]Student
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{students: map[int]Student{}}
}

func (s *RepositoryStub) Store(ctx context.Context, student Student) (int, error) {
	s.nextId++
	student.Id = s.nextId
	s.students[student.Id] = student
	return student.Id, nil
}

func (s *RepositoryStub) Get(ctx context.Context, id int) (Student, error) {
	student, ok := s.students[id]
	if !ok {
		return Student{}, ErrStudentNotFound
	}
	return student, nil
}

func (s *RepositoryStub) GetAll(ctx context.Context) ([]Student, error) {
	students := make([]Student, 0, len(s.students))
	for _, student := range s.students {
		students = append(students, student)
	}
	sort.Slice(students, func(i, j int) bool {
		a, b := students[i], students[j]
		if a.LastName != b.LastName {
			return a.LastName < b.LastName
		}
		if a.FirstName != b.FirstName {
			return a.FirstName < b.FirstName
		}
		return a.Id < b.Id
	})
	return students, nil
}
