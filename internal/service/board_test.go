package service

import (
	"errors"
	"testing"

	"github.com/nestboard-dev/nestboard/shared/domain"
)

// MockBoardStorage mocks the BoardStorage interface.
type MockBoardStorage struct {
	createBoardFunc    func(data domain.BoardCreationData) (domain.Board, error)
	importBoardFunc    func(data domain.BoardImportData) (domain.Board, error)
	getBoardFunc       func(id domain.Id) (domain.Board, error)
	updateBoardFunc    func(id domain.Id, upd domain.BoardUpdateData) (domain.Board, error)
	deleteBoardFunc    func(id domain.Id) error
	purgeBoardFunc     func(id domain.Id) error
	boardsByParentFunc func(parentId domain.Id, page domain.Page) ([]domain.BoardSummary, domain.Id, error)
}

func (m *MockBoardStorage) CreateBoard(data domain.BoardCreationData) (domain.Board, error) {
	if m.createBoardFunc != nil {
		return m.createBoardFunc(data)
	}
	return domain.Board{}, nil
}

func (m *MockBoardStorage) ImportBoard(data domain.BoardImportData) (domain.Board, error) {
	if m.importBoardFunc != nil {
		return m.importBoardFunc(data)
	}
	return domain.Board{}, nil
}

func (m *MockBoardStorage) GetBoard(id domain.Id) (domain.Board, error) {
	if m.getBoardFunc != nil {
		return m.getBoardFunc(id)
	}
	return domain.Board{}, nil
}

func (m *MockBoardStorage) GetBoardByLegacyId(legacy int64) (domain.Board, error) {
	return domain.Board{}, nil
}

func (m *MockBoardStorage) UpdateBoard(id domain.Id, upd domain.BoardUpdateData) (domain.Board, error) {
	if m.updateBoardFunc != nil {
		return m.updateBoardFunc(id, upd)
	}
	return domain.Board{}, nil
}

func (m *MockBoardStorage) DeleteBoard(id domain.Id) error {
	if m.deleteBoardFunc != nil {
		return m.deleteBoardFunc(id)
	}
	return nil
}

func (m *MockBoardStorage) PurgeBoard(id domain.Id) error {
	if m.purgeBoardFunc != nil {
		return m.purgeBoardFunc(id)
	}
	return nil
}

func (m *MockBoardStorage) BoardsByParent(parentId domain.Id, page domain.Page) ([]domain.BoardSummary, domain.Id, error) {
	if m.boardsByParentFunc != nil {
		return m.boardsByParentFunc(parentId, page)
	}
	return nil, "", nil
}

// MockBoardValidator mocks the BoardValidator interface.
type MockBoardValidator struct {
	nameFunc        func(name string) error
	descriptionFunc func(description string) error
}

func (m *MockBoardValidator) Name(name string) error {
	if m.nameFunc != nil {
		return m.nameFunc(name)
	}
	return nil
}

func (m *MockBoardValidator) Description(description string) error {
	if m.descriptionFunc != nil {
		return m.descriptionFunc(description)
	}
	return nil
}

func TestBoardCreate(t *testing.T) {
	testCases := []struct {
		name        string
		boardName   string
		description string
		mockError   error
		expectError bool
	}{
		{name: "Successful Creation", boardName: "General", description: "talk", mockError: nil, expectError: false},
		{name: "Invalid Name", boardName: "", description: "talk", mockError: nil, expectError: true},
		{name: "Invalid Description", boardName: "General", description: "bad", mockError: nil, expectError: true},
		{name: "Storage Error", boardName: "General", description: "talk", mockError: errors.New("storage error"), expectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockStorage := &MockBoardStorage{
				createBoardFunc: func(data domain.BoardCreationData) (domain.Board, error) {
					return domain.Board{Name: data.Name}, tc.mockError
				},
			}
			mockValidator := &MockBoardValidator{
				nameFunc: func(name string) error {
					if name == "" {
						return errors.New("invalid name")
					}
					return nil
				},
				descriptionFunc: func(description string) error {
					if description == "bad" {
						return errors.New("invalid description")
					}
					return nil
				},
			}

			s := NewBoard(mockStorage, mockValidator)
			_, err := s.Create(domain.BoardCreationData{Name: tc.boardName, Description: tc.description})

			if tc.expectError {
				if err == nil {
					t.Errorf("Expected error, but got nil")
				}
			} else {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
			}
		})
	}
}

func TestBoardUpdateValidatesOnlySetFields(t *testing.T) {
	calls := 0
	mockValidator := &MockBoardValidator{
		nameFunc: func(name string) error {
			calls++
			return nil
		},
		descriptionFunc: func(description string) error {
			t.Error("description validator must not run when the field is nil")
			return nil
		},
	}
	mockStorage := &MockBoardStorage{}

	s := NewBoard(mockStorage, mockValidator)
	name := "renamed"
	if _, err := s.Update("b1", domain.BoardUpdateData{Name: &name}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected one name validation, got %d", calls)
	}
}

func TestBoardUpdateInvalidName(t *testing.T) {
	mockValidator := &MockBoardValidator{
		nameFunc: func(name string) error { return errors.New("invalid name") },
	}
	stored := false
	mockStorage := &MockBoardStorage{
		updateBoardFunc: func(id domain.Id, upd domain.BoardUpdateData) (domain.Board, error) {
			stored = true
			return domain.Board{}, nil
		},
	}

	s := NewBoard(mockStorage, mockValidator)
	name := ""
	if _, err := s.Update("b1", domain.BoardUpdateData{Name: &name}); err == nil {
		t.Error("Expected error, but got nil")
	}
	if stored {
		t.Error("Storage must not be reached on validation failure")
	}
}

func TestBoardDelete(t *testing.T) {
	testCases := []struct {
		name        string
		mockError   error
		expectError bool
	}{
		{name: "Successful Deletion", mockError: nil, expectError: false},
		{name: "Board Not Found", mockError: errors.New("board not found"), expectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockStorage := &MockBoardStorage{
				deleteBoardFunc: func(id domain.Id) error { return tc.mockError },
			}
			s := NewBoard(mockStorage, &MockBoardValidator{})

			err := s.Delete("b1")
			if (err != nil) != tc.expectError {
				t.Errorf("Expected error: %v, got: %v", tc.expectError, err)
			}
		})
	}
}

func TestBoardByParentPassesThrough(t *testing.T) {
	mockStorage := &MockBoardStorage{
		boardsByParentFunc: func(parentId domain.Id, page domain.Page) ([]domain.BoardSummary, domain.Id, error) {
			if parentId != "p1" {
				t.Errorf("Expected parent p1, got %q", parentId)
			}
			return []domain.BoardSummary{{Id: "c1"}}, "c1", nil
		},
	}
	s := NewBoard(mockStorage, &MockBoardValidator{})

	page, next, err := s.ByParent("p1", domain.Page{Limit: 5})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(page) != 1 || page[0].Id != "c1" || next != "c1" {
		t.Errorf("Unexpected result: %v, cursor %q", page, next)
	}
}
