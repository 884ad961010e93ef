package service

import (
	"errors"
	"testing"

	"github.com/nestboard-dev/nestboard/shared/domain"
	internal_errors "github.com/nestboard-dev/nestboard/shared/errors"
)

// MockPostStorage mocks the PostStorage interface.
type MockPostStorage struct {
	createPostFunc func(data domain.PostCreationData) (domain.Post, error)
	updatePostFunc func(id domain.Id, upd domain.PostUpdateData) (domain.Post, error)
	purgePostFunc  func(id domain.Id) error
}

func (m *MockPostStorage) CreatePost(data domain.PostCreationData) (domain.Post, error) {
	if m.createPostFunc != nil {
		return m.createPostFunc(data)
	}
	return domain.Post{}, nil
}

func (m *MockPostStorage) ImportPost(data domain.PostImportData) (domain.Post, error) {
	return domain.Post{}, nil
}

func (m *MockPostStorage) GetPost(id domain.Id) (domain.Post, error) {
	return domain.Post{}, nil
}

func (m *MockPostStorage) GetPostByLegacyId(legacy int64) (domain.Post, error) {
	return domain.Post{}, nil
}

func (m *MockPostStorage) UpdatePost(id domain.Id, upd domain.PostUpdateData) (domain.Post, error) {
	if m.updatePostFunc != nil {
		return m.updatePostFunc(id, upd)
	}
	return domain.Post{}, nil
}

func (m *MockPostStorage) DeletePost(id domain.Id) error {
	return nil
}

func (m *MockPostStorage) PurgePost(id domain.Id) error {
	if m.purgePostFunc != nil {
		return m.purgePostFunc(id)
	}
	return nil
}

func (m *MockPostStorage) PostsByThread(threadId domain.Id, page domain.Page) ([]domain.PostSummary, domain.Id, error) {
	return nil, "", nil
}

func (m *MockPostStorage) PostVersions(id domain.Id) ([]domain.Post, error) {
	return nil, nil
}

// MockPostValidator mocks the PostValidator interface.
type MockPostValidator struct {
	titleFunc func(title string) error
	bodyFunc  func(body string) error
}

func (m *MockPostValidator) Title(title string) error {
	if m.titleFunc != nil {
		return m.titleFunc(title)
	}
	return nil
}

func (m *MockPostValidator) Body(body string) error {
	if m.bodyFunc != nil {
		return m.bodyFunc(body)
	}
	return nil
}

func TestPostCreate(t *testing.T) {
	testCases := []struct {
		name          string
		data          domain.PostCreationData
		validatorErr  error
		storageErr    error
		expectedError bool
	}{
		{
			name:          "Successful",
			data:          domain.PostCreationData{ThreadId: "t1", UserId: "u1", Body: "hello"},
			expectedError: false,
		},
		{
			name:          "Invalid body",
			data:          domain.PostCreationData{ThreadId: "t1", UserId: "u1", Body: ""},
			validatorErr:  &internal_errors.ValidationError{Message: "body required"},
			expectedError: true,
		},
		{
			name:          "Storage error",
			data:          domain.PostCreationData{ThreadId: "t1", UserId: "u1", Body: "hello"},
			storageErr:    errors.New("storage failure"),
			expectedError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			stored := false
			mockStorage := &MockPostStorage{
				createPostFunc: func(data domain.PostCreationData) (domain.Post, error) {
					stored = true
					return domain.Post{}, tc.storageErr
				},
			}
			mockValidator := &MockPostValidator{
				bodyFunc: func(body string) error { return tc.validatorErr },
			}
			service := NewPost(mockStorage, mockValidator, &MockSanitizer{})

			_, err := service.Create(tc.data)

			if tc.expectedError && err == nil {
				t.Error("Expected error, but got nil")
			}
			if !tc.expectedError && err != nil {
				t.Errorf("Expected no error, but got %v", err)
			}
			if tc.validatorErr != nil && stored {
				t.Error("Storage must not be reached when validation fails")
			}
		})
	}
}

func TestPostUpdateSanitizesOnlySetFields(t *testing.T) {
	titleCalls := 0
	var storedUpd domain.PostUpdateData

	mockStorage := &MockPostStorage{
		updatePostFunc: func(id domain.Id, upd domain.PostUpdateData) (domain.Post, error) {
			storedUpd = upd
			return domain.Post{}, nil
		},
	}
	mockValidator := &MockPostValidator{
		titleFunc: func(title string) error {
			titleCalls++
			return nil
		},
	}
	sanitizer := &MockSanitizer{
		bodyFunc: func(body string) string { return "clean " + body },
	}
	service := NewPost(mockStorage, mockValidator, sanitizer)

	body := "body"
	_, err := service.Update("p1", domain.PostUpdateData{Body: &body})
	if err != nil {
		t.Fatalf("Expected no error, but got %v", err)
	}

	if titleCalls != 0 {
		t.Errorf("Title validator ran %d times for an update without a title", titleCalls)
	}
	if storedUpd.Title != nil {
		t.Error("Title must stay unset when the update does not carry one")
	}
	if storedUpd.Body == nil || *storedUpd.Body != "clean body" {
		t.Errorf("Stored body = %v, want sanitized value", storedUpd.Body)
	}
}

func TestPostPurgePassesThrough(t *testing.T) {
	var purgedId domain.Id
	mockStorage := &MockPostStorage{
		purgePostFunc: func(id domain.Id) error {
			purgedId = id
			return nil
		},
	}
	service := NewPost(mockStorage, &MockPostValidator{}, &MockSanitizer{})

	if err := service.Purge("p1"); err != nil {
		t.Fatalf("Expected no error, but got %v", err)
	}
	if purgedId != "p1" {
		t.Errorf("Purged id = %q, want p1", purgedId)
	}
}
