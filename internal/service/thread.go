package service

import (
	"github.com/nestboard-dev/nestboard/shared/domain"
)

type ThreadService interface {
	Create(data domain.ThreadCreationData) (domain.Thread, error)
	Import(data domain.ThreadImportData) (domain.Thread, error)
	Get(id domain.Id) (domain.Thread, error)
	GetByLegacyId(legacy int64) (domain.Thread, error)
	Update(id domain.Id, upd domain.ThreadUpdateData) (domain.Thread, error)
	Delete(id domain.Id) error
	Purge(id domain.Id) error
	ByBoard(boardId domain.Id, page domain.Page) ([]domain.ThreadSummary, domain.Id, error)
	RecordView(userId, threadId domain.Id) error
}

type Thread struct {
	storage   ThreadStorage
	validator ThreadValidator
	sanitizer Sanitizer
}

type ThreadStorage interface {
	CreateThread(data domain.ThreadCreationData) (domain.Thread, error)
	ImportThread(data domain.ThreadImportData) (domain.Thread, error)
	GetThread(id domain.Id) (domain.Thread, error)
	GetThreadByLegacyId(legacy int64) (domain.Thread, error)
	UpdateThread(id domain.Id, upd domain.ThreadUpdateData) (domain.Thread, error)
	DeleteThread(id domain.Id) error
	PurgeThread(id domain.Id) error
	ThreadsByBoard(boardId domain.Id, page domain.Page) ([]domain.ThreadSummary, domain.Id, error)
	RecordThreadView(userId, threadId domain.Id) error
}

type ThreadValidator interface {
	Title(title string) error
}

// Sanitizer strips markup the store must never hold.
type Sanitizer interface {
	Title(title string) string
	Body(body string) string
}

func NewThread(storage ThreadStorage, validator ThreadValidator, sanitizer Sanitizer) ThreadService {
	return &Thread{storage, validator, sanitizer}
}

func (t *Thread) Create(data domain.ThreadCreationData) (domain.Thread, error) {
	data.Op.Title = t.sanitizer.Title(data.Op.Title)
	data.Op.Body = t.sanitizer.Body(data.Op.Body)
	if err := t.validator.Title(data.Op.Title); err != nil {
		return domain.Thread{}, err
	}
	return t.storage.CreateThread(data)
}

func (t *Thread) Import(data domain.ThreadImportData) (domain.Thread, error) {
	data.Op.Title = t.sanitizer.Title(data.Op.Title)
	data.Op.Body = t.sanitizer.Body(data.Op.Body)
	if err := t.validator.Title(data.Op.Title); err != nil {
		return domain.Thread{}, err
	}
	return t.storage.ImportThread(data)
}

func (t *Thread) Get(id domain.Id) (domain.Thread, error) {
	return t.storage.GetThread(id)
}

func (t *Thread) GetByLegacyId(legacy int64) (domain.Thread, error) {
	return t.storage.GetThreadByLegacyId(legacy)
}

func (t *Thread) Update(id domain.Id, upd domain.ThreadUpdateData) (domain.Thread, error) {
	return t.storage.UpdateThread(id, upd)
}

func (t *Thread) Delete(id domain.Id) error {
	return t.storage.DeleteThread(id)
}

func (t *Thread) Purge(id domain.Id) error {
	return t.storage.PurgeThread(id)
}

func (t *Thread) ByBoard(boardId domain.Id, page domain.Page) ([]domain.ThreadSummary, domain.Id, error) {
	return t.storage.ThreadsByBoard(boardId, page)
}

func (t *Thread) RecordView(userId, threadId domain.Id) error {
	return t.storage.RecordThreadView(userId, threadId)
}
