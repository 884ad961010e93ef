package service

import (
	"github.com/nestboard-dev/nestboard/shared/domain"
)

// to mock service in tests
type BoardService interface {
	Create(data domain.BoardCreationData) (domain.Board, error)
	Import(data domain.BoardImportData) (domain.Board, error)
	Get(id domain.Id) (domain.Board, error)
	GetByLegacyId(legacy int64) (domain.Board, error)
	Update(id domain.Id, upd domain.BoardUpdateData) (domain.Board, error)
	Delete(id domain.Id) error
	Purge(id domain.Id) error
	ByParent(parentId domain.Id, page domain.Page) ([]domain.BoardSummary, domain.Id, error)
}

type Board struct {
	storage   BoardStorage
	validator BoardValidator
}

type BoardStorage interface {
	CreateBoard(data domain.BoardCreationData) (domain.Board, error)
	ImportBoard(data domain.BoardImportData) (domain.Board, error)
	GetBoard(id domain.Id) (domain.Board, error)
	GetBoardByLegacyId(legacy int64) (domain.Board, error)
	UpdateBoard(id domain.Id, upd domain.BoardUpdateData) (domain.Board, error)
	DeleteBoard(id domain.Id) error
	PurgeBoard(id domain.Id) error
	BoardsByParent(parentId domain.Id, page domain.Page) ([]domain.BoardSummary, domain.Id, error)
}

type BoardValidator interface {
	Name(name string) error
	Description(description string) error
}

func NewBoard(storage BoardStorage, validator BoardValidator) BoardService {
	return &Board{storage, validator}
}

func (b *Board) Create(data domain.BoardCreationData) (domain.Board, error) {
	if err := b.validator.Name(data.Name); err != nil {
		return domain.Board{}, err
	}
	if err := b.validator.Description(data.Description); err != nil {
		return domain.Board{}, err
	}
	return b.storage.CreateBoard(data)
}

func (b *Board) Import(data domain.BoardImportData) (domain.Board, error) {
	if err := b.validator.Name(data.Name); err != nil {
		return domain.Board{}, err
	}
	if err := b.validator.Description(data.Description); err != nil {
		return domain.Board{}, err
	}
	return b.storage.ImportBoard(data)
}

func (b *Board) Get(id domain.Id) (domain.Board, error) {
	return b.storage.GetBoard(id)
}

func (b *Board) GetByLegacyId(legacy int64) (domain.Board, error) {
	return b.storage.GetBoardByLegacyId(legacy)
}

func (b *Board) Update(id domain.Id, upd domain.BoardUpdateData) (domain.Board, error) {
	if upd.Name != nil {
		if err := b.validator.Name(*upd.Name); err != nil {
			return domain.Board{}, err
		}
	}
	if upd.Description != nil {
		if err := b.validator.Description(*upd.Description); err != nil {
			return domain.Board{}, err
		}
	}
	return b.storage.UpdateBoard(id, upd)
}

func (b *Board) Delete(id domain.Id) error {
	return b.storage.DeleteBoard(id)
}

func (b *Board) Purge(id domain.Id) error {
	return b.storage.PurgeBoard(id)
}

func (b *Board) ByParent(parentId domain.Id, page domain.Page) ([]domain.BoardSummary, domain.Id, error) {
	return b.storage.BoardsByParent(parentId, page)
}
