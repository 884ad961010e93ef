package service

import (
	"github.com/nestboard-dev/nestboard/shared/domain"
)

type PostService interface {
	Create(data domain.PostCreationData) (domain.Post, error)
	Import(data domain.PostImportData) (domain.Post, error)
	Get(id domain.Id) (domain.Post, error)
	GetByLegacyId(legacy int64) (domain.Post, error)
	Update(id domain.Id, upd domain.PostUpdateData) (domain.Post, error)
	Delete(id domain.Id) error
	Purge(id domain.Id) error
	ByThread(threadId domain.Id, page domain.Page) ([]domain.PostSummary, domain.Id, error)
	Versions(id domain.Id) ([]domain.Post, error)
}

type Post struct {
	storage   PostStorage
	validator PostValidator
	sanitizer Sanitizer
}

type PostStorage interface {
	CreatePost(data domain.PostCreationData) (domain.Post, error)
	ImportPost(data domain.PostImportData) (domain.Post, error)
	GetPost(id domain.Id) (domain.Post, error)
	GetPostByLegacyId(legacy int64) (domain.Post, error)
	UpdatePost(id domain.Id, upd domain.PostUpdateData) (domain.Post, error)
	DeletePost(id domain.Id) error
	PurgePost(id domain.Id) error
	PostsByThread(threadId domain.Id, page domain.Page) ([]domain.PostSummary, domain.Id, error)
	PostVersions(id domain.Id) ([]domain.Post, error)
}

type PostValidator interface {
	Title(title string) error
	Body(body string) error
}

func NewPost(storage PostStorage, validator PostValidator, sanitizer Sanitizer) PostService {
	return &Post{storage, validator, sanitizer}
}

func (p *Post) Create(data domain.PostCreationData) (domain.Post, error) {
	data.Title = p.sanitizer.Title(data.Title)
	data.Body = p.sanitizer.Body(data.Body)
	if err := p.validator.Title(data.Title); err != nil {
		return domain.Post{}, err
	}
	if err := p.validator.Body(data.Body); err != nil {
		return domain.Post{}, err
	}
	return p.storage.CreatePost(data)
}

func (p *Post) Import(data domain.PostImportData) (domain.Post, error) {
	data.Title = p.sanitizer.Title(data.Title)
	data.Body = p.sanitizer.Body(data.Body)
	if err := p.validator.Title(data.Title); err != nil {
		return domain.Post{}, err
	}
	if err := p.validator.Body(data.Body); err != nil {
		return domain.Post{}, err
	}
	return p.storage.ImportPost(data)
}

func (p *Post) Get(id domain.Id) (domain.Post, error) {
	return p.storage.GetPost(id)
}

func (p *Post) GetByLegacyId(legacy int64) (domain.Post, error) {
	return p.storage.GetPostByLegacyId(legacy)
}

func (p *Post) Update(id domain.Id, upd domain.PostUpdateData) (domain.Post, error) {
	if upd.Title != nil {
		title := p.sanitizer.Title(*upd.Title)
		if err := p.validator.Title(title); err != nil {
			return domain.Post{}, err
		}
		upd.Title = &title
	}
	if upd.Body != nil {
		body := p.sanitizer.Body(*upd.Body)
		if err := p.validator.Body(body); err != nil {
			return domain.Post{}, err
		}
		upd.Body = &body
	}
	return p.storage.UpdatePost(id, upd)
}

func (p *Post) Delete(id domain.Id) error {
	return p.storage.DeletePost(id)
}

func (p *Post) Purge(id domain.Id) error {
	return p.storage.PurgePost(id)
}

func (p *Post) ByThread(threadId domain.Id, page domain.Page) ([]domain.PostSummary, domain.Id, error) {
	return p.storage.PostsByThread(threadId, page)
}

func (p *Post) Versions(id domain.Id) ([]domain.Post, error) {
	return p.storage.PostVersions(id)
}
