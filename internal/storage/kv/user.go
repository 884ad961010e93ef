package kv

import (
	"strconv"
	"strings"

	"github.com/nestboard-dev/nestboard/internal/counters"
	engine "github.com/nestboard-dev/nestboard/internal/kv"
	"github.com/nestboard-dev/nestboard/internal/keys"
	"github.com/nestboard-dev/nestboard/shared/domain"
	internal_errors "github.com/nestboard-dev/nestboard/shared/errors"
)

// Username/email uniqueness is a check-then-claim under the user-class
// gate: the lookup and the index write share one critical section, so two
// concurrent registrations of the same name cannot both win. The store
// itself offers no check-and-set.

func (s *Storage) CreateUser(data domain.UserCreationData) (domain.User, error) {
	now := s.now()
	return s.createUser(data, now, 0, nil)
}

func (s *Storage) ImportUser(data domain.UserImportData) (domain.User, error) {
	legacy := &domain.LegacyRef{Id: data.LegacyId}
	return s.createUser(data.UserCreationData, data.CreatedAt, s.now(), legacy)
}

func (s *Storage) createUser(data domain.UserCreationData, createdAt, importedAt domain.Timestamp, legacy *domain.LegacyRef) (domain.User, error) {
	user := domain.User{
		Envelope: domain.Envelope{
			Id:         s.ids.NewId(createdAt),
			CreatedAt:  createdAt,
			UpdatedAt:  createdAt,
			ImportedAt: importedAt,
			Legacy:     legacy,
		},
		Username: data.Username,
		Email:    indexNorm(data.Email),
		PassHash: data.PassHash,
	}

	err := s.counters.WithLock(counters.ClassUser, func() error {
		if err := s.checkIndexFree(keys.UsernameIndex(indexNorm(user.Username)), user.Id, "username", user.Username); err != nil {
			return err
		}
		if err := s.checkIndexFree(keys.EmailIndex(user.Email), user.Id, "email", user.Email); err != nil {
			return err
		}
		if err := s.putJSON(keys.Content(keys.KindUser, user.Id), &user); err != nil {
			return err
		}
		if err := s.claimIndex(keys.UsernameIndex(indexNorm(user.Username)), user.Id); err != nil {
			return err
		}
		return s.claimIndex(keys.EmailIndex(user.Email), user.Id)
	})
	if err != nil {
		return domain.User{}, err
	}

	if legacy != nil {
		if err := s.db.Put(keys.Legacy(keys.KindUser, legacy.Id), []byte(user.Id)); err != nil {
			return domain.User{}, &internal_errors.StoreError{Op: "put", Err: err}
		}
	}
	return user, nil
}

func indexNorm(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// checkIndexFree fails with Conflict when the index entry is claimed by a
// different id. Call only while holding the user-class gate.
func (s *Storage) checkIndexFree(key []byte, id domain.Id, field, value string) error {
	owner, err := s.db.Get(key)
	if err == engine.ErrKeyNotFound {
		return nil
	}
	if err != nil {
		return &internal_errors.StoreError{Op: "get", Err: err}
	}
	if string(owner) != id {
		return &internal_errors.ConflictError{Field: field, Value: value}
	}
	return nil
}

func (s *Storage) claimIndex(key []byte, id domain.Id) error {
	if err := s.db.Put(key, []byte(id)); err != nil {
		return &internal_errors.StoreError{Op: "put", Err: err}
	}
	return nil
}

// GetUser attaches the per-user views map from the metadata partition.
func (s *Storage) GetUser(id domain.Id) (domain.User, error) {
	var user domain.User
	if err := s.getJSON(keys.Content(keys.KindUser, id), &user); err != nil {
		return domain.User{}, err
	}
	views, err := s.UserViews(id)
	if err != nil {
		return domain.User{}, err
	}
	user.Views = views
	return user, nil
}

func (s *Storage) GetUserByUsername(username domain.Username) (domain.User, error) {
	return s.getUserByIndex(keys.UsernameIndex(indexNorm(username)))
}

func (s *Storage) GetUserByEmail(email domain.Email) (domain.User, error) {
	return s.getUserByIndex(keys.EmailIndex(indexNorm(email)))
}

func (s *Storage) getUserByIndex(key []byte) (domain.User, error) {
	id, err := s.db.Get(key)
	if err == engine.ErrKeyNotFound {
		return domain.User{}, internal_errors.NotFound
	}
	if err != nil {
		return domain.User{}, &internal_errors.StoreError{Op: "get", Err: err}
	}
	return s.GetUser(string(id))
}

// UpdateUser retargets the username/email secondary indexes inside the same
// gated section that rewrites the record; a stale index entry is a
// correctness bug, not an inconvenience.
func (s *Storage) UpdateUser(id domain.Id, upd domain.UserUpdateData) (domain.User, error) {
	var user domain.User
	err := s.counters.WithLock(counters.ClassUser, func() error {
		if err := s.getJSON(keys.Content(keys.KindUser, id), &user); err != nil {
			return err
		}
		oldUsername, oldEmail := user.Username, user.Email

		if upd.Username != nil && indexNorm(*upd.Username) != indexNorm(oldUsername) {
			if err := s.checkIndexFree(keys.UsernameIndex(indexNorm(*upd.Username)), id, "username", *upd.Username); err != nil {
				return err
			}
			user.Username = *upd.Username
		} else if upd.Username != nil {
			user.Username = *upd.Username
		}
		if upd.Email != nil && indexNorm(*upd.Email) != oldEmail {
			if err := s.checkIndexFree(keys.EmailIndex(indexNorm(*upd.Email)), id, "email", *upd.Email); err != nil {
				return err
			}
			user.Email = indexNorm(*upd.Email)
		}
		if upd.PassHash != nil {
			user.PassHash = *upd.PassHash
		}
		if upd.ResetToken != nil {
			user.ResetToken = *upd.ResetToken
			if *upd.ResetToken == "" {
				user.ResetExpiration = 0
			}
		}
		if upd.ResetExpiration != nil {
			user.ResetExpiration = *upd.ResetExpiration
		}
		if upd.Deleted != nil {
			user.Deleted = *upd.Deleted
		}
		user.UpdatedAt = bump(user.UpdatedAt, s.now())

		if err := s.putJSON(keys.Content(keys.KindUser, id), &user); err != nil {
			return err
		}
		if indexNorm(user.Username) != indexNorm(oldUsername) {
			if err := s.delete(keys.UsernameIndex(indexNorm(oldUsername))); err != nil {
				return err
			}
			if err := s.claimIndex(keys.UsernameIndex(indexNorm(user.Username)), id); err != nil {
				return err
			}
		}
		if user.Email != oldEmail {
			if err := s.delete(keys.EmailIndex(oldEmail)); err != nil {
				return err
			}
			if err := s.claimIndex(keys.EmailIndex(user.Email), id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (s *Storage) DeleteUser(id domain.Id) error {
	deleted := true
	_, err := s.UpdateUser(id, domain.UserUpdateData{Deleted: &deleted})
	return err
}

// PurgeUser releases the username/email index entries so the names become
// claimable again, and drops the views map with the rest of the metadata.
func (s *Storage) PurgeUser(id domain.Id) error {
	var user domain.User
	if err := s.getJSON(keys.Content(keys.KindUser, id), &user); err != nil {
		return err
	}

	if err := s.putJSON(keys.Deleted(keys.KindUser, id), &user); err != nil {
		return err
	}
	err := s.counters.WithLock(counters.ClassUser, func() error {
		if err := s.delete(keys.Content(keys.KindUser, id)); err != nil {
			return err
		}
		if err := s.delete(keys.UsernameIndex(indexNorm(user.Username))); err != nil {
			return err
		}
		return s.delete(keys.EmailIndex(user.Email))
	})
	if err != nil {
		return err
	}
	if err := s.deletePrefix(keys.MetadataPrefix(keys.KindUser, id)); err != nil {
		return err
	}
	if user.Legacy != nil {
		return s.delete(keys.Legacy(keys.KindUser, user.Legacy.Id))
	}
	return nil
}

// UserViews reads the thread_id -> last-viewed map from the metadata
// partition.
func (s *Storage) UserViews(userId domain.Id) (map[domain.Id]domain.Timestamp, error) {
	prefix := keys.UserViewPrefix(userId)
	items, err := s.db.Scan(prefix, keys.PrefixEnd(prefix), false, 0)
	if err != nil {
		return nil, &internal_errors.StoreError{Op: "scan", Err: err}
	}
	if len(items) == 0 {
		return nil, nil
	}
	views := make(map[domain.Id]domain.Timestamp, len(items))
	for _, item := range items {
		threadId := string(item.Key[len(prefix):])
		ts, err := strconv.ParseInt(string(item.Value), 10, 64)
		if err != nil {
			continue // corrupt entry; skip rather than fail the read
		}
		views[threadId] = ts
	}
	return views, nil
}
