package setup

import (
	"github.com/nestboard-dev/nestboard/internal/kv"
	"github.com/nestboard-dev/nestboard/internal/service"
	serviceutils "github.com/nestboard-dev/nestboard/internal/service/utils"
	kvstore "github.com/nestboard-dev/nestboard/internal/storage/kv"
	"github.com/nestboard-dev/nestboard/internal/utils"
	"github.com/nestboard-dev/nestboard/shared/config"
	"github.com/nestboard-dev/nestboard/shared/logger"
	"github.com/nestboard-dev/nestboard/shared/validation"
)

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Engine  *kv.BadgerEngine
	Storage *kvstore.Storage

	Boards  service.BoardService
	Threads service.ThreadService
	Posts   service.PostService
	Users   service.UserService
}

// SetupDependencies initializes all dependencies required for the application.
func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)

	engine, err := kv.Open(cfg.Public.Store)
	if err != nil {
		return nil, err
	}

	storage := kvstore.New(engine, &cfg.Public)

	sanitizer := serviceutils.NewTextSanitizer()
	hasher := utils.NewBcryptHasher(cfg.Public.BcryptCost)
	tokens := utils.NewResetTokens(cfg.HashPepper())

	boards := service.NewBoard(storage, validation.BoardRules{})
	threads := service.NewThread(storage, validation.ThreadRules{}, sanitizer)
	posts := service.NewPost(storage, validation.PostRules{}, sanitizer)
	users := service.NewUser(storage, validation.UserRules{}, hasher, tokens)

	return &Dependencies{
		Engine:  engine,
		Storage: storage,
		Boards:  boards,
		Threads: threads,
		Posts:   posts,
		Users:   users,
	}, nil
}

// Close releases the underlying store.
func (d *Dependencies) Close() error {
	return d.Engine.Close()
}
