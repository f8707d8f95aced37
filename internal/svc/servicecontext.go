package svc

import (
	"context"
	"fmt"

	"github.com/lumenlabs/lumen/internal/ai"
	"github.com/lumenlabs/lumen/internal/config"
	"github.com/lumenlabs/lumen/internal/db"
	"github.com/lumenlabs/lumen/internal/engine"
	"github.com/lumenlabs/lumen/internal/storage"
)

// ServiceContext holds every shared dependency. It is constructed once
// at startup and passed by reference; there are no lazily-initialized
// module-level singletons.
type ServiceContext struct {
	Config    *config.Config
	Store     *db.Store
	Completer ai.Client
	Engine    *engine.Engine
	Uploader  storage.Uploader
}

// NewServiceContext wires the store, completion client, engine, and
// object storage from configuration.
func NewServiceContext(c *config.Config) (*ServiceContext, error) {
	store, err := db.NewSQLite(c.Database.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	completer := ai.NewOpenAIClient(c.OpenAI.APIKey)

	eng := engine.New(store, completer, c.Engine.MessagesLimit, c.OpenAI.SummaryModel, c.OpenAI.SummaryMaxTokens)

	var uploader storage.Uploader
	switch c.Storage.Driver {
	case "s3":
		uploader, err = storage.NewS3Uploader(context.Background(), storage.S3Options{
			Bucket:    c.Storage.Bucket,
			Region:    c.Storage.Region,
			Endpoint:  c.Storage.Endpoint,
			AccessKey: c.Storage.AccessKey,
			SecretKey: c.Storage.SecretKey,
			PublicURL: c.Storage.PublicURL,
		})
	default:
		uploader, err = storage.NewLocalUploader(c.Storage.LocalDir, c.Storage.LocalBaseURL)
	}
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to initialize object storage: %w", err)
	}

	return &ServiceContext{
		Config:    c,
		Store:     store,
		Completer: completer,
		Engine:    eng,
		Uploader:  uploader,
	}, nil
}

// Close releases held resources
func (s *ServiceContext) Close() {
	if s.Store != nil {
		s.Store.Close()
	}
}
