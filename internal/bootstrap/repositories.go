package bootstrap

import (
	"context"
	"log/slog"

	"cloud.google.com/go/firestore"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/osse101/AdventureAdmin_Go/internal/config"
	"github.com/osse101/AdventureAdmin_Go/internal/database"
	"github.com/osse101/AdventureAdmin_Go/internal/database/firestoredb"
	"github.com/osse101/AdventureAdmin_Go/internal/database/mongodb"
	"github.com/osse101/AdventureAdmin_Go/internal/domain"
	"github.com/osse101/AdventureAdmin_Go/internal/resource"
	"github.com/osse101/AdventureAdmin_Go/internal/users"
)

// Repositories holds every store backed by the configured document database.
type Repositories struct {
	Stores resource.Stores
	Users  users.Repository
	Health database.HealthChecker

	close func(context.Context) error
}

// Close releases the database client.
func (r *Repositories) Close(ctx context.Context) error {
	if r.close == nil {
		return nil
	}
	return r.close(ctx)
}

// InitializeRepositories connects to the document store named by DOC_STORE.
func InitializeRepositories(ctx context.Context, cfg *config.Config) (*Repositories, error) {
	var repos *Repositories

	switch cfg.DocStore {
	case config.DocStoreFirestore:
		client, err := database.NewFirestoreClient(ctx, cfg.ProjectID, cfg.FirebaseAdminJSON)
		if err != nil {
			return nil, err
		}
		repos = &Repositories{
			Stores: firestoreStores(client),
			Users:  firestoredb.NewUserRepository(client),
			Health: database.FirestoreHealth{Client: client, Collection: firestoredb.UsersCollection},
			close:  func(context.Context) error { return client.Close() },
		}

	case config.DocStoreMongo:
		client, err := database.NewMongoClient(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.MongoDatabase)
		repos = &Repositories{
			Stores: mongoStores(db),
			Users:  mongodb.NewUserRepository(db),
			Health: database.MongoHealth{Client: client},
			close:  client.Disconnect,
		}

	default:
		repos = &Repositories{
			Stores: resource.NewMemoryStores(),
			Users:  users.NewMemoryRepository(),
			Health: alwaysHealthy{},
		}
	}

	slog.Info(LogMsgDocumentStoreReady, "backend", cfg.DocStore)
	return repos, nil
}

func firestoreStores(client *firestore.Client) resource.Stores {
	return resource.Stores{
		Quests:       firestoredb.NewAggregateStore[domain.Quest](client, resource.QuestBinding().Collection),
		Adventures:   firestoredb.NewAggregateStore[domain.Adventure](client, resource.AdventureBinding().Collection),
		Categories:   firestoredb.NewAggregateStore[domain.Category](client, resource.CategoryBinding().Collection),
		Achievements: firestoredb.NewAggregateStore[domain.Achievement](client, resource.AchievementBinding().Collection),
		Events:       firestoredb.NewAggregateStore[domain.Event](client, resource.EventBinding().Collection),
		StoreItems:   firestoredb.NewAggregateStore[domain.StoreItem](client, resource.StoreItemBinding().Collection),
	}
}

func mongoStores(db *mongo.Database) resource.Stores {
	return resource.Stores{
		Quests:       mongodb.NewAggregateStore[domain.Quest](db, resource.QuestBinding().Collection),
		Adventures:   mongodb.NewAggregateStore[domain.Adventure](db, resource.AdventureBinding().Collection),
		Categories:   mongodb.NewAggregateStore[domain.Category](db, resource.CategoryBinding().Collection),
		Achievements: mongodb.NewAggregateStore[domain.Achievement](db, resource.AchievementBinding().Collection),
		Events:       mongodb.NewAggregateStore[domain.Event](db, resource.EventBinding().Collection),
		StoreItems:   mongodb.NewAggregateStore[domain.StoreItem](db, resource.StoreItemBinding().Collection),
	}
}

// alwaysHealthy backs /readyz for the in-memory store.
type alwaysHealthy struct{}

func (alwaysHealthy) Ping(context.Context) error { return nil }
