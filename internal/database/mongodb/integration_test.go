package mongodb

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/osse101/AdventureAdmin_Go/internal/aggregate"
	"github.com/osse101/AdventureAdmin_Go/internal/database"
	"github.com/osse101/AdventureAdmin_Go/internal/domain"
	"github.com/osse101/AdventureAdmin_Go/internal/testing/leaktest"
)

var testDB *mongo.Database

func TestMain(m *testing.M) {
	flag.Parse()
	os.Exit(run(m))
}

func run(m *testing.M) int {
	if testing.Short() {
		return m.Run()
	}

	ctx := context.Background()
	container, client, err := setupContainer(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "skipping mongodb integration tests: %v\n", err)
		return m.Run()
	}
	defer func() {
		_ = client.Disconnect(ctx)
		_ = testcontainers.TerminateContainer(container)
	}()

	testDB = client.Database("adventure_admin_test")
	return m.Run()
}

// setupContainer starts MongoDB, recovering from the panic testcontainers raises without Docker.
func setupContainer(ctx context.Context) (container *mongodb.MongoDBContainer, client *mongo.Client, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("docker unavailable: %v", r)
		}
	}()

	container, err = mongodb.Run(ctx, "mongo:7")
	if err != nil {
		return nil, nil, err
	}
	uri, err := container.ConnectionString(ctx)
	if err != nil {
		_ = testcontainers.TerminateContainer(container)
		return nil, nil, err
	}
	client, err = database.NewMongoClient(ctx, uri)
	if err != nil {
		_ = testcontainers.TerminateContainer(container)
		return nil, nil, err
	}
	return container, client, nil
}

func requireDB(t *testing.T) *mongo.Database {
	t.Helper()
	if testDB == nil {
		t.Skip("MongoDB container not available")
	}
	return testDB
}

func TestAggregateStore_Integration(t *testing.T) {
	db := requireDB(t)
	store := NewAggregateStore[domain.Quest](db, "quests_"+t.Name())
	ctx := context.Background()

	owner := "admin-1"
	first := domain.Quest{ID: "quest_1", UserID: &owner, Title: "Bell"}

	t.Run("Append upserts and unions", func(t *testing.T) {
		require.NoError(t, store.Append(ctx, owner, first))
		require.NoError(t, store.Append(ctx, owner, first))
		require.NoError(t, store.Append(ctx, owner, domain.Quest{ID: "quest_2", Title: "Public"}))

		doc, err := store.Document(ctx, owner)
		require.NoError(t, err)
		require.Len(t, doc.Items, 2)
		assert.Nil(t, doc.Items[1].UserID)
		assert.Equal(t, int64(3), doc.Version)
	})

	t.Run("Missing document", func(t *testing.T) {
		_, err := store.Document(ctx, "nobody")
		assert.ErrorIs(t, err, aggregate.ErrDocumentNotFound)
	})

	t.Run("Replace honours revision", func(t *testing.T) {
		stale, err := store.Document(ctx, owner)
		require.NoError(t, err)

		items := append([]domain.Quest(nil), stale.Items...)
		items[0].Title = "Ring the bell"
		require.NoError(t, store.Replace(ctx, stale, items))
		assert.ErrorIs(t, store.Replace(ctx, stale, items), aggregate.ErrVersionConflict)

		doc, err := store.Document(ctx, owner)
		require.NoError(t, err)
		assert.Equal(t, "Ring the bell", doc.Items[0].Title)
	})

	t.Run("Remove pulls the element", func(t *testing.T) {
		doc, err := store.Document(ctx, owner)
		require.NoError(t, err)
		require.NoError(t, store.Remove(ctx, doc, 1))

		after, err := store.Document(ctx, owner)
		require.NoError(t, err)
		require.Len(t, after.Items, 1)
		assert.Equal(t, "quest_1", after.Items[0].ID)

		assert.ErrorIs(t, store.Remove(ctx, doc, 1), aggregate.ErrItemNotFound, "second delete of the same element")
		again, err := store.Document(ctx, owner)
		require.NoError(t, err)
		assert.Equal(t, after.Version, again.Version)
	})

	t.Run("Documents are listed in creation order", func(t *testing.T) {
		require.NoError(t, store.Append(ctx, "admin-2", domain.Quest{ID: "quest_3"}))

		docs, err := store.Documents(ctx)
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, owner, docs[0].OwnerID)
		assert.Equal(t, "admin-2", docs[1].OwnerID)
	})
}

func TestUserRepository_Integration(t *testing.T) {
	db := requireDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	_, err := repo.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	require.NoError(t, repo.SaveUser(ctx, domain.User{ID: "u1", Email: "a@example.com"}))
	require.NoError(t, repo.SaveUser(ctx, domain.User{ID: "u1", Email: "a@example.com", DisplayName: "Ada"}))

	got, err := repo.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.DisplayName)

	all, err := repo.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestConcurrentAppendsDoNotLeak(t *testing.T) {
	db := requireDB(t)
	store := NewAggregateStore[domain.Event](db, "events_"+t.Name())
	checker := leaktest.NewGoroutineChecker(t)

	ctx := context.Background()
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		go func(i int) {
			errs <- store.Append(ctx, "admin-1", domain.Event{ID: fmt.Sprintf("event_%d", i), UserID: "admin-1"})
		}(i)
	}
	for i := 0; i < 10; i++ {
		require.NoError(t, <-errs)
	}

	doc, err := store.Document(ctx, "admin-1")
	require.NoError(t, err)
	assert.Len(t, doc.Items, 10)

	checker.Check(2)
}
