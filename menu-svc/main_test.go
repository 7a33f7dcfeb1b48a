package main

import (
	"context"
	"testing"

	"partyorder/config"
	"partyorder/menu-svc/internal/service"
	"partyorder/menu-svc/internal/storage"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubPublisher struct{}

func (stubPublisher) MenuStale(context.Context, string, string) error { return nil }

func TestSelectRevalidator(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := storage.NewRedisCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), 0)
	publisher := stubPublisher{}

	assert.Equal(t, service.Revalidator(publisher), selectRevalidator(publisher, cache))
	assert.Equal(t, service.Revalidator(cache), selectRevalidator(nil, cache))
	assert.Nil(t, selectRevalidator(nil, nil))
}

func TestNewStore_Memory(t *testing.T) {
	store, closeStore := newStore(context.Background(), &config.Config{StoreDriver: "memory"}, zap.NewNop())
	defer closeStore()

	_, ok := store.(*storage.MemoryStore)
	assert.True(t, ok)
}
