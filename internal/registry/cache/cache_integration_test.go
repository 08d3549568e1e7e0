//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"dinardap-console/internal/registry"
	"dinardap-console/internal/registry/cache"
	"dinardap-console/pkg/testutil/containers"
)

type CitizenCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *cache.CitizenCache
}

func TestCitizenCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(CitizenCacheSuite))
}

func (s *CitizenCacheSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.cache = cache.New(s.redis.Client, time.Minute)
}

func (s *CitizenCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *CitizenCacheSuite) TestSaveAndFind() {
	ctx := context.Background()
	record := &registry.CitizenRecord{
		Cedula: "0102030405",
		Nombre: "PEREZ LOPEZ JUAN",
		Extra:  map[string]any{"codigoDactilar": "V4444V4444"},
	}

	s.Require().NoError(s.cache.Save(ctx, "0102030405", record))

	found, err := s.cache.Find(ctx, "0102030405")
	s.Require().NoError(err)
	s.Require().NotNil(found)
	s.Equal("PEREZ LOPEZ JUAN", found.Nombre)
	s.Equal("V4444V4444", found.Extra["codigoDactilar"], "extension fields must survive the cache round trip")
}

func (s *CitizenCacheSuite) TestMissReturnsNil() {
	found, err := s.cache.Find(context.Background(), "0999999999")
	s.Require().NoError(err)
	s.Nil(found)
}

func (s *CitizenCacheSuite) TestEntriesExpire() {
	ctx := context.Background()
	shortLived := cache.New(s.redis.Client, 50*time.Millisecond)

	s.Require().NoError(shortLived.Save(ctx, "0102030405", &registry.CitizenRecord{Cedula: "0102030405"}))
	time.Sleep(150 * time.Millisecond)

	found, err := shortLived.Find(ctx, "0102030405")
	s.Require().NoError(err)
	s.Nil(found, "retained registry data must lapse with the TTL")
}

func (s *CitizenCacheSuite) TestUnreadableEntriesAreDropped() {
	ctx := context.Background()
	s.Require().NoError(s.redis.Client.Set(ctx, "console:citizen:0102030405", "{not-json", time.Minute).Err())

	found, err := s.cache.Find(ctx, "0102030405")
	s.Require().NoError(err)
	s.Nil(found)

	exists, err := s.redis.Client.Exists(ctx, "console:citizen:0102030405").Result()
	s.Require().NoError(err)
	s.Zero(exists, "a corrupt entry is deleted so the next lookup goes to the registry")
}
