package cart

import (
	"context"
	"testing"
	"time"

	"chopmate/internal/domain"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type RedisStorageTestSuite struct {
	suite.Suite
	mr      *miniredis.Miniredis
	client  *redis.Client
	storage Storage
}

func TestRedisStorageTestSuite(t *testing.T) {
	suite.Run(t, new(RedisStorageTestSuite))
}

func (s *RedisStorageTestSuite) SetupTest() {
	s.mr = miniredis.RunT(s.T())
	s.client = redis.NewClient(&redis.Options{Addr: s.mr.Addr()})
	s.storage = NewRedis(s.client, time.Hour)
}

func (s *RedisStorageTestSuite) TearDownTest() {
	s.Require().NoError(s.client.Close())
}

func (s *RedisStorageTestSuite) TestGetMissingKey() {
	_, err := s.storage.Get(context.Background(), "cart:none")
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *RedisStorageTestSuite) TestSetGetRemove() {
	ctx := context.Background()
	payload := `{"sessionId":"s1","subtotal":"51.00"}`

	s.Require().NoError(s.storage.Set(ctx, "cart:s1", payload))
	got, err := s.storage.Get(ctx, "cart:s1")
	s.Require().NoError(err)
	s.Equal(payload, got)

	s.Require().NoError(s.storage.Remove(ctx, "cart:s1"))
	s.Require().NoError(s.storage.Remove(ctx, "cart:s1"))
	_, err = s.storage.Get(ctx, "cart:s1")
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *RedisStorageTestSuite) TestTTLExpiresSnapshot() {
	ctx := context.Background()
	s.Require().NoError(s.storage.Set(ctx, "cart:s2", `{}`))
	s.Equal(time.Hour, s.mr.TTL("cart:s2"))

	s.mr.FastForward(2 * time.Hour)
	_, err := s.storage.Get(ctx, "cart:s2")
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *RedisStorageTestSuite) TestZeroTTLKeepsKey() {
	ctx := context.Background()
	storage := NewRedis(s.client, 0)
	s.Require().NoError(storage.Set(ctx, "cart:s3", `{}`))
	s.Equal(time.Duration(0), s.mr.TTL("cart:s3"))
}

func (s *RedisStorageTestSuite) TestServerErrorsPropagate() {
	ctx := context.Background()
	s.mr.SetError("LOADING")

	_, err := s.storage.Get(ctx, "cart:s1")
	s.Error(err)
	s.NotErrorIs(err, domain.ErrNotFound)
	s.Error(s.storage.Set(ctx, "cart:s1", `{}`))
	s.Error(s.storage.Remove(ctx, "cart:s1"))
}

func (s *RedisStorageTestSuite) TestPing() {
	pinger, ok := s.storage.(interface{ Ping(context.Context) error })
	s.Require().True(ok)
	s.NoError(pinger.Ping(context.Background()))

	s.mr.Close()
	s.Error(pinger.Ping(context.Background()))
}
