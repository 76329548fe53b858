package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vogiaan1904/ticketbottle-ticketing/config"
	"github.com/vogiaan1904/ticketbottle-ticketing/pkg/logger"
)

func TestPing(t *testing.T) {
	cli, mock := redismock.NewClientMock()
	defer func() { _ = cli.Close() }()

	mock.ExpectPing().SetVal("PONG")
	require.NoError(t, ping(context.Background(), cli))

	mock.ExpectPing().SetErr(errors.New("connection refused"))
	err := ping(context.Background(), cli)
	assert.ErrorContains(t, err, "connection refused")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)
	l := logger.InitializeTestZapLogger()

	cli, err := Connect(context.Background(), config.RedisConfig{Addr: mr.Addr()}, l)
	require.NoError(t, err)
	Disconnect(context.Background(), cli, l)

	mr.Close()
	_, err = Connect(context.Background(), config.RedisConfig{Addr: mr.Addr(), MaxRetries: -1}, l)
	assert.Error(t, err)
}
