package repository

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/benitema/card-orders-api/pkg/datastore"
)

func setupTestStore(t *testing.T) datastore.Store {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	store, err := datastore.NewRedisStore("", &datastore.RedisOptions{
		Addrs: []string{mr.Addr()},
	})
	require.NoError(t, err)

	return store
}
