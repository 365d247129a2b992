package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/loansiya/internal/common"
	"github.com/Veraticus/loansiya/internal/testutil"
)

func TestClientRegistry_All(t *testing.T) {
	ts := testutil.SetupTestStore(t)
	ts.PutRaw(ts.Clients, RegistryKey, testutil.SampleClients)

	clients, err := NewClientRegistry(ts.Clients).All(context.Background())
	require.NoError(t, err)
	require.Len(t, clients, 2)
	assert.Equal(t, "CID-1001", clients[0].CID)
	assert.Equal(t, "Nuwan Silva", clients[1].Name)

	// Extra profile fields survive a round trip.
	encoded, err := json.Marshal(clients[0])
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"branch":"Colombo"`)
}

func TestClientRegistry_EmptyCollection(t *testing.T) {
	ts := testutil.SetupTestStore(t)
	ts.PutRaw(ts.Clients, RegistryKey, `[]`)

	clients, err := NewClientRegistry(ts.Clients).All(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, clients)
	assert.Empty(t, clients)
}

func TestClientRegistry_MissingCollection(t *testing.T) {
	ts := testutil.SetupTestStore(t)

	_, err := NewClientRegistry(ts.Clients).All(context.Background())
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestClientRegistry_Get(t *testing.T) {
	ts := testutil.SetupTestStore(t)
	ts.PutRaw(ts.Clients, RegistryKey, testutil.SampleClients)
	registry := NewClientRegistry(ts.Clients)
	ctx := context.Background()

	client, err := registry.Get(ctx, "CID-1002")
	require.NoError(t, err)
	assert.Equal(t, "Nuwan Silva", client.Name)

	_, err = registry.Get(ctx, "cid-1002")
	assert.ErrorIs(t, err, common.ErrNotFound, "lookup is case sensitive")

	name, err := registry.Name(ctx, "CID-1001")
	require.NoError(t, err)
	assert.Equal(t, "Amara Perera", name)

	_, err = registry.Name(ctx, "CID-9999")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestClientRegistry_MalformedCollection(t *testing.T) {
	ts := testutil.SetupTestStore(t)
	ts.PutRaw(ts.Clients, RegistryKey, `{"cid":`)

	_, err := NewClientRegistry(ts.Clients).All(context.Background())
	assert.ErrorIs(t, err, common.ErrMalformedInput)
}
func TestClientRegistry_UnknownClientSentinel(t *testing.T) {
	ts := testutil.SetupTestStore(t)
	registry := NewClientRegistry(ts.Clients)

	_, err := registry.Get(context.Background(), "CID-1001")
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.NotErrorIs(t, err, ErrUnknownClient, "missing registry is not a missing client")

	ts.PutRaw(ts.Clients, RegistryKey, testutil.SampleClients)
	_, err = registry.Get(context.Background(), "CID-9999")
	assert.ErrorIs(t, err, ErrUnknownClient)
}
