package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lamisai/legalcare-admin/internal/cache"
	"github.com/lamisai/legalcare-admin/internal/config"
	"github.com/lamisai/legalcare-admin/internal/lib/jwt"
	"github.com/lamisai/legalcare-admin/internal/models"
)

func setupStore(t *testing.T) *Store {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	c, err := cache.InitServer(context.Background(), config.RedisConnection{AddressRedis: mr.Addr()})
	require.NoError(t, err)

	maker := jwt.NewMaker("test_secret_key", time.Hour)
	return NewStore(c, maker, time.Hour)
}

func testEmployee() models.Employee {
	return models.Employee{
		ID:       "emp-1",
		UserName: "Manager One",
		Email:    "manager@lamis.ai",
		Role:     models.RoleManager,
		Access:   models.Access{CanChangeSubscription: true},
	}
}

func TestCreateAndGet(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	token, sess, err := store.Create(ctx, "upstream-token", testEmployee())
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, sess.ID)

	loaded, err := store.Get(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, loaded.ID)
	assert.Equal(t, "upstream-token", loaded.UpstreamToken)
	assert.Equal(t, models.RoleManager, loaded.Employee.Role)
	assert.True(t, loaded.Employee.Access.CanChangeSubscription)
}

func TestGet_InvalidToken(t *testing.T) {
	store := setupStore(t)

	sess, err := store.Get(context.Background(), "not.a.token")
	assert.Nil(t, sess)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGet_DeletedSession(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	token, sess, err := store.Create(ctx, "upstream-token", testEmployee())
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, sess.ID))

	loaded, err := store.Get(ctx, token)
	assert.Nil(t, loaded)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSave_PersistsTableState(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	token, sess, err := store.Create(ctx, "upstream-token", testEmployee())
	require.NoError(t, err)

	st := sess.Table(models.TableUsers)
	st.Search = "alice"
	st.Page = 2
	st.Selected["u1"] = true
	sess.SetTable(models.TableUsers, st)
	require.NoError(t, store.Save(ctx, sess))

	loaded, err := store.Get(ctx, token)
	require.NoError(t, err)
	got := loaded.Table(models.TableUsers)
	assert.Equal(t, "alice", got.Search)
	assert.Equal(t, 2, got.Page)
	assert.True(t, got.Selected["u1"])
}

func TestTable_DefaultState(t *testing.T) {
	sess := &models.Session{}
	st := sess.Table(models.TableManagers)
	assert.Equal(t, "all", st.Filter)
	assert.Equal(t, 1, st.Page)
	assert.NotNil(t, st.Selected)
	assert.Empty(t, st.Selected)
}
