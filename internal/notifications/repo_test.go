package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/katzeapp/katze-backend/pkg/db/models"
	"github.com/katzeapp/katze-backend/pkg/enums"
)

func setupNotificationsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS notificaciones (
  id TEXT PRIMARY KEY,
  usuario_id TEXT NOT NULL,
  tipo TEXT NOT NULL,
  titulo TEXT NOT NULL,
  mensaje TEXT NOT NULL,
  icono TEXT,
  leida INTEGER NOT NULL DEFAULT 0,
  referencia_id TEXT,
  referencia_tipo TEXT,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedNotification(t *testing.T, db *gorm.DB, usuarioID uuid.UUID, createdAt time.Time) models.Notificacion {
	t.Helper()

	row := models.Notificacion{
		ID:        uuid.New(),
		UsuarioID: usuarioID,
		Tipo:      enums.NotificationTypeSolicitud,
		Titulo:    "Nueva solicitud",
		Mensaje:   "Tienes una solicitud de adopción",
		CreatedAt: createdAt,
	}
	require.NoError(t, db.Create(&row).Error)
	return row
}

func TestNotificationsRepoListOrdersNewestFirst(t *testing.T) {
	db := setupNotificationsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	base := time.Now().UTC().Truncate(time.Second)
	older := seedNotification(t, db, userID, base.Add(-time.Hour))
	newer := seedNotification(t, db, userID, base)
	seedNotification(t, db, uuid.New(), base) // someone else's

	rows, err := repo.List(ctx, userID, 20)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, newer.ID, rows[0].ID)
	assert.Equal(t, older.ID, rows[1].ID)

	rows, err = repo.List(ctx, userID, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, newer.ID, rows[0].ID)
}

func TestNotificationsRepoMarkRead(t *testing.T) {
	db := setupNotificationsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	row := seedNotification(t, db, userID, time.Now().UTC())

	mark, err := repo.MarkRead(ctx, userID, row.ID)
	require.NoError(t, err)
	assert.True(t, mark.Found)
	assert.True(t, mark.Updated)

	// already read: found but not updated again
	mark, err = repo.MarkRead(ctx, userID, row.ID)
	require.NoError(t, err)
	assert.True(t, mark.Found)
	assert.False(t, mark.Updated)

	// wrong owner looks like missing
	mark, err = repo.MarkRead(ctx, uuid.New(), row.ID)
	require.NoError(t, err)
	assert.False(t, mark.Found)

	count, err := repo.CountUnread(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestNotificationsRepoMarkAllRead(t *testing.T) {
	db := setupNotificationsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	seedNotification(t, db, userID, time.Now().UTC())
	seedNotification(t, db, userID, time.Now().UTC())

	updated, err := repo.MarkAllRead(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	updated, err = repo.MarkAllRead(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), updated)
}

func TestNotificationsRepoDeleteScopedToOwner(t *testing.T) {
	db := setupNotificationsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	row := seedNotification(t, db, userID, time.Now().UTC())

	deleted, err := repo.Delete(ctx, uuid.New(), row.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)

	deleted, err = repo.Delete(ctx, userID, row.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestNotificationsRepoDeleteOlderThan(t *testing.T) {
	db := setupNotificationsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	now := time.Now().UTC()
	seedNotification(t, db, userID, now.AddDate(0, 0, -40))
	seedNotification(t, db, userID, now.AddDate(0, 0, -35))
	fresh := seedNotification(t, db, userID, now)

	deleted, err := repo.DeleteOlderThan(ctx, now.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	rows, err := repo.List(ctx, userID, 20)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, fresh.ID, rows[0].ID)
}
