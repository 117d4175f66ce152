package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/notification"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/resident"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormResidentRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormResidentRepository(db)
	ctx := context.Background()

	res := seedResident(t, db, "Budi", testHood, 25000)

	t.Run("finds by id and by user", func(t *testing.T) {
		found, err := repo.FindByID(ctx, res.ID)
		require.NoError(t, err)
		assert.Equal(t, "Budi", found.Name)
		assert.Equal(t, testHood, found.Neighborhood)
		assert.Equal(t, int64(25000), found.WasteBankBalance)

		byUser, err := repo.FindByUserID(ctx, *res.UserID)
		require.NoError(t, err)
		assert.Equal(t, res.ID, byUser.ID)

		_, err = repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, resident.ErrResidentNotFound)
	})

	t.Run("profile save never touches the balance", func(t *testing.T) {
		found, err := repo.FindByID(ctx, res.ID)
		require.NoError(t, err)
		found.Phone = "08123456789"
		found.WasteBankBalance = 999999
		require.NoError(t, repo.Save(ctx, found))

		stored, err := repo.FindByID(ctx, res.ID)
		require.NoError(t, err)
		assert.Equal(t, "08123456789", stored.Phone)
		assert.Equal(t, int64(25000), stored.WasteBankBalance)
	})

	t.Run("one login per resident", func(t *testing.T) {
		other, err := resident.NewResident("Sari", "B-2", testHood)
		require.NoError(t, err)
		other.LinkUser(*res.UserID)
		err = repo.Save(ctx, other)
		require.Error(t, err)
		assert.Equal(t, shared.KindConflict, shared.KindOf(err))
	})

	t.Run("admins are routed per neighborhood", func(t *testing.T) {
		a1, a2, outsider := uuid.New(), uuid.New(), uuid.New()
		require.NoError(t, repo.AssignAdmin(ctx, testHood, a1))
		require.NoError(t, repo.AssignAdmin(ctx, testHood, a2))
		require.NoError(t, repo.AssignAdmin(ctx, testHood, a2))
		require.NoError(t, repo.AssignAdmin(ctx, otherHood, outsider))

		ids, err := repo.AdminUserIDs(ctx, testHood)
		require.NoError(t, err)
		assert.ElementsMatch(t, []uuid.UUID{a1, a2}, ids)

		ids, err = repo.AdminUserIDs(ctx, shared.Neighborhood{RT: "009", RW: "009"})
		require.NoError(t, err)
		assert.Empty(t, ids)
	})
}

func TestGormNotificationRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormNotificationRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	var ids []uuid.UUID
	for i, title := range []string{"Tagihan baru", "Pembayaran diterima", "Setoran tercatat"} {
		n, err := notification.NewNotification(notification.Notice{
			UserID:   userID,
			Title:    title,
			Message:  "pesan",
			Severity: notification.SeverityInfo,
		})
		require.NoError(t, err)
		n.CreatedAt = n.CreatedAt.Add(time.Duration(i) * time.Second)
		require.NoError(t, repo.Create(ctx, n))
		ids = append(ids, n.ID)
	}

	items, total, err := repo.ListForUser(ctx, userID, false, shared.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 3)
	assert.Equal(t, "Setoran tercatat", items[0].Title)

	readAt := time.Now().UTC()
	require.NoError(t, repo.MarkRead(ctx, userID, ids[0], readAt))
	require.NoError(t, repo.MarkRead(ctx, userID, ids[0], readAt.Add(time.Hour)), "marking twice is a no-op")

	items, total, err = repo.ListForUser(ctx, userID, true, shared.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, n := range items {
		assert.False(t, n.IsRead())
	}

	err = repo.MarkRead(ctx, uuid.New(), ids[1], readAt)
	assert.ErrorIs(t, err, notification.ErrNotificationNotFound)
}
