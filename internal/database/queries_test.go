package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BadBoy-Github/Bamboo-Blogs-Sample/internal/models"
)

func setupTestDB(t *testing.T) *Database {
	t.Helper()
	dbconfig := DefaultDBConfig()
	dbconfig.MainDB = filepath.Join(t.TempDir(), "test.sq3")
	db, err := OpenDatabase(dbconfig)
	require.NoError(t, err)
	t.Cleanup(func() { db.Shutdown() })
	return db
}

func insertTestUser(t *testing.T, db *Database, email string, isAdmin bool) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "$2a$10$notarealhashnotarealhashnotarealhashnotarealha",
		DisplayName:  "Test User",
		IsAdmin:      isAdmin,
	}
	require.NoError(t, db.InsertUser(user))
	return user
}

func TestInsertUserAndGetByEmail(t *testing.T) {
	db := setupTestDB(t)

	user := insertTestUser(t, db, "alice@x.com", false)
	assert.NotZero(t, user.ID)

	got, err := db.GetUserByEmail("alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "alice@x.com", got.Email)
	assert.Equal(t, "Test User", got.DisplayName)
	assert.False(t, got.IsAdmin)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestInsertUserDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)

	insertTestUser(t, db, "alice@x.com", false)

	dup := &models.User{
		Email:        "alice@x.com",
		PasswordHash: "other-hash",
		DisplayName:  "Second Alice",
	}
	err := db.InsertUser(dup)
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	users, err := db.ListUsers()
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestGetUserByEmailNotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetUserByEmail("nobody@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetUserByID(t *testing.T) {
	db := setupTestDB(t)

	user := insertTestUser(t, db, "alice@x.com", true)

	got, err := db.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", got.Email)
	assert.True(t, got.IsAdmin)

	_, err = db.GetUserByID(9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetUserAdmin(t *testing.T) {
	db := setupTestDB(t)

	user := insertTestUser(t, db, "alice@x.com", false)

	require.NoError(t, db.SetUserAdmin(user.ID, true))
	got, err := db.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.True(t, got.IsAdmin)

	require.NoError(t, db.SetUserAdmin(user.ID, false))
	got, err = db.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.False(t, got.IsAdmin)

	assert.ErrorIs(t, db.SetUserAdmin(9999, true), ErrNotFound)
}

func TestUpdateUserPassword(t *testing.T) {
	db := setupTestDB(t)

	user := insertTestUser(t, db, "alice@x.com", false)
	require.NoError(t, db.UpdateUserPassword(user.ID, "new-hash"))

	got, err := db.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.PasswordHash)
}

func TestDeleteUser(t *testing.T) {
	db := setupTestDB(t)

	user := insertTestUser(t, db, "alice@x.com", false)
	require.NoError(t, db.DeleteUser(user.ID))

	_, err := db.GetUserByID(user.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, db.DeleteUser(user.ID), ErrNotFound)
}
