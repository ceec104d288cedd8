package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoAbsensi/GoAbsensi/internal/db/dbtest"
	"github.com/GoAbsensi/GoAbsensi/internal/db/models"
)

func TestAuthenticate(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()

	seedUser(t, db, "siti")
	disabled := seedUser(t, db, "budi")
	require.NoError(t, db.Model(&disabled).Update("active", false).Error)

	p := NewLocalProvider(db)

	testCases := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "valid", username: "siti", password: "rahasia123"},
		{name: "wrong password", username: "siti", password: "salah", wantErr: ErrInvalidCredentials},
		{name: "unknown user", username: "nobody", password: "rahasia123", wantErr: ErrInvalidCredentials},
		{name: "disabled", username: "budi", password: "rahasia123", wantErr: ErrUserAccountDisabled},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			u, err := p.Authenticate(ctx, tc.username, tc.password)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, u)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.username, u.Username)
		})
	}
}

func TestCreateUser(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()

	guru := seedRole(t, db, models.RoleGuru)
	p := NewLocalProvider(db)

	u, err := p.CreateUser(ctx, NewUser{
		Username: "ani",
		Email:    "ani@sekolah.id",
		Password: "rahasia123",
		FullName: "Ani Lestari",
		NIP:      "198501012010012001",
		RoleID:   guru.ID,
	})
	require.NoError(t, err)
	assert.True(t, u.Active)
	assert.NotEqual(t, "rahasia123", u.Password)

	got, err := p.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, got.Roles, 1)
	assert.Equal(t, models.RoleGuru, got.Roles[0].Name)

	_, err = p.CreateUser(ctx, NewUser{Username: "ani", Password: "rahasia123", RoleID: guru.ID})
	assert.ErrorIs(t, err, ErrUserNameOrEmailExists)

	_, err = p.CreateUser(ctx, NewUser{Username: "dedi", Password: "rahasia123", RoleID: 999})
	assert.ErrorIs(t, err, ErrRoleNotFound)

	users, total, err := p.ListUsers(ctx, nil, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, users, 1)
}

func TestSetActive(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()

	u := seedUser(t, db, "siti")
	p := NewLocalProvider(db)

	require.NoError(t, p.SetActive(ctx, u.ID, false))

	_, err := p.Authenticate(ctx, "siti", "rahasia123")
	assert.ErrorIs(t, err, ErrUserAccountDisabled)

	active := true
	_, total, err := p.ListUsers(ctx, &active, 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)

	assert.ErrorIs(t, p.SetActive(ctx, 999, true), ErrUserNotFound)
}
