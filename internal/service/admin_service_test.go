package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lms-api/internal/dto"
	appErrors "github.com/noah-isme/lms-api/pkg/errors"
)

func sampleAdmin() dto.AdminDTO {
	return dto.AdminDTO{
		AdminName:   "Grace",
		UniName:     "Some University",
		Role:        "registrar",
		Status:      "active",
		Email:       "grace@uni.edu",
		Students:    1200,
		Phnnum:      5550100123,
		Department:  7,
		AdminStatus: "Inactive",
	}
}

func TestAdminServiceRoundTrip(t *testing.T) {
	app := newLMS(nil)
	ctx := context.Background()

	created, err := app.admins.Create(ctx, sampleAdmin())
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "ACTIVE", created.Status)
	assert.Equal(t, "INACTIVE", created.AdminStatus)
	assert.Equal(t, 1200, created.Students)
	assert.Equal(t, int64(5550100123), created.Phnnum)

	got, err := app.admins.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestAdminServiceUniNameIsFreeText(t *testing.T) {
	app := newLMS(nil)
	req := sampleAdmin()
	req.UniName = "No Such University"

	_, err := app.admins.Create(context.Background(), req)
	assert.NoError(t, err)
}

func TestAdminServiceInvalidAdminStatus(t *testing.T) {
	app := newLMS(nil)
	req := sampleAdmin()
	req.AdminStatus = "SUSPENDED"

	_, err := app.admins.Create(context.Background(), req)
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrInvalidEnum)
	assert.Contains(t, err.Error(), "adminStatus")
}

func TestAdminServiceUpdateAndDelete(t *testing.T) {
	app := newLMS(nil)
	ctx := context.Background()
	created, err := app.admins.Create(ctx, sampleAdmin())
	require.NoError(t, err)

	req := sampleAdmin()
	req.Role = "dean"
	updated, err := app.admins.Update(ctx, created.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "dean", updated.Role)

	require.NoError(t, app.admins.Delete(ctx, created.ID))
	_, err = app.admins.Update(ctx, created.ID, req)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	list, err := app.admins.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAdminServiceUpdateMissingBeforePayloadChecks(t *testing.T) {
	app := newLMS(nil)

	_, err := app.admins.Update(context.Background(), 42, dto.AdminDTO{AdminStatus: "bogus"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
