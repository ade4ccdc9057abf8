package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TapTrack/internal/model"
	apperrors "TapTrack/pkg/errors"
)

func TestResolveKnownTag(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&model.TagBinding{
		TagUID:     "04:A1:B2",
		EmployeeID: 1001,
		OwnerName:  "Ann Smith",
	}).Error)

	resolver := NewTagResolver(db)

	binding, err := resolver.Resolve(context.Background(), "04:A1:B2")
	require.NoError(t, err)
	assert.Equal(t, int64(1001), binding.EmployeeID)
	assert.Equal(t, "Ann Smith", binding.OwnerName)
}

func TestResolveUnknownTag(t *testing.T) {
	db := newTestDB(t)
	resolver := NewTagResolver(db)

	_, err := resolver.Resolve(context.Background(), "FF:FF:FF")
	require.Error(t, err)

	def, ok := err.(apperrors.Definition)
	require.True(t, ok, "an unknown tag must map to a business error")
	assert.Equal(t, apperrors.TagNotFound.Code, def.Code)
	assert.Contains(t, def.Message, "FF:FF:FF")
}
