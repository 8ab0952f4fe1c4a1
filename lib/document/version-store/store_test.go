package versionstore

import (
	"testing"

	"github.com/stretchr/testify/require"

	"docflow-backend/lib/apperr"
	dbmodels "docflow-backend/models/db"
)

func TestCheckLabel(t *testing.T) {
	last := &dbmodels.DocumentVersion{DocumentID: "doc-1", Version: "1.2"}

	t.Run(`first snapshot check`, func(t *testing.T) {
		err := checkLabel("doc-1", "1.0", false, nil)
		require.Nil(t, err)
	})

	t.Run(`greater label check`, func(t *testing.T) {
		err := checkLabel("doc-1", "1.3", false, last)
		require.Nil(t, err)

		err = checkLabel("doc-1", "2.0", false, last)
		require.Nil(t, err)
	})

	t.Run(`repeat of latest label check`, func(t *testing.T) {
		err := checkLabel("doc-1", "1.2", true, last)
		require.Equal(t, apperr.KindVersionConflict, apperr.KindOf(err))
	})

	t.Run(`repeat of older label check`, func(t *testing.T) {
		// повтор метки, не являющейся последней, тоже конфликт версий
		err := checkLabel("doc-1", "1.0", true, last)
		require.Equal(t, apperr.KindVersionConflict, apperr.KindOf(err))
	})

	t.Run(`smaller unused label check`, func(t *testing.T) {
		err := checkLabel("doc-1", "1.1", false, last)
		require.NotNil(t, err)
		require.NotEqual(t, apperr.KindVersionConflict, apperr.KindOf(err))
	})

	t.Run(`broken label check`, func(t *testing.T) {
		err := checkLabel("doc-1", "abc", false, last)
		require.NotNil(t, err)
	})
}
