package apperr

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"docflow-backend/models"
)

func TestKindOf(t *testing.T) {
	t.Run(`direct error check`, func(t *testing.T) {
		err := Conflict(models.EntityTypeDocument, "doc-1")
		require.Equal(t, KindConflict, KindOf(err))
		require.Equal(t, true, IsKind(err, KindConflict))
		require.Equal(t, false, IsKind(err, KindNotFound))
	})

	t.Run(`wrapped error check`, func(t *testing.T) {
		err := errors.Wrap(NotFound(models.EntityTypeTask, "task-1"), "загрузка задачи")
		require.Equal(t, KindNotFound, KindOf(err))
	})

	t.Run(`foreign error check`, func(t *testing.T) {
		require.Equal(t, Kind(""), KindOf(errors.New("обычная ошибка")))
	})

	t.Run(`cause preserved check`, func(t *testing.T) {
		cause := errors.New("connection refused")
		err := StorageUnavailable(cause)
		require.Equal(t, cause, errors.Cause(err.Unwrap()))
		require.Contains(t, err.Error(), "хранилище недоступно")
	})

	t.Run(`message format check`, func(t *testing.T) {
		err := InvalidTransition(models.EntityTypeDocument, "doc-1", "DRAFT", "APPROVED")
		require.Contains(t, err.Error(), "DRAFT")
		require.Contains(t, err.Error(), "APPROVED")
		require.Contains(t, err.Error(), "doc-1")
	})
}
