package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDocumentStatusFlow(t *testing.T) {
	t.Run(`allowed transitions check`, func(t *testing.T) {
		require.Equal(t, true, DocStatusDraft.IsAllowChange(DocStatusPending))
		require.Equal(t, true, DocStatusPending.IsAllowChange(DocStatusApproved))
		require.Equal(t, true, DocStatusPending.IsAllowChange(DocStatusRejected))
		require.Equal(t, true, DocStatusRejected.IsAllowChange(DocStatusPending))
		require.Equal(t, true, DocStatusApproved.IsAllowChange(DocStatusDraft))
	})

	t.Run(`forbidden transitions check`, func(t *testing.T) {
		require.Equal(t, false, DocStatusDraft.IsAllowChange(DocStatusApproved))
		require.Equal(t, false, DocStatusDraft.IsAllowChange(DocStatusRejected))
		require.Equal(t, false, DocStatusApproved.IsAllowChange(DocStatusPending))
		require.Equal(t, false, DocStatusRejected.IsAllowChange(DocStatusDraft))
		require.Equal(t, false, DocStatusPending.IsAllowChange(DocStatusDraft))
	})

	t.Run(`status predicates check`, func(t *testing.T) {
		require.Equal(t, true, DocStatusDraft.AllowSubmit())
		require.Equal(t, true, DocStatusRejected.AllowSubmit())
		require.Equal(t, false, DocStatusPending.AllowSubmit())
		require.Equal(t, false, DocStatusApproved.AllowSubmit())

		require.Equal(t, true, DocStatusDraft.AllowContentEdit())
		require.Equal(t, false, DocStatusRejected.AllowContentEdit())

		require.Equal(t, true, DocStatusApproved.AllowAmend())
		require.Equal(t, false, DocStatusDraft.AllowAmend())

		require.Equal(t, true, DocStatusPending.AllowResolve())
		require.Equal(t, false, DocStatusApproved.AllowResolve())
	})
}

func TestTaskStatusFlow(t *testing.T) {
	t.Run(`allowed transitions check`, func(t *testing.T) {
		require.Equal(t, true, TaskStatusPending.IsAllowChange(TaskStatusInProgress))
		require.Equal(t, true, TaskStatusPending.IsAllowChange(TaskStatusCanceled))
		require.Equal(t, true, TaskStatusInProgress.IsAllowChange(TaskStatusCompleted))
		require.Equal(t, true, TaskStatusInProgress.IsAllowChange(TaskStatusCanceled))
	})

	t.Run(`terminal statuses absorb check`, func(t *testing.T) {
		for _, terminal := range []TaskStatus{TaskStatusCompleted, TaskStatusCanceled} {
			require.Equal(t, true, terminal.IsTerminal())
			for _, next := range []TaskStatus{TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCanceled} {
				require.Equal(t, false, terminal.IsAllowChange(next))
			}
		}
	})

	t.Run(`skip in_progress forbidden check`, func(t *testing.T) {
		require.Equal(t, false, TaskStatusPending.IsAllowChange(TaskStatusCompleted))
	})

	t.Run(`status validation check`, func(t *testing.T) {
		require.Equal(t, true, TaskStatusInProgress.IsValid())
		require.Equal(t, false, TaskStatus("DONE").IsValid())
	})
}

func TestApprovalState(t *testing.T) {
	t.Run(`decision validation check`, func(t *testing.T) {
		require.Nil(t, AStateApproved.ValidateDecision())
		require.Nil(t, AStateRejected.ValidateDecision())
		require.NotNil(t, AStatePending.ValidateDecision())
		require.NotNil(t, ApprovalState("MAYBE").ValidateDecision())
	})

	t.Run(`resolved check`, func(t *testing.T) {
		require.Equal(t, false, AStatePending.IsResolved())
		require.Equal(t, true, AStateApproved.IsResolved())
		require.Equal(t, true, AStateRejected.IsResolved())
	})
}

func TestTaskPriority(t *testing.T) {
	require.Nil(t, TaskPriorityLow.Validate())
	require.Nil(t, TaskPriorityUrgent.Validate())
	require.NotNil(t, TaskPriority("EXTREME").Validate())
}
