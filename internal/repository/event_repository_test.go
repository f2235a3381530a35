package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatgate/chatgate/internal/database"
	"github.com/chatgate/chatgate/internal/model"
)

func newTestEventRepo(t *testing.T) (*EventRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	pg := &database.Postgres{DB: db}
	return NewEventRepository(pg), mock
}

var testEventCols = []string{"id", "user_id", "action", "success", "ip_address", "user_agent", "metadata", "created_at"}

func TestEventRepository_Create(t *testing.T) {
	repo, mock := newTestEventRepo(t)

	ip := "203.0.113.9"
	mock.ExpectExec("INSERT INTO security_events").
		WithArgs("sec_abc", "user-1", model.ActionPasswordFailed, false,
			&ip, nil, []byte(`{"attempts":3}`), testNow).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Create(context.Background(), &model.SecurityEvent{
		ID:        "sec_abc",
		UserID:    "user-1",
		Action:    model.ActionPasswordFailed,
		Success:   false,
		IPAddress: &ip,
		Metadata:  map[string]interface{}{"attempts": 3},
		CreatedAt: testNow,
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_CreateWithoutMetadata(t *testing.T) {
	repo, mock := newTestEventRepo(t)

	// No metadata means a SQL NULL in the jsonb column
	mock.ExpectExec("INSERT INTO security_events").
		WithArgs("sec_abc", "user-1", model.ActionPasswordVerified, true,
			nil, nil, nil, testNow).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Create(context.Background(), &model.SecurityEvent{
		ID:        "sec_abc",
		UserID:    "user-1",
		Action:    model.ActionPasswordVerified,
		Success:   true,
		CreatedAt: testNow,
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_ListByUser(t *testing.T) {
	repo, mock := newTestEventRepo(t)

	ua := "test-agent"
	rows := sqlmock.NewRows(testEventCols).
		AddRow("sec_2", "user-1", model.ActionPasswordFailed, false, nil, ua, []byte(`{"attempts":1}`), testNow).
		AddRow("sec_1", "user-1", model.ActionPasswordSet, true, nil, nil, nil, testNow.Add(-time.Minute))
	mock.ExpectQuery("SELECT (.+) FROM security_events").
		WithArgs("user-1", 50, 0).
		WillReturnRows(rows)

	events, err := repo.ListByUser(context.Background(), "user-1", 50, 0)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "sec_2", events[0].ID)
	assert.Equal(t, model.ActionPasswordFailed, events[0].Action)
	assert.Equal(t, map[string]interface{}{"attempts": float64(1)}, events[0].Metadata)
	require.NotNil(t, events[0].UserAgent)
	assert.Equal(t, ua, *events[0].UserAgent)

	assert.Equal(t, "sec_1", events[1].ID)
	assert.True(t, events[1].Success)
	assert.Nil(t, events[1].Metadata)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_ListByUserEmpty(t *testing.T) {
	repo, mock := newTestEventRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM security_events").
		WithArgs("user-1", 20, 0).
		WillReturnRows(sqlmock.NewRows(testEventCols))

	events, err := repo.ListByUser(context.Background(), "user-1", 20, 0)
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.NoError(t, mock.ExpectationsWereMet())
}
