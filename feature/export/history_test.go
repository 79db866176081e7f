package export_test

import (
	"context"
	"net/http"
	"testing"

	"render-manager/feature/export"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestService_RecordsHistoryRow(t *testing.T) {
	sup := newStubSupervisor(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("png-bytes"))
	}))

	db, mock := setupMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `render_jobs`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	svc := export.NewService(sup, nil, "", zap.NewNop(), db)

	_, _, err := svc.ToImage(context.Background(), map[string]any{}, export.ImageOptions{})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_HistoryFailureDoesNotFailRender(t *testing.T) {
	sup := newStubSupervisor(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("png-bytes"))
	}))

	db, mock := setupMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `render_jobs`").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	svc := export.NewService(sup, nil, "", zap.NewNop(), db)

	data, _, err := svc.ToImage(context.Background(), map[string]any{}, export.ImageOptions{})
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
}
