package database

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// mockMetricsRecorder captures recorded queries for assertions
type mockMetricsRecorder struct {
	queries   []queryRecord
	statsCall int
}

type queryRecord struct {
	operation string
	table     string
	duration  time.Duration
	err       error
}

func (m *mockMetricsRecorder) RecordDBQuery(operation, table string, duration time.Duration, err error) {
	m.queries = append(m.queries, queryRecord{operation, table, duration, err})
}

func (m *mockMetricsRecorder) UpdateDBStats(stats interface{}) {
	if _, ok := stats.(sql.DBStats); ok {
		m.statsCall++
	}
}

// string primary key keeps SQLite happy
type testModel struct {
	ID        string `gorm:"type:text;primaryKey"`
	Name      string `gorm:"type:varchar(255)"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (testModel) TableName() string {
	return "test_models"
}

func setupCallbackDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&testModel{}))
	return db
}

func TestRegisterMetricsCallbacks_AllOperations(t *testing.T) {
	db := setupCallbackDB(t)
	recorder := &mockMetricsRecorder{}
	RegisterMetricsCallbacks(db, recorder)

	row := testModel{ID: uuid.NewString(), Name: "one"}
	require.NoError(t, db.Create(&row).Error)

	var got testModel
	require.NoError(t, db.First(&got, "id = ?", row.ID).Error)

	require.NoError(t, db.Model(&row).Update("Name", "two").Error)
	require.NoError(t, db.Delete(&row).Error)

	require.Len(t, recorder.queries, 4)
	expected := []string{"insert", "select", "update", "delete"}
	for i, op := range expected {
		assert.Equal(t, op, recorder.queries[i].operation)
		assert.Equal(t, "test_models", recorder.queries[i].table)
		assert.Greater(t, recorder.queries[i].duration, time.Duration(0))
		assert.NoError(t, recorder.queries[i].err)
	}
}

func TestRegisterMetricsCallbacks_QueryError(t *testing.T) {
	db := setupCallbackDB(t)
	recorder := &mockMetricsRecorder{}
	RegisterMetricsCallbacks(db, recorder)

	var got testModel
	err := db.First(&got, "id = ?", uuid.NewString()).Error
	require.Error(t, err)

	require.Len(t, recorder.queries, 1)
	assert.Equal(t, "select", recorder.queries[0].operation)
	assert.Error(t, recorder.queries[0].err)
}

func TestRegisterMetricsCallbacks_Transaction(t *testing.T) {
	db := setupCallbackDB(t)
	recorder := &mockMetricsRecorder{}
	RegisterMetricsCallbacks(db, recorder)

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&testModel{ID: uuid.NewString(), Name: "a"}).Error; err != nil {
			return err
		}
		return tx.Create(&testModel{ID: uuid.NewString(), Name: "b"}).Error
	})
	require.NoError(t, err)

	insertCount := 0
	for _, q := range recorder.queries {
		if q.operation == "insert" {
			insertCount++
		}
	}
	assert.GreaterOrEqual(t, insertCount, 2)
}

func TestStartDBStatsCollector_Shutdown(t *testing.T) {
	db := setupCallbackDB(t)
	recorder := &mockMetricsRecorder{}

	done := StartDBStatsCollector(db, recorder)
	time.Sleep(50 * time.Millisecond)
	close(done)
	time.Sleep(50 * time.Millisecond)
	// Passes if the goroutine exits without panic or deadlock
}
