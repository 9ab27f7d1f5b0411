package postgres

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leapstack-labs/coltype/pkg/adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPostgresDSN(t *testing.T) {
	tests := []struct {
		name     string
		config   adapter.Config
		expected string
	}{
		{
			name: "basic connection",
			config: adapter.Config{
				Host:     "localhost",
				Port:     5432,
				Database: "metastore",
				Username: "hive",
				Password: "pass",
			},
			expected: "host=localhost port=5432 dbname=metastore sslmode=disable user=hive password=pass",
		},
		{
			name: "with custom sslmode",
			config: adapter.Config{
				Host:     "hms.example.com",
				Port:     5432,
				Database: "hms",
				Username: "reader",
				Options:  map[string]string{"sslmode": "require"},
			},
			expected: "host=hms.example.com port=5432 dbname=hms sslmode=require user=reader",
		},
		{
			name:     "defaults",
			config:   adapter.Config{Database: "hms"},
			expected: "host=localhost port=5432 dbname=hms sslmode=disable",
		},
		{
			name: "application name",
			config: adapter.Config{
				Host:     "db.example.com",
				Port:     5433,
				Database: "hms",
				Options:  map[string]string{"application_name": "coltype"},
			},
			expected: "host=db.example.com port=5433 dbname=hms sslmode=disable application_name=coltype",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildPostgresDSN(tt.config))
		})
	}
}

func TestNew(t *testing.T) {
	adp := New(nil)

	assert.NotNil(t, adp)
	assert.Nil(t, adp.DB, "DB should be nil before Connect")
	assert.False(t, adp.IsConnected())
	assert.Equal(t, "hive", adp.DialectName(), "metastore catalogs default to hive types")
	assert.Equal(t, adapter.PlaceholderDollar, adp.Placeholders)

	adp.Cfg = adapter.Config{Options: map[string]string{"dialect": "Presto"}}
	assert.Equal(t, "presto", adp.DialectName())
}

func TestAdapter_GetTableMetadata(t *testing.T) {
	t.Run("not connected", func(t *testing.T) {
		_, err := New(nil).GetTableMetadata(context.Background(), "orders")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not established")
	})

	t.Run("metastore layout", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery(regexp.QuoteMeta(`WHERE d."NAME" = $1 AND t."TBL_NAME" = $2`)).
			WithArgs("default", "orders").
			WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME", "TYPE_NAME", "COMMENT", "INTEGER_IDX"}).
				AddRow("tags", "map<string,array<string>>", "", 0))

		adp := New(nil)
		adp.DB = db
		adp.Cfg = adapter.Config{Type: "postgres", Database: "hms"}

		meta, err := adp.GetTableMetadata(context.Background(), "orders")
		require.NoError(t, err)
		assert.Equal(t, "hive", meta.Database)
		assert.Equal(t, "hms", meta.Cluster)
		assert.Equal(t, "hive://hms.default/orders", meta.Key())
		require.Len(t, meta.Columns, 1)
		assert.Equal(t, "map<string,array<string>>", meta.Columns[0].Type)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("information_schema layout defaults to public", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery(regexp.QuoteMeta("WHERE table_schema = $1 AND table_name = $2")).
			WithArgs("public", "events").
			WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable", "ordinal_position"}).
				AddRow("id", "integer", "NO", 1))

		adp := New(nil)
		adp.DB = db
		adp.Cfg = adapter.Config{Options: map[string]string{"layout": adapter.LayoutInformationSchema}}

		meta, err := adp.GetTableMetadata(context.Background(), "events")
		require.NoError(t, err)
		assert.Equal(t, "public", meta.Schema)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAdapter_Connect_InvalidDSN(t *testing.T) {
	adp := New(nil)
	err := adp.Connect(context.Background(), adapter.Config{Database: "hms", Port: 1, Host: "127.0.0.1"})
	require.Error(t, err)
	assert.False(t, adp.IsConnected())
}

func TestAdapter_Registry(t *testing.T) {
	assert.True(t, adapter.IsRegistered("postgres"), "postgres adapter should be registered")

	factory, ok := adapter.Get("postgres")
	require.True(t, ok)

	pg, ok := factory(nil).(*Adapter)
	require.True(t, ok, "factory should return *Adapter")
	assert.Equal(t, "hive", pg.DialectName())
}

func TestAdapter_Close(t *testing.T) {
	assert.NoError(t, New(nil).Close())
}
