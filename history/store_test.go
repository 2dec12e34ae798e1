package history

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriverName(t *testing.T) {
	tests := []struct {
		dbType  string
		driver  string
		wantErr bool
	}{
		{"postgresql", "postgres", false},
		{"postgres", "postgres", false},
		{"MySQL", "mysql", false},
		{"sqlite", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.dbType, func(t *testing.T) {
			driver, err := DriverName(tt.dbType)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.driver, driver)
		})
	}
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "$1, $2, $3", placeholders("postgres", 3))
	assert.Equal(t, "?, ?, ?", placeholders("mysql", 3))
}

func TestQueries(t *testing.T) {
	assert.True(t, strings.HasSuffix(insertSQL("postgres"), "VALUES ($1, $2, $3, $4, $5, $6, $7, $8)"))
	assert.True(t, strings.HasSuffix(recentSQL("mysql"), "LIMIT ?"))
	assert.Contains(t, createTableSQL("mysql"), "DATETIME(3)")
	assert.Contains(t, createTableSQL("postgres"), "started_at TIMESTAMP")
}

func TestOpenRejectsBadConfig(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "dsn")
	assert.Error(t, err)

	_, err = Open(context.Background(), DBTypeMySQL, "")
	assert.Error(t, err)
}

func TestMySQLDSNParsesTime(t *testing.T) {
	dsn, err := mysqlDSN("evah:secret@tcp(127.0.0.1:3306)/evah")
	require.NoError(t, err)
	assert.Contains(t, dsn, "parseTime=true")

	_, err = mysqlDSN("not a dsn")
	assert.Error(t, err)
}
