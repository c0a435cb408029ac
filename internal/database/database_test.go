package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"customer-analytics/internal/config"
	"customer-analytics/internal/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func seedSQLite(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "olist.db")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	ddl, err := dataset.Schema(dataset.Products)
	require.NoError(t, err)
	_, err = db.Exec(ddl)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO products (product_id, product_category_name) VALUES ('p1', 'beleza_saude'), ('p2', NULL)`)
	require.NoError(t, err)
	return path
}

func TestSQLiteReadTable(t *testing.T) {
	driver := NewSQLiteDriver()
	require.NoError(t, driver.Connect(seedSQLite(t)))
	defer driver.Close()

	records, err := driver.ReadTable(context.Background(), "products", dataset.Columns(dataset.Products))
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"product_id", "product_category_name"},
		{"p1", "beleza_saude"},
		{"p2", ""},
	}, records)
}

func TestSQLiteReadTableUnknownTable(t *testing.T) {
	driver := NewSQLiteDriver()
	require.NoError(t, driver.Connect(seedSQLite(t)))
	defer driver.Close()

	_, err := driver.ReadTable(context.Background(), "sellers", []string{"seller_id"})
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	cfg := config.Databases{MongoDatabase: "olist"}
	for _, source := range []string{config.SourcePostgres, config.SourceMySQL, config.SourceSQLite, config.SourceMongo} {
		reader, err := New(cfg, source)
		require.NoError(t, err, source)
		assert.NotNil(t, reader)
		assert.NoError(t, reader.Close(), "closing an unconnected %s reader", source)
	}

	_, err := New(cfg, config.SourceCSV)
	assert.Error(t, err)
}

func TestSelectQueries(t *testing.T) {
	assert.Equal(t, "SELECT `order_id`, `price` FROM `order_items`", NewMySQLDriver().selectQuery("order_items", []string{"order_id", "price"}))
	assert.Equal(t, `SELECT "order_id", "price" FROM "order_items"`, NewSQLiteDriver().selectQuery("order_items", []string{"order_id", "price"}))
	assert.Equal(t, `SELECT "order_id"::text, "price"::text FROM "order_items"`, postgresSelect("order_items", []string{"order_id", "price"}))
}

func TestStringify(t *testing.T) {
	ts := time.Date(2018, 1, 4, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, "", stringify(nil))
	assert.Equal(t, "abc", stringify([]byte("abc")))
	assert.Equal(t, "2018-01-04 10:30:00", stringify(ts))
	assert.Equal(t, "5", stringify(int32(5)))
	assert.Equal(t, "99.9", stringify(99.9))
}

func TestDocumentRecord(t *testing.T) {
	doc := bson.M{
		"order_id":                 "o1",
		"order_purchase_timestamp": primitive.NewDateTimeFromTime(time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)),
		"price":                    int32(12),
		"order_approved_at":        primitive.Null{},
	}
	got := documentRecord(doc, []string{"order_id", "order_purchase_timestamp", "price", "order_approved_at", "absent"})
	assert.Equal(t, []string{"o1", "2018-01-01 00:00:00", "12", "", ""}, got)
	assert.Equal(t, bson.M{"_id": 0, "a": 1}, projection([]string{"a"}))
}

func TestDocumentRecordsDropsAbsentFields(t *testing.T) {
	docs := []bson.M{
		{"order_id": "o1", "customer_id": "c1"},
		{"order_id": "o2", "customer_id": "c2", "order_status": "shipped"},
	}
	got := documentRecords(docs, []string{"order_id", "customer_id", "order_purchase_timestamp", "order_status"})
	assert.Equal(t, [][]string{
		{"order_id", "customer_id", "order_status"},
		{"o1", "c1", ""},
		{"o2", "c2", "shipped"},
	}, got)
}

func TestDocumentRecordsEmptyCollectionKeepsHeader(t *testing.T) {
	got := documentRecords(nil, []string{"customer_id"})
	assert.Equal(t, [][]string{{"customer_id"}}, got)
}
