package database

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDriver reads one collection per dataset from Database.
type MongoDriver struct {
	Database string
	client   *mongo.Client
}

func (md *MongoDriver) Connect(dsn string) error {
	if md.Database == "" {
		return errors.New("mongo: database name is required")
	}
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(dsn))
	if err != nil {
		return err
	}
	md.client = client
	return nil
}

func (md *MongoDriver) Close() error {
	if md.client == nil {
		return nil
	}
	return md.client.Disconnect(context.Background())
}

func (md *MongoDriver) ReadTable(ctx context.Context, table string, columns []string) ([][]string, error) {
	db := md.client.Database(md.Database)
	names, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: table}})
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("mongo: collection %s.%s does not exist", md.Database, table)
	}

	cursor, err := db.Collection(table).Find(ctx, bson.M{}, options.Find().SetProjection(projection(columns)))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return documentRecords(docs, columns), nil
}

// documentRecords renders docs as records. The header keeps only the columns
// that at least one document carries, so a field absent from the whole
// collection shows up as a missing column. An empty collection keeps the full
// header.
func documentRecords(docs []bson.M, columns []string) [][]string {
	header := columns
	if len(docs) > 0 {
		header = nil
		for _, c := range columns {
			for _, doc := range docs {
				if _, ok := doc[c]; ok {
					header = append(header, c)
					break
				}
			}
		}
	}

	records := make([][]string, 0, len(docs)+1)
	records = append(records, append([]string(nil), header...))
	for _, doc := range docs {
		records = append(records, documentRecord(doc, header))
	}
	return records
}

// WriteTable inserts one document per record. ddl is ignored; missing cells
// are left out of the document.
func (md *MongoDriver) WriteTable(ctx context.Context, table, ddl string, records [][]string) error {
	if len(records) == 0 {
		return errors.New("mongo: no header for collection " + table)
	}
	if len(records) == 1 {
		return nil
	}

	header := records[0]
	docs := make([]interface{}, 0, len(records)-1)
	for _, record := range records[1:] {
		doc := bson.D{}
		for i, v := range record {
			if v != "" {
				doc = append(doc, bson.E{Key: header[i], Value: v})
			}
		}
		docs = append(docs, doc)
	}

	_, err := md.client.Database(md.Database).Collection(table).InsertMany(ctx, docs)
	return err
}

func projection(columns []string) bson.M {
	proj := bson.M{"_id": 0}
	for _, c := range columns {
		proj[c] = 1
	}
	return proj
}

func documentRecord(doc bson.M, columns []string) []string {
	record := make([]string, len(columns))
	for i, c := range columns {
		record[i] = stringifyBSON(doc[c])
	}
	return record
}

func stringifyBSON(v interface{}) string {
	switch v := v.(type) {
	case primitive.DateTime:
		return stringify(v.Time())
	case primitive.Decimal128:
		return v.String()
	case primitive.Null, primitive.Undefined:
		return ""
	}
	return stringify(v)
}
