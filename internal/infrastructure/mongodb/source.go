package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/minbar/data-preprocessor/internal/config"
	"github.com/minbar/data-preprocessor/internal/domain"
	"github.com/minbar/data-preprocessor/internal/ports"
)

// Source reads raw documents from the ingesters' MongoDB collection and
// writes the processed marker back. It is the only component that touches
// the source store.
type Source struct {
	client      *mongo.Client
	collection  *mongo.Collection
	statusField string
}

var _ ports.SourceStore = (*Source)(nil)

// Connect establishes and verifies the source-store connection.
func Connect(ctx context.Context, cfg config.SourceConfig) (*Source, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect source store: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping source store: %w", err)
	}

	return &Source{
		client:      client,
		collection:  client.Database(cfg.Database).Collection(cfg.Collection),
		statusField: cfg.StatusField,
	}, nil
}

// rawRecord mirrors the ingester schema. Fields beyond identity and text are
// opaque pass-through metadata; anything not listed here is ignored.
type rawRecord struct {
	ID              primitive.ObjectID `bson:"_id"`
	DataType        string             `bson:"data_type"`
	ConceptID       string             `bson:"keyword_concept_id"`
	Keyword         string             `bson:"retrieved_by_keyword"`
	KeywordLanguage string             `bson:"keyword_language"`
	Post            struct {
		Text         string `bson:"text"`
		CreatedTime  string `bson:"created_time"`
		AttachedLink string `bson:"attached_link"`
	} `bson:"original_post_data"`
}

// FetchUnprocessed claims up to limit documents whose status field is not
// yet set, ordered by _id so repeated fetches walk the backlog in arrival
// order.
func (s *Source) FetchUnprocessed(ctx context.Context, limit int) ([]domain.RawDocument, error) {
	filter := bson.M{s.statusField: bson.M{"$ne": true}}
	opts := options.Find().
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("fetch unprocessed: %w", err)
	}

	var records []rawRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode unprocessed batch: %w", err)
	}

	documents := make([]domain.RawDocument, 0, len(records))
	for _, record := range records {
		documents = append(documents, record.toDomain())
	}

	return documents, nil
}

func (r rawRecord) toDomain() domain.RawDocument {
	source := r.DataType
	if source == "" {
		source = "unknown"
	}

	var postedAt *time.Time
	if r.Post.CreatedTime != "" {
		if parsed, err := time.Parse(time.RFC3339, r.Post.CreatedTime); err == nil {
			utc := parsed.UTC()
			postedAt = &utc
		}
	}

	return domain.RawDocument{
		ID:              r.ID.Hex(),
		Text:            r.Post.Text,
		Source:          source,
		ConceptID:       r.ConceptID,
		Keyword:         r.Keyword,
		KeywordLanguage: r.KeywordLanguage,
		URL:             r.Post.AttachedLink,
		PostedAt:        postedAt,
	}
}

// MarkProcessed sets the processed marker plus a marker timestamp on the
// given IDs. IDs that do not parse as ObjectIDs are skipped; a partial match
// count is normal when some documents were already marked.
func (s *Source) MarkProcessed(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	objectIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		objectIDs = append(objectIDs, oid)
	}
	if len(objectIDs) == 0 {
		return 0, nil
	}

	update := bson.M{"$set": bson.M{
		s.statusField:         true,
		s.statusField + "_at": time.Now().UTC(),
	}}

	result, err := s.collection.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": objectIDs}}, update)
	if err != nil {
		return 0, fmt.Errorf("mark processed: %w", err)
	}

	return int(result.ModifiedCount), nil
}

// Ping verifies source-store connectivity for health checks.
func (s *Source) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("source store ping: %w", err)
	}
	return nil
}

// Close releases the client.
func (s *Source) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
