package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lexpage/landing-service/internal/domain"
)

type mongoSiteContentRepository struct {
	coll *mongo.Collection
}

// NewMongoSiteContentRepository stores documents in coll, one per siteId.
func NewMongoSiteContentRepository(coll *mongo.Collection) SiteContentRepository {
	return &mongoSiteContentRepository{coll: coll}
}

// EnsureSiteContentIndexes creates the unique siteId index the upsert relies on.
func EnsureSiteContentIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "siteId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *mongoSiteContentRepository) FindBySiteID(ctx context.Context, siteID string) (*domain.SiteContentDocument, error) {
	var stored domain.SiteContentDocument
	err := r.coll.FindOne(ctx, bson.M{"siteId": siteID}).Decode(&stored)
	if err != nil {
		return nil, mapMongoError(err)
	}
	return &stored, nil
}

func (r *mongoSiteContentRepository) Upsert(ctx context.Context, doc domain.SiteContent) (*domain.SiteContentDocument, error) {
	set, err := contentFields(doc)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	set = append(set, bson.E{Key: "updatedAt", Value: now})

	update := bson.D{
		{Key: "$set", Value: set},
		{Key: "$setOnInsert", Value: bson.D{{Key: "createdAt", Value: now}}},
		{Key: "$inc", Value: bson.D{{Key: "__v", Value: 1}}},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored domain.SiteContentDocument
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"siteId": doc.SiteID}, update, opts).Decode(&stored); err != nil {
		return nil, mapMongoError(err)
	}
	return &stored, nil
}

func (r *mongoSiteContentRepository) Create(ctx context.Context, doc domain.SiteContent) (*domain.SiteContentDocument, error) {
	now := time.Now().UTC()
	stored := domain.SiteContentDocument{SiteContent: doc, CreatedAt: now, UpdatedAt: now}
	if _, err := r.coll.InsertOne(ctx, stored); err != nil {
		return nil, mapMongoError(err)
	}
	return &stored, nil
}

// contentFields flattens doc into top-level $set entries so a replace never
// touches the store-owned metadata.
func contentFields(doc domain.SiteContent) (bson.D, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var fields bson.D
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func mapMongoError(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	default:
		return err
	}
}
