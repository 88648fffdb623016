package repository

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iliyamo/storefront-api/internal/model"
)

// BannerRepo reads and writes the `banners` collection, which stores both
// ad banners and announcements distinguished by their `type` field.
type BannerRepo struct {
	coll *mongo.Collection
}

func NewBannerRepo(db *mongo.Database) *BannerRepo {
	return &BannerRepo{coll: db.Collection("banners")}
}

// newestFirst orders by last update, falling back to insertion order.
var newestFirst = bson.D{{Key: "updatedAt", Value: -1}, {Key: "_id", Value: -1}}

// Active returns the most recent live banner of the given kind, or nil when
// there is none.
func (r *BannerRepo) Active(ctx context.Context, kind model.BannerKind) (*model.Banner, error) {
	field, err := kind.ActiveField()
	if err != nil {
		return nil, err
	}
	filter := bson.D{{Key: "type", Value: kind}, {Key: field, Value: true}}
	var b model.Banner
	err = r.coll.FindOne(ctx, filter, options.FindOne().SetSort(newestFirst)).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "find active %s", kind)
	}
	return &b, nil
}

// List returns every banner, newest first.
func (r *BannerRepo) List(ctx context.Context) ([]model.Banner, error) {
	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, errors.Wrap(err, "find banners")
	}
	out := []model.Banner{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "decode banners")
	}
	return out, nil
}

// Upsert writes b as the current record of its kind: the most recent
// document of that type is updated, or a new one is inserted when none
// exists. The stored document is returned.
func (r *BannerRepo) Upsert(ctx context.Context, b model.Banner) (*model.Banner, error) {
	if _, err := b.Kind.ActiveField(); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "text", Value: b.Text},
			{Key: "image", Value: b.Image},
			{Key: "link", Value: b.Link},
			{Key: "isAdBannerActive", Value: b.AdBannerActive},
			{Key: "isAnnouncementActive", Value: b.AnnouncementActive},
			{Key: "updatedAt", Value: now},
		}},
		{Key: "$setOnInsert", Value: bson.D{{Key: "createdAt", Value: now}}},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetSort(newestFirst).
		SetReturnDocument(options.After)

	var out model.Banner
	err := r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "type", Value: b.Kind}}, update, opts).Decode(&out)
	if err != nil {
		return nil, errors.Wrapf(err, "upsert %s", b.Kind)
	}
	return &out, nil
}

// Delete removes every banner of the given kind.
func (r *BannerRepo) Delete(ctx context.Context, kind model.BannerKind) error {
	if _, err := kind.ActiveField(); err != nil {
		return err
	}
	res, err := r.coll.DeleteMany(ctx, bson.D{{Key: "type", Value: kind}})
	if err != nil {
		return errors.Wrapf(err, "delete %s", kind)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
