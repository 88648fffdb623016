package repository

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iliyamo/storefront-api/internal/model"
)

// TagDiscountRepo stores percentage discounts keyed by product tag.
type TagDiscountRepo struct {
	coll *mongo.Collection
}

func NewTagDiscountRepo(db *mongo.Database) *TagDiscountRepo {
	return &TagDiscountRepo{coll: db.Collection("tagDiscounts")}
}

func (r *TagDiscountRepo) List(ctx context.Context) ([]model.TagDiscount, error) {
	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "tag", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(err, "find tag discounts")
	}
	out := []model.TagDiscount{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "decode tag discounts")
	}
	return out, nil
}

func (r *TagDiscountRepo) Create(ctx context.Context, d *model.TagDiscount) error {
	now := time.Now().UTC()
	d.CreatedAt, d.UpdatedAt = now, now
	res, err := r.coll.InsertOne(ctx, d)
	if err != nil {
		return wrapWrite(err, "insert tag discount")
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		d.ID = id
	}
	return nil
}

func (r *TagDiscountRepo) Update(ctx context.Context, hexID string, d model.TagDiscount) (*model.TagDiscount, error) {
	id, err := parseID(hexID)
	if err != nil {
		return nil, err
	}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "tag", Value: d.Tag},
		{Key: "percent", Value: d.Percent},
		{Key: "active", Value: d.Active},
		{Key: "startsAt", Value: d.StartsAt},
		{Key: "endsAt", Value: d.EndsAt},
		{Key: "updatedAt", Value: time.Now().UTC()},
	}}}
	var out model.TagDiscount
	err = r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id}}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrapWrite(err, "update tag discount")
	}
	return &out, nil
}

func (r *TagDiscountRepo) Delete(ctx context.Context, hexID string) error {
	id, err := parseID(hexID)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return errors.Wrap(err, "delete tag discount")
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// KpiRepo stores dashboard figures, one document per key.
type KpiRepo struct {
	coll *mongo.Collection
}

func NewKpiRepo(db *mongo.Database) *KpiRepo {
	return &KpiRepo{coll: db.Collection("kpis")}
}

func (r *KpiRepo) List(ctx context.Context) ([]model.Kpi, error) {
	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "key", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(err, "find kpis")
	}
	out := []model.Kpi{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "decode kpis")
	}
	return out, nil
}

// Upsert creates or replaces the figure stored under k.Key.
func (r *KpiRepo) Upsert(ctx context.Context, k model.Kpi) (*model.Kpi, error) {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "label", Value: k.Label},
		{Key: "value", Value: k.Value},
		{Key: "target", Value: k.Target},
		{Key: "updatedAt", Value: time.Now().UTC()},
	}}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var out model.Kpi
	if err := r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "key", Value: k.Key}}, update, opts).Decode(&out); err != nil {
		return nil, errors.Wrapf(err, "upsert kpi %s", k.Key)
	}
	return &out, nil
}

// InvoiceTemplateRepo manages the default invoice template.
type InvoiceTemplateRepo struct {
	coll *mongo.Collection
}

func NewInvoiceTemplateRepo(db *mongo.Database) *InvoiceTemplateRepo {
	return &InvoiceTemplateRepo{coll: db.Collection("invoiceTemplates")}
}

var defaultTemplate = bson.D{{Key: "isDefault", Value: true}}

// Default finds the default template, creating an empty one on first use.
func (r *InvoiceTemplateRepo) Default(ctx context.Context) (*model.InvoiceTemplate, error) {
	now := time.Now().UTC()
	update := bson.D{{Key: "$setOnInsert", Value: bson.D{
		{Key: "name", Value: "Default"},
		{Key: "companyName", Value: ""},
		{Key: "address", Value: ""},
		{Key: "createdAt", Value: now},
		{Key: "updatedAt", Value: now},
	}}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var out model.InvoiceTemplate
	if err := r.coll.FindOneAndUpdate(ctx, defaultTemplate, update, opts).Decode(&out); err != nil {
		return nil, errors.Wrap(err, "find or create invoice template")
	}
	return &out, nil
}

// Save overwrites the editable fields of the default template.
func (r *InvoiceTemplateRepo) Save(ctx context.Context, t model.InvoiceTemplate) (*model.InvoiceTemplate, error) {
	now := time.Now().UTC()
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "name", Value: t.Name},
			{Key: "companyName", Value: t.CompanyName},
			{Key: "address", Value: t.Address},
			{Key: "taxId", Value: t.TaxID},
			{Key: "footer", Value: t.Footer},
			{Key: "updatedAt", Value: now},
		}},
		{Key: "$setOnInsert", Value: bson.D{{Key: "createdAt", Value: now}}},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var out model.InvoiceTemplate
	if err := r.coll.FindOneAndUpdate(ctx, defaultTemplate, update, opts).Decode(&out); err != nil {
		return nil, errors.Wrap(err, "save invoice template")
	}
	return &out, nil
}
