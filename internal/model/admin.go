package model

import (
    "time"

    "go.mongodb.org/mongo-driver/bson/primitive"
)

// TagDiscount applies a percentage discount to products carrying Tag.
type TagDiscount struct {
    ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
    Tag       string             `bson:"tag" json:"tag"`
    Percent   int                `bson:"percent" json:"percent"`
    Active    bool               `bson:"active" json:"active"`
    StartsAt  *time.Time         `bson:"startsAt,omitempty" json:"startsAt,omitempty"`
    EndsAt    *time.Time         `bson:"endsAt,omitempty" json:"endsAt,omitempty"`
    CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
    UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Kpi is a dashboard figure keyed by a stable identifier.
type Kpi struct {
    ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
    Key       string             `bson:"key" json:"key"`
    Label     string             `bson:"label" json:"label"`
    Value     float64            `bson:"value" json:"value"`
    Target    float64            `bson:"target,omitempty" json:"target,omitempty"`
    UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// InvoiceTemplate holds the seller details printed on invoices.  Exactly
// one template is flagged as the default.
type InvoiceTemplate struct {
    ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
    Name        string             `bson:"name" json:"name"`
    CompanyName string             `bson:"companyName" json:"companyName"`
    Address     string             `bson:"address" json:"address"`
    TaxID       string             `bson:"taxId,omitempty" json:"taxId,omitempty"`
    Footer      string             `bson:"footer,omitempty" json:"footer,omitempty"`
    IsDefault   bool               `bson:"isDefault" json:"isDefault"`
    CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
    UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
