package model

import (
    "strings"
    "time"
    "unicode"
    "unicode/utf8"

    "go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalog entry.  Only published products are visible on the
// storefront and counted by the tag aggregation.
type Product struct {
    ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
    Name        string             `bson:"name" json:"name"`
    Slug        string             `bson:"slug" json:"slug"`
    Description string             `bson:"description,omitempty" json:"description,omitempty"`
    Price       int64              `bson:"price" json:"price"` // minor currency units
    Images      []string           `bson:"images,omitempty" json:"images,omitempty"`
    Tags        []string           `bson:"tags" json:"tags"`
    Published   bool               `bson:"published" json:"published"`
    CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
    UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// NormalizeTags trims, lower-cases and de-duplicates tags, preserving the
// first occurrence order and dropping blanks.
func NormalizeTags(tags []string) []string {
    out := make([]string, 0, len(tags))
    seen := make(map[string]struct{}, len(tags))
    for _, t := range tags {
        t = strings.ToLower(strings.TrimSpace(t))
        if t == "" {
            continue
        }
        if _, ok := seen[t]; ok {
            continue
        }
        seen[t] = struct{}{}
        out = append(out, t)
    }
    return out
}

// TagCount is one row of the tag aggregation pipeline.
type TagCount struct {
    Tag   string `bson:"_id"`
    Count int    `bson:"count"`
}

// Tag is the public tag statistic.
type Tag struct {
    ID    string `json:"id"`
    Name  string `json:"name"`
    Count int    `json:"count"`
}

// TagDisplayName upper-cases the first character of a raw tag.
func TagDisplayName(raw string) string {
    r, size := utf8.DecodeRuneInString(raw)
    if r == utf8.RuneError {
        return raw
    }
    return string(unicode.ToUpper(r)) + raw[size:]
}
