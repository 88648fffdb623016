package model

import (
    "errors"
    "strings"
    "time"

    "go.mongodb.org/mongo-driver/bson/primitive"
)

// BannerKind discriminates the two variants stored in the `banners`
// collection.  The value is persisted in the document's `type` field.
type BannerKind string

const (
    KindAdBanner     BannerKind = "adbanner"
    KindAnnouncement BannerKind = "announcement"
)

// BannerKinds lists every variant.  Code that iterates over kinds must
// handle each of them.
var BannerKinds = []BannerKind{KindAdBanner, KindAnnouncement}

// ErrUnknownBannerKind is returned for a `type` outside BannerKinds.
var ErrUnknownBannerKind = errors.New("unknown banner kind")

// ParseBannerKind maps a raw discriminator to a BannerKind.
func ParseBannerKind(raw string) (BannerKind, error) {
    switch k := BannerKind(strings.ToLower(strings.TrimSpace(raw))); k {
    case KindAdBanner, KindAnnouncement:
        return k, nil
    }
    return "", ErrUnknownBannerKind
}

// ActiveField names the boolean document field that marks a record of this
// kind as live.  Each variant keeps its own flag.
func (k BannerKind) ActiveField() (string, error) {
    switch k {
    case KindAdBanner:
        return "isAdBannerActive", nil
    case KindAnnouncement:
        return "isAnnouncementActive", nil
    }
    return "", ErrUnknownBannerKind
}

// Banner is a promotional record surfaced on the storefront.
//
// Fields:
//  Kind               – variant discriminator, stored as `type`.
//  Text, Image, Link  – content shown by the storefront.
//  AdBannerActive     – live flag, meaningful only for KindAdBanner.
//  AnnouncementActive – live flag, meaningful only for KindAnnouncement.
type Banner struct {
    ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
    Kind               BannerKind         `bson:"type" json:"type"`
    Text               string             `bson:"text" json:"text"`
    Image              string             `bson:"image,omitempty" json:"image,omitempty"`
    Link               string             `bson:"link,omitempty" json:"link,omitempty"`
    AdBannerActive     bool               `bson:"isAdBannerActive,omitempty" json:"isAdBannerActive,omitempty"`
    AnnouncementActive bool               `bson:"isAnnouncementActive,omitempty" json:"isAnnouncementActive,omitempty"`
    CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
    UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Active reports whether the banner's own variant flag is set.
func (b Banner) Active() bool {
    switch b.Kind {
    case KindAdBanner:
        return b.AdBannerActive
    case KindAnnouncement:
        return b.AnnouncementActive
    }
    return false
}

// SetActive sets the flag belonging to b.Kind and clears the other one.
func (b *Banner) SetActive(active bool) error {
    switch b.Kind {
    case KindAdBanner:
        b.AdBannerActive, b.AnnouncementActive = active, false
    case KindAnnouncement:
        b.AdBannerActive, b.AnnouncementActive = false, active
    default:
        return ErrUnknownBannerKind
    }
    return nil
}

// ActiveBanners is the storefront view: one slot per variant, nil when no
// live record exists.
type ActiveBanners struct {
    Ad           *Banner `json:"ad"`
    Announcement *Banner `json:"announcement"`
}

// Set places b into the slot of its variant.
func (a *ActiveBanners) Set(b *Banner) error {
    switch b.Kind {
    case KindAdBanner:
        a.Ad = b
    case KindAnnouncement:
        a.Announcement = b
    default:
        return ErrUnknownBannerKind
    }
    return nil
}
