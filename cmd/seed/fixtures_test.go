package main

import (
    "strings"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/storefront-api/internal/model"
)

func TestDecodeFixtures(t *testing.T) {
    fx, err := decodeFixtures(strings.NewReader(`
products:
  - name: Ring
    slug: " Ring "
    price: 100
    tags: [Gold, gold, " "]
  - name: Draft
    slug: draft
    published: false
banners:
  - type: announcement
    text: hi
    active: true
`))
    require.NoError(t, err)
    require.Len(t, fx.Products, 2)

    p, err := fx.Products[0].toModel()
    require.NoError(t, err)
    assert.Equal(t, "ring", p.Slug)
    assert.Equal(t, []string{"gold"}, p.Tags)
    assert.True(t, p.Published)

    draft, err := fx.Products[1].toModel()
    require.NoError(t, err)
    assert.False(t, draft.Published)

    b, err := fx.Banners[0].toModel()
    require.NoError(t, err)
    assert.Equal(t, model.KindAnnouncement, b.Kind)
    assert.True(t, b.AnnouncementActive)
}

func TestDecodeFixturesRejects(t *testing.T) {
    _, err := decodeFixtures(strings.NewReader("products:\n  - nme: typo\n"))
    assert.Error(t, err)

    _, err = productFixture{Name: "x", Slug: "x", Price: -1}.toModel()
    assert.Error(t, err)

    _, err = bannerFixture{Type: "popup"}.toModel()
    assert.ErrorIs(t, err, model.ErrUnknownBannerKind)
}

func TestBundledFixturesLoad(t *testing.T) {
    fx, err := loadFixtures("fixtures.yaml")
    require.NoError(t, err)
    assert.NotEmpty(t, fx.Products)
    for _, pf := range fx.Products {
        _, err := pf.toModel()
        assert.NoError(t, err, pf.Slug)
    }
}
