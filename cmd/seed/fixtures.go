package main

import (
    "io"
    "os"
    "strings"

    "github.com/pkg/errors"
    "gopkg.in/yaml.v3"

    "github.com/iliyamo/storefront-api/internal/model"
)

// Fixtures is the on-disk shape of a seed file.
type Fixtures struct {
    Products []productFixture `yaml:"products"`
    Banners  []bannerFixture  `yaml:"banners"`
}

type productFixture struct {
    Name        string   `yaml:"name"`
    Slug        string   `yaml:"slug"`
    Description string   `yaml:"description"`
    Price       int64    `yaml:"price"`
    Images      []string `yaml:"images"`
    Tags        []string `yaml:"tags"`
    Published   *bool    `yaml:"published"` // defaults to true
}

type bannerFixture struct {
    Type   string `yaml:"type"`
    Text   string `yaml:"text"`
    Image  string `yaml:"image"`
    Link   string `yaml:"link"`
    Active bool   `yaml:"active"`
}

func loadFixtures(path string) (Fixtures, error) {
    f, err := os.Open(path)
    if err != nil {
        return Fixtures{}, errors.Wrap(err, "open fixtures")
    }
    defer f.Close()
    return decodeFixtures(f)
}

func decodeFixtures(r io.Reader) (Fixtures, error) {
    var fx Fixtures
    dec := yaml.NewDecoder(r)
    dec.KnownFields(true)
    if err := dec.Decode(&fx); err != nil && !errors.Is(err, io.EOF) {
        return Fixtures{}, errors.Wrap(err, "decode fixtures")
    }
    return fx, nil
}

func (p productFixture) toModel() (model.Product, error) {
    out := model.Product{
        Name:        strings.TrimSpace(p.Name),
        Slug:        strings.ToLower(strings.TrimSpace(p.Slug)),
        Description: p.Description,
        Price:       p.Price,
        Images:      p.Images,
        Tags:        model.NormalizeTags(p.Tags),
        Published:   p.Published == nil || *p.Published,
    }
    if out.Name == "" || out.Slug == "" {
        return out, errors.Errorf("product %q: name and slug required", p.Slug)
    }
    if out.Price < 0 {
        return out, errors.Errorf("product %q: negative price", p.Slug)
    }
    return out, nil
}

func (b bannerFixture) toModel() (model.Banner, error) {
    kind, err := model.ParseBannerKind(b.Type)
    if err != nil {
        return model.Banner{}, errors.Wrapf(err, "banner %q", b.Type)
    }
    out := model.Banner{Kind: kind, Text: b.Text, Image: b.Image, Link: b.Link}
    if err := out.SetActive(b.Active); err != nil {
        return model.Banner{}, err
    }
    return out, nil
}
