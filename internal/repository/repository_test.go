package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/iliyamo/storefront-api/internal/model"
)

func newMock(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func TestBannerRepoActive(t *testing.T) {
	mt := newMock(t)

	mt.Run("returns newest live record", func(mt *mtest.T) {
		repo := NewBannerRepo(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "shop.banners", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "type", Value: "adbanner"},
			{Key: "text", Value: "Summer sale"},
			{Key: "isAdBannerActive", Value: true},
		}))

		b, err := repo.Active(context.Background(), model.KindAdBanner)
		require.NoError(mt, err)
		require.NotNil(mt, b)
		assert.Equal(mt, id, b.ID)
		assert.Equal(mt, "Summer sale", b.Text)
		assert.True(mt, b.Active())
	})

	mt.Run("no record yields nil", func(mt *mtest.T) {
		repo := NewBannerRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "shop.banners", mtest.FirstBatch))

		b, err := repo.Active(context.Background(), model.KindAnnouncement)
		require.NoError(mt, err)
		assert.Nil(mt, b)
	})

	mt.Run("unknown kind never reaches the store", func(mt *mtest.T) {
		repo := NewBannerRepo(mt.DB)
		_, err := repo.Active(context.Background(), model.BannerKind("popup"))
		assert.ErrorIs(mt, err, model.ErrUnknownBannerKind)
	})
}

func TestBannerRepoDeleteMissing(t *testing.T) {
	mt := newMock(t)
	mt.Run("delete", func(mt *mtest.T) {
		repo := NewBannerRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		assert.ErrorIs(mt, repo.Delete(context.Background(), model.KindAdBanner), ErrNotFound)
	})
}

func TestTagCountPipelineOnlyCountsPublished(t *testing.T) {
	p := TagCountPipeline()
	require.Len(t, p, 5)
	assert.Equal(t, bson.D{{Key: "published", Value: true}}, p[0][0].Value)
	assert.Equal(t, "$unwind", p[1][0].Key)
	assert.Equal(t, "$group", p[3][0].Key)
	assert.Equal(t, bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}, p[4][0].Value)
}

func TestProductRepoTagCounts(t *testing.T) {
	mt := newMock(t)
	mt.Run("decodes rows", func(mt *mtest.T) {
		repo := NewProductRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "shop.products", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "gold"}, {Key: "count", Value: int32(2)}},
			bson.D{{Key: "_id", Value: "silver"}, {Key: "count", Value: int32(1)}},
		))

		rows, err := repo.TagCounts(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, []model.TagCount{{Tag: "gold", Count: 2}, {Tag: "silver", Count: 1}}, rows)
	})
}

func TestProductRepoCreate(t *testing.T) {
	mt := newMock(t)

	mt.Run("normalizes tags", func(mt *mtest.T) {
		repo := NewProductRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		p := &model.Product{Name: "Ring", Slug: "ring", Tags: []string{"Gold", " gold ", "festive"}}
		require.NoError(mt, repo.Create(context.Background(), p))
		assert.Equal(mt, []string{"gold", "festive"}, p.Tags)
		assert.False(mt, p.CreatedAt.IsZero())
	})

	mt.Run("duplicate slug", func(mt *mtest.T) {
		repo := NewProductRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		err := repo.Create(context.Background(), &model.Product{Slug: "ring"})
		assert.ErrorIs(mt, err, ErrConflict)
	})
}

func TestProductRepoInvalidID(t *testing.T) {
	mt := newMock(t)
	mt.Run("invalid id", func(mt *mtest.T) {
		repo := NewProductRepo(mt.DB)
		_, err := repo.Update(context.Background(), "nope", model.Product{})
		assert.ErrorIs(mt, err, ErrInvalidID)
		assert.ErrorIs(mt, repo.Delete(context.Background(), "nope"), ErrInvalidID)
	})
}

func TestOrderRepoMarkPaid(t *testing.T) {
	mt := newMock(t)
	payment := model.Payment{UserID: "user_1", Amount: 2500, PaidAt: time.Now().UTC()}

	mt.Run("matched", func(mt *mtest.T) {
		repo := NewOrderRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))
		assert.NoError(mt, repo.MarkPaid(context.Background(), "ord123", payment))
	})

	mt.Run("no such order", func(mt *mtest.T) {
		repo := NewOrderRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))
		assert.ErrorIs(mt, repo.MarkPaid(context.Background(), "missing", payment), ErrNotFound)
	})
}

func TestOrderRepoListByUser(t *testing.T) {
	mt := newMock(t)
	mt.Run("list", func(mt *mtest.T) {
		repo := NewOrderRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "shop.orders", mtest.FirstBatch,
			bson.D{{Key: "orderId", Value: "ord2"}, {Key: "userId", Value: "user_1"}, {Key: "status", Value: "paid"}},
			bson.D{{Key: "orderId", Value: "ord1"}, {Key: "userId", Value: "user_1"}, {Key: "status", Value: "pending"}},
		))

		orders, err := repo.ListByUser(context.Background(), "user_1")
		require.NoError(mt, err)
		require.Len(mt, orders, 2)
		assert.Equal(mt, "ord2", orders[0].OrderID)
		assert.Equal(mt, model.OrderPending, orders[1].Status)
	})
}

func TestKpiRepoUpsert(t *testing.T) {
	mt := newMock(t)
	mt.Run("returns stored document", func(mt *mtest.T) {
		repo := NewKpiRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "key", Value: "revenue"},
			{Key: "label", Value: "Revenue"},
			{Key: "value", Value: 1200.5},
		}}))

		k, err := repo.Upsert(context.Background(), model.Kpi{Key: "revenue", Label: "Revenue", Value: 1200.5})
		require.NoError(mt, err)
		assert.Equal(mt, "revenue", k.Key)
		assert.InDelta(mt, 1200.5, k.Value, 0.001)
	})
}

func TestInvoiceTemplateRepoDefault(t *testing.T) {
	mt := newMock(t)
	mt.Run("find or create", func(mt *mtest.T) {
		repo := NewInvoiceTemplateRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "name", Value: "Default"},
			{Key: "isDefault", Value: true},
		}}))

		tpl, err := repo.Default(context.Background())
		require.NoError(mt, err)
		assert.True(mt, tpl.IsDefault)
		assert.Equal(mt, "Default", tpl.Name)
	})
}
