package model

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleOrder(t *testing.T) {
	assert.True(t, RoleAdmin.AtLeast(RoleManager))
	assert.True(t, RoleManager.AtLeast(RoleManager))
	assert.False(t, RoleUser.AtLeast(RoleManager))
	assert.False(t, Role("admin").Valid())
	assert.False(t, Role("ROOT").AtLeast(RoleUser))
}

func TestReviewStatsAverage(t *testing.T) {
	assert.Equal(t, 4.0, ReviewStats{ReviewCount: 2, RateSum: 8}.AverageRating())
	assert.Equal(t, 0.0, ReviewStats{}.AverageRating())
}

func TestProductOnSale(t *testing.T) {
	p := Product{Price: decimal.RequireFromString("10.00")}
	assert.False(t, p.OnSale())

	p.PriceOld = decimal.NewNullDecimal(decimal.RequireFromString("12.50"))
	assert.True(t, p.OnSale())
}

func TestCategoryNodeJSON(t *testing.T) {
	node := CategoryNode{Category: Category{ID: 1, TitleENG: "Shoes", TitleUA: "Взуття"}, SubCategories: []Category{}}

	raw, err := json.Marshal(node)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "Shoes", out["titleENG"])
	assert.Equal(t, []any{}, out["subCategories"])
	assert.Nil(t, out["parentId"])
}

func TestUserPasswordNotSerialized(t *testing.T) {
	raw, err := json.Marshal(User{Email: "a@b.com", Password: "hash"})
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "hash")
}
