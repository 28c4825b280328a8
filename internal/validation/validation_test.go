package validation

import (
	"encoding/json"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-service/pkg/apperr"
)

func mustJSON(t *testing.T, body string) Fields {
	t.Helper()
	in, err := FromJSON(strings.NewReader(body))
	require.NoError(t, err)
	return in
}

func fieldsOf(vs []apperr.Violation) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.Field)
	}
	return out
}

func TestRegisterAccumulatesViolations(t *testing.T) {
	vs := Register().Validate(mustJSON(t, `{"email":"not-an-email","password":"short"}`))

	require.GreaterOrEqual(t, len(vs), 2)
	assert.Contains(t, vs, apperr.Violation{Field: "email", Message: "Invalid email format"})
	assert.Contains(t, vs, apperr.Violation{Field: "password", Message: "Password must contain at least one number"})
	assert.Contains(t, fieldsOf(vs), "confirmPassword")
	assert.Contains(t, fieldsOf(vs), "phone")
}

func TestRegisterValid(t *testing.T) {
	in := mustJSON(t, `{
		"email":"anna@shop.test","password":"abc12!","confirmPassword":"abc12!",
		"name":"Anna","lastname":"Koval","phone":"+380501234567"}`)
	assert.Empty(t, Register().Validate(in))
	assert.NoError(t, Register().Check(in))
}

func TestPasswordConfirmationComparesRawValues(t *testing.T) {
	in := mustJSON(t, `{
		"email":"anna@shop.test","password":"abc12!","confirmPassword":"abc12?",
		"name":"Anna","lastname":"Koval","phone":"0501234567"}`)
	vs := Register().Validate(in)
	assert.Equal(t, []apperr.Violation{{Field: "confirmPassword", Message: "Passwords do not match"}}, vs)
}

func TestFirstFailingRulePerField(t *testing.T) {
	vs := Register().Validate(mustJSON(t, `{"password":""}`))
	for _, v := range vs {
		if v.Field == "password" {
			assert.Equal(t, "Password must be provided", v.Message)
		}
	}
	assert.Len(t, vs, 6)
}

func TestNameMustStartUppercase(t *testing.T) {
	vs := Schema{personName(Create, "name", "Name")}.Validate(Fields{"name": "олена"})
	assert.Equal(t, "Name must start with an uppercase letter", vs[0].Message)

	assert.Empty(t, Schema{personName(Create, "name", "Name")}.Validate(Fields{"name": "Олена"}))
}

func TestEnumMembershipIsCaseSensitive(t *testing.T) {
	in := Fields{"status": "in_stock"}
	vs := Schema{Product(Update)[10]}.Validate(in)
	require.Len(t, vs, 1)
	assert.Equal(t, "Invalid status provided. Must be one of: IN_STOCK, NOT_AVAILABLE, DELIVERY_AWAITED", vs[0].Message)
}

func TestProductCreateAndUpdate(t *testing.T) {
	valid := mustJSON(t, `{
		"titleENG":"Shirt","titleUA":"Сорочка","descriptionENG":"Cotton shirt","descriptionUA":"Бавовняна",
		"size":"M","article":1001,"quantity":null,"price":19.99,"price_old":24.50,"categoryId":3,"status":"IN_STOCK"}`)
	assert.Empty(t, Product(Create).Validate(valid))

	bad := mustJSON(t, `{"price":19.9,"article":"abc"}`)
	vs := Product(Update).Validate(bad)
	assert.ElementsMatch(t, []string{"price", "article"}, fieldsOf(vs))

	assert.Empty(t, Product(Update).Validate(Fields{}))
	assert.Len(t, Product(Create).Validate(Fields{}), 8)
}

func TestReferenceIdsMustBePositive(t *testing.T) {
	tests := map[string]struct {
		schema Schema
		in     Fields
		want   apperr.Violation
	}{
		"product category": {
			schema: Product(Update),
			in:     Fields{"categoryId": json.Number("-1")},
			want:   apperr.Violation{Field: "categoryId", Message: "Category id must be a positive number"},
		},
		"category parent": {
			schema: Category(Update),
			in:     Fields{"parentId": json.Number("-2")},
			want:   apperr.Violation{Field: "parentId", Message: "Parent id must be a positive number"},
		},
		"order user": {
			schema: Order(Update),
			in:     Fields{"userId": json.Number("-5")},
			want:   apperr.Violation{Field: "userId", Message: "User ID must be a positive number"},
		},
		"line item product": {
			schema: LineItem(),
			in:     Fields{"productId": json.Number("-3"), "quantity": json.Number("1")},
			want:   apperr.Violation{Field: "productId", Message: "Product id must be a positive number"},
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, []apperr.Violation{tt.want}, tt.schema.Validate(tt.in))
		})
	}

	assert.Empty(t, Product(Update).Validate(Fields{"categoryId": nil}))
	assert.Empty(t, Category(Update).Validate(Fields{"parentId": nil}))
}

func TestFormValuesAcceptStringIntegers(t *testing.T) {
	in := FromForm(url.Values{
		"titleENG": {"Boots"}, "titleUA": {"Чоботи"}, "descriptionENG": {"Leather boots"},
		"descriptionUA": {"Шкіряні чоботи"}, "size": {"42"}, "article": {"77"}, "price": {"100"},
		"price_old": {""}, "categoryId": {"2"}, "status": {"DELIVERY_AWAITED"},
	})
	assert.Empty(t, Product(Create).Validate(in))
	assert.Equal(t, 77, in.Int("article"))
	assert.Nil(t, in["price_old"])
	assert.False(t, in.NullDecimal("price_old").Valid)
}

func TestOrderCreateLineItems(t *testing.T) {
	in := mustJSON(t, `{
		"name":"Ivan","lastname":"Franko","phone":"0501234567","deliveryMethod":"MONO",
		"address":"Lviv, 1 Main st","status":"NEW",
		"products":[{"productId":1,"quantity":2},{"productId":"x","quantity":0},"bad"]}`)
	vs := OrderCreate(in)
	assert.ElementsMatch(t, []string{"products[1].productId", "products[1].quantity", "products[2]"}, fieldsOf(vs))

	empty := mustJSON(t, `{"name":"Ivan","lastname":"Franko","phone":"0501234567","deliveryMethod":"CASH",
		"address":"Lviv","status":"NEW","products":[]}`)
	vs = OrderCreate(empty)
	assert.ElementsMatch(t, []string{"deliveryMethod", "address", "products"}, fieldsOf(vs))
}

func TestReviewMessagesByMode(t *testing.T) {
	vs := Review(Create).Validate(Fields{"productId": json.Number("3"), "text": "ok", "rate": "five"})
	assert.Equal(t, []apperr.Violation{{Field: "rate", Message: "Rate must be a number"}}, vs)

	vs = Review(Create).Validate(Fields{"text": "ok", "rate": json.Number("5")})
	assert.Equal(t, []apperr.Violation{{Field: "productId", Message: "Product id must be provided"}}, vs)

	vs = Review(Update).Validate(Fields{"rate": json.Number("4.5")})
	assert.Equal(t, []apperr.Violation{{Field: "rate", Message: "Rate must be a integer"}}, vs)
}

func TestRequiredRejectsFalsyValues(t *testing.T) {
	c := Field("article").Required("Article must be provided").Int("Article must be a number")
	for _, v := range []any{nil, "", json.Number("0"), false} {
		_, ok := c.Validate(Fields{"article": v})
		assert.False(t, ok, "%v", v)
	}
	_, ok := c.Validate(Fields{})
	assert.False(t, ok)
}

func TestCheckWrapsViolations(t *testing.T) {
	err := Login().Check(Fields{})
	require.Error(t, err)
	assert.Equal(t, apperr.EInvalid, apperr.ErrorCode(err))
	assert.Len(t, apperr.ViolationsOf(err), 2)

	assert.NoError(t, Login().Check(Fields{"email": "a@b.com", "password": "x"}))
}

func TestColumnsExtract(t *testing.T) {
	cols := Columns{
		"titleENG":   {Name: "title_eng", Kind: KindString},
		"price":      {Name: "price", Kind: KindDecimal},
		"price_old":  {Name: "price_old", Kind: KindNullableDecimal},
		"categoryId": {Name: "category_id", Kind: KindNullableUint},
		"quantity":   {Name: "quantity", Kind: KindNullableInt},
	}
	out := cols.Extract(mustJSON(t, `{"titleENG":"Hat","price":9.99,"price_old":null,"categoryId":4}`))

	assert.Equal(t, "Hat", out["title_eng"])
	assert.True(t, decimal.RequireFromString("9.99").Equal(out["price"].(decimal.Decimal)))
	assert.Equal(t, decimal.NullDecimal{}, out["price_old"])
	assert.Equal(t, uint(4), out["category_id"])
	assert.NotContains(t, out, "quantity")
}

func TestFromJSON(t *testing.T) {
	in, err := FromJSON(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, in)

	_, err = FromJSON(strings.NewReader("{"))
	assert.Error(t, err)
}
