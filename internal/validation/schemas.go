package validation

import (
	"fmt"
	"regexp"
	"strings"

	"shop-service/internal/model"
	"shop-service/pkg/apperr"
)

var (
	hasLetter    = regexp.MustCompile(`\pL`)
	hasDigit     = regexp.MustCompile(`\d`)
	hasSpecial   = regexp.MustCompile(`[!@#$%^&*]`)
	upperInitial = regexp.MustCompile(`^\p{Lu}`)
	phoneDigits  = regexp.MustCompile(`^\+?\d+$`)
)

func email(mode Mode) *Chain {
	return field(mode, "email", "Email must be provided").
		String("Email must be a string").
		Email("Invalid email format")
}

func password(mode Mode) *Chain {
	return field(mode, "password", "Password must be provided").
		String("Password must be a string").
		MinLen(5, "Password must be at least 5 characters long").
		Matches(hasLetter, "Password must contain at least one letter").
		Matches(hasDigit, "Password must contain at least one number").
		Matches(hasSpecial, "Password must contain at least one special character (!@#$%^&*)")
}

func personName(mode Mode, key, label string) *Chain {
	return field(mode, key, label+" must be provided").
		String(label+" must be a string").
		Matches(upperInitial, label+" must start with an uppercase letter")
}

func phone(mode Mode) *Chain {
	return field(mode, "phone", "Phone number must be provided").
		String("Phone number must be a string").
		Length(10, 15, "Phone number must be between 10 and 15 characters long").
		Matches(phoneDigits, "Invalid phone number: only digits with an optional leading + are allowed")
}

func title(mode Mode, key, lang string, min int) *Chain {
	return field(mode, key, lang+" title must be provided").
		String(lang+" title must be a string").
		MinLen(min, fmt.Sprintf("%s title must be at least %d characters long", lang, min))
}

func description(mode Mode, key, lang string) *Chain {
	return field(mode, key, lang+" description must be provided").
		String(lang+" description must be a string").
		MinLen(5, lang+" description must be at least 5 characters long")
}

// Register validates sign-up requests.
func Register() Schema {
	return Schema{
		email(Create),
		password(Create),
		Field("confirmPassword").
			Required("Password confirmation must be provided").
			String("Password confirmation must be a string").
			Equals("password", "Passwords do not match"),
		personName(Create, "name", "Name"),
		personName(Create, "lastname", "Last name"),
		phone(Create),
	}
}

// Login only checks that credentials were sent.
func Login() Schema {
	return Schema{
		Field("email").Required("Email must be provided").String("Email must be a string"),
		Field("password").Required("Password must be provided").String("Password must be a string"),
	}
}

// User validates admin user management requests.
func User(mode Mode) Schema {
	return Schema{
		email(mode),
		password(mode),
		personName(mode, "name", "Name"),
		personName(mode, "lastname", "Last name"),
		phone(mode),
		field(mode, "role", "Role must be provided").
			OneOf(model.RoleValues(), "Invalid Role"),
	}
}

func Category(mode Mode) Schema {
	return Schema{
		title(mode, "titleENG", "English", 1),
		title(mode, "titleUA", "Ukrainian", 1),
		Field("imagePath").Nullable().String("Image path must be a string"),
		Field("parentId").Nullable().
			Int("Parent id must be a number").
			Min(1, "Parent id must be a positive number"),
	}
}

func Product(mode Mode) Schema {
	statuses := model.ProductStatusValues()
	return Schema{
		title(mode, "titleENG", "English", 2),
		title(mode, "titleUA", "Ukrainian", 2),
		description(mode, "descriptionENG", "English"),
		description(mode, "descriptionUA", "Ukrainian"),
		field(mode, "size", "Size must be provided").String("Size must be a string"),
		field(mode, "article", "Article must be provided").Int("Article must be a number"),
		Field("quantity").Nullable().Int("Quantity must be a number"),
		field(mode, "price", "Price must be provided").
			Decimal(2, "Price must be a decimal number with 2 digits after the decimal point"),
		Field("price_old").Nullable().
			Decimal(2, "Old price must be a decimal number with 2 digits after the decimal point"),
		Field("categoryId").Nullable().
			Int("Category id must be a number").
			Min(1, "Category id must be a positive number"),
		field(mode, "status", "Status must be provided").
			OneOf(statuses, "Invalid status provided. Must be one of: "+strings.Join(statuses, ", ")),
	}
}

func Order(mode Mode) Schema {
	s := Schema{
		Field("userId").Nullable().
			Int("User ID must be a number").
			Min(1, "User ID must be a positive number"),
		personName(mode, "name", "Name"),
		personName(mode, "lastname", "Last name"),
		phone(mode),
		field(mode, "deliveryMethod", "DeliveryMethod must be provided").
			OneOf(model.DeliveryMethodValues(), "Invalid DeliveryMethod"),
		field(mode, "address", "Address must be provided").
			String("Address must be a string").
			MinLen(5, "Address must be at least 5 characters long"),
		Field("comment").Nullable().
			String("Comment must be a string").
			MinLen(2, "Comment must be at least 2 characters long"),
		field(mode, "status", "Status must be provided").
			OneOf(model.OrderStatusValues(), "Invalid Status"),
	}
	if mode == Create {
		s = append(s, Field("products").
			Required("Products must be provided").
			Rule("Products must be a non-empty list", func(v any, _ Fields) bool {
				items, ok := v.([]any)
				return ok && len(items) > 0
			}))
	}
	return s
}

// LineItem validates one element of an order's products list.
func LineItem() Schema {
	return Schema{
		Field("productId").Required("Product id must be provided").
			Int("Product id must be a number").
			Min(1, "Product id must be a positive number"),
		Field("quantity").Required("Quantity must be provided").
			Int("Quantity must be a number").
			Min(1, "Quantity must be at least 1"),
		Field("parameters").Nullable().String("Parameters must be a string"),
	}
}

// OrderCreate validates the order fields and every line item. Line item
// violations are reported as products[i].field.
func OrderCreate(in Fields) []apperr.Violation {
	out := Order(Create).Validate(in)
	items, _ := in["products"].([]any)
	for i, raw := range items {
		item, ok := raw.(map[string]any)
		if !ok {
			out = append(out, apperr.Violation{Field: fmt.Sprintf("products[%d]", i), Message: "Product must be an object"})
			continue
		}
		for _, v := range LineItem().Validate(Fields(item)) {
			v.Field = fmt.Sprintf("products[%d].%s", i, v.Field)
			out = append(out, v)
		}
	}
	return out
}

func Review(mode Mode) Schema {
	rateMsg := "Rate must be a number"
	if mode == Update {
		rateMsg = "Rate must be a integer"
	}
	return Schema{
		field(mode, "productId", "Product id must be provided").
			Int("Product id must be a number").
			Min(1, "Product id must be a positive number"),
		field(mode, "text", "Text must be provided").
			String("Text must be a string").
			MinLen(1, "Text must be at least 1 characters long"),
		field(mode, "rate", "Rate must be provided").Int(rateMsg),
	}
}
