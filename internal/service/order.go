package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"shop-service/internal/model"
	"shop-service/internal/repository"
	"shop-service/internal/validation"
	"shop-service/pkg/apperr"
)

var orderColumns = validation.Columns{
	"userId":         {Name: "user_id", Kind: validation.KindNullableUint},
	"name":           {Name: "name", Kind: validation.KindString},
	"lastname":       {Name: "lastname", Kind: validation.KindString},
	"phone":          {Name: "phone", Kind: validation.KindString},
	"deliveryMethod": {Name: "delivery_method", Kind: validation.KindString},
	"address":        {Name: "address", Kind: validation.KindString},
	"comment":        {Name: "comment", Kind: validation.KindString},
	"status":         {Name: "status", Kind: validation.KindString},
}

// LineItem is one requested product of a new order
type LineItem struct {
	ProductID  uint
	Quantity   int
	Parameters string
}

// OrderService creates orders and aggregates them with their line items
type OrderService struct {
	store *repository.Store
}

func NewOrderService(store *repository.Store) *OrderService {
	return &OrderService{store: store}
}

func (s *OrderService) List(ctx context.Context) ([]model.Order, error) {
	return s.store.Orders.FindAll(ctx)
}

// GetByID returns the order with its line items.
func (s *OrderService) GetByID(ctx context.Context, id uint) (*model.Order, error) {
	order, ok, err := s.store.Orders.FindByKey(ctx, id, repository.WithItems)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound("order_not_found")
	}
	return &order, nil
}

// ListOrdersByUser returns the user's orders joined with their line items
// and the fixed product projection. A user without orders is not found.
func (s *OrderService) ListOrdersByUser(ctx context.Context, userID uint) ([]model.Order, error) {
	if err := RequirePresent(ctx, s.store.Users, "id", userID, "User not found"); err != nil {
		return nil, err
	}
	orders, err := s.store.Orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, apperr.NotFound("orders_not_found")
	}
	return orders, nil
}

func lineItems(in validation.Fields) []LineItem {
	raw := in.List("products")
	items := make([]LineItem, 0, len(raw))
	for _, f := range raw {
		var productID uint
		if p := f.UintPtr("productId"); p != nil {
			productID = *p
		}
		items = append(items, LineItem{ProductID: productID, Quantity: f.Int("quantity"), Parameters: f.String("parameters")})
	}
	return items
}

// CreateOrder inserts the order and all of its line items in one
// transaction. Subtotals are priced from the stored products and totalSum is
// their sum. Any failure leaves no order behind.
func (s *OrderService) CreateOrder(ctx context.Context, in validation.Fields) (*model.Order, error) {
	if err := validation.Check(validation.OrderCreate(in)); err != nil {
		return nil, err
	}
	items := lineItems(in)

	order := model.Order{
		UserID:         in.UintPtr("userId"),
		Name:           in.String("name"),
		Lastname:       in.String("lastname"),
		Phone:          in.String("phone"),
		DeliveryMethod: model.DeliveryMethod(in.String("deliveryMethod")),
		Address:        in.String("address"),
		Comment:        in.String("comment"),
		Status:         model.OrderStatus(in.String("status")),
	}

	err := s.store.Tx(ctx, func(tx *repository.Store) error {
		if order.UserID != nil {
			if err := RequirePresent(ctx, tx.Users, "id", *order.UserID, "User not found"); err != nil {
				return err
			}
		}

		lines := make([]model.OrderProduct, 0, len(items))
		total := decimal.Zero
		for _, item := range items {
			product, ok, err := tx.Products.FindByKey(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if !ok {
				return apperr.NotFound(fmt.Sprintf("Product with ID %d not found", item.ProductID))
			}
			subtotal := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			total = total.Add(subtotal)
			lines = append(lines, model.OrderProduct{
				ProductID:  item.ProductID,
				Quantity:   item.Quantity,
				Parameters: item.Parameters,
				Subtotal:   subtotal,
			})
		}

		order.TotalSum = total
		if err := tx.Orders.Create(ctx, &order); err != nil {
			return err
		}
		for i := range lines {
			lines[i].OrderID = order.ID
			if err := tx.OrderItems.Create(ctx, &lines[i]); err != nil {
				return err
			}
		}
		order.Items = lines
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Update writes the supplied order fields. Line items are not editable.
func (s *OrderService) Update(ctx context.Context, id uint, in validation.Fields) (*model.Order, error) {
	if err := validation.Order(validation.Update).Check(in); err != nil {
		return nil, err
	}
	if err := RequirePresent(ctx, s.store.Orders, "id", id, "Order not found"); err != nil {
		return nil, err
	}
	if userID := in.UintPtr("userId"); userID != nil {
		if err := RequirePresent(ctx, s.store.Users, "id", *userID, "User not found"); err != nil {
			return nil, err
		}
	}
	if err := s.store.Orders.Update(ctx, id, orderColumns.Extract(in)); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Delete removes the order together with its line items.
func (s *OrderService) Delete(ctx context.Context, id uint) error {
	return s.store.Tx(ctx, func(tx *repository.Store) error {
		if _, err := tx.OrderItems.DeleteWhere(ctx, "order_id", id); err != nil {
			return err
		}
		deleted, err := tx.Orders.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return apperr.NotFound(fmt.Sprintf("Order with ID %d not found or already deleted.", id))
		}
		return nil
	})
}
