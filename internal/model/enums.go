package model

// Role is the privilege level of a user account
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleUser    Role = "USER"
)

// RoleValues lists the accepted roles
func RoleValues() []string {
	return []string{string(RoleAdmin), string(RoleManager), string(RoleUser)}
}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	return r.Rank() > 0
}

// Rank orders roles by privilege: ADMIN > MANAGER > USER. Unknown roles rank 0.
func (r Role) Rank() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleManager:
		return 2
	case RoleUser:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether r carries at least the privilege of min
func (r Role) AtLeast(min Role) bool {
	return r.Valid() && r.Rank() >= min.Rank()
}

// ProductStatus is the stock state of a product
type ProductStatus string

const (
	ProductInStock         ProductStatus = "IN_STOCK"
	ProductNotAvailable    ProductStatus = "NOT_AVAILABLE"
	ProductDeliveryAwaited ProductStatus = "DELIVERY_AWAITED"
)

func ProductStatusValues() []string {
	return []string{string(ProductInStock), string(ProductNotAvailable), string(ProductDeliveryAwaited)}
}

// DeliveryMethod is how an order is paid and shipped
type DeliveryMethod string

const (
	DeliveryAfterpay DeliveryMethod = "AFTERPAY"
	DeliveryOnCard   DeliveryMethod = "ONCARD"
	DeliveryVisaMC   DeliveryMethod = "VISAMC"
	DeliveryPrivate  DeliveryMethod = "PRIVATE"
	DeliveryMono     DeliveryMethod = "MONO"
)

func DeliveryMethodValues() []string {
	return []string{
		string(DeliveryAfterpay), string(DeliveryOnCard), string(DeliveryVisaMC),
		string(DeliveryPrivate), string(DeliveryMono),
	}
}

// OrderStatus is the fulfilment state of an order
type OrderStatus string

const (
	OrderNew            OrderStatus = "NEW"
	OrderWaitingPayment OrderStatus = "WAITINGPAYMENT"
	OrderPayed          OrderStatus = "PAYED"
	OrderProcessed      OrderStatus = "PROCESSED"
	OrderPacking        OrderStatus = "PACKING"
	OrderInDelivery     OrderStatus = "INDELIVERY"
	OrderDone           OrderStatus = "DONE"
	OrderCanceled       OrderStatus = "CANCELED"
)

func OrderStatusValues() []string {
	return []string{
		string(OrderNew), string(OrderWaitingPayment), string(OrderPayed), string(OrderProcessed),
		string(OrderPacking), string(OrderInDelivery), string(OrderDone), string(OrderCanceled),
	}
}
