package cqrs

// PageQuery is an offset window over a listing.
type PageQuery struct {
	Skip int
	Take int
}

// ---------- User queries ----------

type GetUserQuery struct {
	UserID string
}

type ListUsersQuery struct {
	PageQuery
}

// ---------- Product queries ----------

type GetProductQuery struct {
	ProductID string
}

type ListProductsQuery struct {
	PageQuery
}

// ---------- Order queries ----------

type GetOrderQuery struct {
	OrderID string
}

type ListOrdersQuery struct {
	PageQuery
}

type ListUserOrdersQuery struct {
	UserID string
	PageQuery
}

// ---------- Payment queries ----------

type GetPaymentQuery struct {
	PaymentID string
}

type GetPaymentByOrderQuery struct {
	OrderID string
}

type ListPaymentsQuery struct {
	PageQuery
}
