package domain

// Dataset identifies one of the raw extracts the pipeline reads.
type Dataset string

const (
	DatasetOrders     Dataset = "orders"
	DatasetOrderItems Dataset = "order_items"
	DatasetCustomers  Dataset = "customers"
)

// OrderStatus is the lifecycle status carried by an order row
type OrderStatus string

const (
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusCanceled   OrderStatus = "canceled"
	OrderStatusInvoiced   OrderStatus = "invoiced"
	OrderStatusProcessing OrderStatus = "processing"
)

// Order columns
const (
	ColOrderID                    = "order_id"
	ColCustomerID                 = "customer_id"
	ColOrderStatus                = "order_status"
	ColOrderPurchaseTimestamp     = "order_purchase_timestamp"
	ColOrderApprovedAt            = "order_approved_at"
	ColOrderDeliveredCarrierDate  = "order_delivered_carrier_date"
	ColOrderDeliveredCustomerDate = "order_delivered_customer_date"
	ColOrderEstimatedDeliveryDate = "order_estimated_delivery_date"
)

// Order item columns
const (
	ColOrderItemID       = "order_item_id"
	ColProductID         = "product_id"
	ColSellerID          = "seller_id"
	ColShippingLimitDate = "shipping_limit_date"
	ColPrice             = "price"
	ColFreightValue      = "freight_value"
)

// Customer columns
const (
	ColCustomerUniqueID      = "customer_unique_id"
	ColCustomerZipCodePrefix = "customer_zip_code_prefix"
	ColCustomerCity          = "customer_city"
	ColCustomerState         = "customer_state"
)

// ColItemRevenue is the derived per-line revenue column of the fact table.
const ColItemRevenue = "item_revenue"

// OrderDateColumns lists the order columns that hold timestamps.
func OrderDateColumns() []string {
	return []string{
		ColOrderPurchaseTimestamp,
		ColOrderApprovedAt,
		ColOrderDeliveredCarrierDate,
		ColOrderDeliveredCustomerDate,
		ColOrderEstimatedDeliveryDate,
	}
}

// OrderColumns is the source schema of the orders extract
func OrderColumns() []string {
	return append([]string{ColOrderID, ColCustomerID, ColOrderStatus}, OrderDateColumns()...)
}

// OrderItemColumns is the source schema of the order items extract
func OrderItemColumns() []string {
	return []string{
		ColOrderID,
		ColOrderItemID,
		ColProductID,
		ColSellerID,
		ColShippingLimitDate,
		ColPrice,
		ColFreightValue,
	}
}

// CustomerColumns is the source schema of the customers extract
func CustomerColumns() []string {
	return []string{
		ColCustomerID,
		ColCustomerUniqueID,
		ColCustomerZipCodePrefix,
		ColCustomerCity,
		ColCustomerState,
	}
}
