package dataset

import "fmt"

type Name string

const (
	Orders     Name = "orders"
	OrderItems Name = "order_items"
	Products   Name = "products"
	Customers  Name = "customers"
	Reviews    Name = "reviews"
)

// All lists the datasets in load order.
var All = []Name{Orders, OrderItems, Products, Customers, Reviews}

const (
	ColOrderID               = "order_id"
	ColCustomerID            = "customer_id"
	ColOrderStatus           = "order_status"
	ColPurchaseTimestamp     = "order_purchase_timestamp"
	ColApprovedAt            = "order_approved_at"
	ColDeliveredCarrierDate  = "order_delivered_carrier_date"
	ColDeliveredCustomerDate = "order_delivered_customer_date"
	ColEstimatedDeliveryDate = "order_estimated_delivery_date"
	ColProductID             = "product_id"
	ColPrice                 = "price"
	ColCategory              = "product_category_name"
	ColReviewScore           = "review_score"
	ColOrderItemID           = "order_item_id"
	ColReviewID              = "review_id"
)

var requiredColumns = map[Name][]string{
	Orders: {
		ColOrderID,
		ColCustomerID,
		ColPurchaseTimestamp,
		ColApprovedAt,
		ColDeliveredCarrierDate,
		ColDeliveredCustomerDate,
		ColEstimatedDeliveryDate,
	},
	OrderItems: {ColOrderID, ColProductID, ColPrice},
	Products:   {ColProductID, ColCategory},
	Customers:  {ColCustomerID},
	Reviews:    {ColOrderID, ColReviewScore},
}

var optionalColumns = map[Name][]string{
	Orders: {ColOrderStatus},
}

// storedColumns are the DDL columns when they differ from Columns.
var storedColumns = map[Name][]string{
	OrderItems: {ColOrderID, ColOrderItemID, ColProductID, ColPrice},
	Reviews:    {ColReviewID, ColOrderID, ColReviewScore},
}

// RequiredColumns returns the columns a source for the dataset must carry.
func RequiredColumns(name Name) []string {
	return append([]string(nil), requiredColumns[name]...)
}

// Columns returns the required columns followed by the optional ones.
func Columns(name Name) []string {
	return append(RequiredColumns(name), optionalColumns[name]...)
}

// StoredColumns returns the columns of the dataset's SQL table.
func StoredColumns(name Name) []string {
	if cols, ok := storedColumns[name]; ok {
		return append([]string(nil), cols...)
	}
	return Columns(name)
}

func GetOrdersSchema() string {
	return `
		CREATE TABLE IF NOT EXISTS orders (
			order_id VARCHAR(255) PRIMARY KEY,
			customer_id VARCHAR(255) NOT NULL,
			order_status VARCHAR(32),
			order_purchase_timestamp VARCHAR(32),
			order_approved_at VARCHAR(32),
			order_delivered_carrier_date VARCHAR(32),
			order_delivered_customer_date VARCHAR(32),
			order_estimated_delivery_date VARCHAR(32)
		);
	`
}

func GetOrderItemsSchema() string {
	return `
		CREATE TABLE IF NOT EXISTS order_items (
			order_id VARCHAR(255) NOT NULL,
			order_item_id INT NOT NULL,
			product_id VARCHAR(255) NOT NULL,
			price DECIMAL(10, 2) NOT NULL,
			PRIMARY KEY (order_id, order_item_id)
		);
	`
}

func GetProductsSchema() string {
	return `
		CREATE TABLE IF NOT EXISTS products (
			product_id VARCHAR(255) PRIMARY KEY,
			product_category_name VARCHAR(255)
		);
	`
}

func GetCustomersSchema() string {
	return `
		CREATE TABLE IF NOT EXISTS customers (
			customer_id VARCHAR(255) NOT NULL
		);
	`
}

func GetReviewsSchema() string {
	return `
		CREATE TABLE IF NOT EXISTS reviews (
			review_id VARCHAR(255) NOT NULL,
			order_id VARCHAR(255) NOT NULL,
			review_score INT NOT NULL
		);
	`
}

// Schema returns the SQL DDL for a dataset table. Timestamps are kept as text
// so every SQL backend hands them back in the same form as the CSV files.
func Schema(name Name) (string, error) {
	switch name {
	case Orders:
		return GetOrdersSchema(), nil
	case OrderItems:
		return GetOrderItemsSchema(), nil
	case Products:
		return GetProductsSchema(), nil
	case Customers:
		return GetCustomersSchema(), nil
	case Reviews:
		return GetReviewsSchema(), nil
	}
	return "", fmt.Errorf("unknown dataset %q", name)
}

/*
MongoDB document structure (one collection per dataset, fields named as the columns):

orders: {
  order_id: <string>,
  customer_id: <string>,
  order_status: <string>,
  order_purchase_timestamp: <string | date>,
  ...
}

order_items: { order_id: <string>, product_id: <string>, price: <number> }
*/
