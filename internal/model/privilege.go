package model

// Privilege is a resource:action permission code.
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name string `gorm:"type:varchar(100)" json:"name"`
}

const (
	PrivUserView   = "user:view"
	PrivUserCreate = "user:create"
	PrivUserUpdate = "user:update"
	PrivUserDelete = "user:delete"
	PrivRoleView   = "role:view"

	PrivProductView   = "product:view"
	PrivProductCreate = "product:create"
	PrivProductUpdate = "product:update"
	PrivProductDelete = "product:delete"

	PrivStockView   = "stock:view"
	PrivStockUpdate = "stock:update"

	PrivWarehouseManage = "warehouse:manage"
	PrivCustomerView    = "customer:view"
	PrivCustomerManage  = "customer:manage"
	PrivSupplierManage  = "supplier:manage"

	PrivPurchaseView    = "purchase:view"
	PrivPurchaseCreate  = "purchase:create"
	PrivPurchaseReceive = "purchase:receive"
	PrivPurchasePay     = "purchase:pay"

	PrivOrderView   = "order:view"
	PrivOrderCreate = "order:create"
	PrivOrderUpdate = "order:update"

	PrivReportView = "report:view"
)

var DefaultPrivileges = []Privilege{
	{Code: PrivUserView, Name: "View User"},
	{Code: PrivUserCreate, Name: "Create User"},
	{Code: PrivUserUpdate, Name: "Update User"},
	{Code: PrivUserDelete, Name: "Delete User"},
	{Code: PrivRoleView, Name: "View Role"},
	{Code: PrivProductView, Name: "View Product"},
	{Code: PrivProductCreate, Name: "Create Product"},
	{Code: PrivProductUpdate, Name: "Update Product"},
	{Code: PrivProductDelete, Name: "Delete Product"},
	{Code: PrivStockView, Name: "View Stock"},
	{Code: PrivStockUpdate, Name: "Update Stock"},
	{Code: PrivWarehouseManage, Name: "Manage Warehouse"},
	{Code: PrivCustomerView, Name: "View Customer"},
	{Code: PrivCustomerManage, Name: "Manage Customer"},
	{Code: PrivSupplierManage, Name: "Manage Supplier"},
	{Code: PrivPurchaseView, Name: "View Purchase"},
	{Code: PrivPurchaseCreate, Name: "Create Purchase"},
	{Code: PrivPurchaseReceive, Name: "Receive Purchase"},
	{Code: PrivPurchasePay, Name: "Pay Purchase"},
	{Code: PrivOrderView, Name: "View Order"},
	{Code: PrivOrderCreate, Name: "Create Order"},
	{Code: PrivOrderUpdate, Name: "Update Order"},
	{Code: PrivReportView, Name: "View Report"},
}
