package model

import "github.com/samber/lo"

// Privilege codes checked by route middleware
const (
	PrivProductView         = "product:view"
	PrivProductCreate       = "product:create"
	PrivProductUpdate       = "product:update"
	PrivProductDelete       = "product:delete"
	PrivProductModerate     = "product:moderate"
	PrivAccessRequest       = "access:request"
	PrivAccessDecide        = "access:decide"
	PrivCheckoutCreate      = "checkout:create"
	PrivMessageSend         = "message:send"
	PrivPaymentMethodManage = "payment_method:manage"
	PrivDashboardView       = "dashboard:view"
	PrivUserManage          = "user:manage"
	PrivCategoryManage      = "category:manage"
	PrivOrderManage         = "order:manage"
	PrivSettingManage       = "setting:manage"
)

// rolePrivileges is the fixed privilege set granted to each role
var rolePrivileges = map[Role][]string{
	RoleBuyer: {
		PrivProductView,
		PrivAccessRequest,
		PrivCheckoutCreate,
		PrivMessageSend,
		PrivPaymentMethodManage,
	},
	RoleSeller: {
		PrivProductView,
		PrivProductCreate,
		PrivProductUpdate,
		PrivProductDelete,
		PrivAccessRequest,
		PrivAccessDecide,
		PrivCheckoutCreate,
		PrivMessageSend,
		PrivPaymentMethodManage,
		PrivDashboardView,
	},
	RoleAdmin: {
		PrivProductView,
		PrivProductCreate,
		PrivProductUpdate,
		PrivProductDelete,
		PrivProductModerate,
		PrivAccessDecide,
		PrivMessageSend,
		PrivPaymentMethodManage,
		PrivDashboardView,
		PrivUserManage,
		PrivCategoryManage,
		PrivOrderManage,
		PrivSettingManage,
	},
}

// PrivilegesFor returns a copy of the privilege codes granted to role
func PrivilegesFor(role Role) []string {
	return append([]string{}, rolePrivileges[role]...)
}

func RoleHasPrivilege(role Role, code string) bool {
	return lo.Contains(rolePrivileges[role], code)
}
