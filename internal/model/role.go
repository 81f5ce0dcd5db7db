package model

// Role represents the account type of a user
type Role string

// Role codes as constants
const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// SelfServiceRoles are the roles a visitor may pick when registering
var SelfServiceRoles = []Role{RoleBuyer, RoleSeller}

type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
)

// Approval is only meaningful for sellers; other roles keep it empty.
type Approval string

const (
	ApprovalNone    Approval = ""
	ApprovalPending Approval = "pending"
	ApprovalYes     Approval = "yes"
	ApprovalNo      Approval = "no"
)
