package service

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrForbidden = errors.New("you are not allowed to perform this action")
	ErrConflict  = errors.New("conflicting state")

	ErrInvalidCredentials = errors.New("invalid email/username or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrSessionReplaced    = errors.New("session expired (logged in on another device)")
	ErrEmailExists        = errors.New("email already exists")
	ErrUsernameExists     = errors.New("username already exists")
	ErrInvalidRole        = errors.New("invalid role")
	ErrSellerNotApproved  = errors.New("seller account is not approved yet")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrUserHasRecords     = errors.New("user owns products or orders and cannot be deleted")
	ErrCannotDeleteSelf   = errors.New("you cannot delete your own account")

	ErrCategoryExists = errors.New("category name already exists")
	ErrCategoryInUse  = errors.New("category has products and cannot be deleted")

	ErrProductNotFound     = errors.New("product not found")
	ErrProductNotAvailable = errors.New("product is not available for purchase")
	ErrInvalidTransition   = errors.New("invalid product status change")
	ErrProductHasOrders    = errors.New("product has orders and cannot be deleted")
	ErrOwnProduct          = errors.New("you cannot buy or request access to your own product")

	ErrAccessRequestExists = errors.New("you have already requested access to this product")
	ErrInvalidDecision     = errors.New("decision must be approved or rejected")
	ErrDownloadDenied      = errors.New("you do not have access to this file")
	ErrNoSourceFile        = errors.New("no source file uploaded for this product")

	ErrPaymentNotConfirmed = errors.New("please confirm that you have sent the payment")
	ErrInvalidPayment      = errors.New("invalid payment method")
	ErrCheckoutFailed      = errors.New("payment could not be recorded, please try again")

	ErrEmptyMessage   = errors.New("message cannot be empty")
	ErrMessageSelf    = errors.New("you cannot message yourself")
	ErrInvalidStatus  = errors.New("invalid status")
	ErrInvalidSetting = errors.New("unknown setting")
)

// notFound converts gorm.ErrRecordNotFound into the given domain error
func notFound(err error, domainErr error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainErr
	}
	return err
}
