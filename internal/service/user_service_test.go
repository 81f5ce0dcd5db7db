package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devmarket/internal/model"
	"devmarket/internal/repository"
	"devmarket/internal/testutil"
)

func TestAdminCreatedSellerIsApproved(t *testing.T) {
	f := newFixture(t)
	admin := testutil.CreateUser(t, f.db, "admin", model.RoleAdmin)

	user, err := f.users.CreateUser(&CreateUserRequest{
		Username: "seller1",
		Email:    "seller1@example.com",
		Password: "secret123",
		FullName: "Seller One",
		Role:     model.RoleSeller,
	}, admin.Actor())
	require.NoError(t, err)
	assert.Equal(t, model.ApprovalYes, user.Approval)
	assert.True(t, user.CanSell())
	assert.Equal(t, admin.Actor().AuditName(), user.CreatedBy)

	_, err = f.users.CreateUser(&CreateUserRequest{
		Username: "seller2",
		Email:    "seller1@example.com",
		Password: "secret123",
		FullName: "Seller Two",
		Role:     model.RoleBuyer,
	}, admin.Actor())
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestSetApproval(t *testing.T) {
	f := newFixture(t)
	admin := testutil.CreateUser(t, f.db, "admin", model.RoleAdmin)
	buyer := testutil.CreateUser(t, f.db, "buyer", model.RoleBuyer)

	applicant, err := f.auth.Register(&RegisterRequest{
		Username: "applicant",
		Email:    "applicant@example.com",
		Password: "secret123",
		FullName: "Applicant",
		Role:     model.RoleSeller,
	})
	require.NoError(t, err)

	updated, err := f.users.SetApproval(applicant.ID, model.ApprovalYes, admin.Actor())
	require.NoError(t, err)
	assert.Equal(t, model.ApprovalYes, updated.Approval)

	updated, err = f.users.SetApproval(applicant.ID, model.ApprovalNo, admin.Actor())
	require.NoError(t, err)
	assert.Equal(t, model.ApprovalNo, updated.Approval)

	_, err = f.users.SetApproval(applicant.ID, model.ApprovalPending, admin.Actor())
	assert.ErrorIs(t, err, ErrInvalidStatus)
	_, err = f.users.SetApproval(buyer.ID, model.ApprovalYes, admin.Actor())
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestSetStatusCannotDeactivateSelf(t *testing.T) {
	f := newFixture(t)
	admin := testutil.CreateUser(t, f.db, "admin", model.RoleAdmin)
	buyer := testutil.CreateUser(t, f.db, "buyer", model.RoleBuyer)

	_, err := f.users.SetStatus(admin.ID, model.UserInactive, admin.Actor())
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := f.users.SetStatus(buyer.ID, model.UserInactive, admin.Actor())
	require.NoError(t, err)
	assert.False(t, updated.IsActive())
}

func TestDeleteUserGuardsReferences(t *testing.T) {
	f := newFixture(t)
	admin := testutil.CreateUser(t, f.db, "admin", model.RoleAdmin)
	seller := testutil.CreateUser(t, f.db, "seller", model.RoleSeller)
	buyer := testutil.CreateUser(t, f.db, "buyer", model.RoleBuyer)
	category := testutil.CreateCategory(t, f.db, "Templates")
	testutil.CreateProduct(t, f.db, seller, category, "Landing Page", 500, model.ProductAvailable)

	assert.ErrorIs(t, f.users.DeleteUser(admin.ID, admin.Actor()), ErrCannotDeleteSelf)
	assert.ErrorIs(t, f.users.DeleteUser(seller.ID, admin.Actor()), ErrUserHasRecords)

	_, err := f.messages.SendMessage(buyer.ID, seller.ID, "hello", nil)
	require.NoError(t, err)

	require.NoError(t, f.users.DeleteUser(buyer.ID, admin.Actor()))
	_, err = f.users.GetUserByID(buyer.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	var messages int64
	require.NoError(t, f.db.Model(&model.Message{}).Count(&messages).Error)
	assert.Zero(t, messages)
}

func TestGetAllUsersFiltersByRole(t *testing.T) {
	f := newFixture(t)
	testutil.CreateUser(t, f.db, "admin", model.RoleAdmin)
	testutil.CreateUser(t, f.db, "seller", model.RoleSeller)
	testutil.CreateUser(t, f.db, "buyer", model.RoleBuyer)

	sellers, err := f.users.GetAllUsers(repository.UserFilter{Role: model.RoleSeller})
	require.NoError(t, err)
	require.Len(t, sellers, 1)
	assert.Equal(t, "seller", sellers[0].Username)
	assert.Contains(t, sellers[0].Privileges, model.PrivProductCreate)

	all, err := f.users.GetAllUsers(repository.UserFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
