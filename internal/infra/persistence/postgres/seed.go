package postgres

import (
	"context"

	"ministry/internal/domain/constants"
	"ministry/internal/domain/entity"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/repository"
	"ministry/internal/errors"

	"gorm.io/gorm"
)

var seedCountries = []entity.Country{
	{Name: "Nigeria", ISO2: "NG", PhoneCode: "+234"},
	{Name: "Ghana", ISO2: "GH", PhoneCode: "+233"},
	{Name: "Kenya", ISO2: "KE", PhoneCode: "+254"},
	{Name: "South Africa", ISO2: "ZA", PhoneCode: "+27"},
	{Name: "United Kingdom", ISO2: "GB", PhoneCode: "+44"},
	{Name: "United States", ISO2: "US", PhoneCode: "+1"},
	{Name: "Canada", ISO2: "CA", PhoneCode: "+1"},
}

var seedPaymentMethods = []entity.PaymentMethod{
	{Code: "stripe", Name: "Card (Stripe)", Provider: "stripe", IsActive: true},
	{Code: "paystack", Name: "Paystack", Provider: "paystack", IsActive: true},
	{Code: "flutterwave", Name: "Flutterwave", Provider: "flutterwave", IsActive: true},
	{Code: "cash", Name: "Cash on delivery", Provider: "cash", IsActive: true},
}

var roleNames = map[string]string{
	constants.RoleAdmin:  "Administrator",
	constants.RoleMember: "Member",
}

var rolePermissions = map[string][]string{
	constants.RoleAdmin:  constants.AllPermissions(),
	constants.RoleMember: nil,
}

// Seed creates the reference data. Running it again leaves existing rows in place.
func Seed(ctx context.Context, db *gorm.DB) error {
	return NewTransactionManager(db).Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		refRepo := repoFactory.ReferenceRepo()
		for i := range seedCountries {
			country := seedCountries[i]
			if err := refRepo.UpsertCountry(ctx, &country); err != nil {
				return err
			}
		}
		for i := range seedPaymentMethods {
			method := seedPaymentMethods[i]
			if err := refRepo.UpsertPaymentMethod(ctx, &method); err != nil {
				return err
			}
		}

		permissions, err := seedPermissions(ctx, repoFactory.RoleRepo())
		if err != nil {
			return err
		}

		return seedRoles(ctx, repoFactory.RoleRepo(), permissions)
	})
}

func seedPermissions(ctx context.Context, roleRepo repository.RoleRepository) (map[string]*entity.Permission, error) {
	byName := make(map[string]*entity.Permission)
	for _, name := range constants.AllPermissions() {
		permission, err := roleRepo.FindPermissionByName(ctx, name)
		if errors.Is(err, domainerrors.ErrPermissionNotFound) {
			permission = &entity.Permission{Name: name}
			err = roleRepo.CreatePermission(ctx, permission)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to seed permission %s", name)
		}
		byName[name] = permission
	}

	return byName, nil
}

func seedRoles(ctx context.Context, roleRepo repository.RoleRepository, permissions map[string]*entity.Permission) error {
	for _, slug := range []string{constants.RoleAdmin, constants.RoleMember} {
		role, err := roleRepo.FindRoleBySlug(ctx, slug)
		if errors.Is(err, domainerrors.ErrRoleNotFound) {
			role = &entity.Role{Name: roleNames[slug], Slug: slug, IsSystem: true}
			err = roleRepo.CreateRole(ctx, role)
		}
		if err != nil {
			return errors.Wrapf(err, "failed to seed role %s", slug)
		}

		granted := make([]*entity.Permission, 0, len(rolePermissions[slug]))
		for _, name := range rolePermissions[slug] {
			granted = append(granted, permissions[name])
		}
		if err := roleRepo.SyncPermissions(ctx, role.ID, granted); err != nil {
			return err
		}
	}

	return nil
}
