package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ministry/internal/delivery/api/validator"
	"ministry/internal/domain/constants"
	"ministry/internal/domain/entity"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/repository"
	"ministry/internal/domain/service"
	"ministry/internal/errors"
	"ministry/internal/infra/auth"
	"ministry/internal/infra/persistence/postgres"

	"github.com/spf13/cobra"
)

type adminInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,max=255"`
	Phone    string `json:"phone" validate:"omitempty,max=32"`
}

func createAdminCmd() *cobra.Command {
	var input adminInput

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an active user holding the admin role",
		Example: `  ministryctl create-admin --email pastor@example.org --password 's3cret-pass' --name "Church Admin"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validator.New().Validate(&input); err != nil {
				return err
			}

			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()

			user, err := createAdmin(cmd.Context(),
				postgres.NewUserRepository(e.db),
				postgres.NewRoleRepository(e.db),
				auth.NewBcryptHasher(e.cfg),
				&input,
			)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Admin %s created (id %s)\n", user.Email, user.ID)

			return nil
		},
	}

	cmd.Flags().StringVar(&input.Email, "email", "", "login email")
	cmd.Flags().StringVar(&input.Password, "password", "", "login password")
	cmd.Flags().StringVar(&input.Name, "name", "", "display name")
	cmd.Flags().StringVar(&input.Phone, "phone", "", "phone number")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func createAdmin(
	ctx context.Context,
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	hasher service.PasswordHasher,
	input *adminInput,
) (*entity.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	_, err := userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, domainerrors.ErrUserAlreadyExists
	case !errors.Is(err, domainerrors.ErrUserNotFound):
		return nil, err
	}

	role, err := roleRepo.FindRoleBySlug(ctx, constants.RoleAdmin)
	if err != nil {
		return nil, errors.Wrap(err, "admin role missing, run ministryctl seed first")
	}

	hash, err := hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &entity.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PhoneNumber:  strings.TrimSpace(input.Phone),
		PasswordHash: hash,
		Status:       entity.UserStatusActive,
		VerifiedAt:   &now,
		Roles:        []*entity.Role{role},
	}
	if err := userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
