package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shop-service/internal/model"
	"shop-service/internal/repository"
	"shop-service/internal/service"
	"shop-service/internal/validation"
	"shop-service/pkg/database"
	"shop-service/pkg/logger"
)

type adminFlags struct {
	email    string
	password string
	name     string
	lastname string
	phone    string
}

func newCreateAdminCommand() *cobra.Command {
	var f adminFlags
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an ADMIN account",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync()
			defer database.Close(db)

			if err := database.MigrateModels(db, model.Models()...); err != nil {
				return err
			}
			return createAdmin(cmd.Context(), repository.NewStore(db), f)
		},
	}

	cmd.Flags().StringVar(&f.email, "email", "", "admin email")
	cmd.Flags().StringVar(&f.password, "password", "", "admin password")
	cmd.Flags().StringVar(&f.name, "name", "Admin", "first name")
	cmd.Flags().StringVar(&f.lastname, "lastname", "Admin", "last name")
	cmd.Flags().StringVar(&f.phone, "phone", "0000000000", "phone number")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func createAdmin(ctx context.Context, store *repository.Store, f adminFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	user, err := service.NewUserService(store).Create(ctx, validation.Fields{
		"email":    f.email,
		"password": f.password,
		"name":     f.name,
		"lastname": f.lastname,
		"phone":    f.phone,
		"role":     string(model.RoleAdmin),
	})
	if err != nil {
		return err
	}
	logger.GetLogger().Info("Admin account created", zap.Uint("user_id", user.ID), zap.String("email", user.Email))
	return nil
}
