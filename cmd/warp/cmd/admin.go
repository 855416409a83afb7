package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fanaberia/fanaberia/internal/repository"
	"github.com/fanaberia/fanaberia/internal/service"
	"github.com/fanaberia/fanaberia/internal/validation"
)

func AdminCmd(load Loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage warp administrators",
	}

	var password string
	create := &cobra.Command{
		Use:   "create <email>",
		Short: "Create an administrator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := args[0]
			errs := validation.Admin(email, password)
			if errs.Any() {
				return errs
			}

			database, err := openMigratedDB(cmd.Context(), load())
			if err != nil {
				return err
			}
			defer database.Close()

			admins := service.NewAdminService(repository.NewAdminRepository(database))
			admin, err := admins.Create(email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %d <%s>\n", admin.ID, admin.Email)
			return nil
		},
	}
	create.Flags().StringVarP(&password, "password", "p", "", "password for the new admin")
	_ = create.MarkFlagRequired("password")

	cmd.AddCommand(create)
	return cmd
}
