package cli

import (
	"github.com/spf13/cobra"

	"librarydesk/internal/lending"
)

func newUserCmd(lib *lending.Library) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Register and manage admins, librarians and members",
	}

	cmd.AddCommand(newUserAddAdminCmd(lib))
	cmd.AddCommand(newUserAddLibrarianCmd(lib))
	cmd.AddCommand(newUserAddMemberCmd(lib))
	cmd.AddCommand(newUserRemoveCmd(lib))
	cmd.AddCommand(newUserListCmd(lib))
	cmd.AddCommand(newUserShowCmd(lib))
	cmd.AddCommand(newUserActiveCmd(lib, "activate", true))
	cmd.AddCommand(newUserActiveCmd(lib, "deactivate", false))

	return cmd
}

type contactFlags struct {
	name, email, phone string
}

func (c *contactFlags) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&c.name, "name", "", "Full name")
	cmd.Flags().StringVar(&c.email, "email", "", "Email address")
	cmd.Flags().StringVar(&c.phone, "phone", "", "Phone number (at least 10 digits)")
}

func newUserAddAdminCmd(lib *lending.Library) *cobra.Command {
	var (
		contact contactFlags
		level   string
	)

	cmd := &cobra.Command{
		Use:   "add-admin",
		Short: "Register an administrator",
		RunE: func(cmd *cobra.Command, args []string) error {
			admin, err := lib.AddAdmin(cmd.Context(), contact.name, contact.email, contact.phone, level)
			if err != nil {
				return err
			}
			printf(cmd, "Admin added successfully with ID: %d", admin.PersonID)
			return nil
		},
	}

	contact.addFlags(cmd)
	cmd.Flags().StringVar(&level, "level", "standard", "Admin level")
	return cmd
}

func newUserAddLibrarianCmd(lib *lending.Library) *cobra.Command {
	var (
		contact    contactFlags
		employeeID string
		shift      string
	)

	cmd := &cobra.Command{
		Use:   "add-librarian",
		Short: "Register a librarian",
		RunE: func(cmd *cobra.Command, args []string) error {
			librarian, err := lib.AddLibrarian(cmd.Context(), contact.name, contact.email, contact.phone, employeeID, shift)
			if err != nil {
				return err
			}
			printf(cmd, "Librarian added successfully with ID: %d", librarian.PersonID)
			return nil
		},
	}

	contact.addFlags(cmd)
	cmd.Flags().StringVar(&employeeID, "employee-id", "", "Employee number")
	cmd.Flags().StringVar(&shift, "shift", "day", "Working shift")
	return cmd
}

func newUserAddMemberCmd(lib *lending.Library) *cobra.Command {
	var contact contactFlags

	cmd := &cobra.Command{
		Use:   "add-member",
		Short: "Register a library member",
		RunE: func(cmd *cobra.Command, args []string) error {
			member, err := lib.AddMember(cmd.Context(), contact.name, contact.email, contact.phone)
			if err != nil {
				return err
			}
			printf(cmd, "Member added successfully with ID: %d", member.PersonID)
			return nil
		},
	}

	contact.addFlags(cmd)
	return cmd
}

func newUserRemoveCmd(lib *lending.Library) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <person-id>",
		Short: "Remove a user; members must have returned every book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "person")
			if err != nil {
				return err
			}
			if err := lib.RemoveUser(cmd.Context(), id); err != nil {
				return err
			}
			printf(cmd, "User removed successfully")
			return nil
		},
	}
}

func newUserListCmd(lib *lending.Library) *cobra.Command {
	var out outputOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered users",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.resolve(); err != nil {
				return err
			}
			views := newUserViews(lib.Users())
			return out.render(cmd.OutOrStdout(), views, func(t *table) { userTable(t, views) })
		},
	}

	out.addFlags(cmd)
	return cmd
}

func newUserShowCmd(lib *lending.Library) *cobra.Command {
	var out outputOptions

	cmd := &cobra.Command{
		Use:   "show <person-id>",
		Short: "Show one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.resolve(); err != nil {
				return err
			}
			id, err := parseID(args[0], "person")
			if err != nil {
				return err
			}
			user, err := lib.User(id)
			if err != nil {
				return err
			}
			view := newUserView(user)
			return out.render(cmd.OutOrStdout(), view, func(t *table) { userTable(t, []userView{view}) })
		},
	}

	out.addFlags(cmd)
	return cmd
}

func newUserActiveCmd(lib *lending.Library, use string, active bool) *cobra.Command {
	short := "Re-enable a user account"
	if !active {
		short = "Disable a user account; inactive members cannot borrow"
	}

	return &cobra.Command{
		Use:   use + " <person-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "person")
			if err != nil {
				return err
			}
			if err := lib.SetUserActive(cmd.Context(), id, active); err != nil {
				return err
			}
			printf(cmd, "User %d %sd", id, use)
			return nil
		},
	}
}
