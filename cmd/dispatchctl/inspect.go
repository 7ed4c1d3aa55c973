package main

import (
	"fmt"
	"io"
	"strings"

	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/order"

	"github.com/spf13/cobra"
)

func newLifecycleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lifecycle",
		Short: "Print the order transition table and the permission each edge requires",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return printLifecycle(c.OutOrStdout(), order.DefaultLifecycle())
		},
	}
}

func printLifecycle(out io.Writer, lifecycle order.Lifecycle) error {
	for _, rule := range lifecycle.Rules() {
		if _, err := fmt.Fprintf(out, "%-12s %-12s %s\n", rule.From, rule.To, rule.Permission); err != nil {
			return err
		}
	}
	return nil
}

func newPermissionsCmd() *cobra.Command {
	var role string

	permissionsCmd := &cobra.Command{
		Use:   "permissions",
		Short: "Print the permission catalog as resource, action and allowed roles",
		Example: `  dispatchctl permissions
  dispatchctl permissions --role chofer`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			catalog := access.DefaultPermissionCatalog()
			permissions := catalog.Permissions()
			if role != "" {
				parsed, err := access.ParseRole(role)
				if err != nil {
					return err
				}
				permissions = catalog.PermissionsFor(parsed)
			}
			return printPermissions(c.OutOrStdout(), catalog, permissions)
		},
	}

	permissionsCmd.Flags().StringVar(&role, "role", "", "only the permissions this role holds")
	return permissionsCmd
}

func printPermissions(out io.Writer, catalog access.PermissionCatalog, permissions []access.Permission) error {
	for _, p := range permissions {
		allowed, err := catalog.AllowedRoles(p)
		if err != nil {
			return err
		}

		names := make([]string, 0, len(allowed.Roles()))
		for _, r := range allowed.Roles() {
			names = append(names, r.String())
		}

		if _, err = fmt.Fprintf(out, "%-10s %-10s %s\n", p.Resource(), p.Action(), strings.Join(names, ",")); err != nil {
			return err
		}
	}
	return nil
}
