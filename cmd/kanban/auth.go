package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"kanban/internal/app"
	"kanban/internal/auth"
	"kanban/internal/session"
)

func loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and keep the session in the keyring",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				svc, err := a.Auth()
				if err != nil {
					return err
				}
				sess, err := svc.Login(ctx, email, password)
				if errors.Is(err, auth.ErrInvalidCredentials) {
					return errors.New("invalid email or password")
				}
				if err != nil {
					return err
				}
				store, err := a.Sessions()
				if err != nil {
					return err
				}
				if err := store.Save(sess); err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(sess)
				}
				fmt.Printf("logged in as %s <%s>\n", sess.User.Name, sess.User.Email)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email")
	cmd.Flags().StringVar(&password, "password", "", "password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				store, err := a.Sessions()
				if err != nil {
					return err
				}
				if err := store.Clear(); err != nil {
					return err
				}
				fmt.Println("logged out")
				return nil
			})
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				store, err := a.Sessions()
				if err != nil {
					return err
				}
				sess, err := store.Load()
				if errors.Is(err, session.ErrNoSession) {
					return fmt.Errorf("not logged in; run kanban login")
				}
				if err != nil {
					return err
				}
				user := sess.User
				if svc, err := a.Auth(); err == nil {
					if user, err = svc.Verify(sess.Token); err != nil {
						_ = store.Clear()
						return fmt.Errorf("session expired; run kanban login")
					}
				}
				if viper.GetBool("json") {
					return printJSON(user)
				}
				fmt.Printf("%s <%s> (id %s)\n", user.Name, user.Email, user.ID)
				return nil
			})
		},
	}
}

func authCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "auth", Short: "Auth setup"}
	cmd.AddCommand(authInitSecretCmd())
	return cmd
}

func authInitSecretCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init-secret",
		Short: "Generate KANBAN_JWT_SECRET into the workspace .env",
		RunE: func(cmd *cobra.Command, args []string) error {
			if viper.GetString("jwt_secret") != "" && !force {
				return fmt.Errorf("KANBAN_JWT_SECRET already set (use --force to replace)")
			}
			secret, err := auth.NewSecret()
			if err != nil {
				return err
			}
			path := dotEnvPath(viper.GetString("workspace"))
			if err := setEnvValue(path, "KANBAN_JWT_SECRET", secret); err != nil {
				return err
			}
			fmt.Printf("wrote KANBAN_JWT_SECRET to %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "replace an existing secret")
	return cmd
}
