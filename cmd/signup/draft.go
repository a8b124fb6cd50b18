package main

import (
	"github.com/spf13/cobra"

	"github.com/vango-dev/signup/internal/errors"
	"github.com/vango-dev/signup/pkg/signup"
)

func draftCmd(configPath *string) *cobra.Command {
	var clearDraft bool

	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Show or clear the saved draft",
		Long: `Show the draft saved by the form, or clear it with --clear.

Examples:
  signup draft
  signup draft --clear`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			e, err := openEnv(ctx, *configPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()

			key := e.cfg.Storage.Key
			if clearDraft {
				if err := e.store.Delete(ctx, key); err != nil {
					return err
				}
				success(out, "Cleared %s", key)
				return nil
			}

			raw, ok, err := e.store.Get(ctx, key)
			if err != nil {
				return err
			}
			if !ok {
				info(out, "No draft saved under %s", key)
				return nil
			}
			if _, err := signup.ParseDraft(raw); err != nil {
				warn(out, "Draft under %s is malformed and will be ignored", key)
				info(out, "%s", raw)
				return errors.FromError(err, "E202")
			}
			info(out, "%s", raw)
			return nil
		},
	}

	cmd.Flags().BoolVar(&clearDraft, "clear", false, "Delete the saved draft")

	return cmd
}
