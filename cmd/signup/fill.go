package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/signup/internal/errors"
	"github.com/vango-dev/signup/pkg/signup"
)

func fillCmd(configPath *string) *cobra.Command {
	var (
		sets   []string
		submit bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Set form fields and print the form state",
		Long: `Set form fields as a user would, then print the form state.

Each --set marks the field changed and touched. The draft is saved
before the command exits, so the email survives into the next run.

Examples:
  signup fill --set email=ada@example.com
  signup fill --set passwords.password=secret1 --set passwords.confirmPassword=secret1
  signup fill --set source.1=true --set agree=true --submit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			e, err := openEnv(ctx, *configPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()

			var handedOff signup.Values
			f, err := e.newForm(ctx, signup.WithHandoff(func(_ context.Context, v signup.Values) {
				handedOff = v
			}))
			if err != nil {
				return err
			}
			defer f.Close()

			for _, s := range sets {
				path, raw, err := parseAssignment(s)
				if err != nil {
					return err
				}
				current, ok := f.Get(path)
				if !ok {
					return errors.New("E301").WithDetail(path)
				}
				value, err := parseValue(current, raw)
				if err != nil {
					return errors.New("E303").WithDetailf("%s: %v", path, err)
				}
				if err := f.Set(path, value); err != nil {
					return err
				}
				if err := f.Touch(path); err != nil {
					return err
				}
			}
			f.Flush()

			if submit {
				f.Submit(ctx)
			}

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(f.Snapshot()); err != nil {
					return err
				}
			} else {
				printState(out, f.Snapshot())
			}

			if !submit {
				return nil
			}
			if handedOff == nil {
				return errors.New("E402").WithDetail(strings.Join(invalidFields(f.Snapshot()), ", "))
			}
			success(out, "Submitted %d fields", len(handedOff))
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&sets, "set", "s", nil, "Set a field: path=value (repeatable)")
	cmd.Flags().BoolVar(&submit, "submit", false, "Submit after setting fields")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the state as JSON")

	return cmd
}

// parseAssignment splits "path=value".
func parseAssignment(s string) (path, value string, err error) {
	path, value, ok := strings.Cut(s, "=")
	if !ok || path == "" {
		return "", "", errors.New("E401").WithDetailf("%q", s)
	}
	return path, value, nil
}

// parseValue converts raw to the type of the field's current value.
func parseValue(current any, raw string) (any, error) {
	switch current.(type) {
	case bool:
		return strconv.ParseBool(raw)
	case string:
		return raw, nil
	default:
		return nil, fmt.Errorf("cannot set a %T field", current)
	}
}

func invalidFields(st signup.State) []string {
	var paths []string
	for path, field := range st.Fields {
		if !field.Valid {
			paths = append(paths, path)
		}
	}
	for path, group := range st.Groups {
		if len(group.Errors) > 0 {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths
}

func printState(w io.Writer, st signup.State) {
	paths := make([]string, 0, len(st.Fields))
	for path := range st.Fields {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		field := st.Fields[path]
		mark := "\033[32m✓\033[0m"
		if !field.Valid {
			mark = "\033[31m✗\033[0m"
		}
		line := fmt.Sprintf("%s %-26s %v", mark, path, field.Value)
		if keys := errorKeys(field.Errors); len(keys) > 0 && field.Touched {
			line += "  (" + strings.Join(keys, ", ") + ")"
		}
		fmt.Fprintln(w, line)
	}

	if keys := errorKeys(st.Groups[signup.FieldPasswords].Errors); len(keys) > 0 {
		warn(w, "passwords: %s", strings.Join(keys, ", "))
	}
	if st.Valid {
		success(w, "Form is valid")
	} else {
		info(w, "Form is invalid")
	}
}

func errorKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
