package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/unkn0wn-root/depcache"
)

var (
	errMiss        = errors.New("miss")
	errInvalidJSON = errors.New("value is not valid JSON")
)

func newGetCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY",
		Short: "Print the cached value if it is present and fresh",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openSession(v)
			if err != nil {
				return err
			}
			defer s.Close(ctx)

			val, ok, err := s.cache.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return errMiss
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(val))
			return err
		},
	}
}

func newSetCmd(v *viper.Viper) *cobra.Command {
	var (
		ttl  time.Duration
		tags []string
	)
	cmd := &cobra.Command{
		Use:   "set KEY JSON",
		Short: "Store a JSON value depending on the given tags",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := json.RawMessage(args[1])
			if !json.Valid(raw) {
				return errInvalidJSON
			}
			ctx := cmd.Context()
			s, err := openSession(v)
			if err != nil {
				return err
			}
			defer s.Close(ctx)

			return s.cache.Set(ctx, args[0], raw, ttl, tags...)
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "entry TTL (0 = no expiry)")
	cmd.Flags().StringArrayVarP(&tags, "tag", "t", nil, "dependency tag (repeatable)")
	return cmd
}

func newInvalidateCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "invalidate TAG...",
		Short: "Bump the version of every tag, invalidating dependent entries",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openSession(v)
			if err != nil {
				return err
			}
			defer s.Close(ctx)

			if _, err := s.cache.Invalidate(ctx, args...); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "invalidated %d tag(s)\n", len(args))
			return err
		},
	}
}

func newDeleteCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "delete KEY",
		Short: "Remove an entry without touching tag versions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openSession(v)
			if err != nil {
				return err
			}
			defer s.Close(ctx)

			return s.cache.Delete(ctx, args[0])
		},
	}
}

type inspectOutput struct {
	Key          string                `json:"key"`
	Fresh        bool                  `json:"fresh"`
	Dependencies []depcache.Dependency `json:"dependencies"`
}

func newInspectCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect KEY",
		Short: "Show the tag snapshot stored with an entry and whether it is fresh",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openSession(v)
			if err != nil {
				return err
			}
			defer s.Close(ctx)

			deps, ok, err := s.cache.Dependencies(ctx, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return errMiss
			}
			_, fresh, err := s.cache.Get(ctx, args[0])
			if err != nil {
				return err
			}

			if deps == nil {
				deps = []depcache.Dependency{}
			}
			out := inspectOutput{Key: args[0], Fresh: fresh, Dependencies: deps}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}
