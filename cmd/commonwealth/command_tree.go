package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"commonwealth/internal/config"
	"commonwealth/internal/sidebar"
	"commonwealth/internal/toggletree"
)

type treeOptions struct {
	community string
}

func newTreeCommand(wiring commandWiring) *cobra.Command {
	opts := &treeOptions{}
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Inspect and edit persisted sidebar toggle trees",
	}
	cmd.PersistentFlags().StringVar(&opts.community, "community", "", "community id (defaults to config)")
	cmd.AddCommand(
		newTreeShowCommand(wiring, opts),
		newTreeVerifyCommand(wiring, opts),
		newTreeResetCommand(wiring, opts),
		newTreeSetCommand(wiring, opts),
		newTreeToggleCommand(wiring, opts),
	)
	return cmd
}

type treeSession struct {
	cfg       config.Config
	community string
	trees     *toggletree.Store
	close     func()
}

func openTreeSession(wiring commandWiring, opts *treeOptions, stderr io.Writer) (*treeSession, error) {
	cfg, err := wiring.loadConfig()
	if err != nil {
		return nil, err
	}
	trees, closeFn, err := openTreeStore(wiring, cfg, commandLogger(cfg, stderr))
	if err != nil {
		return nil, err
	}
	community := strings.TrimSpace(opts.community)
	if community == "" {
		community = cfg.CommunityID()
	}
	return &treeSession{cfg: cfg, community: community, trees: trees, close: closeFn}, nil
}

func (s *treeSession) key(kind toggletree.Kind) string {
	return toggletree.StorageKey(s.community, kind)
}

func parseKinds(args []string) ([]toggletree.Kind, error) {
	if len(args) == 0 {
		return toggletree.Kinds(), nil
	}
	kinds := make([]toggletree.Kind, 0, len(args))
	for _, arg := range args {
		kind, err := toggletree.ParseKind(arg)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

func newTreeShowCommand(wiring commandWiring, opts *treeOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show [kind...]",
		Short: "Print stored toggle trees as JSON (all stored trees when no kind is given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := openTreeSession(wiring, opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer session.close()
			ctx := cmd.Context()
			keys, err := showKeys(ctx, session, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			found := 0
			for _, key := range keys {
				tree, ok, err := session.trees.Load(ctx, key)
				if err != nil {
					fmt.Fprintf(out, "%s: %v\n", key, err)
					continue
				}
				if !ok {
					continue
				}
				found++
				if err := printTree(out, key, tree); err != nil {
					return err
				}
			}
			if found == 0 {
				fmt.Fprintf(out, "no toggle trees stored for %s\n", session.community)
			}
			return nil
		},
	}
}

func showKeys(ctx context.Context, session *treeSession, args []string) ([]string, error) {
	if len(args) == 0 {
		return session.trees.TreeKeys(ctx, session.community)
	}
	kinds, err := parseKinds(args)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		keys = append(keys, session.key(kind))
	}
	return keys, nil
}

func printTree(w io.Writer, key string, tree *toggletree.Node) error {
	raw, err := toggletree.Encode(tree)
	if err != nil {
		return err
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s:\n%s\n", key, pretty.String())
	return err
}

func newTreeVerifyCommand(wiring commandWiring, opts *treeOptions) *cobra.Command {
	var repair bool
	cmd := &cobra.Command{
		Use:   "verify [kind...]",
		Short: "Compare stored trees with the shape the sidebar expects",
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds, err := parseKinds(args)
			if err != nil {
				return err
			}
			session, err := openTreeSession(wiring, opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer session.close()
			env, err := sidebarEnv(cmd.Context(), wiring, session.cfg, session.community)
			if err != nil {
				return err
			}
			return verifyTrees(cmd.Context(), cmd.OutOrStdout(), session, env, kinds, repair)
		},
	}
	cmd.Flags().BoolVar(&repair, "repair", false, "reset mismatched trees to their defaults")
	return cmd
}

func verifyTrees(ctx context.Context, out io.Writer, session *treeSession, env *sidebar.Env, kinds []toggletree.Kind, repair bool) error {
	for _, kind := range kinds {
		family, ok := sidebar.FamilyFor(kind)
		if !ok {
			continue
		}
		key := session.key(kind)
		if !sidebar.Visible(env, family.Rules...) {
			fmt.Fprintf(out, "%s: hidden\n", key)
			continue
		}
		def := sidebar.DefaultTreeForFamily(env, family)
		persisted, exists, err := session.trees.Load(ctx, key)
		switch {
		case err != nil:
			fmt.Fprintf(out, "%s: corrupt (%v)\n", key, err)
		case !exists:
			fmt.Fprintf(out, "%s: absent\n", key)
		case toggletree.Verify(persisted, def):
			fmt.Fprintf(out, "%s: ok\n", key)
			continue
		default:
			fmt.Fprintf(out, "%s: mismatch\n%s\n", key, toggletree.ShapeDiff(persisted, def))
		}
		if repair {
			if _, err := session.trees.Ensure(ctx, key, def); err != nil {
				return fmt.Errorf("repair %s: %w", key, err)
			}
			fmt.Fprintf(out, "%s: repaired\n", key)
		}
	}
	return nil
}

func sidebarEnv(ctx context.Context, wiring commandWiring, cfg config.Config, community string) (*sidebar.Env, error) {
	source, err := wiring.newSource(cfg)
	if err != nil {
		return nil, err
	}
	data, err := source.Load(ctx, community)
	if err != nil {
		return nil, fmt.Errorf("load community %s: %w", community, err)
	}
	return &sidebar.Env{
		CommunityID: community,
		Data:        data,
		Flags:       config.NewFlags(loadFlags(cfg)),
	}, nil
}

func loadFlags(cfg config.Config) map[string]bool {
	path, err := config.FlagsPath()
	if err != nil {
		return cfg.Flags
	}
	overlay, err := config.LoadFlagFile(path)
	if err != nil {
		return cfg.Flags
	}
	return config.MergeFlags(cfg.Flags, overlay)
}

func newTreeResetCommand(wiring commandWiring, opts *treeOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset [kind...]",
		Short: "Delete stored toggle trees so defaults are seeded on next render",
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds, err := parseKinds(args)
			if err != nil {
				return err
			}
			session, err := openTreeSession(wiring, opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer session.close()
			for _, kind := range kinds {
				key := session.key(kind)
				if err := session.trees.Reset(cmd.Context(), key); err != nil {
					return fmt.Errorf("reset %s: %w", key, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: reset\n", key)
			}
			return nil
		},
	}
}

func newTreeSetCommand(wiring commandWiring, opts *treeOptions) *cobra.Command {
	var current bool
	cmd := &cobra.Command{
		Use:   "set <kind> <dotted-path>",
		Short: "Store the negation of --current at a dotted path",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := toggletree.ParseKind(args[0])
			if err != nil {
				return err
			}
			session, err := openTreeSession(wiring, opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer session.close()
			key := session.key(kind)
			path, err := toggletree.ParseDottedPath(args[1])
			if err != nil {
				return err
			}
			if err := session.trees.Set(cmd.Context(), key, args[1], current); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			value, err := session.trees.Value(cmd.Context(), key, path)
			if err != nil {
				fmt.Fprintf(out, "%s %s unchanged (path not stored)\n", key, args[1])
				return nil
			}
			fmt.Fprintf(out, "%s %s <- %t\n", key, args[1], value)
			return nil
		},
	}
	cmd.Flags().BoolVar(&current, "current", false, "value the caller last saw at the path")
	return cmd
}

func newTreeToggleCommand(wiring commandWiring, opts *treeOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <kind> <section> [sub-section]",
		Short: "Atomically flip a stored section or sub-section",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := toggletree.ParseKind(args[0])
			if err != nil {
				return err
			}
			path := toggletree.Section(args[1])
			if len(args) == 3 {
				path = toggletree.SubSection(args[1], args[2])
			}
			session, err := openTreeSession(wiring, opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer session.close()
			value, err := session.trees.Toggle(cmd.Context(), session.key(kind), path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %t\n", session.key(kind), path.Dotted(), value)
			return nil
		},
	}
}
