package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/transit/internal/errors"
	"github.com/mrz1836/transit/internal/migration"
	"github.com/mrz1836/transit/internal/resource"
	"github.com/mrz1836/transit/internal/store"
	"github.com/mrz1836/transit/internal/tui"
)

// treeOptions holds the flags of the tree command.
type treeOptions struct {
	config string
	root   string
	kind   string
	name   string
}

// treeHeaders are the columns printed by the tree command.
//
//nolint:gochecknoglobals // read-only column names
var treeHeaders = []string{"ADDRESS", "KIND", "NAME"}

// AddTreeCommand adds the tree command to the root command.
func AddTreeCommand(root *cobra.Command, flags *GlobalFlags) {
	opts := &treeOptions{}

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "List the resources of a configuration snapshot",
		Long: `List the resources of a configuration snapshot.

With --kind only resources of that kind are listed, searched recursively
through every resource that can contain them. --name further narrows the
search to resources with that name.`,
		Example: `  transit tree --config standalone/configuration/standalone.yaml
  transit tree --config domain/configuration/domain.yaml --kind subsystem --name ejb3
  transit tree --config domain/configuration/host.yaml --kind jvm -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rows, err := runTree(cmd.Context(), opts)
			if err != nil {
				return err
			}
			tui.NewOutput(cmd.OutOrStdout(), flags.Output).Table(treeHeaders, rows)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "configuration snapshot file")
	cmd.Flags().StringVar(&opts.root, "root", "", "configuration type: standalone, domain or host (default: from the file name)")
	cmd.Flags().StringVarP(&opts.kind, "kind", "k", "", "resource kind to find, e.g. subsystem")
	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "resource name to find (requires --kind)")
	_ = cmd.MarkFlagRequired("config")

	root.AddCommand(cmd)
}

// runTree loads the snapshot and returns one row per listed resource.
func runTree(ctx context.Context, opts *treeOptions) ([][]string, error) {
	if opts.name != "" && opts.kind == "" {
		return nil, errors.NewExitCode2Error(fmt.Errorf("%w: --name requires --kind", errors.ErrInvalidArgument))
	}

	configType, err := rootType(opts.root, opts.config)
	if err != nil {
		return nil, err
	}

	st, err := store.Load(ctx, opts.config, store.WithLogger(GetLogger()))
	if err != nil {
		return nil, err
	}
	cfg := resource.NewConfiguration(filepath.Base(opts.config), configType.Kind(), st,
		resource.WithLogger(GetLogger()))

	var found []*resource.Resource
	if opts.kind != "" {
		kind, err := resource.ParseKind(opts.kind)
		if err != nil {
			return nil, errors.NewExitCode2Error(err)
		}
		found, err = cfg.Root().FindResources(ctx, kind, opts.name)
		if err != nil {
			return nil, err
		}
	} else {
		found, err = walkResources(ctx, cfg.Root())
		if err != nil {
			return nil, err
		}
	}

	rows := make([][]string, 0, len(found))
	for _, r := range found {
		rows = append(rows, []string{r.AbsoluteName(), r.Kind().String(), r.Name()})
	}
	return rows, nil
}

// walkResources lists every resource below r depth-first, in schema order.
// Factories listing below an address the snapshot does not hold, such as
// core-service=management, contribute nothing.
func walkResources(ctx context.Context, r *resource.Resource) ([]*resource.Resource, error) {
	var out []*resource.Resource
	for _, factory := range r.Factories() {
		children, err := factory.Resources(ctx)
		if factory.Undefined(err) {
			logger := GetLogger()
			logger.Debug().
				Str("address", factory.Address().String()).
				Str("kind", factory.Kind().String()).
				Msg("skipping undefined address")
			continue
		}
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			out = append(out, child)
			below, err := walkResources(ctx, child)
			if err != nil {
				return nil, err
			}
			out = append(out, below...)
		}
	}
	return out, nil
}

// rootType resolves the configuration type from --root, or from the file
// name when --root is empty: host*.yaml is a host, domain*.yaml a domain,
// anything else standalone.
func rootType(flag, path string) (migration.ConfigType, error) {
	if flag != "" {
		for _, t := range migration.ConfigTypes {
			if string(t) == flag {
				return t, nil
			}
		}
		return "", errors.NewExitCode2Error(
			fmt.Errorf("%w: --root %q must be one of standalone, domain, host", errors.ErrInvalidArgument, flag))
	}

	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, string(migration.ConfigHost)):
		return migration.ConfigHost, nil
	case strings.HasPrefix(base, string(migration.ConfigDomain)):
		return migration.ConfigDomain, nil
	default:
		return migration.ConfigStandalone, nil
	}
}
