package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/formwork/pkg/io"
	"github.com/matzehuels/formwork/pkg/session"
	"github.com/matzehuels/formwork/pkg/store"
)

// storeFlags override the [store] section of the config file.
type storeFlags struct {
	backend string
	dir     string
}

func (f *storeFlags) register(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&f.backend, "backend", "", "store backend: file, memory, redis, mongo")
	cmd.PersistentFlags().StringVar(&f.dir, "dir", "", "template directory for the file backend")
}

func (c *CLI) openStore(ctx context.Context, f *storeFlags) (store.Store, *Config, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	sc := cfg.Store
	if f.backend != "" {
		sc.Backend = store.Backend(f.backend)
	}
	if f.dir != "" {
		sc.Dir = expandHome(f.dir)
	}
	loggerFromContext(ctx).Debug("opening store", "backend", sc.Backend)
	st, err := store.Open(ctx, sc)
	if err != nil {
		return nil, nil, err
	}
	return st, cfg, nil
}

// =============================================================================
// store
// =============================================================================

func (c *CLI) storeCommand() *cobra.Command {
	flags := &storeFlags{}
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage templates in the template store",
		Long: `Manage templates in the template store.

The backend is chosen by the [store] section of the config file and can be
overridden with --backend.`,
	}
	flags.register(cmd)

	cmd.AddCommand(c.storePutCommand(flags))
	cmd.AddCommand(c.storeGetCommand(flags))
	cmd.AddCommand(c.storeListCommand(flags))
	cmd.AddCommand(c.storeDeleteCommand(flags))
	return cmd
}

func (c *CLI) storePutCommand(flags *storeFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "put <file>...",
		Short: "Save template files to the store",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, cfg, err := c.openStore(ctx, flags)
			if err != nil {
				return err
			}
			defer st.Close()

			for _, path := range args {
				d, err := io.ImportJSON(path, io.WithValidation())
				if err != nil {
					return err
				}
				sess := c.newSession(ctx, cfg, d)
				err = sess.Save(ctx, st)
				sess.Close()
				if err != nil {
					return fmt.Errorf("save %s: %w", path, err)
				}
				printSuccess("Stored %s %s", StyleHighlight.Render(d.Name), StyleDim.Render(d.ID))
			}
			return nil
		},
	}
}

func (c *CLI) storeGetCommand(flags *storeFlags) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:               "get <id>",
		Short:             "Write a stored template to a file",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeTemplateIDs(flags),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, cfg, err := c.openStore(ctx, flags)
			if err != nil {
				return err
			}
			defer st.Close()

			sess, err := session.Open(ctx, st, args[0],
				session.WithLogger(loggerFromContext(ctx)),
				session.WithLayoutOptions(cfg.Layout),
			)
			if err != nil {
				return err
			}
			defer sess.Close()

			d := sess.Template()
			if output == "" {
				output = args[0] + ".json"
			}
			if err := io.ExportJSON(d, output); err != nil {
				return err
			}
			printSuccess("Fetched %s", StyleHighlight.Render(d.Name))
			printFile(output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <id>.json)")
	return cmd
}

func (c *CLI) storeListCommand(flags *storeFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, _, err := c.openStore(ctx, flags)
			if err != nil {
				return err
			}
			defer st.Close()

			summaries, err := st.List(ctx)
			if err != nil {
				return err
			}
			if len(summaries) == 0 {
				printInfo("No stored templates")
				return nil
			}
			t := newTable("ID", "NAME", "ELEMENTS", "UPDATED")
			for _, s := range summaries {
				t.Row(s.ID, s.Name, strconv.Itoa(s.Elements), s.UpdatedAt.Local().Format("2006-01-02 15:04"))
			}
			fmt.Println(t)
			return nil
		},
	}
}

func (c *CLI) storeDeleteCommand(flags *storeFlags) *cobra.Command {
	return &cobra.Command{
		Use:               "delete <id>...",
		Aliases:           []string{"rm"},
		Short:             "Remove templates from the store",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: c.completeTemplateIDs(flags),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, _, err := c.openStore(ctx, flags)
			if err != nil {
				return err
			}
			defer st.Close()

			for _, id := range args {
				if err := st.Delete(ctx, id); err != nil {
					return err
				}
				printSuccess("Deleted %s", id)
			}
			return nil
		},
	}
}

// =============================================================================
// config
// =============================================================================

func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configPath
			if path == "" {
				p, err := defaultConfigPath()
				if err != nil {
					return err
				}
				path = p
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
		},
	})
	return cmd
}
