package main

import (
	"fmt"
	"strconv"

	"zhkh/internal/adapters/backend"
	"zhkh/internal/core/category"
	"zhkh/internal/core/version"
	"zhkh/internal/modkit"
	"zhkh/internal/modkit/module"
	"zhkh/internal/platform/config"
	"zhkh/internal/platform/logger"
	"zhkh/internal/platform/store"

	complaintsmod "zhkh/internal/services/complaints/module"

	"github.com/spf13/cobra"
)

const service = "zhkh-ctl"

func newRoot(cfg config.Conf) *cobra.Command {
	var apiURL string

	root := &cobra.Command{
		Use:          service,
		Short:        "Operate the zhkh complaint service",
		Version:      version.Info(service).String(),
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&apiURL, "api", cfg.MayString("BOT_BACKEND_URL", backend.DefaultBaseURL), "complaints API base url")

	client := func() (*backend.Client, error) { return backend.New(apiURL, nil) }

	root.AddCommand(
		listCmd(client),
		processCmd(client),
		classifyCmd(cfg),
		migrateCmd(cfg),
	)
	return root
}

func listCmd(client func() (*backend.Client, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print unprocessed complaints by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := client()
			if err != nil {
				return err
			}
			l, err := c.List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, cat := range category.All() {
				bucket := l[cat]
				fmt.Fprintf(out, "%s (%d)\n", cat, len(bucket))
				for _, x := range bucket {
					fmt.Fprintf(out, "  #%d  %s  %s\n", x.ID, x.CreatedAt.UTC().Format("2006-01-02 15:04"), x.Address)
				}
			}
			return nil
		},
	}
}

func processCmd(client func() (*backend.Client, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "process <id>",
		Short: "Mark a complaint processed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid id %q", args[0])
			}
			c, err := client()
			if err != nil {
				return err
			}
			if err := c.MarkProcessed(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "complaint #%d processed\n", id)
			return nil
		},
	}
}

func classifyCmd(cfg config.Conf) *cobra.Command {
	var provider string
	cmd := &cobra.Command{
		Use:   "classify <text>",
		Short: "Run the configured classifier chain locally",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o := complaintsmod.FromConfig(cfg)
			if provider != "" {
				o.Provider = provider
			}
			cls, err := complaintsmod.NewClassifier(cmd.Context(), o, nil)
			if err != nil {
				return err
			}
			res, err := cls.Classify(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "category: %s\naddress:  %s\nstrategy: %s\n", res.Category, res.Address, res.Strategy)
			return nil
		},
	}
	cmd.Flags().StringVar(&provider, "provider", "", "override CLASSIFIER_PROVIDER (gigachat, gemini, rules)")
	return cmd
}

func migrateCmd(cfg config.Conf) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the complaint tables in the configured store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			st, err := store.Open(ctx, store.ConfigFrom(cfg, service), store.WithLogger(*logger.Get()))
			if err != nil {
				return err
			}
			defer func() { _ = st.Close(ctx) }()

			cls, err := complaintsmod.NewClassifier(ctx, complaintsmod.ClassifierOptions{Provider: complaintsmod.ProviderRules}, nil)
			if err != nil {
				return err
			}
			m, err := complaintsmod.New(modkit.DepsFrom(cfg, st, nil), cls)
			if err != nil {
				return err
			}
			if err := module.MustPortsOf[complaintsmod.Ports](m).Schema.EnsureSchema(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema ready")
			return nil
		},
	}
}
