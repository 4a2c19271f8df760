package main

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"modlink/internal/version"
	"modlink/pkg/cobrax/topics"
	"modlink/pkg/config"
	"modlink/pkg/core"
	"modlink/pkg/filesystem"
	"modlink/pkg/logging"
)

//go:embed topics
var helpTopics embed.FS

var (
	verbosity  int
	dryRun     bool
	configFile string
)

// NewRootCmd builds the modlink command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "modlink",
		Short: "A symlink-based mod load-order manager",
		Long: `modlink manages which game mods are active and in what order. Mods live
as folders under the storage directory; modlink reflects your declared load
order onto the package directory as symbolic links whose names encode the
order, and persists it to the load-order file.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Preview changes without executing them")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", config.DefaultConfigFile, "Path to the config file")

	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newActivateCmd())
	rootCmd.AddCommand(newDeactivateCmd())
	rootCmd.AddCommand(newMoveCmd())
	rootCmd.AddCommand(newEnableCmd())
	rootCmd.AddCommand(newDisableCmd())
	rootCmd.AddCommand(newApplyCmd())
	rootCmd.AddCommand(newTrashCmd())
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(newManCmd(rootCmd))

	if topicsFS, err := fs.Sub(helpTopics, "topics"); err == nil {
		opts := topics.Options{Renderer: topics.NewGlamourRenderer()}
		if err := topics.Initialize(rootCmd, topicsFS, opts); err != nil {
			log.Warn().Err(err).Msg("Failed to initialize help topics")
		}
	}

	return rootCmd
}

// newManager loads configuration and returns a refreshed manager, reporting
// any entries pruned because their mod folder is gone.
func newManager(cmd *cobra.Command) (*core.Manager, []string, error) {
	fsys := filesystem.NewOS()
	cfg, err := config.Load(fsys, configFile)
	if err != nil {
		return nil, nil, err
	}

	mgr := core.NewManager(fsys, cfg)
	pruned, err := mgr.Refresh(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	return mgr, pruned, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("modlink version %s\n", version.Version)
		fmt.Printf("  commit: %s\n", version.Commit)
		fmt.Printf("  built:  %s\n", version.Date)
	},
}

var completionCmd = &cobra.Command{
	Use:                   "completion [bash|zsh|fish|powershell]",
	Short:                 "Generate shell completion script",
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Run: func(cmd *cobra.Command, args []string) {
		switch args[0] {
		case "bash":
			if err := cmd.Root().GenBashCompletion(cmd.OutOrStdout()); err != nil {
				log.Error().Err(err).Msg("Failed to generate bash completion")
			}
		case "zsh":
			if err := cmd.Root().GenZshCompletion(cmd.OutOrStdout()); err != nil {
				log.Error().Err(err).Msg("Failed to generate zsh completion")
			}
		case "fish":
			if err := cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true); err != nil {
				log.Error().Err(err).Msg("Failed to generate fish completion")
			}
		case "powershell":
			if err := cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout()); err != nil {
				log.Error().Err(err).Msg("Failed to generate powershell completion")
			}
		}
	},
}

func newManCmd(rootCmd *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   "man",
		Short: "Generate man page",
		RunE: func(cmd *cobra.Command, args []string) error {
			header := &doc.GenManHeader{
				Title:   "MODLINK",
				Section: "1",
			}
			return doc.GenManTree(rootCmd, header, "/tmp")
		},
	}
}
