package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"modlink/pkg/style"
	"modlink/pkg/types"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the load order and available mods",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, pruned, err := newManager(cmd)
			if err != nil {
				return err
			}
			reportPruned(cmd, pruned)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatBold("Load Order (Active)"))
			active := mgr.Active()
			if len(active) == 0 {
				fmt.Fprintln(out, style.MutedStyle.Render("  (empty)"))
			}
			for i, entry := range active {
				mark, lineStyle := "[x]", style.EnabledStyle
				if !entry.Enabled {
					mark, lineStyle = "[ ]", style.DisabledStyle
				}
				line := fmt.Sprintf("%3d %s %s", i+1, mark, describeEntry(mgr.Lookup, entry))
				fmt.Fprintln(out, lineStyle.Render(line))
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, formatBold("Available"))
			available := mgr.Available()
			if len(available) == 0 {
				fmt.Fprintln(out, style.MutedStyle.Render("  (none)"))
			}
			for _, mod := range available {
				fmt.Fprintf(out, "    %s\n", describeMod(mod))
			}
			return nil
		},
	}
}

func newActivateCmd() *cobra.Command {
	var at int
	cmd := &cobra.Command{
		Use:   "activate <mod>",
		Short: "Add a mod to the load order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, pruned, err := newManager(cmd)
			if err != nil {
				return err
			}
			reportPruned(cmd, pruned)

			if err := mgr.Activate(args[0], at); err != nil {
				return err
			}
			if err := mgr.SaveState(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), style.SuccessStyle.Render(fmt.Sprintf("Activated %s", args[0])))
			return nil
		},
	}
	cmd.Flags().IntVar(&at, "at", -1, "Insert position (default append)")
	return cmd
}

func newDeactivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <mod>",
		Short: "Remove a mod from the load order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, pruned, err := newManager(cmd)
			if err != nil {
				return err
			}
			reportPruned(cmd, pruned)

			if err := mgr.Deactivate(args[0]); err != nil {
				return err
			}
			if err := mgr.SaveState(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), style.SuccessStyle.Render(fmt.Sprintf("Deactivated %s", args[0])))
			return nil
		},
	}
}

func newMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <mod> <index>",
		Short: "Move a mod to a new position in the load order",
		Long: `Move relocates an active mod to the given zero-based position. Out-of-range
positions clamp to the nearest end of the list.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			to, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("index must be a number: %q", args[1])
			}

			mgr, pruned, err := newManager(cmd)
			if err != nil {
				return err
			}
			reportPruned(cmd, pruned)

			if err := mgr.Move(args[0], to); err != nil {
				return err
			}
			if err := mgr.SaveState(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), style.SuccessStyle.Render(fmt.Sprintf("Moved %s to %d", args[0], to)))
			return nil
		},
	}
}

func newEnableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enable <mod>",
		Short: "Enable an active mod",
		Args:  cobra.ExactArgs(1),
		RunE:  setEnabledRunE(true),
	}
}

func newDisableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disable <mod>",
		Short: "Disable an active mod without removing it from the order",
		Args:  cobra.ExactArgs(1),
		RunE:  setEnabledRunE(false),
	}
}

func setEnabledRunE(enabled bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		mgr, pruned, err := newManager(cmd)
		if err != nil {
			return err
		}
		reportPruned(cmd, pruned)

		if err := mgr.SetEnabled(args[0], enabled); err != nil {
			return err
		}
		if err := mgr.SaveState(); err != nil {
			return err
		}
		verb := "Enabled"
		if !enabled {
			verb = "Disabled"
		}
		fmt.Fprintln(cmd.OutOrStdout(), style.SuccessStyle.Render(fmt.Sprintf("%s %s", verb, args[0])))
		return nil
	}
}

func newApplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Reconcile the package directory with the load order",
		Long: `Apply computes the desired link set from the load order, removes stale
links, creates missing ones and repoints reordered ones. Individual link
failures are reported but do not abort the run; the load order is persisted
regardless so your declared order is never lost.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, pruned, err := newManager(cmd)
			if err != nil {
				return err
			}
			reportPruned(cmd, pruned)

			result, err := mgr.Apply(cmd.Context(), dryRun)
			if err != nil {
				return err
			}
			printApplyResult(cmd, result)

			if result.PersistErr != nil {
				return result.PersistErr
			}
			if !result.OK() {
				return fmt.Errorf("%d link operation(s) failed", len(result.Failures))
			}
			return nil
		},
	}
}

func newTrashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trash <mod>",
		Short: "Move a mod folder to the trash directory",
		Long: `Trash moves the mod's storage folder into the trash directory instead of
deleting it, so the removal can be undone by hand. The mod is dropped from
the load order; run apply to remove its link.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, pruned, err := newManager(cmd)
			if err != nil {
				return err
			}
			reportPruned(cmd, pruned)

			dest, err := mgr.Trash(args[0])
			if err != nil {
				return err
			}
			if err := mgr.SaveState(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), style.SuccessStyle.Render(fmt.Sprintf("Moved %s to %s", args[0], dest)))
			return nil
		},
	}
}

func reportPruned(cmd *cobra.Command, pruned []string) {
	if len(pruned) == 0 {
		return
	}
	msg := fmt.Sprintf("Dropped %d entries whose mod folder is gone: %s",
		len(pruned), strings.Join(pruned, ", "))
	fmt.Fprintln(cmd.ErrOrStderr(), style.WarningStyle.Render(msg))
}

func printApplyResult(cmd *cobra.Command, result types.ApplyResult) {
	out := cmd.OutOrStdout()

	prefix := ""
	if result.DryRun {
		prefix = "Would have "
		fmt.Fprintln(out, style.MutedStyle.Render("Dry run, no changes made"))
	}

	if !result.Changed() && result.OK() {
		fmt.Fprintln(out, style.SuccessStyle.Render("Package directory already in sync"))
	}
	for _, name := range result.Created {
		fmt.Fprintf(out, "  %screated %s\n", strings.ToLower(prefix), style.PathStyle.Render(name))
	}
	for _, name := range result.Removed {
		fmt.Fprintf(out, "  %sremoved %s\n", strings.ToLower(prefix), style.PathStyle.Render(name))
	}
	for _, failure := range result.Failures {
		msg := fmt.Sprintf("  failed to %s %s: %v", failure.Op, failure.Name, failure.Err)
		fmt.Fprintln(out, style.ErrorStyle.Render(msg))
	}
	if result.PersistErr != nil {
		fmt.Fprintln(out, style.ErrorStyle.Render(fmt.Sprintf("  load order not persisted: %v", result.PersistErr)))
	}
}

func describeEntry(lookup func(string) (types.Mod, bool), entry types.LoadOrderEntry) string {
	mod, ok := lookup(entry.ModID)
	if !ok {
		return fmt.Sprintf("%s (missing)", entry.ModID)
	}
	return describeMod(mod)
}

func describeMod(mod types.Mod) string {
	desc := mod.Title
	if mod.Title != mod.ID {
		desc = fmt.Sprintf("%s (%s)", mod.Title, mod.ID)
	}
	if mod.Version != "" {
		desc += " v" + mod.Version
	}
	if mod.Author != "" {
		desc += " by " + mod.Author
	}
	return desc
}
