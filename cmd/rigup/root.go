package main

import (
	"fmt"
	"net/http"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rigtools/rigup/internal/version"
	"github.com/rigtools/rigup/pkg/install"
	"github.com/rigtools/rigup/pkg/logging"
	"github.com/rigtools/rigup/pkg/paths"
	"github.com/rigtools/rigup/pkg/terminal"
)

var (
	verbosity     int
	noInput       bool
	shellOverride string

	rootCmd = &cobra.Command{
		Use:   "rigup",
		Short: "Staged, recoverable installer for the rig CLI",
		Long: `rigup provisions the rig CLI's configuration and API credential in
four phases (snapshot, stage, entry, verify), keeping a recovery record
so any install can be rolled back to the exact prior state.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSequence()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().BoolVar(&noInput, "no-input", false, "Never prompt, even on a terminal")
	rootCmd.PersistentFlags().StringVar(&shellOverride, "shell", "", "Shell whose startup file receives integration (bash, zsh)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(stageCmd)
	rootCmd.AddCommand(entryCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(abortCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
}

// newContext resolves paths and wires the I/O ports. Path resolution
// happens here, once, before any phase runs.
func newContext() (*install.Context, error) {
	p, err := paths.New()
	if err != nil {
		return nil, err
	}
	return &install.Context{
		Paths:         p,
		Version:       version.Version,
		NoInput:       noInput,
		ShellOverride: shellOverride,
		Prompter:      terminal.NewTTY(),
		HTTP:          http.DefaultClient,
	}, nil
}

func runSequence() error {
	ctx, err := newContext()
	if err != nil {
		return err
	}

	res, err := install.Run(ctx)
	if err != nil {
		return err
	}

	pterm.Success.Printfln("Recovery record: %s", res.Snapshot.Dir)
	pterm.Success.Printfln("Staged artifacts (%s credential): %s", res.Stage.SecretSource, res.Stage.Dir)
	pterm.Success.Printfln("Installed: %s", res.Commit.ConfigFile)
	pterm.Success.Printfln("Installed: %s", res.Commit.SecretFile)
	if res.Commit.ShellUpdated {
		pterm.Success.Printfln("Shell integration added to %s", res.Commit.ShellFile)
	} else {
		pterm.Info.Printfln("Shell integration already present in %s", res.Commit.ShellFile)
	}
	printVerify(res.Verify)
	return nil
}

func printVerify(res *install.VerifyResult) {
	for _, w := range res.Warnings {
		pterm.Warning.Println(w)
	}
	switch res.Probe {
	case install.ProbeHealthy:
		pterm.Success.Println("Provider API reachable, credential accepted")
	case install.ProbeOffline:
		pterm.Info.Println("Provider API unreachable (offline)")
	case install.ProbeSkipped:
		pterm.Info.Println("Connectivity probe skipped")
	}
	if res.BinaryFound {
		pterm.Info.Printfln("rig binary: %s", res.BinaryPath)
	} else {
		pterm.Info.Println("rig binary not found on PATH")
	}
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full install sequence (snapshot, stage, entry, verify)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSequence()
	},
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Create a recovery record of the current state",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := newContext()
		if err != nil {
			return err
		}
		res, err := install.Snapshot(ctx)
		if err != nil {
			return err
		}
		pterm.Success.Printfln("Recovery record created: %s (%d file(s) backed up)", res.Dir, len(res.Captured))
		return nil
	},
}

var stageCmd = &cobra.Command{
	Use:   "stage",
	Short: "Gather the credential and stage the artifacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := newContext()
		if err != nil {
			return err
		}
		res, err := install.Stage(ctx)
		if err != nil {
			return err
		}
		pterm.Success.Printfln("Staged artifacts (%s credential): %s", res.SecretSource, res.Dir)
		return nil
	},
}

var entryCmd = &cobra.Command{
	Use:   "entry",
	Short: "Install the staged artifacts into their final locations",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := newContext()
		if err != nil {
			return err
		}
		res, err := install.Commit(ctx)
		if err != nil {
			return err
		}
		pterm.Success.Printfln("Installed: %s", res.ConfigFile)
		pterm.Success.Printfln("Installed: %s", res.SecretFile)
		if res.ShellUpdated {
			pterm.Success.Printfln("Shell integration added to %s", res.ShellFile)
		} else {
			pterm.Info.Printfln("Shell integration already present in %s", res.ShellFile)
		}
		return nil
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the installed files and probe the provider API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := newContext()
		if err != nil {
			return err
		}
		res, err := install.Verify(ctx)
		if err != nil {
			return err
		}
		printVerify(res)
		if len(res.Warnings) == 0 {
			pterm.Success.Println("Installation verified")
		}
		return nil
	},
}

var abortCmd = &cobra.Command{
	Use:   "abort",
	Short: "Roll back to the state before the most recent install",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := newContext()
		if err != nil {
			return err
		}
		res, err := install.Rollback(ctx)
		if err != nil {
			return err
		}
		pterm.Success.Printfln("Rolled back using %s: %d restored, %d removed",
			res.Record, res.Restored, res.Removed)
		return nil
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove all rigup-managed state (irreversible)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := newContext()
		if err != nil {
			return err
		}
		res, err := install.Clean(ctx)
		if err != nil {
			return err
		}
		for _, dir := range res.RemovedDirs {
			pterm.Success.Printfln("Removed %s", dir)
		}
		for _, file := range res.ScrubbedFiles {
			pterm.Success.Printfln("Removed shell integration from %s", file)
		}
		if len(res.RemovedDirs) == 0 && len(res.ScrubbedFiles) == 0 {
			pterm.Info.Println("Nothing to remove")
		}
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report the current installation state",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := newContext()
		if err != nil {
			return err
		}
		rep, err := install.Status(ctx)
		if err != nil {
			return err
		}
		pterm.Info.Printfln("rigup version: %s", rep.Version)
		pterm.Info.Printfln("Configuration: %s (%s)", rep.ConfigFile, presence(rep.ConfigPresent))
		if rep.SecretPresent {
			pterm.Info.Printfln("Credential: %s (present, mode %04o)", rep.SecretFile, rep.SecretMode)
		} else {
			pterm.Info.Printfln("Credential: %s (absent)", rep.SecretFile)
		}
		if rep.RecoveryCount > 0 {
			pterm.Info.Printfln("Recovery records: %d (latest %s)", rep.RecoveryCount, rep.LatestRecord)
		} else {
			pterm.Info.Println("Recovery records: none")
		}
		pterm.Info.Printfln("Shell integration in %s: %s", rep.ShellFile, presence(rep.ShellIntegrated))
		return nil
	},
}

func presence(present bool) string {
	if present {
		return "present"
	}
	return "absent"
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("rigup version %s\n", version.Version)
		fmt.Printf("  commit: %s\n", version.Commit)
		fmt.Printf("  built:  %s\n", version.Date)
	},
}
