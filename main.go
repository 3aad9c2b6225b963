package main

import (
	"os"

	"folioctl/commands"
	"folioctl/services"
	"folioctl/templates"

	"github.com/spf13/cobra"
)

func envFile() string {
	if f := os.Getenv("FOLIOCTL_ENV_FILE"); f != "" {
		return f
	}
	return services.DefaultEnvFile
}

func main() {
	services.SetupLogger(os.Stderr, false)

	settings, err := services.LoadSettings(envFile())
	if err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}

	os.Exit(run(os.Args[1:], settings))
}

func run(args []string, settings services.Settings) int {
	var verbose bool

	// CLI root command
	rootCmd := &cobra.Command{
		Use:          "folioctl",
		Short:        "folioctl bootstraps and maintains a GitHub Pages site",
		Long:         `folioctl - create an al-folio site repository, edit its settings and publish it`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			services.SetupLogger(cmd.ErrOrStderr(), verbose)
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every git and bundle invocation")

	runner := services.NewExecRunner()
	fs := services.NewFileService()
	git := services.NewGitService(runner)
	bundler := services.NewBundlerService(runner)

	rootCmd.AddCommand(commands.NewGhPageCommand(commands.Deps{
		Settings:    settings,
		Site:        services.NewSiteService(settings, git, fs),
		Initializer: templates.NewInitializer(settings, git, bundler, fs),
	}))
	rootCmd.SetArgs(args)

	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}
