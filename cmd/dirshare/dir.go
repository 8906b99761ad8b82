package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"dirshare"
	"dirshare/config"
)

var dirCmd = &cobra.Command{
	Use:   "dir <path>",
	Short: "Share a single directory",
	Long: `Share one directory under its base name. "dirshare dir ~/public"
serves listings at /directory/public/.`,
	Args: cobra.ExactArgs(1),
	RunE: runDir,
}

var mdirCmd = &cobra.Command{
	Use:   "mdir <label:path>...",
	Short: "Share several directories at once",
	Long: `Share multiple directories, each under an explicit label:

  dirshare mdir photos:~/Pictures docs:~/Documents`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMdir,
}

func init() {
	for _, cmd := range []*cobra.Command{dirCmd, mdirCmd} {
		addShareFlags(cmd.Flags())
		rootCmd.AddCommand(cmd)
	}
}

func addShareFlags(flags *pflag.FlagSet) {
	flags.Int("port", 9080, "HTTP server port")
	flags.Bool("upload", false, "accept uploads into shared directories")
	flags.Bool("showpath", false, "show absolute paths on the index page")
	flags.String("auth", "", "require login, as user:pass")
	flags.String("username", "", "require login with this username")
	flags.String("password", "", "password for --username")
	flags.String("scheme", "form", "authentication scheme (form, basic)")
}

func runDir(cmd *cobra.Command, args []string) error {
	path, err := dirshare.ExpandPath(args[0])
	if err != nil {
		return err
	}
	return runShare(cmd, []config.RouteConfig{
		{Label: filepath.Base(path), Path: path},
	})
}

func runMdir(cmd *cobra.Command, args []string) error {
	routes := make([]config.RouteConfig, 0, len(args))
	for _, arg := range args {
		label, path, ok := strings.Cut(arg, ":")
		if !ok {
			return fmt.Errorf("invalid share %q, want label:path", arg)
		}
		routes = append(routes, config.RouteConfig{Label: label, Path: path})
	}
	return runShare(cmd, routes)
}

// runShare serves ad-hoc routes from the command line, still layered on
// top of any config file and environment so persistent settings apply.
func runShare(cmd *cobra.Command, routes []config.RouteConfig) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	cfg.Routes = routes

	if auth, _ := cmd.Flags().GetString("auth"); auth != "" {
		user, pass, ok := strings.Cut(auth, ":")
		if !ok || user == "" || pass == "" {
			return fmt.Errorf("invalid --auth %q, want user:pass", auth)
		}
		cfg.Auth.Username = user
		cfg.Auth.Password = pass
	}

	setupLogging(cfg.Log)
	return runServer(cmd.Context(), cfg)
}
