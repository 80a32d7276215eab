package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/fuzzkit/internal/profile"
)

var (
	profileDir        string
	profileShowFormat string
)

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSchemaCmd)

	profileListCmd.Flags().StringVar(&profileDir, "dir", "profiles", "Directory to scan for profile files")
	profileShowCmd.Flags().StringVarP(&profileShowFormat, "format", "f", "text", "Output format (text|json)")
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage target profiles",
	Long:  "List, inspect, and scaffold target profiles (TOML, YAML or JSON).",
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in profiles and profile files",
	RunE:  runProfileList,
}

var profileShowCmd = &cobra.Command{
	Use:   "show <path|name>",
	Short: "Load a profile and print it",
	Long:  "Loads and validates a profile, then prints the decoded fields.\nExit code 65 if the profile is malformed.",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileShow,
}

var profileSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema profiles are validated against",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := cmd.OutOrStdout().Write(profile.Schema())
		return err
	},
}

func runProfileList(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	names := profile.List(profileDir)

	fmt.Fprintln(w, "Available profiles:")
	for _, name := range names {
		p, err := profile.Load(name)
		if err != nil {
			fmt.Fprintf(w, "  %-32s (error loading: %v)\n", name, err)
			continue
		}
		fmt.Fprintf(w, "  %-32s %s %s\n", name, strings.ToUpper(p.Method), p.TargetURL())
	}
	return nil
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	p, hash, err := profile.LoadWithHash(args[0])
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	if profileShowFormat == "json" {
		out, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(out))
		return nil
	}

	fmt.Fprintf(w, "Profile: %s\n", p.Name)
	fmt.Fprintf(w, "  hash:              %s\n", hash)
	fmt.Fprintf(w, "  target:            %s %s\n", p.Method, p.TargetURL())
	fmt.Fprintf(w, "  concurrency:       %d\n", p.Limits.Concurrency)
	fmt.Fprintf(w, "  rate:              %d/s (ceiling %d/s)\n", p.Limits.RatePerSec, p.Limits.MaxRatePerSec)
	fmt.Fprintf(w, "  request budget:    %d\n", p.Limits.RequestBudget)
	fmt.Fprintf(w, "  allowed methods:   %s\n", strings.Join(p.Limits.AllowedMethods, ", "))
	fmt.Fprintf(w, "  timeouts:          connect %s, read %s\n", p.Timeouts.Connect(), p.Timeouts.Read())
	fmt.Fprintf(w, "  sandbox flag:      %t\n", p.Safety.RequireSandboxFlag)
	fmt.Fprintf(w, "  allowlisted hosts: %s\n", strings.Join(p.Safety.AllowlistHosts, ", "))

	if len(p.Safety.ForceHeaders) > 0 {
		names := make([]string, 0, len(p.Safety.ForceHeaders))
		for name := range p.Safety.ForceHeaders {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Fprintln(w, "  forced headers:")
		for _, name := range names {
			fmt.Fprintf(w, "    %s: %s\n", name, p.Safety.ForceHeaders[name])
		}
	}
	return nil
}
