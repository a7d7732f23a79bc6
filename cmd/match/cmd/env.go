/*
Copyright © 2018-2025 blacktop

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/blacktop/match/pkg/environ"
	"github.com/fatih/color"
	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var colorEnvKey = color.New(color.Bold, color.FgHiGreen).SprintFunc()

func init() {
	rootCmd.AddCommand(envCmd)

	envCmd.Flags().StringP("platform", "p", environ.DefaultPlatform, "Platform (ios, macos, tvos, catalyst)")
	envCmd.Flags().String("uuid", "", "Provisioning profile UUID")
	envCmd.Flags().String("team-id", "", "Developer team ID")
	envCmd.Flags().String("profile-name", "", "Provisioning profile name")
	envCmd.Flags().String("profile-path", "", "Installed provisioning profile path")
	envCmd.Flags().String("certificate-name", "", "Signing certificate common name")
	viper.BindPFlag("env.platform", envCmd.Flags().Lookup("platform"))
	viper.BindPFlag("env.uuid", envCmd.Flags().Lookup("uuid"))
	viper.BindPFlag("env.team-id", envCmd.Flags().Lookup("team-id"))
	viper.BindPFlag("env.profile-name", envCmd.Flags().Lookup("profile-name"))
	viper.BindPFlag("env.profile-path", envCmd.Flags().Lookup("profile-path"))
	viper.BindPFlag("env.certificate-name", envCmd.Flags().Lookup("certificate-name"))
}

// envCmd represents the env command
var envCmd = &cobra.Command{
	Use:   "env <APP_ID> <TYPE>",
	Short: "Print the sigh_* environment variables for a signing identity",
	Example: heredoc.Doc(`
		# List the variable names
		❯ match env tools.fastlane.app appstore

		# Export values into the current shell
		❯ eval "$(match env tools.fastlane.app appstore --uuid 1234 --team-id ABCDE12345)"`),
	Args:          cobra.ExactArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		id := environ.Identity{
			AppIdentifier: args[0],
			Type:          args[1],
			Platform:      viper.GetString("env.platform"),
		}

		vars := []envVar{
			{id.VariableName(), viper.GetString("env.uuid")},
			{id.VariableNameTeamID(), viper.GetString("env.team-id")},
			{id.VariableNameProfileName(), viper.GetString("env.profile-name")},
			{id.VariableNameProfilePath(), viper.GetString("env.profile-path")},
			{id.VariableNameCertificateName(), viper.GetString("env.certificate-name")},
		}

		return writeEnv(os.Stdout, environ.OS, vars)
	},
}

type envVar struct {
	key   string
	value string
}

// writeEnv prints export lines for the vars that have a value. Without any
// value it lists the names; otherwise unset names become shell comments so
// the output stays safe to eval.
func writeEnv(w io.Writer, env environ.Environment, vars []envVar) error {
	filled := false
	for _, v := range vars {
		if v.value != "" {
			filled = true
			break
		}
	}

	for _, v := range vars {
		if v.value == "" {
			if filled {
				fmt.Fprintf(w, "# %s\n", v.key)
			} else {
				fmt.Fprintln(w, colorEnvKey(v.key))
			}
			continue
		}
		if _, err := environ.FillEnvironment(env, v.key, v.value); err != nil {
			return fmt.Errorf("failed to set %s: %w", v.key, err)
		}
		fmt.Fprintf(w, "export %s=%s\n", v.key, shellquote.Join(v.value))
	}

	return nil
}
