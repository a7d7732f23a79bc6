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
	"os"
	"text/tabwriter"
	"time"

	"github.com/blacktop/match/pkg/p12"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	colorField   = color.New(color.Bold, color.FgHiBlue).SprintFunc()
	colorValid   = color.New(color.FgHiGreen).SprintFunc()
	colorExpired = color.New(color.Bold, color.FgHiRed).SprintFunc()
)

func init() {
	rootCmd.AddCommand(p12Cmd)
	p12Cmd.AddCommand(p12InfoCmd)

	p12InfoCmd.Flags().StringP("password", "p", "", ".p12 password (exports are normally unprotected)")
	viper.BindPFlag("password", p12InfoCmd.Flags().Lookup("password"))
	viper.BindEnv("password", "MATCH_P12_PASSWORD")
}

// p12Cmd represents the p12 command
var p12Cmd = &cobra.Command{
	Use:   "p12",
	Short: "PKCS#12 identity helpers",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// p12InfoCmd represents the p12 info command
var p12InfoCmd = &cobra.Command{
	Use:           "info <P12>",
	Short:         "Show the certificate and key inside a .p12",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := loadConfig()
		if err != nil {
			return err
		}

		cred, err := p12.LoadWithPassword(afero.NewOsFs(), args[0], conf.Password)
		if err != nil {
			return err
		}

		info := cred.Info()
		validity := colorValid("valid")
		if !cred.Valid(time.Now()) {
			validity = colorExpired("expired")
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 1, ' ', 0)
		fmt.Fprintf(w, "%s\t%s\n", colorField("Common Name:"), info.CommonName)
		fmt.Fprintf(w, "%s\t%s\n", colorField("User ID:"), info.UserID)
		fmt.Fprintf(w, "%s\t%s\n", colorField("Team:"), info.OrganizationalUnit)
		fmt.Fprintf(w, "%s\t%s\n", colorField("Organization:"), info.Organization)
		fmt.Fprintf(w, "%s\t%s\n", colorField("Country:"), info.Country)
		fmt.Fprintf(w, "%s\t%s\n", colorField("Not Before:"), info.NotBefore.Format(time.RFC3339))
		fmt.Fprintf(w, "%s\t%s (%s, %s)\n", colorField("Not After:"), info.NotAfter.Format(time.RFC3339), humanize.Time(info.NotAfter), validity)
		fmt.Fprintf(w, "%s\t%T\n", colorField("Private Key:"), cred.PrivateKey)
		fmt.Fprintf(w, "%s\t%d\n", colorField("Certificates:"), len(cred.Chain))
		return w.Flush()
	},
}
