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

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/apex/log"
	"github.com/blacktop/match/pkg/keychain"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringP("keychain", "k", "login.keychain", "Keychain name in ~/Library/Keychains or path to a keychain file")
	viper.BindPFlag("keychain", importCmd.Flags().Lookup("keychain"))
}

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <ITEM>",
	Short: "Import a certificate or .p12 identity into a keychain",
	Example: heredoc.Doc(`
		# Import a development identity into the login keychain
		❯ match import development.p12

		# Import into a CI keychain by absolute path
		❯ match import distribution.cer --keychain /tmp/ci.keychain-db`),
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := loadConfig()
		if err != nil {
			return err
		}

		fs := afero.NewOsFs()
		importer := keychain.NewImporter(fs, keychain.NewResolver(fs, conf.Home), keychain.ExecRunner{})
		if err := importer.Import(args[0], conf.Keychain); err != nil {
			return fmt.Errorf("failed to import %s: %w", args[0], err)
		}

		log.Infof("Imported %s", args[0])
		return nil
	},
}
