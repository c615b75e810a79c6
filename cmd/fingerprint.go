package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cardcache/internal/fingerprint"
	"cardcache/internal/outwriter"
)

// fingerprintCmd computes cache keys for card image files.
var fingerprintCmd = &cobra.Command{
	Use:   "fingerprint <file>...",
	Short: "Compute cache fingerprints for card image files",
	Long: `Compute the content fingerprint used as the cache key for each file.

The fingerprint is a SHA-256 digest of the file's bytes, so renaming or
copying a scan never causes a duplicate identification. Files are hashed
concurrently with the configured number of workers.

Examples:
  # Fingerprint a batch of scans
  cardcache fingerprint scans/*.png`,
	PreRunE: sharedSetupWrapper,
	PostRun: closeStores,
	RunE: func(_ *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("at least one file is required")
		}
		fingerprints, failures := fingerprint.FilesConcurrent(args, cfg.Workers)
		if err := outwriter.PrintFingerprintResults(fingerprints, failures, viper.GetInt("width")); err != nil {
			return err
		}
		if len(failures) > 0 {
			return errors.New("some inputs could not be read")
		}
		return nil
	},
}

// fingerprintPricingCmd computes the normalized pricing cache key for a card.
var fingerprintPricingCmd = &cobra.Command{
	Use:   "pricing",
	Short: "Compute the normalized pricing fingerprint for a card",
	Long: `Compute the pricing cache key from card attributes.

Attributes are normalized (lowercased, punctuation stripped, whitespace
collapsed) before hashing, so cosmetic differences in naming never split the
cache. Characteristics are order-independent.

Examples:
  # Key for a specific printing
  cardcache fingerprint pricing --name "Charizard" --set "Base Set" --finish Holo`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		flags := cmd.Flags()
		name, _ := flags.GetString("name")
		if name == "" {
			return errors.New("--name is required")
		}
		setName, _ := flags.GetString("set")
		number, _ := flags.GetString("number")
		finish, _ := flags.GetString("finish")
		language, _ := flags.GetString("language")
		characteristics, _ := flags.GetStringSlice("characteristic")

		key := fingerprint.Key{
			Name:            name,
			SetName:         setName,
			Number:          number,
			Finish:          finish,
			Language:        language,
			Characteristics: characteristics,
		}
		fmt.Println(key.Fingerprint())
		return nil
	},
}
