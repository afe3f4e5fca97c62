package cmd

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "intervaldex",
	Short: "Melodic interval search over MEI scores",
	Long: `Indexes MEI scores by the half step intervals of their melody and
serves searches, excerpts and MIDI previews of the matching measures.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found, using environment variables")
		}
	},
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
