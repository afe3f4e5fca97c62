package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/jsphweid/intervaldex/mei"
	"github.com/jsphweid/intervaldex/model"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(intervalsCmd)
}

var intervalsCmd = &cobra.Command{
	Use:   "intervals <file.mei>",
	Short: "Prints the intervals of a score",
	Long:  `Parses one MEI file and prints its index record: intervals, measure map and metadata.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		record, err := recordFor(args[0])
		cobra.CheckErr(err)

		out, err := json.MarshalIndent(record, "", "  ")
		cobra.CheckErr(err)
		fmt.Println(string(out))
	},
}

func recordFor(path string) (model.Record, error) {
	tree, err := mei.ReadFile(path)
	if err != nil {
		return model.Record{}, err
	}
	name := filepath.Base(path)
	doc, err := mei.ParseDocument(tree, name)
	if err != nil {
		return model.Record{}, err
	}
	return model.NewRecord(name, 0, doc), nil
}
