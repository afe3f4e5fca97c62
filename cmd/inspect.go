package cmd

import (
	"fmt"

	"github.com/jsphweid/intervaldex/chunk"
	"github.com/jsphweid/intervaldex/constants"
	"github.com/jsphweid/intervaldex/model"
	"github.com/jsphweid/intervaldex/util"
	"github.com/spf13/cobra"
)

var inspectFiles bool

func init() {
	inspectCmd.Flags().BoolVarP(&inspectFiles, "files", "f", false, "list the files behind every key")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <chunk>",
	Short: "Inspects a chunk",
	Long: `Prints every n-gram key of a chunk file with its byte range and number of postings.
With --files, the postings are resolved to file names through the index in INDEX_PATH.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		inspect(args[0], inspectFiles)
	},
}

// keyFiles lists "name@offset" for every posting of key in a chunk.
func keyFiles(path string, key string, names model.FileNumToMeiPath) ([]string, error) {
	results, err := chunk.FindInChunk(path, key)
	if err != nil {
		return nil, err
	}
	res := make([]string, 0, len(results))
	for _, r := range results {
		name, ok := names[r.FileNum]
		if !ok {
			name = fmt.Sprintf("#%d", r.FileNum)
		}
		res = append(res, fmt.Sprintf("%s@%d", name, r.Offset))
	}
	return res, nil
}

func inspect(path string, files bool) {
	f := util.OpenFileOrPanic(path)
	defer f.Close()

	var names model.FileNumToMeiPath
	if files {
		names = util.ReadBinaryOrPanic[model.FileNumToMeiPath](util.GetFileNumToNamePath())
	}

	index, _ := chunk.ReadIndexOrPanic(f)
	for _, key := range util.GetSortedKeys(index) {
		val := index[key]
		fmt.Printf("key: %v\n", key)
		fmt.Printf("val: %v (%v postings)\n", val, (val.End-val.Start)/constants.ChunkEntrySize)
		if !files {
			continue
		}
		found, err := keyFiles(path, key, names)
		cobra.CheckErr(err)
		for _, name := range found {
			fmt.Printf("  %v\n", name)
		}
	}
}
