package cmd

import (
	"strconv"

	"github.com/jsphweid/intervaldex/bucket"
	"github.com/jsphweid/intervaldex/chunk"
	"github.com/jsphweid/intervaldex/constants"
	"github.com/jsphweid/intervaldex/db"
	"github.com/jsphweid/intervaldex/file"
	"github.com/jsphweid/intervaldex/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(indexCmd)
}

var indexCmd = &cobra.Command{
	Use:   "index [maxNum]",
	Short: "Creates index",
	Long:  `Parses every .mei file under MEDIA_PATH and writes the interval index to INDEX_PATH.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var maxNum int
		if len(args) == 1 {
			arg1, err := strconv.Atoi(args[0])
			if err != nil {
				panic(err)
			}
			maxNum = arg1
		}

		Index(maxNum)
	},
}

// connectStore returns nil when no metadata endpoint is configured.
func connectStore() *db.MetadataStore {
	endpoint := constants.GetMetadataEndpoint()
	if endpoint == "" {
		return nil
	}
	store, err := db.Connect(endpoint, constants.GetMetadataRegion(), constants.GetMetadataTable())
	if err != nil {
		panic(err)
	}
	return store
}

func Index(maxNum int) {
	util.RecreateOutputDir()
	paths, err := util.GatherAllMeiPaths(constants.GetMediaDir(), maxNum)
	if err != nil {
		panic(err)
	}
	fileNumMap := file.CreateFileNumMap(paths)

	var writer bucket.MetadataWriter
	if store := connectStore(); store != nil {
		writer = store
	}
	records, err := bucket.ProcessAllMeiFiles(fileNumMap, writer)
	if err != nil {
		panic(err)
	}

	chunks, err := chunk.CreateAll()
	if err != nil {
		panic(err)
	}
	cobra.CheckErr(util.CreateBinary(util.GetAllChunksPath(), chunks))
	cobra.CheckErr(util.CreateBinary(util.GetFileNumToNamePath(), fileNumMap))
	cobra.CheckErr(util.CreateBinary(util.GetRecordsPath(), records))
	cobra.CheckErr(bucket.DeleteAll())
}
