package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/jsphweid/intervaldex/bucket"
	"github.com/jsphweid/intervaldex/chunk"
	"github.com/jsphweid/intervaldex/constants"
	"github.com/jsphweid/intervaldex/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Creates a report",
	Long:  `Summarizes the bucket and chunk files in INDEX_PATH.`,
	Run: func(cmd *cobra.Command, args []string) {
		report()
	},
}

var chunkFilePattern = regexp.MustCompile("^[0-9a-fA-F]{8}-([0-9a-fA-F]{4}-){3}[0-9a-fA-F]{12}.dat$")

type bucketsReport struct {
	numPostings int64
	numFiles    int64
	numBytes    int64
}

type chunksReport struct {
	avgIndexPercent   float32
	indexPercents     []float32
	postingsInIndexes []int64
	numFiles          int64
	numPostings       int64
	totalBytes        int64
	dataBytes         int64
}

func analyzeBuckets() bucketsReport {
	var report bucketsReport

	paths, err := bucket.Paths(constants.GetIndexDir())
	if err != nil {
		panic(err)
	}
	for _, path := range paths {
		stats, err := os.Stat(path)
		if err != nil {
			panic("Could not get file stats: " + err.Error())
		}
		report.numFiles += 1
		report.numBytes += stats.Size()
		report.numPostings += stats.Size() / constants.PostingSize
	}

	return report
}

func analyzeChunks() chunksReport {
	var report chunksReport
	dir := constants.GetIndexDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		panic("Could not read dir because: " + err.Error())
	}

	for _, entry := range entries {
		if !chunkFilePattern.MatchString(entry.Name()) {
			continue
		}
		report.numFiles += 1
		f := util.OpenFileOrPanic(filepath.Join(dir, entry.Name()))
		index, indexLength := chunk.ReadIndexOrPanic(f)

		var postingsInIndex int64
		for _, v := range index {
			postingsInIndex += int64(v.End-v.Start) / constants.ChunkEntrySize
		}
		report.postingsInIndexes = append(report.postingsInIndexes, postingsInIndex)

		stats, err := f.Stat()
		if err != nil {
			panic("Could not get file stats")
		}
		report.totalBytes += stats.Size()
		report.indexPercents = append(report.indexPercents, float32(indexLength+4)/float32(stats.Size()))

		dataBytes := stats.Size() - int64(indexLength+4)
		report.dataBytes += dataBytes
		report.numPostings += dataBytes / constants.ChunkEntrySize
		f.Close()
	}
	if report.totalBytes > 0 {
		report.avgIndexPercent = float32(report.totalBytes-report.dataBytes) / float32(report.totalBytes)
	}
	return report
}

func report() {
	// buckets only survive an index run that was interrupted before cleanup
	bucketsReport := analyzeBuckets()
	chunksReport := analyzeChunks()
	fmt.Printf("bucketsReport.numFiles: %v\n", bucketsReport.numFiles)
	fmt.Printf("bucketsReport.numPostings: %v\n", bucketsReport.numPostings)
	fmt.Printf("bucketsReport.numBytes: %v\n", bucketsReport.numBytes)

	fmt.Printf("chunksReport.numFiles: %v\n", chunksReport.numFiles)
	fmt.Printf("chunksReport.avgIndexPercent: %v\n", chunksReport.avgIndexPercent)
	fmt.Printf("chunksReport.postingsInIndexes: %v\n", chunksReport.postingsInIndexes)
	fmt.Printf("numCalcedPostings from indexes: %v\n", util.Sum(chunksReport.postingsInIndexes))
	fmt.Printf("chunksReport.numPostings: %v\n", chunksReport.numPostings)
	fmt.Printf("chunksReport.totalBytes: %v\n", chunksReport.totalBytes)
}
