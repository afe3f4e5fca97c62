package cmd

import (
	"github.com/jsphweid/intervaldex/constants"
	"github.com/jsphweid/intervaldex/midi"
	"github.com/jsphweid/intervaldex/model"
	"github.com/jsphweid/intervaldex/search"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(queryCmd)
}

var queryCmd = &cobra.Command{
	Use:   "query <file.mid>",
	Short: "Searches the melody of a midi file",
	Long:  `Reads the note-ons of a Standard MIDI File in track order and searches the index for their intervals.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ix, err := search.Load(constants.GetIndexDir())
		cobra.CheckErr(err)
		keys, res, err := queryMidiFile(ix, args[0])
		if keys == nil {
			cobra.CheckErr(err)
		}
		printResults(keys, res, err)
	},
}

func queryMidiFile(ix *search.Index, path string) ([]uint8, model.SearchResponse, error) {
	s, err := midi.ReadMidiFile(path)
	if err != nil {
		return nil, model.SearchResponse{}, err
	}
	keys := midi.NoteOnKeys(s)
	res, err := ix.Search(midi.Intervals(keys))
	return keys, res, err
}
