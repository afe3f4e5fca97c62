package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/jsphweid/intervaldex/constants"
	"github.com/jsphweid/intervaldex/midi"
	"github.com/jsphweid/intervaldex/model"
	"github.com/jsphweid/intervaldex/search"
	"github.com/spf13/cobra"
	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver
)

const melodyPause = 500 * time.Millisecond

var listenPort int

func init() {
	listenCmd.Flags().IntVarP(&listenPort, "port", "p", 0, "midi in port number")
	rootCmd.AddCommand(listenCmd)
}

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Searches melodies played on a midi keyboard",
	Long:  `Listens on a midi in port and searches the index for each phrase once playing pauses.`,
	Run: func(cmd *cobra.Command, args []string) {
		listen()
	},
}

// melody collects played keys until a pause.
type melody struct {
	mu   sync.Mutex
	keys []uint8
}

func (m *melody) add(key uint8) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys = append(m.keys, key)
}

func (m *melody) take() []uint8 {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := m.keys
	m.keys = nil
	return keys
}

func printResults(keys []uint8, res model.SearchResponse, err error) {
	names := make([]string, len(keys))
	for i, key := range keys {
		names[i] = midi.KeyName(key)
	}
	fmt.Printf("played: %v\n", names)

	if err != nil {
		fmt.Printf("  %v\n", err)
		return
	}
	fmt.Printf("  %v matches in %v files\n", res.NumMatches, res.NumFiles)
	for _, result := range res.Results {
		fmt.Printf("  %v: %v\n", result.Name, result.Highlight)
	}
}

func listen() {
	defer gomidi.CloseDriver()
	in, err := gomidi.InPort(listenPort)
	if err != nil {
		fmt.Printf("can't find midi in port %v\n", listenPort)
		return
	}

	ix, err := search.Load(constants.GetIndexDir())
	if err != nil {
		panic("Could not load index: " + err.Error())
	}

	played := &melody{}
	debounced := debounce.New(melodyPause)

	stop, err := gomidi.ListenTo(in, func(msg gomidi.Message, timestampms int32) {
		var ch, key, vel uint8
		if msg.GetNoteStart(&ch, &key, &vel) {
			played.add(key)
			debounced(func() {
				keys := played.take()
				res, err := ix.Search(midi.Intervals(keys))
				printResults(keys, res, err)
			})
		}
	})
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		return
	}
	defer stop()

	fmt.Printf("listening on %v, ctrl-c to stop\n", in)
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	<-interrupt
}
