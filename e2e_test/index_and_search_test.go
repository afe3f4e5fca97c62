//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/jsphweid/intervaldex/cmd"
	"github.com/jsphweid/intervaldex/midi"
	"github.com/jsphweid/intervaldex/model"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	out, err := os.MkdirTemp("", "intervaldex-e2e")
	if err != nil {
		panic(err)
	}
	os.Setenv("MEDIA_PATH", "testdata")
	os.Setenv("INDEX_PATH", out)
	os.Unsetenv("METADATA_ENDPOINT")

	cmd.Index(0)
	cmd.LoadServeFiles()

	exitVal := m.Run()

	os.RemoveAll(out)
	os.Exit(exitVal)
}

func createReqBody(v any) io.Reader {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err.Error())
	}
	return bytes.NewReader(data)
}

func search(t *testing.T, intervals []int) model.SearchResponse {
	req := httptest.NewRequest(http.MethodPost, "/search", createReqBody(model.SearchRequestBody{Intervals: intervals}))
	w := httptest.NewRecorder()
	cmd.HandleSearch(w, req)

	resp := w.Result()
	respBody, _ := io.ReadAll(resp.Body)
	assert.Equal(t, 200, resp.StatusCode)

	var searchResponse model.SearchResponse
	err := json.Unmarshal(respBody, &searchResponse)
	if err != nil {
		panic(err.Error())
	}
	return searchResponse
}

func byName(res model.SearchResponse) map[string]model.SearchResult {
	m := make(map[string]model.SearchResult)
	for _, r := range res.Results {
		m[r.Name] = r
	}
	return m
}

func TestSharedFigureE2E(t *testing.T) {
	assert := assert.New(t)

	res := search(t, []int{2, 2, 1, 2})
	assert.Equal(2, res.NumFiles)
	assert.Equal(2, res.NumMatches)

	results := byName(res)
	assert.Equal([]uint32{0}, results["scale.mei"].Offsets)
	assert.Equal("<em>2 2 1 2</em> 2 2 1", results["scale.mei"].Highlight)
	assert.Equal([]uint32{1}, results["folk/minuet.mei"].Offsets)
	assert.Equal("-7 <em>2 2 1 2</em> -7 0 9 -4 2 2 2 2 -12 0", results["folk/minuet.mei"].Highlight)
	assert.Equal("0 0 0 0 0 1 1 1 2 2 2 2 2 3 3 3", results["folk/minuet.mei"].Source.MeasureMap)
}

func TestKeySignatureE2E(t *testing.T) {
	// F is sharp in the minuet, so the run from E5 up to F5 ends on a whole step.
	res := search(t, []int{-4, 2, 2, 2})
	assert.Equal(t, 1, res.NumFiles)
	assert.Equal(t, "folk/minuet.mei", res.Results[0].Name)
	assert.Equal(t, []uint32{8}, res.Results[0].Offsets)

	res = search(t, []int{-4, 2, 2, 1})
	assert.Equal(t, 0, res.NumFiles)
	assert.Empty(t, res.Results)
}

func TestBarlineIntervalUsesWrittenNotesE2E(t *testing.T) {
	// the F5 ending measure 3 is not sharpened for the step to G5 in measure 4
	res := search(t, []int{2, 2, 2, 2, -12})
	assert.Equal(t, 1, res.NumFiles)
	assert.Equal(t, []uint32{9}, res.Results[0].Offsets)
}

func minuetPartial() model.PartialRequestBody {
	return model.PartialRequestBody{
		Source: model.PartialSource{
			Name:          "folk/minuet.mei",
			IntervalsText: "-7 2 2 1 2 -7 0 9 -4 2 2 2 2 -12 0",
			MeasureMap:    "0 0 0 0 0 1 1 1 2 2 2 2 2 3 3 3",
		},
		Highlight: "<em>-7 2 2 1</em> 2 -7 0 9 -4 2 2 2 2 <em>-12 0</em>",
	}
}

func TestPartialE2E(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/partial", createReqBody(minuetPartial()))
	w := httptest.NewRecorder()
	cmd.HandlePartial(w, req)

	resp := w.Result()
	assert := assert.New(t)
	assert.Equal(200, resp.StatusCode)

	var partial model.PartialResponse
	assert.NoError(json.NewDecoder(resp.Body).Decode(&partial))
	assert.Equal([][2]int{{0, 0}, {3, 3}}, partial.Ranges)
	assert.Len(partial.Segments, 2)
	for _, segment := range partial.Segments {
		assert.True(strings.HasPrefix(segment, "<scoreDef "))
		assert.Contains(segment, `key.sig="1s"`)
	}
	assert.Contains(partial.Segments[0], `<measure n="1">`)
	assert.NotContains(partial.Segments[0], `<measure n="2">`)
	assert.Contains(partial.Segments[1], `<measure n="4">`)
	assert.NotContains(partial.Segments[1], `<measure n="3">`)
	assert.Contains(partial.Skeleton, "<section/>")
}

func TestSampleE2E(t *testing.T) {
	body := minuetPartial()
	body.Highlight = "-7 2 2 1 2 -7 0 9 -4 <em>2 2 2 2</em> -12 0"
	req := httptest.NewRequest(http.MethodPost, "/sample", createReqBody(body))
	w := httptest.NewRecorder()
	cmd.HandleSample(w, req)

	resp := w.Result()
	assert.Equal(t, 200, resp.StatusCode)

	data, _ := io.ReadAll(resp.Body)
	s, err := midi.Decode(data)
	assert.NoError(t, err)
	assert.Equal(t, []uint8{76, 72, 74, 76, 78, 79, 67, 67}, midi.NoteOnKeys(s))
}
