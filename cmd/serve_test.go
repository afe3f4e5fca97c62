package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jsphweid/intervaldex/midi"
	"github.com/jsphweid/intervaldex/model"
	"github.com/stretchr/testify/assert"
)

const scale = `<?xml version="1.0" encoding="UTF-8"?>
<mei xmlns="http://www.music-encoding.org/ns/mei">
  <meiHead><fileDesc><titleStmt><title type="main">Scale</title></titleStmt></fileDesc></meiHead>
  <music><body><mdiv><score>
    <scoreDef key.sig="0"/>
    <section>
      <measure n="1"><staff n="1"><layer n="1">
        <note pname="c" oct="4" dur="4"/><note pname="d" oct="4" dur="4"/>
        <note pname="e" oct="4" dur="4"/><note pname="f" oct="4" dur="4"/>
      </layer></staff></measure>
      <measure n="2"><staff n="1"><layer n="1">
        <note pname="g" oct="4" dur="4"/><note pname="a" oct="4" dur="4"/>
        <note pname="b" oct="4" dur="4"/><note pname="c" oct="5" dur="4"/>
      </layer></staff></measure>
    </section>
  </score></mdiv></body></music>
</mei>`

// setupServer indexes a media dir holding scale.mei and loads it for the handlers.
func setupServer(t *testing.T) {
	t.Helper()
	mediaDir := t.TempDir()
	t.Setenv("MEDIA_PATH", mediaDir)
	t.Setenv("INDEX_PATH", filepath.Join(t.TempDir(), "out"))
	t.Setenv("METADATA_ENDPOINT", "")
	assert.NoError(t, os.WriteFile(filepath.Join(mediaDir, "scale.mei"), []byte(scale), 0644))

	Index(0)
	LoadServeFiles()
}

func post(t *testing.T, handler http.HandlerFunc, target string, body any) *http.Response {
	t.Helper()
	var data []byte
	switch b := body.(type) {
	case string:
		data = []byte(b)
	default:
		var err error
		data, err = json.Marshal(b)
		assert.NoError(t, err)
	}
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(data))
	w := httptest.NewRecorder()
	handler(w, req)
	return w.Result()
}

func decode[A any](t *testing.T, resp *http.Response) A {
	t.Helper()
	var res A
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	return res
}

func TestHandleSearch(t *testing.T) {
	setupServer(t)
	assert := assert.New(t)

	resp := post(t, HandleSearch, "/search", model.SearchRequestBody{Intervals: []int{2, 2, 1, 2}})
	assert.Equal(http.StatusOK, resp.StatusCode)

	res := decode[model.SearchResponse](t, resp)
	assert.Equal(1, res.NumFiles)
	assert.Equal(1, res.NumMatches)
	assert.Equal("scale.mei", res.Results[0].Name)
	assert.Equal("<em>2 2 1 2</em> 2 2 1", res.Results[0].Highlight)
	assert.Equal("0 0 0 0 1 1 1 1", res.Results[0].Source.MeasureMap)
}

func TestHandleSearchWithMeiQuery(t *testing.T) {
	setupServer(t)

	query := `<mei><music><body><mdiv><score><section>
  <measure n="1"><staff n="1"><layer n="1">
    <note pname="f" oct="4"/><note pname="g" oct="4"/><note pname="a" oct="4"/>
    <note pname="b" oct="4"/><note pname="c" oct="5"/>
  </layer></staff></measure>
</section></score></mdiv></body></music></mei>`

	resp := post(t, HandleSearch, "/search", model.SearchRequestBody{Mei: query})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	res := decode[model.SearchResponse](t, resp)
	assert.Equal(t, []int{2, 2, 2, 1}, res.Query)
	assert.Equal(t, 1, res.NumFiles)
	assert.Equal(t, []uint32{3}, res.Results[0].Offsets)
}

func TestHandleSearchRejectsBadInput(t *testing.T) {
	setupServer(t)

	resp := post(t, HandleSearch, "/search", model.SearchRequestBody{Intervals: []int{2, 2}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decode[model.ErrorResponse](t, resp).Error, "at least")

	resp = post(t, HandleSearch, "/search", "{not json")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = post(t, HandleSearch, "/search", model.SearchRequestBody{Mei: "<mei><unclosed></mei>"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleIntervals(t *testing.T) {
	setupServer(t)

	resp := post(t, HandleIntervals, "/intervals?name=upload.mei", scale)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	record := decode[model.Record](t, resp)
	assert.Equal(t, "upload.mei", record.Name)
	assert.Equal(t, "2 2 1 2 2 2 1", record.IntervalsText)
	assert.Equal(t, "scale", record.MeiMetadata["titles"])
}

func partialBody() model.PartialRequestBody {
	return model.PartialRequestBody{
		Source: model.PartialSource{
			Name:          "scale.mei",
			IntervalsText: "2 2 1 2 2 2 1",
			MeasureMap:    "0 0 0 0 1 1 1 1",
		},
		Highlight: "<em>2 2 1 2</em> 2 2 1",
	}
}

func TestHandlePartial(t *testing.T) {
	setupServer(t)
	assert := assert.New(t)

	resp := post(t, HandlePartial, "/partial", partialBody())
	assert.Equal(http.StatusOK, resp.StatusCode)

	res := decode[model.PartialResponse](t, resp)
	assert.Equal([][2]int{{0, 1}}, res.Ranges)
	assert.Len(res.Segments, 1)
	assert.True(strings.HasPrefix(res.Segments[0], `<scoreDef key.sig="0"/>`))
	assert.Contains(res.Segments[0], `<measure n="1">`)
	assert.Contains(res.Segments[0], `<measure n="2">`)
	assert.Contains(res.Skeleton, "<section/>")
	assert.NotContains(res.Skeleton, "<measure")
}

func TestHandlePartialErrors(t *testing.T) {
	setupServer(t)

	body := partialBody()
	body.Source.Name = "missing.mei"
	resp := post(t, HandlePartial, "/partial", body)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	body = partialBody()
	body.Source.Name = "../scale.mei"
	resp = post(t, HandlePartial, "/partial", body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body = partialBody()
	body.Source.MeasureMap = "0 0"
	resp = post(t, HandlePartial, "/partial", body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body = partialBody()
	body.Source.IntervalsText = "2 x 1"
	resp = post(t, HandlePartial, "/partial", body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandlePartialWithoutSection(t *testing.T) {
	setupServer(t)
	noSection := strings.NewReplacer("<section>", "", "</section>", "").Replace(scale)
	assert.NoError(t, os.WriteFile(filepath.Join(os.Getenv("MEDIA_PATH"), "flat.mei"), []byte(noSection), 0644))

	body := partialBody()
	body.Source.Name = "flat.mei"
	resp := post(t, HandlePartial, "/partial", body)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestHandleSample(t *testing.T) {
	setupServer(t)

	resp := post(t, HandleSample, "/sample", partialBody())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "audio/midi", resp.Header.Get("Content-Type"))

	data, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	s, err := midi.Decode(data)
	assert.NoError(t, err)
	assert.Equal(t, []uint8{60, 62, 64, 65, 67, 69, 71, 72}, midi.NoteOnKeys(s))
}

func TestRouter(t *testing.T) {
	setupServer(t)
	router := NewRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.JSONEq(t, `{"status":"ok","files":1}`, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/search", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	req = httptest.NewRequest(http.MethodOptions, "/search", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
