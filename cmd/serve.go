package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"time"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jsphweid/intervaldex/constants"
	"github.com/jsphweid/intervaldex/db"
	"github.com/jsphweid/intervaldex/excerpt"
	"github.com/jsphweid/intervaldex/file"
	"github.com/jsphweid/intervaldex/highlight"
	"github.com/jsphweid/intervaldex/logger"
	"github.com/jsphweid/intervaldex/mei"
	"github.com/jsphweid/intervaldex/midi"
	"github.com/jsphweid/intervaldex/model"
	"github.com/jsphweid/intervaldex/music"
	"github.com/jsphweid/intervaldex/sample"
	"github.com/jsphweid/intervaldex/search"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

const maxBodySize = 32 << 20

// releaseVersion is set via ldflags during build
var releaseVersion = "dev"

var (
	index     *search.Index
	store     *db.MetadataStore
	extractor excerpt.Extractor
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serves",
	Long:  `Serves search, excerpt and preview endpoints over the index in INDEX_PATH.`,
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

// LoadServeFiles loads everything the handlers need. MEDIA_PATH must be set.
func LoadServeFiles() {
	constants.GetMediaDir()

	ix, err := search.Load(constants.GetIndexDir())
	if err != nil {
		panic("Could not load index: " + err.Error())
	}
	index = ix
	store = connectStore()
	extractor = excerpt.Extractor{Strict: constants.StrictSections()}
}

type contextKey string

const requestIDKey contextKey = "request_id"

func requestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// trackRequests tags each request with an id and logs it once handled.
func trackRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New().String()
		w.Header().Set("X-Request-ID", id)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		start := time.Now()
		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
		logger.LogRequest(r.Method, r.URL.Path, id, time.Since(start), rec.status)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", err, logger.Fields{"request_id": requestID(r), "path": r.URL.Path})
	}
	writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(v)
}

func parseDocument(src []byte, name string) (*mei.Tree, *music.Document, error) {
	tree, err := mei.Parse(bytes.NewReader(src))
	if err != nil {
		return nil, nil, err
	}
	doc, err := mei.ParseDocument(tree, name)
	if err != nil {
		return nil, nil, err
	}
	return tree, doc, nil
}

// HandleIntervals parses the MEI document in the body and returns its record.
func HandleIntervals(w http.ResponseWriter, r *http.Request) {
	src, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, errors.Wrap(err, "could not read body"))
		return
	}
	name := r.URL.Query().Get("name")

	_, doc, err := parseDocument(src, name)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	record := model.NewRecord(name, 0, doc)

	if store != nil && name != "" && len(record.MeiMetadata) > 0 {
		if err := store.PutMeiMetadata(name, record.MeiMetadata); err != nil {
			logger.Error("Could not store metadata", err, logger.Fields{"request_id": requestID(r), "file": name})
		}
	}
	writeJSON(w, http.StatusOK, record)
}

func HandleSearch(w http.ResponseWriter, r *http.Request) {
	var input model.SearchRequestBody
	if err := decodeBody(w, r, &input); err != nil {
		writeError(w, r, http.StatusBadRequest, errors.Wrap(err, "could not unmarshal request body"))
		return
	}

	query := input.Intervals
	if input.Mei != "" {
		_, doc, err := parseDocument([]byte(input.Mei), "query")
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err)
			return
		}
		query = doc.Intervals()
	}

	res, err := index.Search(query)
	if errors.Is(err, search.ErrQueryTooShort) {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	if store != nil && len(res.Results) > 0 {
		names := make([]string, len(res.Results))
		for i, result := range res.Results {
			names[i] = result.Name
		}
		metadatas, err := store.GetMeiMetadatas(names)
		if err != nil {
			logger.Error("Could not load metadata", err, logger.Fields{"request_id": requestID(r)})
		}
		for i, result := range res.Results {
			if md, ok := metadatas[result.Name]; ok {
				res.Results[i].MeiMetadata = md
			}
		}
	}

	writeJSON(w, http.StatusOK, res)
}

// partialRanges maps the highlights of a partial request to merged measure ranges.
func partialRanges(body model.PartialRequestBody) ([]highlight.Range, error) {
	intervals, err := model.ParseInts(body.Source.IntervalsText)
	if err != nil {
		return nil, errors.Wrap(err, "bad intervals_text")
	}
	measureMap, err := model.ParseInts(body.Source.MeasureMap)
	if err != nil {
		return nil, errors.Wrap(err, "bad measure_map")
	}
	patterns, err := highlight.ExtractPatterns(body.Highlight)
	if err != nil {
		return nil, err
	}
	return highlight.MeasureRanges(intervals, measureMap, patterns)
}

// loadPartial decodes a partial request and reads its source file. It writes
// the error response itself and returns ok=false on failure.
func loadPartial(w http.ResponseWriter, r *http.Request) (ranges []highlight.Range, src []byte, name string, ok bool) {
	var body model.PartialRequestBody
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, r, http.StatusBadRequest, errors.Wrap(err, "could not unmarshal request body"))
		return nil, nil, "", false
	}

	ranges, err := partialRanges(body)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return nil, nil, "", false
	}

	src, err = file.ReadSource(constants.GetMediaDir(), body.Source.Name)
	switch {
	case errors.Is(err, file.ErrOutsideMediaDir):
		writeError(w, r, http.StatusBadRequest, err)
		return nil, nil, "", false
	case errors.Is(err, os.ErrNotExist):
		writeError(w, r, http.StatusNotFound, errors.Errorf("file %q not found", body.Source.Name))
		return nil, nil, "", false
	case err != nil:
		writeError(w, r, http.StatusInternalServerError, err)
		return nil, nil, "", false
	}
	return ranges, src, body.Source.Name, true
}

func HandlePartial(w http.ResponseWriter, r *http.Request) {
	ranges, src, _, ok := loadPartial(w, r)
	if !ok {
		return
	}

	tree, err := mei.Parse(bytes.NewReader(src))
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	ex, err := extractor.Extract(tree, ranges)
	if errors.Is(err, excerpt.ErrNoSection) || errors.Is(err, excerpt.ErrAmbiguousSection) {
		writeError(w, r, http.StatusUnprocessableEntity, err)
		return
	}
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	res := model.PartialResponse{
		Segments: ex.Segments,
		Skeleton: ex.Skeleton,
		Ranges:   make([][2]int, len(ranges)),
	}
	for i, rng := range ranges {
		res.Ranges[i] = [2]int{rng.Start, rng.End}
	}
	writeJSON(w, http.StatusOK, res)
}

func HandleSample(w http.ResponseWriter, r *http.Request) {
	ranges, src, name, ok := loadPartial(w, r)
	if !ok {
		return
	}

	_, doc, err := parseDocument(src, name)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	data, err := midi.Encode(sample.Create(doc, ranges))
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "audio/midi")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func HandleHealth(w http.ResponseWriter, r *http.Request) {
	files := 0
	if index != nil {
		files = index.NumFiles()
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "files": files})
}

func NewRouter() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/intervals", HandleIntervals).Methods("POST")
	router.HandleFunc("/search", HandleSearch).Methods("POST")
	router.HandleFunc("/partial", HandlePartial).Methods("POST")
	router.HandleFunc("/sample", HandleSample).Methods("POST")
	router.HandleFunc("/health", HandleHealth).Methods("GET")

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"X-Request-ID"},
	})
	sentryHandler := sentryhttp.New(sentryhttp.Options{Repanic: false})
	return trackRequests(sentryHandler.Handle(c.Handler(router)))
}

func serve() {
	flush := logger.InitSentry(constants.GetSentryDSN(), constants.GetEnvironment(), releaseVersion)
	defer flush()

	LoadServeFiles()

	addr := ":" + constants.GetPort()
	logger.Info("Starting server", logger.Fields{"addr": addr, "files": index.NumFiles()})
	if err := http.ListenAndServe(addr, NewRouter()); err != nil {
		logger.Error("Server stopped", err, nil)
		os.Exit(1)
	}
}
