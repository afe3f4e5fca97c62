package constants

import "os"

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func GetIndexDir() string {
	return getEnv("INDEX_PATH", "./out")
}

func GetMediaDir() string {
	path := os.Getenv("MEDIA_PATH")
	if path != "" {
		return path
	}

	panic("MEDIA_PATH environment variable is not set!")
}

func GetPort() string {
	return getEnv("PORT", "8080")
}

func GetEnvironment() string {
	return getEnv("ENVIRONMENT", "development")
}

func GetSentryDSN() string {
	return os.Getenv("SENTRY_DSN")
}

// GetMetadataEndpoint is the DynamoDB endpoint for the metadata table. Empty
// disables the metadata store.
func GetMetadataEndpoint() string {
	return os.Getenv("METADATA_ENDPOINT")
}

func GetMetadataRegion() string {
	return getEnv("METADATA_REGION", "localhost")
}

func GetMetadataTable() string {
	return getEnv("METADATA_TABLE", "intervaldex-metadata")
}

// StrictSections makes excerpt extraction refuse documents with more than one
// top-level section instead of keeping the first.
func StrictSections() bool {
	return os.Getenv("STRICT_SECTIONS") == "true"
}

// Number of consecutive intervals that make up an index key.
const NgramSize = 4

// NgramSize intervals as int8, 4 for offset, 4 for fileNum
const PostingSize = NgramSize + 8

// 4 for offset, 4 for fileNum
const ChunkEntrySize = 8

const PreferredChunkSize = 64 * 1024 * 1024

// const PreferredChunkSize = 64 * 1024

const (
	AllChunksFile     = "allChunks.dat"
	FileNumToNameFile = "fileNumToName.dat"
	RecordsFile       = "records.dat"
)
