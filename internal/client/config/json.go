package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dpetrovs/memhub/internal/flagx"
	"github.com/dpetrovs/memhub/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify timeouts either as strings like "10s"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config.
type JsonConfig struct {
	BackendURL        string         `json:"backend_url"`
	AnonKey           string         `json:"anon_key"`
	RequestTimeout    timex.Duration `json:"request_timeout"`
	ErrorToastTimeout timex.Duration `json:"error_toast_timeout"`
	InfoToastTimeout  timex.Duration `json:"info_toast_timeout"`
	NotesPageSize     int            `json:"notes_page_size"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path comes from the -c/-config flags; when absent, nothing is loaded.
// Only fields present in the file override the running config. Read or
// unmarshal errors panic; the entry point treats a broken config file as
// fatal.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.BackendURL != "" {
		cfg.BackendURL = jc.BackendURL
	}
	if jc.AnonKey != "" {
		cfg.AnonKey = jc.AnonKey
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.ErrorToastTimeout.Duration > 0 {
		cfg.ErrorToastTimeout = time.Duration(jc.ErrorToastTimeout.Duration)
	}
	if jc.InfoToastTimeout.Duration > 0 {
		cfg.InfoToastTimeout = time.Duration(jc.InfoToastTimeout.Duration)
	}
	if jc.NotesPageSize > 0 {
		cfg.NotesPageSize = jc.NotesPageSize
	}
}
