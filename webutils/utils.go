package webutils

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/pkg/errors"
)

func WriteFileHeaders(w http.ResponseWriter, name string, contentType string) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "inline; filename=\""+name+"\"")
}

func WriteFile(w http.ResponseWriter, in io.Reader, name string, contentType string) {
	WriteFileHeaders(w, name, contentType)
	if _, err := io.Copy(w, in); err != nil {
		log.Printf("[web] Error when writing file %q: %v", name, err)
	}
}

func WriteJson(w http.ResponseWriter, data interface{}) {
	res, err := json.Marshal(data)
	if err != nil {
		WriteError(w, errors.Wrapf(err, "Failed to marshal"))
	} else {
		w.Header().Set("Content-Type", "application/json")
		WriteResult(w, res)
	}
}

// ReadJson decodes a POSTed json body into v.
func ReadJson(r *http.Request, v interface{}) error {
	if r.Method != http.MethodPost {
		return errors.Errorf("Invalid http method %q", r.Method)
	}
	defer r.Body.Close()

	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(v); err != nil {
		return errors.Wrapf(err, "Failed to unmarshal")
	}
	return nil
}

func WriteResult(w http.ResponseWriter, data []byte) {
	_, err := w.Write(data)
	if err != nil {
		log.Printf("Error when writing response: %v", err)
	}
}

func WriteError(w http.ResponseWriter, err error) {
	WriteErrorStatus(w, http.StatusBadRequest, err)
}

func WriteErrorStatus(w http.ResponseWriter, code int, err error) {
	type jError struct {
		Error string `json:"error"`
	}
	data, merr := json.Marshal(&jError{Error: err.Error()})
	if merr != nil {
		log.Printf("Error marshaling error '%v': %v", err, merr)
		http.Error(w, err.Error(), code)
		return
	}
	log.Printf("HERR: %v", string(data))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	WriteResult(w, data)
}
