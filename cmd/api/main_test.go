package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMethodsServe(t *testing.T) {
	m := methods{
		http.MethodGet: func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		},
	}

	cases := map[string]int{
		http.MethodGet:     http.StatusTeapot,
		http.MethodOptions: http.StatusOK,
		http.MethodPost:    http.StatusMethodNotAllowed,
	}
	for method, want := range cases {
		w := httptest.NewRecorder()
		m.serve(w, httptest.NewRequest(method, "/tasks", nil))
		assert.Equal(t, want, w.Code, method)
	}
}
