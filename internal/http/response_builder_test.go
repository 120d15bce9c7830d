package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestJSONResponseBuilder(t *testing.T) {
	w := httptest.NewRecorder()
	NewJSONResponse().
		Status(http.StatusCreated).
		Header("X-Custom", "1").
		Data(map[string]int{"n": 1}).
		Write(w)

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if w.Header().Get("X-Custom") != "1" {
		t.Error("custom header missing")
	}
	var got map[string]int
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil || got["n"] != 1 {
		t.Errorf("body = %q, %v", w.Body.String(), err)
	}
}

func TestJSONResponseBuilderWithoutBody(t *testing.T) {
	w := httptest.NewRecorder()
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
	if w.Code != http.StatusNoContent || w.Body.Len() != 0 {
		t.Errorf("got %d %q", w.Code, w.Body.String())
	}
}

func TestJSONResponseBuilderEncodingFailure(t *testing.T) {
	w := httptest.NewRecorder()
	NewJSONResponse().Data(make(chan int)).Write(w)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", w.Code)
	}
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name    string
		builder *JSONResponseBuilder
		status  int
		message string
		details string
	}{
		{"bad request", BadRequestError("bad"), http.StatusBadRequest, "bad", ""},
		{"unauthorized", UnauthorizedError("who"), http.StatusUnauthorized, "who", ""},
		{"unprocessable", UnprocessableEntityError("invalid", errors.New("amount")), http.StatusUnprocessableEntity, "invalid", "amount"},
		{"too many", TooManyRequestsError(), http.StatusTooManyRequests, "rate limit exceeded, please try again later", ""},
		{"internal", InternalServerError("boom"), http.StatusInternalServerError, "boom", ""},
		{"not found", NotFoundError("nope"), http.StatusNotFound, "nope", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.builder.StatusCode() != tt.status {
				t.Errorf("StatusCode() = %d", tt.builder.StatusCode())
			}
			w := httptest.NewRecorder()
			tt.builder.Write(w)
			var body ErrorBody
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if w.Code != tt.status || body.Error != tt.message || body.Details != tt.details {
				t.Errorf("got %d %+v", w.Code, body)
			}
		})
	}
}
