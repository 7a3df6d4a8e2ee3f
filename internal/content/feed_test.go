package content

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avintas/shootout/internal/shootout"
)

func TestFeedFetchesTaggedArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": 1, "type": "multiple-choice", "prompt": "Most career goals?", "correct_answer": "Gretzky", "incorrect_answers": ["Howe"]},
			{"id": 1, "type": "true-false", "prompt": "A period lasts 20 minutes.", "answer": true}
		]`))
	}))
	defer srv.Close()

	feed := NewFeed(srv.URL, nil)
	questions, err := feed.Questions(context.Background())
	assert.NoError(t, err)
	assert.Len(t, questions, 2)
	assert.Equal(t, shootout.Ref{ID: 1, Kind: shootout.KindMultipleChoice}, questions[0].Ref())
	assert.Equal(t, shootout.Ref{ID: 1, Kind: shootout.KindTrueFalse}, questions[1].Ref())
}

func TestFeedRejectsNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	feed := NewFeed(srv.URL, nil)
	_, err := feed.Questions(context.Background())
	assert.Error(t, err)
}

func TestFeedRejectsMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not": "an array"}`))
	}))
	defer srv.Close()

	feed := NewFeed(srv.URL, nil)
	_, err := feed.Questions(context.Background())
	assert.Error(t, err)
}
