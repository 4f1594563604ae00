package aoc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const answerPage = `<!DOCTYPE html>
<html lang="en-us">
<head><title>Day 1 - Advent of Code 2020</title></head>
<body>
<header><h1>Advent of Code</h1></header>
<main>
<article><p>%s</p></article>
</main>
</body>
</html>`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{BaseURL: srv.URL, Session: "s3cr3t", Timeout: 5 * time.Second})
	require.NoError(t, err)
	return c
}

func assertSession(t *testing.T, r *http.Request) {
	t.Helper()
	cookie, err := r.Cookie("session")
	if assert.NoError(t, err) {
		assert.Equal(t, "s3cr3t", cookie.Value)
	}
}

func TestFetchInput_ReturnsBodyVerbatim(t *testing.T) {
	body := "1721\n979\n366\n299\n675\n1456\n"
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2020/day/1/input", r.URL.Path)
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		assertSession(t, r)
		_, _ = w.Write([]byte(body))
	})

	got, err := c.FetchInput(context.Background(), 2020, 1)
	require.NoError(t, err)
	assert.Equal(t, body, got)
}

func TestFetchInput_OversizedBodyIsRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("9\n", 16)))
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{BaseURL: srv.URL, Session: "s3cr3t", MaxResponseSize: 32})
	require.NoError(t, err)
	got, err := c.FetchInput(context.Background(), 2020, 1)
	require.NoError(t, err)
	assert.Len(t, got, 32, "a body of exactly the limit is accepted")

	c, err = NewClient(Config{BaseURL: srv.URL, Session: "s3cr3t", MaxResponseSize: 31})
	require.NoError(t, err)
	got, err = c.FetchInput(context.Background(), 2020, 1)
	require.Error(t, err)
	assert.Empty(t, got)
	assert.True(t, IsFetchError(err))
	assert.ErrorIs(t, err, ErrResponseTooLarge)

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusOK, fe.StatusCode)
}

func TestFetchInput_MissingSession(t *testing.T) {
	c, err := NewClient(Config{BaseURL: "http://127.0.0.1:1"})
	require.NoError(t, err)

	_, err = c.FetchInput(context.Background(), 2020, 1)
	require.Error(t, err)
	assert.True(t, IsAuthError(err))
	assert.ErrorIs(t, err, ErrSessionMissing)
}

func TestFetchInput_RejectedSession(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Puzzle inputs differ by user.  Please log in to get your puzzle input.", http.StatusBadRequest)
	})

	_, err := c.FetchInput(context.Background(), 2020, 1)
	require.Error(t, err)
	assert.True(t, IsAuthError(err))
	assert.False(t, IsFetchError(err))
}

func TestFetchInput_RedirectIsAuthError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/auth/login", http.StatusFound)
	})

	_, err := c.FetchInput(context.Background(), 2020, 1)
	assert.True(t, IsAuthError(err))
}

func TestFetchInput_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.FetchInput(context.Background(), 2020, 1)
	require.Error(t, err)

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusInternalServerError, fe.StatusCode)
	assert.Equal(t, 2020, fe.Year)
	assert.Equal(t, 1, fe.Day)
}

func TestSubmitAnswer_Outcomes(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		outcome Outcome
		wait    time.Duration
	}{
		{"correct", "That's the right answer!  You are one gold star closer to saving your vacation.", OutcomeCorrect, 0},
		{"incorrect", "That's not the right answer; your answer is too high.", OutcomeIncorrect, 0},
		{"already solved", "You don't seem to be solving the right level.  Did you already complete it?", OutcomeAlreadySolved, 0},
		{"rate limited", "You gave an answer too recently; you have to wait after submitting an answer before trying again.  You have 1m 30s left to wait.", OutcomeRateLimited, 91 * time.Second},
		{"rate limited seconds", "You gave an answer too recently.  You have 12s left to wait.", OutcomeRateLimited, 13 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/2020/day/1/answer", r.URL.Path)
				assertSession(t, r)
				assert.NoError(t, r.ParseForm())
				assert.Equal(t, "1", r.PostForm.Get("level"))
				assert.Equal(t, "514579", r.PostForm.Get("answer"))
				w.Header().Set("Content-Type", "text/html")
				_, _ = w.Write([]byte(sprintf(answerPage, tt.text)))
			})

			res, err := c.SubmitAnswer(context.Background(), 2020, 1, 1, "514579")
			require.NoError(t, err)
			assert.Equal(t, tt.outcome, res.Outcome)
			assert.Equal(t, tt.wait, res.Wait)
			assert.Equal(t, tt.text, res.Message)
		})
	}
}

func TestSubmitAnswer_UnexpectedPage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sprintf(answerPage, "Something else entirely.")))
	})

	_, err := c.SubmitAnswer(context.Background(), 2020, 1, 2, "42")
	require.Error(t, err)
	assert.True(t, IsSubmissionError(err))
	assert.Contains(t, err.Error(), "Something else entirely.")
}

func TestSubmitAnswer_NoArticle(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body><p>hi</p></body></html>"))
	})

	_, err := c.SubmitAnswer(context.Background(), 2020, 1, 2, "42")
	assert.True(t, IsSubmissionError(err))
}

func TestSubmitAnswer_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL, Session: "s3cr3t"})
	require.NoError(t, err)

	_, err = c.SubmitAnswer(context.Background(), 2020, 1, 1, "1")
	require.Error(t, err)

	var se *SubmissionError
	require.ErrorAs(t, err, &se)
	assert.Zero(t, se.StatusCode)
	assert.Equal(t, 1, se.Part)
}

func TestPuzzleURL(t *testing.T) {
	c, err := NewClient(Config{BaseURL: "https://example.test/"})
	require.NoError(t, err)
	assert.Equal(t, "https://example.test/2020/day/5", c.PuzzleURL(2020, 5))
}
