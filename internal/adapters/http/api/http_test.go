package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/okian/emotion/internal/adapters/http/api"
	"github.com/okian/emotion/internal/domain/emotion"
	. "github.com/smartystreets/goconvey/convey"
)

// mockDependencies records the text it was asked to classify.
type mockDependencies struct {
	scores   emotion.Scores
	err      error
	lastText string
	calls    int
}

func (m *mockDependencies) Detect(_ context.Context, text string) (emotion.Scores, error) {
	m.calls++
	m.lastText = text
	if strings.TrimSpace(text) == "" {
		return emotion.Absent(), nil
	}
	return m.scores, m.err
}

func (m *mockDependencies) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true, "total": m.calls}
}

var joyful = emotion.NewScores([emotion.Count]float64{0.0063, 0.0025, 0.0093, 0.968, 0.0497})

func newMux(deps *mockDependencies) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, nil).Register(context.Background(), mux)
	return mux
}

func serve(mux *http.ServeMux, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestServer_Register(t *testing.T) {
	Convey("Given a new API server", t, func() {
		deps := &mockDependencies{scores: joyful}
		mux := newMux(deps)

		Convey("When probing each route", func() {
			Convey("Then health endpoint should serve metrics", func() {
				w := serve(mux, httptest.NewRequest("GET", "/healthz", nil))
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And stats endpoint should return JSON", func() {
				w := serve(mux, httptest.NewRequest("GET", "/stats", nil))
				So(w.Code, ShouldEqual, http.StatusOK)
				var body map[string]interface{}
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body["started"], ShouldEqual, true)
			})

			Convey("And stats rejects POST", func() {
				w := serve(mux, httptest.NewRequest("POST", "/stats", nil))
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			})
		})

		Convey("When registering on a nil mux", func() {
			So(func() { api.NewServer(deps, nil).Register(context.Background(), nil) }, ShouldPanic)
		})
	})
}

func TestEmotionDetector(t *testing.T) {
	Convey("Given the text route", t, func() {
		deps := &mockDependencies{scores: joyful}
		mux := newMux(deps)

		Convey("When a GET carries textToAnalyze", func() {
			w := serve(mux, httptest.NewRequest("GET", "/emotionDetector?textToAnalyze="+url.QueryEscape("I love my life"), nil))

			Convey("Then the formatted sentence is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldStartWith, "text/plain")
				So(w.Body.String(), ShouldEqual,
					"For the given statement, the system response is 'anger': 0.0063, 'disgust': 0.0025, "+
						"'fear': 0.0093, 'joy': 0.968 and 'sadness': 0.0497. The dominant emotion is joy.")
				So(deps.lastText, ShouldEqual, "I love my life")
			})

			Convey("And a request id is assigned", func() {
				So(w.Header().Get(api.RequestIDHeader), ShouldNotBeEmpty)
			})
		})

		Convey("When a GET has no text", func() {
			w := serve(mux, httptest.NewRequest("GET", "/emotionDetector", nil))

			Convey("Then the invalid text message is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldEqual, "Invalid text! Please try again!")
			})
		})

		Convey("When a POST carries JSON", func() {
			req := httptest.NewRequest("POST", "/emotionDetector", strings.NewReader(`{"text":"I am glad this happened"}`))
			req.Header.Set("Content-Type", "application/json")
			w := serve(mux, req)

			Convey("Then the text is read from the body", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastText, ShouldEqual, "I am glad this happened")
				So(w.Body.String(), ShouldEndWith, "The dominant emotion is joy.")
			})
		})

		Convey("When a POST carries a form", func() {
			req := httptest.NewRequest("POST", "/emotionDetector", strings.NewReader("textToAnalyze=I+am+afraid"))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			w := serve(mux, req)

			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.lastText, ShouldEqual, "I am afraid")
		})

		Convey("When a POST carries malformed JSON", func() {
			req := httptest.NewRequest("POST", "/emotionDetector", strings.NewReader(`{"text":`))
			req.Header.Set("Content-Type", "application/json")
			w := serve(mux, req)

			Convey("Then it is a bad request and the detector is not called", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(deps.calls, ShouldEqual, 0)
			})
		})

		Convey("When the detector returns zero scores", func() {
			deps.scores = emotion.Zero()
			w := serve(mux, httptest.NewRequest("GET", "/emotionDetector?textToAnalyze=hmm", nil))
			So(w.Body.String(), ShouldEqual, emotion.InvalidTextMessage)
		})

		Convey("When the detector fails", func() {
			deps.err = errors.New("upstream 503")
			w := serve(mux, httptest.NewRequest("GET", "/emotionDetector?textToAnalyze=hello", nil))

			Convey("Then a generic error is returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadGateway)
				So(w.Body.String(), ShouldNotContainSubstring, "503")
			})
		})

		Convey("When the method is not supported", func() {
			w := serve(mux, httptest.NewRequest("DELETE", "/emotionDetector", nil))
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			So(w.Header().Get("Allow"), ShouldEqual, "GET, POST")
		})

		Convey("When the caller supplies a request id", func() {
			req := httptest.NewRequest("GET", "/emotionDetector?textToAnalyze=hi", nil)
			req.Header.Set(api.RequestIDHeader, "6f1c2f9e-2b7a-4a7e-9d7c-0d9b8f6e5a41")
			w := serve(mux, req)
			So(w.Header().Get(api.RequestIDHeader), ShouldEqual, "6f1c2f9e-2b7a-4a7e-9d7c-0d9b8f6e5a41")
		})
	})
}

func TestEmotionsJSON(t *testing.T) {
	Convey("Given the JSON route", t, func() {
		deps := &mockDependencies{scores: joyful}
		mux := newMux(deps)

		Convey("When the text is classified", func() {
			w := serve(mux, httptest.NewRequest("GET", "/api/emotions?textToAnalyze=yay", nil))

			Convey("Then the record is returned as JSON", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body map[string]interface{}
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body["dominant_emotion"], ShouldEqual, "joy")
				So(body["joy"], ShouldEqual, 0.968)
			})
		})

		Convey("When the text is blank", func() {
			req := httptest.NewRequest("POST", "/api/emotions", strings.NewReader(`{"text":"   "}`))
			w := serve(mux, req)

			Convey("Then 422 is returned", func() {
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
				So(w.Body.String(), ShouldContainSubstring, `"code":"invalid_text"`)
			})
		})

		Convey("When the upstream had no predictions", func() {
			deps.scores = emotion.Zero()
			w := serve(mux, httptest.NewRequest("GET", "/api/emotions?textToAnalyze=hmm", nil))

			Convey("Then zeros and a null dominant emotion are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"dominant_emotion":null`)
				So(w.Body.String(), ShouldContainSubstring, `"joy":0`)
			})
		})

		Convey("When the detector fails", func() {
			deps.err = errors.New("timeout")
			w := serve(mux, httptest.NewRequest("GET", "/api/emotions?textToAnalyze=x", nil))
			So(w.Code, ShouldEqual, http.StatusBadGateway)
			So(w.Body.String(), ShouldContainSubstring, `"code":"upstream_error"`)
		})
	})
}

func TestErrors(t *testing.T) {
	Convey("Given API errors", t, func() {
		cause := errors.New("eof")

		Convey("When wrapping a cause", func() {
			err := api.WrapKind("api.op", api.ErrBadRequest, cause)

			Convey("Then both kind and cause match", func() {
				So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
				So(errors.Is(err, cause), ShouldBeTrue)
				So(err.Error(), ShouldEqual, "api.op: bad request: eof")
			})
		})

		Convey("When creating a bare kind", func() {
			err := api.NewKind("api.op", api.ErrUpstream)
			So(errors.Is(err, api.ErrUpstream), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: emotion service unavailable")
		})
	})
}
