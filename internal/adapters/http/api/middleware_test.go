package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestErrorClass(t *testing.T) {
	Convey("Given error status codes", t, func() {
		So(errorClass(http.StatusServiceUnavailable), ShouldEqual, errorClassNotReady)
		So(errorClass(http.StatusInternalServerError), ShouldEqual, errorClassServer)
		So(errorClass(http.StatusNotFound), ShouldEqual, errorClassNotFound)
		So(errorClass(http.StatusMethodNotAllowed), ShouldEqual, errorClassMethod)
		So(errorClass(http.StatusBadRequest), ShouldEqual, errorClassClient)

		So(errorSeverity(http.StatusInternalServerError), ShouldEqual, severityHigh)
		So(errorSeverity(http.StatusServiceUnavailable), ShouldEqual, severityMedium)
		So(errorSeverity(http.StatusBadRequest), ShouldEqual, severityLow)
	})
}

func TestMetricsMiddleware(t *testing.T) {
	Convey("Given a handler wrapped by the metrics middleware", t, func() {
		h := MetricsMiddleware(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("x"))
		}, "probe")

		Convey("Then the first status wins and the body passes through", func() {
			rec := httptest.NewRecorder()
			So(func() { h(rec, httptest.NewRequest(http.MethodGet, "/probe", nil)) }, ShouldNotPanic)
			So(rec.Code, ShouldEqual, http.StatusTeapot)
			So(rec.Body.String(), ShouldEqual, "x")
		})
	})
}
