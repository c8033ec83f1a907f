package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/okian/pulso/internal/config"
	"github.com/okian/pulso/internal/domain/types"
	"github.com/okian/pulso/internal/presentation"
	"github.com/okian/pulso/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

// useDataDir points every dataset path at dir and disables .env loading.
func useDataDir(t *testing.T, dir string) {
	t.Helper()
	t.Setenv(config.EnvDotenvFile, "")
	t.Setenv("PULSO_ATTENDANCE_PATH", filepath.Join(dir, "dados.xlsx"))
	t.Setenv("PULSO_RANKING_PATH", filepath.Join(dir, "ranking.csv"))
	t.Setenv("PULSO_PREDICTIONS_PATH", filepath.Join(dir, "previsoes.csv"))
}

func run(args ...string) (string, error) {
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	convey.Convey("Given the root command", t, func() {
		root := newRootCmd()

		convey.Convey("Then every subcommand is registered", func() {
			names := make([]string, 0)
			for _, c := range root.Commands() {
				names = append(names, c.Name())
			}
			convey.So(names, convey.ShouldContain, "serve")
			convey.So(names, convey.ShouldContain, "summary")
			convey.So(names, convey.ShouldContain, "generate")
			convey.So(names, convey.ShouldContain, "version")
		})

		convey.Convey("Then running the bare binary serves", func() {
			convey.So(root.RunE, convey.ShouldNotBeNil)
		})

		convey.Convey("When the version command runs", func() {
			out, err := run("version")

			convey.Convey("Then it prints the binary name and version", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "pulso "+version)
			})
		})
	})
}

func TestConfigFromEnvironment(t *testing.T) {
	t.Setenv(config.EnvDotenvFile, "")
	t.Setenv("PULSO_ADDR", ":9090")
	t.Setenv("PULSO_TOP_N", "5")
	t.Setenv("PULSO_VALIDATION_POLICY", "strict")

	convey.Convey("Given PULSO_ environment variables", t, func() {
		cfg, _, err := setup(context.Background(), &globalFlags{}, io.Discard)

		convey.Convey("Then setup applies them", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
			convey.So(cfg.TopN, convey.ShouldEqual, 5)
			convey.So(cfg.ValidationPolicy, convey.ShouldEqual, config.PolicyStrict)
		})

		convey.Convey("Then a service can be wired from them", func() {
			svc, err := newService(cfg, logger.Get())
			convey.So(err, convey.ShouldBeNil)
			convey.So(svc, convey.ShouldNotBeNil)
		})
	})
}

func TestGenerateAndSummary(t *testing.T) {
	dir := t.TempDir()
	useDataDir(t, dir)

	convey.Convey("Given generated sample data", t, func() {
		out, err := run("generate", "--participants", "12", "--weeks", "3", "--seed", "7")
		convey.So(err, convey.ShouldBeNil)
		convey.So(out, convey.ShouldContainSubstring, "Participants: 12")
		convey.So(out, convey.ShouldContainSubstring, "dados.xlsx")

		convey.Convey("When summary runs without filters", func() {
			out, err := run("summary", "--json")
			convey.So(err, convey.ShouldBeNil)

			var view presentation.View
			convey.So(json.Unmarshal([]byte(out), &view), convey.ShouldBeNil)

			convey.Convey("Then every row is selected and both optional datasets are shown", func() {
				convey.So(view.Rows, convey.ShouldBeGreaterThan, 0)
				convey.So(view.Selection.Activities, convey.ShouldNotBeEmpty)
				convey.So(len(view.Cards), convey.ShouldEqual, 3)
				convey.So(view.Cards[0].Value, convey.ShouldNotBeNil)
				convey.So(view.Ranking.Status, convey.ShouldEqual, types.Available)
				convey.So(view.Predictions.Status, convey.ShouldEqual, types.Available)
			})
		})

		convey.Convey("When summary runs with an empty weekday filter", func() {
			out, err := run("summary", "--json", "--weekday=")
			convey.So(err, convey.ShouldBeNil)

			var view presentation.View
			convey.So(json.Unmarshal([]byte(out), &view), convey.ShouldBeNil)

			convey.Convey("Then the no-data state is reported", func() {
				convey.So(view.Rows, convey.ShouldEqual, 0)
				convey.So(view.Cards[0].Value, convey.ShouldBeNil)
				convey.So(view.Cards[0].Display, convey.ShouldEqual, config.New().NoDataLabel)
				convey.So(string(view.NoData), convey.ShouldNotBeEmpty)
			})
		})

		convey.Convey("When summary prints text", func() {
			out, err := run("summary")

			convey.Convey("Then metrics and charts are listed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "Average attendance rate:")
				convey.So(out, convey.ShouldContainSubstring, "Average attendance by weekday")
				convey.So(out, convey.ShouldContainSubstring, "Gamification ranking:")
			})
		})

		convey.Convey("When summary names an unknown activity", func() {
			_, err := run("summary", "--activity", "Xadrez")

			convey.Convey("Then it fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "Xadrez")
			})
		})
	})
}

func TestSummaryWithoutOptionalDatasets(t *testing.T) {
	dir := t.TempDir()
	useDataDir(t, dir)

	convey.Convey("Given only the attendance workbook", t, func() {
		_, err := run("generate", "--participants", "5", "--weeks", "2", "--skip-ranking", "--skip-predictions")
		convey.So(err, convey.ShouldBeNil)

		out, err := run("summary", "--json")
		convey.So(err, convey.ShouldBeNil)
		var view presentation.View
		convey.So(json.Unmarshal([]byte(out), &view), convey.ShouldBeNil)

		convey.Convey("Then the optional sections are placeholders", func() {
			convey.So(view.Ranking.Status, convey.ShouldEqual, types.Missing)
			convey.So(view.Ranking.Table, convey.ShouldBeNil)
			convey.So(string(view.Ranking.Placeholder), convey.ShouldNotBeEmpty)
			convey.So(view.Predictions.Status, convey.ShouldEqual, types.Missing)
		})
	})

	convey.Convey("Given no attendance workbook", t, func() {
		useDataDir(t, t.TempDir())
		_, err := run("summary")

		convey.Convey("Then summary fails", func() {
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestMux(t *testing.T) {
	dir := t.TempDir()
	useDataDir(t, dir)

	convey.Convey("Given a started service behind the mux", t, func() {
		_, err := run("generate", "--participants", "6", "--weeks", "2")
		convey.So(err, convey.ShouldBeNil)

		ctx := context.Background()
		cfg, log, err := setup(ctx, &globalFlags{}, io.Discard)
		convey.So(err, convey.ShouldBeNil)
		svc, err := newService(cfg, log)
		convey.So(err, convey.ShouldBeNil)
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		srv := httptest.NewServer(newMux(ctx, cfg, svc))
		defer srv.Close()
		client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}}

		get := func(path string) *http.Response {
			resp, err := client.Get(srv.URL + path)
			convey.So(err, convey.ShouldBeNil)
			_ = resp.Body.Close()
			return resp
		}

		convey.Convey("Then health, docs, page and assets are served", func() {
			convey.So(get("/healthz").StatusCode, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/openapi.yaml").StatusCode, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/dashboard").StatusCode, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/assets/dashboard.css").StatusCode, convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("Then the root redirects to the dashboard", func() {
			resp := get("/")
			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusFound)
			convey.So(resp.Header.Get("Location"), convey.ShouldEqual, "/dashboard")
		})
	})
}

func TestUpdateSystemMetrics(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		convey.So(updateSystemMetrics, convey.ShouldNotPanic)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
	})
}
