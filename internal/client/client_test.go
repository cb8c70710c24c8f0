// Copyright 2025 The OpenChoreo Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/openchoreo/maxctrl/internal/faults"
)

type recordedRequest struct {
	Method      string
	Path        string
	User        string
	Password    string
	ContentType string
	RequestID   string
	Body        []byte
}

type fakeAPI struct {
	mu       sync.Mutex
	requests []recordedRequest
	status   int
	body     string
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	user, password, _ := r.BasicAuth()

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method:      r.Method,
		Path:        r.URL.Path,
		User:        user,
		Password:    password,
		ContentType: r.Header.Get("Content-Type"),
		RequestID:   r.Header.Get(RequestIDHeader),
		Body:        body,
	})
	status, respBody := f.status, f.body
	f.mu.Unlock()

	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, respBody)
}

func (f *fakeAPI) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

var _ = Describe("Client", func() {
	var (
		api    *fakeAPI
		server *httptest.Server
		c      *Client
		ctx    context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		api = &fakeAPI{}
		server = httptest.NewServer(api)
		DeferCleanup(server.Close)

		var err error
		c, err = New(Options{BaseURL: server.URL + "/v1", User: "admin", Password: "mariadb", Timeout: 5 * time.Second})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Get", func() {
		It("fetches and decodes the resource document", func() {
			api.body = `{"data":{"id":"db1","attributes":{"parameters":{"port":3306}}}}`

			doc, err := c.Get(ctx, "servers/db1")
			Expect(err).NotTo(HaveOccurred())

			params := doc["data"].(map[string]any)["attributes"].(map[string]any)["parameters"].(map[string]any)
			Expect(params["port"]).To(Equal(json.Number("3306")))

			reqs := api.recorded()
			Expect(reqs).To(HaveLen(1))
			Expect(reqs[0].Method).To(Equal(http.MethodGet))
			Expect(reqs[0].Path).To(Equal("/v1/servers/db1"))
			Expect(reqs[0].User).To(Equal("admin"))
			Expect(reqs[0].Password).To(Equal("mariadb"))
			_, err = uuid.Parse(reqs[0].RequestID)
			Expect(err).NotTo(HaveOccurred())
		})

		It("treats an empty body as an empty document", func() {
			doc, err := c.Get(ctx, "maxscale")
			Expect(err).NotTo(HaveOccurred())
			Expect(doc).To(BeEmpty())
		})

		It("rejects a non-object body", func() {
			api.body = `[1,2,3]`
			_, err := c.Get(ctx, "maxscale")
			Expect(faults.IsCategory(err, faults.ValidationError)).To(BeTrue())
		})

		It("rejects an empty resource path without a request", func() {
			_, err := c.Get(ctx, "/")
			Expect(faults.IsCategory(err, faults.ValidationError)).To(BeTrue())
			Expect(api.recorded()).To(BeEmpty())
		})
	})

	Describe("Patch", func() {
		It("sends the document as JSON", func() {
			api.status = http.StatusNoContent
			doc := map[string]any{"attributes": map[string]any{"parameters": map[string]any{"log_warning": "true"}}}

			Expect(c.Patch(ctx, "maxscale", doc)).To(Succeed())

			reqs := api.recorded()
			Expect(reqs).To(HaveLen(1))
			Expect(reqs[0].Method).To(Equal(http.MethodPatch))
			Expect(reqs[0].Path).To(Equal("/v1/maxscale"))
			Expect(reqs[0].ContentType).To(Equal("application/json"))
			Expect(reqs[0].Body).To(MatchJSON(`{"attributes":{"parameters":{"log_warning":"true"}}}`))
		})
	})

	DescribeTable("maps error statuses to fault categories",
		func(status int, body string, category faults.Category, detail string) {
			api.status = status
			api.body = body

			err := c.Patch(ctx, "servers/db1", map[string]any{})
			Expect(err).To(HaveOccurred())
			Expect(faults.CategoryOf(err)).To(Equal(category))
			Expect(err.Error()).To(ContainSubstring(detail))
		},
		Entry("unauthorized", http.StatusUnauthorized, ``, faults.AuthError, "401"),
		Entry("forbidden", http.StatusForbidden, ``, faults.AuthError, "403"),
		Entry("not found", http.StatusNotFound, `{"errors":[{"detail":"No server 'db1'"}]}`, faults.NotFoundError, "No server 'db1'"),
		Entry("conflict", http.StatusConflict, `busy`, faults.ConflictError, "busy"),
		Entry("bad request", http.StatusBadRequest, `{"errors":[{"detail":"Unknown parameter"}]}`, faults.ValidationError, "Unknown parameter"),
		Entry("server error", http.StatusInternalServerError, `oops`, faults.TransportError, "oops"),
	)

	It("reports connection failures as transport errors", func() {
		server.Close()
		_, err := c.Get(ctx, "maxscale")
		Expect(faults.IsCategory(err, faults.TransportError)).To(BeTrue())
	})
})

var _ = Describe("New", func() {
	DescribeTable("validates the base URL",
		func(raw string) {
			_, err := New(Options{BaseURL: raw})
			Expect(faults.IsCategory(err, faults.ValidationError)).To(BeTrue())
		},
		Entry("empty", ""),
		Entry("no scheme", "127.0.0.1:8989"),
		Entry("unsupported scheme", "ftp://host/v1"),
		Entry("no host", "http:///v1"),
	)

	It("joins resource paths onto the base path", func() {
		c, err := New(Options{BaseURL: "https://maxscale.example:8989/v1/"})
		Expect(err).NotTo(HaveOccurred())
		Expect(c.URL("servers/db1")).To(Equal("https://maxscale.example:8989/v1/servers/db1"))
		Expect(c.URL("/maxscale")).To(Equal("https://maxscale.example:8989/v1/maxscale"))
	})
})

var _ = Describe("summarizeBody", func() {
	It("truncates long bodies", func() {
		long := make([]byte, 1000)
		for i := range long {
			long[i] = 'x'
		}
		Expect(summarizeBody(long)).To(HaveLen(maxSummaryLength + len("...")))
	})
})
