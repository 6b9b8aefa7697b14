package circulation_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/circulation-toolkit/sip2gateway/internal/cache"
	"github.com/circulation-toolkit/sip2gateway/internal/entity"
	"github.com/circulation-toolkit/sip2gateway/internal/usecase/auth"
	"github.com/circulation-toolkit/sip2gateway/internal/usecase/circulation"
	"github.com/circulation-toolkit/sip2gateway/pkg/logger"
)

type object = map[string]interface{}

type payment struct {
	AccountID string
	Amount    string
}

// fakeBackend is an in-memory circulation backend that counts calls per resource.
type fakeBackend struct {
	mu      sync.Mutex
	calls   map[string]int
	queries map[string][]string
	paid    []payment

	users         []object
	manual        []object
	automated     []object
	accounts      []object
	openLoans     []object
	overdueLoans  []object
	holds         []object
	unavailable   []object
	recalledItems map[string]bool
	items         []object
	configs       map[string]string
	settings      object
	failing       map[string]bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		calls:   map[string]int{},
		queries: map[string][]string{},
		users: []object{{
			"id":      "u-1",
			"barcode": "patron-1",
			"active":  true,
			"personal": object{
				"lastName":  "Doe",
				"firstName": "Jane",
				"email":     "jane@example.org",
			},
		}},
		recalledItems: map[string]bool{},
		configs:       map[string]string{},
		failing:       map[string]bool{},
	}
}

func (f *fakeBackend) count(resource string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls[resource]
}

func (f *fakeBackend) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, c := range f.calls {
		n += c
	}

	return n
}

func (f *fakeBackend) lastQuery(resource string) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	q := f.queries[resource]
	if len(q) == 0 {
		return ""
	}

	return q[len(q)-1]
}

// record counts the call and reports whether the resource is set to fail.
func (f *fakeBackend) record(resource string, r *http.Request) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[resource]++
	f.queries[resource] = append(f.queries[resource], r.URL.RawQuery)

	return f.failing[resource]
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()

	route := func(pattern, resource string, fn func(w http.ResponseWriter, r *http.Request)) {
		mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
			if f.record(resource, r) {
				w.WriteHeader(http.StatusInternalServerError)

				return
			}

			fn(w, r)
		})
	}

	route("GET /users", "users", func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Query().Get("query"), "missing") {
			writePage(w, r, "users", nil)

			return
		}

		writePage(w, r, "users", f.users)
	})

	route("POST /patron-pin/verify", "pin", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Pin string `json:"pin"`
		}

		_ = json.NewDecoder(r.Body).Decode(&body)

		if body.Pin != "1234" {
			w.WriteHeader(http.StatusUnprocessableEntity)

			return
		}

		w.WriteHeader(http.StatusOK)
	})

	route("GET /manualblocks", "manualblocks", func(w http.ResponseWriter, r *http.Request) {
		writePage(w, r, "manualblocks", f.manual)
	})

	route("GET /automated-patron-blocks/{id}", "automated", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, object{"automatedPatronBlocks": nonNil(f.automated)})
	})

	route("GET /accounts", "accounts", func(w http.ResponseWriter, r *http.Request) {
		writePage(w, r, "accounts", f.accounts)
	})

	route("POST /accounts/{id}/pay", "pay", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Amount string `json:"amount"`
		}

		_ = json.NewDecoder(r.Body).Decode(&body)

		f.mu.Lock()
		f.paid = append(f.paid, payment{AccountID: r.PathValue("id"), Amount: body.Amount})
		f.mu.Unlock()

		writeJSON(w, object{"accountId": r.PathValue("id")})
	})

	route("GET /circulation/loans", "loans", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("query")

		switch {
		case strings.Contains(q, "dueDate<"):
			writePage(w, r, "loans", f.overdueLoans)
		case strings.Contains(q, "itemId=="):
			writePage(w, r, "loans", filterByItem(f.openLoans, q))
		default:
			writePage(w, r, "loans", f.openLoans)
		}
	})

	route("GET /circulation/requests", "requests", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("query")

		switch {
		case strings.Contains(q, "Recall"):
			f.mu.Lock()
			recalled := false

			for id := range f.recalledItems {
				if strings.Contains(q, `"`+id+`"`) {
					recalled = true
				}
			}
			f.mu.Unlock()

			if recalled {
				writePage(w, r, "requests", []object{{"id": "recall-1", "requestType": "Recall"}})

				return
			}

			writePage(w, r, "requests", nil)
		case strings.Contains(q, "Not yet filled"):
			writePage(w, r, "requests", f.unavailable)
		default:
			writePage(w, r, "requests", f.holds)
		}
	})

	route("GET /inventory/items", "items", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("query")
		out := []object{}

		for _, it := range f.items {
			if b, _ := it["barcode"].(string); strings.Contains(q, `"`+b+`"`) {
				out = append(out, it)
			}
		}

		writePage(w, r, "items", out)
	})

	route("GET /service-points", "service-points", func(w http.ResponseWriter, r *http.Request) {
		writePage(w, r, "servicepoints", []object{{"id": "sp-1", "code": "circ"}})
	})

	route("GET /configurations/entries", "configurations", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("query")

		for module, value := range f.configs {
			if strings.Contains(q, `"`+module+`"`) {
				writePage(w, r, "configs", []object{{"value": value}})

				return
			}
		}

		writePage(w, r, "configs", nil)
	})

	route("GET /settings/entries", "settings", func(w http.ResponseWriter, r *http.Request) {
		if f.settings == nil {
			writePage(w, r, "items", nil)

			return
		}

		writePage(w, r, "items", []object{{"value": f.settings}})
	})

	return mux
}

func filterByItem(loans []object, q string) []object {
	out := []object{}

	for _, l := range loans {
		if id, _ := l["itemId"].(string); strings.Contains(q, `"`+id+`"`) {
			out = append(out, l)
		}
	}

	return out
}

// writePage serves list under key, honoring offset and limit the way the
// backend does: totalRecords is always the full count.
func writePage(w http.ResponseWriter, r *http.Request, key string, list []object) {
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	limit := len(list)
	if l := r.URL.Query().Get("limit"); l != "" {
		limit, _ = strconv.Atoi(l)
	}

	page := []object{}

	for i := offset; i < len(list) && i < offset+limit; i++ {
		page = append(page, list[i])
	}

	writeJSON(w, object{key: page, "totalRecords": len(list)})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func nonNil(list []object) []object {
	if list == nil {
		return []object{}
	}

	return list
}

// staticTokens hands out a fixed token or a fixed error.
type staticTokens struct {
	err   error
	calls atomic.Int32
}

func (s *staticTokens) ResolveAccessToken(_ context.Context, sess *entity.Session) (auth.Token, error) {
	s.calls.Add(1)

	if s.err != nil {
		return auth.Token{}, s.err
	}

	return auth.Token{Value: "access-token", TenantID: sess.TenantID, RequestID: sess.RequestID}, nil
}

type resources struct {
	aggregator    *circulation.Aggregator
	circulation   *circulation.CirculationResource
	feeFines      *circulation.FeeFinesResource
	items         *circulation.ItemsResource
	configuration *circulation.ConfigurationResource
	profiles      *circulation.ProfileResource
}

func newResources(t *testing.T, f *fakeBackend, tokens circulation.TokenResolver) resources {
	t.Helper()

	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	log := logger.New("error")
	client := circulation.NewClient(srv.URL, srv.Client(), log)

	profiles := circulation.NewProfileResource(client)
	circ := circulation.NewCirculationResource(client, log, 4)
	fees := circulation.NewFeeFinesResource(client)

	return resources{
		aggregator:    circulation.NewAggregator(tokens, profiles, circ, fees, log, 10, 4),
		circulation:   circ,
		feeFines:      fees,
		items:         circulation.NewItemsResource(client),
		configuration: circulation.NewConfigurationResource(client, cache.New(cache.DefaultTTL, 0), log),
		profiles:      profiles,
	}
}

func newSession() *entity.Session {
	s := entity.NewSession("session-1", "10.0.0.1:5000", "diku")
	s.RequestID = "req-1"

	return s
}

var testToken = auth.Token{Value: "access-token", TenantID: "diku"}
