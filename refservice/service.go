// Package refservice is a reference implementation of the two services under test: the GP data
// catalog and the space-object API. It serves offline runs of the suite, and gives the other
// packages' tests a real HTTP server to talk to.
package refservice

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/EduardoSa-Tester/satellite-api-tests/framework"
	"github.com/EduardoSa-Tester/satellite-api-tests/rules"
	"github.com/EduardoSa-Tester/satellite-api-tests/servicedef"

	"github.com/gorilla/mux"
)

// CatalogPath is the path of the GP data query endpoint.
const CatalogPath = "/NORAD/elements/gp.php"

// Options configures a Service. Zero values select defaults.
type Options struct {
	Now                func() time.Time
	AllowedObjectTypes []string
	Logger             framework.Logger
}

// Service handles both APIs. It is safe for concurrent use.
type Service struct {
	router    *mux.Router
	now       func() time.Time
	validator *rules.PayloadValidator
	logger    framework.Logger
	objects   map[string]servicedef.CreatedSpaceObject
	order     []string
	lastID    int
	lock      sync.Mutex
}

type errorBody struct {
	Errors []string `json:"errors"`
}

// New creates a Service.
func New(opts Options) *Service {
	s := &Service{
		now:     opts.Now,
		logger:  opts.Logger,
		objects: make(map[string]servicedef.CreatedSpaceObject),
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = framework.NullLogger()
	}
	allowed := opts.AllowedObjectTypes
	if len(allowed) == 0 {
		allowed = servicedef.AllObjectTypes
	}
	s.validator = rules.NewPayloadValidator(allowed)

	r := mux.NewRouter()
	r.HandleFunc(CatalogPath, s.queryCatalog).Methods(http.MethodGet)
	r.HandleFunc(servicedef.SpaceObjectsPath, s.createSpaceObject).Methods(http.MethodPost)
	r.HandleFunc(servicedef.SpaceObjectsPath, s.listSpaceObjects).Methods(http.MethodGet)
	r.HandleFunc(servicedef.SpaceObjectsPath+"/{id}", s.getSpaceObject).Methods(http.MethodGet)
	s.router = r
	return s
}

func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.logger.Printf("%s %s", r.Method, r.URL)
	s.router.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (s *Service) queryCatalog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if format := q.Get("FORMAT"); !strings.EqualFold(format, "json") {
		http.Error(w, fmt.Sprintf("Invalid query: FORMAT=%q is not supported", format), http.StatusBadRequest)
		return
	}
	records := catalogGroup(strings.ToLower(q.Get("GROUP")), s.now())
	if catnr := q.Get("CATNR"); catnr != "" {
		records = filterByNorad(records, catnr)
	}
	if len(records) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Service) createSpaceObject(w http.ResponseWriter, r *http.Request) {
	var payload servicedef.SpaceObjectPayload
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Errors: []string{"invalid JSON body: " + err.Error()}})
		return
	}

	outcomes := s.validator.Validate(payload)
	if !rules.AllPassed(outcomes) {
		var msgs []string
		for _, o := range outcomes {
			if !o.Passed {
				msgs = append(msgs, o.Detail)
			}
		}
		s.logger.Printf("rejected space object: %s", strings.Join(msgs, "; "))
		writeJSON(w, http.StatusBadRequest, errorBody{Errors: msgs})
		return
	}

	s.lock.Lock()
	s.lastID++
	created := servicedef.CreatedSpaceObject{ID: strconv.Itoa(s.lastID), SpaceObjectPayload: payload}
	s.objects[created.ID] = created
	s.order = append(s.order, created.ID)
	s.lock.Unlock()

	w.Header().Set("Location", servicedef.SpaceObjectsPath+"/"+created.ID)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Service) listSpaceObjects(w http.ResponseWriter, r *http.Request) {
	s.lock.Lock()
	ret := make([]servicedef.CreatedSpaceObject, 0, len(s.order))
	for _, id := range s.order {
		ret = append(ret, s.objects[id])
	}
	s.lock.Unlock()
	writeJSON(w, http.StatusOK, ret)
}

func (s *Service) getSpaceObject(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.lock.Lock()
	obj, ok := s.objects[id]
	s.lock.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody{Errors: []string{"no space object with id " + id}})
		return
	}
	writeJSON(w, http.StatusOK, obj)
}
