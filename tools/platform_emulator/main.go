// A local emulator of the Geosys/EarthDaily platform APIs, serving canned
// responses for development without platform credentials. Point the client to
// it with platform.NewClientForURLs.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

type emulator struct {
	mu sync.Mutex
	// season field ids by geometry, created on the fly
	seasonFields map[string]string
	metrics      map[string][]map[string]interface{}
	tasks        map[string]int
	nextID       int
}

func newEmulator() *emulator {
	return &emulator{
		seasonFields: map[string]string{},
		metrics:      map[string][]map[string]interface{}{},
		tasks:        map[string]int{},
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (e *emulator) createSeasonField(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Geometry string `json:"Geometry"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, 400, map[string]string{"error": err.Error()})
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if id, ok := e.seasonFields[payload.Geometry]; ok {
		// mimic the duplicate season field answer of the real platform
		writeJSON(w, 400, map[string]interface{}{
			"errors": map[string]interface{}{
				"body": map[string]interface{}{
					"sowingDate": []map[string]string{{
						"message": fmt.Sprintf("A season field with Id: %s, already exists for this sowing date", id),
					}},
				},
			},
		})
		return
	}
	e.nextID++
	id := fmt.Sprintf("sf%d", e.nextID)
	e.seasonFields[payload.Geometry] = id
	writeJSON(w, 201, map[string]string{"id": id})
}

func (e *emulator) seasonField(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if r.URL.Query().Get("$fields") == "externalids" {
		writeJSON(w, 200, map[string]interface{}{"externalIds": map[string]string{"id": "uid-" + id}})
		return
	}
	writeJSON(w, 200, map[string]string{"id": id})
}

func (e *emulator) values(w http.ResponseWriter, r *http.Request) {
	index := r.URL.Query().Get("index")
	writeJSON(w, 200, []map[string]interface{}{
		{"date": "2022-05-01", "index": index, "value": 0.51, "pixel": map[string]string{"id": "mh11v4i225j4612"}},
		{"date": "2022-05-09", "index": index, "value": 0.62, "pixel": map[string]string{"id": "mh11v4i226j4612"}},
	})
}

func (e *emulator) catalogImagery(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, 200, []map[string]interface{}{{
		"coveragePercent": 100,
		"maps":            []map[string]string{{"type": "NDVI"}},
		"image": map[string]interface{}{
			"id": "sentinel|2022-05-01", "sensor": "SENTINEL_2",
			"availableBands":    []string{"B4", "B8"},
			"spatialResolution": 10, "date": "2022-05-01T00:00:00Z",
		},
		"seasonField": map[string]string{"id": "sf1"},
	}})
}

func (e *emulator) weather(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, 200, []map[string]interface{}{
		{"date": "2022-05-01", "precipitation": map[string]float64{"cumulative": 1.2}},
		{"date": "2022-05-02", "precipitation": map[string]float64{"cumulative": 3.4}},
	})
}

func (e *emulator) launch(w http.ResponseWriter, r *http.Request) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextID++
	taskID := fmt.Sprintf("task%d", e.nextID)
	e.tasks[taskID] = 0
	writeJSON(w, 200, map[string]string{"taskId": taskID})
}

// event reports Running for the first poll of a task, then Ended
func (e *emulator) event(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["id"]
	e.mu.Lock()
	polls, known := e.tasks[taskID]
	e.tasks[taskID] = polls + 1
	e.mu.Unlock()
	if !known {
		writeJSON(w, 404, map[string]string{"error": "unknown task"})
		return
	}
	status := "Ended"
	if polls == 0 {
		status = "Running"
	}
	writeJSON(w, 200, map[string]string{
		"taskId": taskID, "status": status,
		"customerCode": "EMULATOR_CUSTOMER", "userId": "emulator",
	})
}

func (e *emulator) getMetrics(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("$filter")
	e.mu.Lock()
	defer e.mu.Unlock()
	for key, metrics := range e.metrics {
		if strings.Contains(filter, key) {
			writeJSON(w, 200, metrics)
			return
		}
	}
	writeJSON(w, 200, []map[string]interface{}{
		{"Timestamp": "2022-06-12", "value": 0.7, "Entity": map[string]string{"TypedId": "SeasonField:uid-sf1"}},
	})
}

func (e *emulator) pushMetrics(w http.ResponseWriter, r *http.Request) {
	var records []map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&records); err != nil {
		writeJSON(w, 400, map[string]string{"error": err.Error()})
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, record := range records {
		entity, _ := record["Entity"].(map[string]interface{})
		typedID, _ := entity["TypedId"].(string)
		key := strings.TrimSuffix(typedID, "@ID")
		e.metrics[key] = append(e.metrics[key], record)
	}
	writeJSON(w, 200, map[string]string{})
}

func (e *emulator) createSchema(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, 201, map[string]string{})
}

func (e *emulator) municipios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, 200, [][]map[string]interface{}{{{"properties": map[string]interface{}{"id": 4904}}}})
}

func main() {
	port := flag.String("port", "8085", "port the emulator listens on")
	flag.Parse()

	e := newEmulator()
	r := mux.NewRouter()
	r.HandleFunc("/master-data-management/v6/seasonfields", e.createSeasonField).Methods("POST")
	r.HandleFunc("/master-data-management/v6/seasonfields/{id}", e.seasonField).Methods("GET")
	r.HandleFunc("/vegetation-time-series/v1/season-fields/values", e.values).Methods("GET")
	r.HandleFunc("/vegetation-time-series/v1/season-fields/pixels/values", e.values).Methods("GET")
	r.HandleFunc("/field-level-maps/v5/maps/catalog-imagery", e.catalogImagery).Methods("POST")
	r.HandleFunc("/Weather/v1/weather", e.weather).Methods("GET")
	r.HandleFunc("/analytics/schemas", e.createSchema).Methods("POST")
	r.HandleFunc("/analytics/metrics", e.getMetrics).Methods("GET")
	r.HandleFunc("/analytics/metrics", e.pushMetrics).Methods("PATCH")
	r.HandleFunc("/analytics/metrics-latest", e.getMetrics).Methods("GET")
	r.HandleFunc("/analytics-pipeline/v1/processors/{processor:.+}/launch", e.launch).Methods("POST")
	r.HandleFunc("/analytics-pipeline/v1/processors/events/{id}", e.event).Methods("GET")
	r.HandleFunc("/layerservices/api/v1/layers/BRAZIL_MUNICIPIOS/intersect", e.municipios).Methods("POST")

	log.Printf("platform emulator listening on :%s", *port)
	log.Fatal(http.ListenAndServe(":"+*port, handlers.LoggingHandler(os.Stdout, r)))
}
