package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"go-comping/comping"
	"go-comping/config"
)

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8337", "listen address")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the engine headless with an HTTP remote control",
	Long: `Run the engine headless with an HTTP remote control.

POST /chord    {"notes":[60,64,67]}   strike a chord (empty = release)
POST /mode     {"mode":"stride"}
POST /tempo    {"tempo":140}
POST /humanize {"amount":30}
GET  /state`,
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

type remote struct {
	manager *comping.Manager
}

type stateResponse struct {
	Mode        comping.PlaybackMode `json:"mode"`
	Tempo       int                  `json:"tempo"`
	Humanize    int                  `json:"humanize"`
	ActiveNotes []comping.Note       `json:"activeNotes"`
}

func (r *remote) handleState(w http.ResponseWriter, req *http.Request) {
	mode, tempo, humanize := r.manager.GetState()
	json.NewEncoder(w).Encode(stateResponse{
		Mode:        mode,
		Tempo:       tempo,
		Humanize:    humanize,
		ActiveNotes: r.manager.Display().ActiveNotes(),
	})
}

func (r *remote) handleChord(w http.ResponseWriter, req *http.Request) {
	var input struct {
		Notes []comping.Note `json:"notes"`
	}
	if err := json.NewDecoder(req.Body).Decode(&input); err != nil {
		http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
		return
	}
	r.manager.PlayChord(input.Notes)
	w.WriteHeader(http.StatusNoContent)
}

func (r *remote) handleMode(w http.ResponseWriter, req *http.Request) {
	var input struct {
		Mode comping.PlaybackMode `json:"mode"`
	}
	if err := json.NewDecoder(req.Body).Decode(&input); err != nil {
		http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
		return
	}
	if !input.Mode.Valid() {
		http.Error(w, fmt.Sprintf("unknown mode %q", input.Mode), http.StatusBadRequest)
		return
	}
	r.manager.SetMode(input.Mode)
	w.WriteHeader(http.StatusNoContent)
}

func (r *remote) handleTempo(w http.ResponseWriter, req *http.Request) {
	var input struct {
		Tempo int `json:"tempo"`
	}
	if err := json.NewDecoder(req.Body).Decode(&input); err != nil {
		http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
		return
	}
	r.manager.SetTempo(input.Tempo)
	w.WriteHeader(http.StatusNoContent)
}

func (r *remote) handleHumanize(w http.ResponseWriter, req *http.Request) {
	var input struct {
		Amount int `json:"amount"`
	}
	if err := json.NewDecoder(req.Body).Decode(&input); err != nil {
		http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
		return
	}
	r.manager.SetHumanize(input.Amount)
	w.WriteHeader(http.StatusNoContent)
}

func serve() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("config: %v\n", err)
		cfg = config.DefaultConfig()
	}

	manager, _ := buildManager(cfg)
	defer manager.Close()

	r := &remote{manager: manager}

	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/state", r.handleState).Methods("GET")
	router.HandleFunc("/chord", r.handleChord).Methods("POST")
	router.HandleFunc("/mode", r.handleMode).Methods("POST")
	router.HandleFunc("/tempo", r.handleTempo).Methods("POST")
	router.HandleFunc("/humanize", r.handleHumanize).Methods("POST")

	fmt.Printf("go-comping remote control on %s\n", serveAddr)
	log.Fatal(http.ListenAndServe(serveAddr, cors.Default().Handler(router)))
}
