package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/cloud-ru/mcp-dealcalc-go/internal/config"
	"github.com/cloud-ru/mcp-dealcalc-go/internal/deal"
	"github.com/cloud-ru/mcp-dealcalc-go/internal/metrics"
	"github.com/cloud-ru/mcp-dealcalc-go/internal/tools"
)

const maxBodyBytes = 1 << 20

var errBadBody = errors.New("тело запроса должно быть JSON-объектом")

// DealView текущая сделка вместе с пересчитанными показателями
type DealView struct {
	Version uint64 `json:"version"`
	tools.Analysis
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// Server HTTP-интерфейс калькулятора
type Server struct {
	cfg    *config.Config
	store  *deal.Store
	tools  tools.Registry
	logger *logrus.Logger
}

// New создаёт сервер поверх хранилища сделки и набора инструментов
func New(cfg *config.Config, store *deal.Store, registry tools.Registry, logger *logrus.Logger) *Server {
	return &Server{cfg: cfg, store: store, tools: registry, logger: logger}
}

// Router собирает маршруты
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(LoggingMiddleware(s.logger))

	r.HandleFunc("/healthz", s.health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	r.HandleFunc("/tools", s.listTools).Methods(http.MethodGet)
	r.HandleFunc("/tools/{name}", s.callTool).Methods(http.MethodPost)

	d := r.PathPrefix("/deal").Subrouter()
	d.HandleFunc("", s.getDeal).Methods(http.MethodGet)
	d.HandleFunc("", s.replaceDeal).Methods(http.MethodPut)
	d.HandleFunc("/property", s.updateProperty).Methods(http.MethodPatch)
	d.HandleFunc("/projection", s.setProjection).Methods(http.MethodPut)
	d.HandleFunc("/incomes", s.addIncome).Methods(http.MethodPost)
	d.HandleFunc("/incomes/{index:[0-9]+}", s.updateIncome).Methods(http.MethodPut)
	d.HandleFunc("/incomes/{index:[0-9]+}", s.removeIncome).Methods(http.MethodDelete)
	d.HandleFunc("/expenses", s.addExpense).Methods(http.MethodPost)
	d.HandleFunc("/expenses/{index:[0-9]+}", s.updateExpense).Methods(http.MethodPut)
	d.HandleFunc("/expenses/{index:[0-9]+}", s.removeExpense).Methods(http.MethodDelete)
	d.HandleFunc("/scenarios", s.addScenario).Methods(http.MethodPost)
	d.HandleFunc("/scenarios/{id:[0-9]+}", s.updateScenario).Methods(http.MethodPut)
	d.HandleFunc("/scenarios/{id:[0-9]+}", s.removeScenario).Methods(http.MethodDelete)
	d.HandleFunc("/scenarios/{id:[0-9]+}/activate", s.activateScenario).Methods(http.MethodPost)
	d.HandleFunc("/renovations", s.addRenovation).Methods(http.MethodPost)
	d.HandleFunc("/renovations/{id:[0-9]+}", s.removeRenovation).Methods(http.MethodDelete)
	d.HandleFunc("/t12/{month:[0-9]+}", s.setT12Month).Methods(http.MethodPut)
	d.HandleFunc("/t12-mode", s.setT12Mode).Methods(http.MethodPut)

	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listTools(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]string{"tools": s.tools.Names()})
}

func (s *Server) callTool(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	params, err := readParams(r)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	result, err := s.tools.Call(r.Context(), name, params)
	if errors.Is(err, tools.ErrUnknownTool) {
		s.writeError(w, r, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	metrics.APICalls.WithLabelValues("http", "tools", "success").Inc()
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) getDeal(w http.ResponseWriter, r *http.Request) {
	s.writeView(w, s.store.Snapshot())
}

func (s *Server) replaceDeal(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(params map[string]interface{}) (deal.Snapshot, error) {
		return s.store.Replace(tools.DecodeDeal(params)), nil
	})
}

func (s *Server) updateProperty(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(params map[string]interface{}) (deal.Snapshot, error) {
		return s.store.UpdateProperty(tools.DecodeProperty(params)), nil
	})
}

func (s *Server) setProjection(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(params map[string]interface{}) (deal.Snapshot, error) {
		return s.store.SetProjection(tools.DecodeProjection(params)), nil
	})
}

func (s *Server) addIncome(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(params map[string]interface{}) (deal.Snapshot, error) {
		return s.store.AddIncome(tools.DecodeIncome(params)), nil
	})
}

func (s *Server) updateIncome(w http.ResponseWriter, r *http.Request) {
	index := pathInt(r, "index")
	s.mutate(w, r, func(params map[string]interface{}) (deal.Snapshot, error) {
		return s.store.UpdateIncome(index, tools.DecodeIncome(params))
	})
}

func (s *Server) removeIncome(w http.ResponseWriter, r *http.Request) {
	index := pathInt(r, "index")
	s.mutate(w, r, func(map[string]interface{}) (deal.Snapshot, error) {
		return s.store.RemoveIncome(index)
	})
}

func (s *Server) addExpense(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(params map[string]interface{}) (deal.Snapshot, error) {
		return s.store.AddExpense(tools.DecodeExpense(params)), nil
	})
}

func (s *Server) updateExpense(w http.ResponseWriter, r *http.Request) {
	index := pathInt(r, "index")
	s.mutate(w, r, func(params map[string]interface{}) (deal.Snapshot, error) {
		return s.store.UpdateExpense(index, tools.DecodeExpense(params))
	})
}

func (s *Server) removeExpense(w http.ResponseWriter, r *http.Request) {
	index := pathInt(r, "index")
	s.mutate(w, r, func(map[string]interface{}) (deal.Snapshot, error) {
		return s.store.RemoveExpense(index)
	})
}

func (s *Server) addScenario(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(params map[string]interface{}) (deal.Snapshot, error) {
		return s.store.AddScenario(tools.DecodeScenario(params)), nil
	})
}

func (s *Server) updateScenario(w http.ResponseWriter, r *http.Request) {
	id := pathInt(r, "id")
	s.mutate(w, r, func(params map[string]interface{}) (deal.Snapshot, error) {
		return s.store.UpdateScenario(id, tools.DecodeScenario(params))
	})
}

func (s *Server) removeScenario(w http.ResponseWriter, r *http.Request) {
	id := pathInt(r, "id")
	s.mutate(w, r, func(map[string]interface{}) (deal.Snapshot, error) {
		return s.store.RemoveScenario(id)
	})
}

func (s *Server) activateScenario(w http.ResponseWriter, r *http.Request) {
	id := pathInt(r, "id")
	s.mutate(w, r, func(map[string]interface{}) (deal.Snapshot, error) {
		return s.store.ActivateScenario(id)
	})
}

func (s *Server) addRenovation(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(params map[string]interface{}) (deal.Snapshot, error) {
		return s.store.AddRenovation(tools.DecodeRenovation(params)), nil
	})
}

func (s *Server) removeRenovation(w http.ResponseWriter, r *http.Request) {
	id := pathInt(r, "id")
	s.mutate(w, r, func(map[string]interface{}) (deal.Snapshot, error) {
		return s.store.RemoveRenovation(id)
	})
}

func (s *Server) setT12Month(w http.ResponseWriter, r *http.Request) {
	month := pathInt(r, "month")
	s.mutate(w, r, func(params map[string]interface{}) (deal.Snapshot, error) {
		return s.store.SetT12Month(month, tools.Float(params, "income"), tools.Float(params, "expense"))
	})
}

func (s *Server) setT12Mode(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(params map[string]interface{}) (deal.Snapshot, error) {
		return s.store.SetUseT12(tools.Bool(params, "use_t12")), nil
	})
}

// mutate разбирает тело, применяет изменение и отвечает пересчитанной сделкой
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, apply func(params map[string]interface{}) (deal.Snapshot, error)) {
	params, err := readParams(r)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	snap, err := apply(params)
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}
	metrics.APICalls.WithLabelValues("http", "deal", "success").Inc()
	s.writeView(w, snap)
}

func (s *Server) writeView(w http.ResponseWriter, snap deal.Snapshot) {
	s.writeJSON(w, http.StatusOK, DealView{
		Version:  snap.Version,
		Analysis: tools.Analyze(s.cfg, snap.Deal),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.WithError(err).Error("failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	metrics.APICalls.WithLabelValues("http", "error", strconv.Itoa(status)).Inc()
	s.writeJSON(w, status, errorResponse{Error: err.Error(), RequestID: RequestID(r.Context())})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, deal.ErrScenarioNotFound),
		errors.Is(err, deal.ErrLineNotFound),
		errors.Is(err, deal.ErrPhaseNotFound):
		return http.StatusNotFound
	case errors.Is(err, deal.ErrInvalidMonth):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// readParams читает тело как JSON-объект; пустое тело даёт пустые параметры
func readParams(r *http.Request) (map[string]interface{}, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	params := map[string]interface{}{}
	if len(body) == 0 {
		return params, nil
	}
	if err := json.Unmarshal(body, &params); err != nil {
		return nil, fmt.Errorf("%w: %v", errBadBody, err)
	}
	return params, nil
}

func pathInt(r *http.Request, key string) int {
	v, err := strconv.Atoi(mux.Vars(r)[key])
	if err != nil {
		return -1
	}
	return v
}
