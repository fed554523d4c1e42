package api

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/lfom/pkg/buildinfo"
	"github.com/matzehuels/lfom/pkg/catalog"
	"github.com/matzehuels/lfom/pkg/errors"
	"github.com/matzehuels/lfom/pkg/lfom"
	"github.com/matzehuels/lfom/pkg/pipeline"
	"github.com/matzehuels/lfom/pkg/units"
)

// designRequest is the body of POST /v1/designs. Flow and headloss are unit
// strings such as "12 L/s" and "20 cm"; headloss defaults to the configured
// value and drills to the configured series.
type designRequest struct {
	Flow     *units.Flow   `json:"flow"`
	Headloss *units.Length `json:"headloss,omitempty"`
	SDR      float64       `json:"sdr,omitempty"`
	Drills   string        `json:"drills,omitempty"`
	Refresh  bool          `json:"refresh,omitempty"`
}

type designResponse struct {
	ID       string         `json:"id"`
	CacheHit bool           `json:"cache_hit"`
	Stats    pipeline.Stats `json:"stats"`
	Record   *lfom.Record   `json:"record"`
}

type pipesResponse struct {
	SDRs  []float64      `json:"sdrs"`
	Pipes []catalog.Pipe `json:"pipes"`
}

type drillsResponse struct {
	Series string    `json:"series"`
	Sizes  []float64 `json:"sizes"`
}

// pipeLister is implemented by *catalog.PipeCatalog.
type pipeLister interface {
	Pipes() []catalog.Pipe
	SDRs() []float64
}

// seriesLister is implemented by *catalog.Series.
type seriesLister interface {
	Name() string
	Values() []float64
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeData(w, buildinfo.Get())
}

func (s *Server) handleDesign(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req designRequest
	if err := dec.Decode(&req); err != nil {
		if errors.GetCode(err) == "" {
			err = errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
		}
		writeError(w, err)
		return
	}

	opts, err := s.designOptions(req)
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.logger.Debug("design failed", "err", err)
		writeError(w, err)
		return
	}
	writeData(w, designResponse{
		ID:       result.ID,
		CacheHit: result.CacheHit,
		Stats:    result.Stats,
		Record:   result.Record,
	})
}

// designOptions turns a request into runner options on top of the server
// configuration.
func (s *Server) designOptions(req designRequest) (pipeline.Options, error) {
	if req.Flow == nil {
		return pipeline.Options{}, errors.New(errors.ErrCodeInvalidInput, "flow is required")
	}
	p := s.cfg.Params()
	if req.SDR != 0 {
		p.SDR = req.SDR
	}
	hl := p.Headloss
	if req.Headloss != nil {
		hl = req.Headloss.Metres()
		if hl == 0 {
			return pipeline.Options{}, errors.New(errors.ErrCodeInvalidInput, "headloss must be positive, got 0")
		}
	}

	cat := s.catalogs
	series := s.cfg.Catalog.Drills
	if req.Drills != "" && req.Drills != series {
		drills, err := catalog.Drills(req.Drills)
		if err != nil {
			return pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "drills")
		}
		cat.Drills = drills
		series = req.Drills
	}

	return pipeline.Options{
		Flow:        req.Flow.CubicMetresPerSecond(),
		Headloss:    hl,
		Params:      p,
		DrillSeries: series,
		Refresh:     req.Refresh,
		Logger:      s.logger,
		Catalogs:    &cat,
		CatalogHash: s.catalogHash,
	}, nil
}

func (s *Server) handlePipes(w http.ResponseWriter, r *http.Request) {
	pl, ok := s.catalogs.Pipes.(pipeLister)
	if !ok {
		writeError(w, errors.New(errors.ErrCodeInternal, "pipe catalog cannot be listed"))
		return
	}
	writeData(w, pipesResponse{SDRs: pl.SDRs(), Pipes: pl.Pipes()})
}

func (s *Server) handleDrills(w http.ResponseWriter, r *http.Request) {
	var drills lfom.DrillCatalog = s.catalogs.Drills
	if name := r.URL.Query().Get("series"); name != "" && name != s.cfg.Catalog.Drills {
		d, err := catalog.Drills(name)
		if err != nil {
			writeError(w, err)
			return
		}
		drills = d
	}
	sl, ok := drills.(seriesLister)
	if !ok {
		writeError(w, errors.New(errors.ErrCodeInternal, "drill series cannot be listed"))
		return
	}
	writeData(w, drillsResponse{Series: sl.Name(), Sizes: sl.Values()})
}
