package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/dzx/internal/catalog"
	"github.com/samcharles93/dzx/internal/config"
	"github.com/samcharles93/dzx/internal/logger"
	"github.com/samcharles93/dzx/internal/metrics"
	"github.com/samcharles93/dzx/pkg/dzx"
)

type Options struct {
	Logger         logger.Logger
	Metrics        *metrics.Metrics
	MaxUploadBytes int64
}

type Server struct {
	store     *ContainerStore
	log       logger.Logger
	metrics   *metrics.Metrics
	maxUpload int64
	clock     func() time.Time
}

func NewServer(store *ContainerStore, opts Options) *Server {
	if store == nil {
		store = NewContainerStore()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = config.DefaultMaxUploadBytes
	}
	return &Server{
		store:     store,
		log:       opts.Logger.With("component", "api"),
		metrics:   opts.Metrics,
		maxUpload: opts.MaxUploadBytes,
		clock:     time.Now,
	}
}

func (s *Server) Register(e *echo.Echo) {
	e.POST("/v1/containers", s.handleCreateContainer)
	e.GET("/v1/containers/:id", s.handleGetContainer)
	e.DELETE("/v1/containers/:id", s.handleDeleteContainer)
	e.GET("/v1/containers/:id/records", s.handleListRecords)
	e.POST("/v1/containers/:id/records", s.handleAppendRecord)
	e.GET("/v1/containers/:id/raw", s.handleRaw)

	e.GET("/metrics", s.handleMetrics)
}

type ContainerSummary struct {
	ID      string     `json:"id"`
	Digest  string     `json:"digest"`
	Size    int        `json:"size"`
	Chunks  int        `json:"chunks"`
	Unknown []dzx.Type `json:"unknown,omitempty"`
}

type ContainerResponse struct {
	ID        string         `json:"id"`
	Digest    string         `json:"digest"`
	CreatedAt int64          `json:"created_at"`
	Container *dzx.Container `json:"container"`
}

type RecordsResponse struct {
	Type    dzx.Type     `json:"type"`
	Layer   *dzx.Layer   `json:"layer,omitempty"`
	Records []dzx.Record `json:"records"`
}

type DeleteResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

func (s *Server) handleCreateContainer(c *echo.Context) error {
	data, err := readBody(c, s.maxUpload)
	if errors.Is(err, errTooLarge) {
		return writeError(c, http.StatusRequestEntityTooLarge, "invalid_request_error", err.Error())
	}
	if err != nil {
		return writeBadRequest(c, err.Error())
	}

	start := time.Now()
	cont, err := dzx.Decode(data)
	s.metrics.Decoded(start, err)
	if err != nil {
		return writeFailure(c, err)
	}

	rec := s.store.Create(cont, catalog.Digest(data), s.clock())
	s.metrics.SetContainers(s.store.Len())

	summary := ContainerSummary{
		ID:     rec.ID,
		Digest: rec.Digest,
		Size:   len(data),
		Chunks: len(cont.Chunks()),
	}
	for _, ch := range cont.Summary() {
		if !ch.Known {
			summary.Unknown = append(summary.Unknown, ch.Type)
			s.metrics.UnknownChunk(string(ch.Type))
			s.log.Warn("unknown chunk type", "id", rec.ID, "type", ch.Type, "count", ch.Count)
		}
	}
	s.log.Info("container uploaded", "id", rec.ID, "size", len(data), "chunks", summary.Chunks)
	return c.JSON(http.StatusCreated, summary)
}

func (s *Server) handleGetContainer(c *echo.Context) error {
	rec, ok := s.store.Get(c.Param("id"))
	if !ok {
		return writeNotFound(c, "container not found")
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return c.JSON(http.StatusOK, ContainerResponse{
		ID:        rec.ID,
		Digest:    rec.Digest,
		CreatedAt: rec.CreatedAt.Unix(),
		Container: rec.Container,
	})
}

func (s *Server) handleDeleteContainer(c *echo.Context) error {
	id := c.Param("id")
	if !s.store.Delete(id) {
		return writeNotFound(c, "container not found")
	}
	s.metrics.SetContainers(s.store.Len())
	return c.JSON(http.StatusOK, DeleteResponse{ID: id, Deleted: true})
}

func (s *Server) handleListRecords(c *echo.Context) error {
	rec, ok := s.store.Get(c.Param("id"))
	if !ok {
		return writeNotFound(c, "container not found")
	}
	typ, layer, hasLayer, err := recordQuery(c)
	if err != nil {
		return writeFailure(c, err)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	resp := RecordsResponse{Type: typ}
	if hasLayer {
		resp.Layer = &layer
		resp.Records = rec.Container.RecordsByTypeAndLayer(typ, layer)
	} else {
		resp.Records = rec.Container.RecordsByType(typ)
	}
	if resp.Records == nil {
		resp.Records = []dzx.Record{}
	}
	return c.JSON(http.StatusOK, resp)
}

// handleAppendRecord appends a zero record of the requested type and applies
// the JSON body to it. The body is applied to a scratch record and encoded
// first, so a bad request or a field that cannot be written leaves the
// container untouched.
func (s *Server) handleAppendRecord(c *echo.Context) error {
	rec, ok := s.store.Get(c.Param("id"))
	if !ok {
		return writeNotFound(c, "container not found")
	}
	typ, layer, _, err := recordQuery(c)
	if err != nil {
		return writeFailure(c, err)
	}
	body, err := readBody(c, s.maxUpload)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	if len(body) == 0 {
		body = []byte("{}")
	}

	scratch, ok := dzx.NewRecord(typ)
	if !ok {
		return writeFailure(c, dzx.ErrUnregisteredType)
	}
	if err := dzx.DecodeRecordJSON(scratch, body); err != nil {
		return writeBadRequest(c, err.Error())
	}
	if err := dzx.Validate(scratch); err != nil {
		return writeFailure(c, err)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	r, err := rec.Container.Append(typ, layer)
	if err != nil {
		return writeFailure(c, err)
	}
	if err := dzx.DecodeRecordJSON(r, body); err != nil {
		return writeFailure(c, err)
	}
	s.metrics.Appended(string(typ))
	s.log.Debug("record appended", "id", rec.ID, "type", typ, "layer", layer)
	return c.JSON(http.StatusCreated, r)
}

func (s *Server) handleRaw(c *echo.Context) error {
	rec, ok := s.store.Get(c.Param("id"))
	if !ok {
		return writeNotFound(c, "container not found")
	}

	rec.mu.Lock()
	start := time.Now()
	data, err := rec.Container.Encode()
	s.metrics.Encoded(start, err)
	rec.mu.Unlock()
	if err != nil {
		return writeFailure(c, err)
	}

	c.Response().Header().Set("ETag", `"`+catalog.Digest(data)+`"`)
	return writeBytes(c, http.StatusOK, "application/octet-stream", data)
}

func (s *Server) handleMetrics(c *echo.Context) error {
	s.metrics.Handler().ServeHTTP(c.Response(), c.Request())
	return nil
}
