package server

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/burnrate-dev/burnrate/core"
	"github.com/burnrate-dev/burnrate/internal/contract"
	"github.com/burnrate-dev/burnrate/internal/outwriter"
	"github.com/burnrate-dev/burnrate/schema"
	"github.com/gin-gonic/gin"
)

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handlePanel returns the panel view as JSON.
// A panel still loading when the wait expires is returned with 202 Accepted.
func (s *Server) handlePanel(c *gin.Context) {
	view, complete, err := s.renderPanel(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status := http.StatusOK
	if !complete {
		status = http.StatusAccepted
	}
	c.JSON(status, view)
}

// handlePanelPage returns a standalone uPlot page.
func (s *Server) handlePanelPage(c *gin.Context) {
	view, _, err := s.renderPanel(c)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	var buf bytes.Buffer
	if err := outwriter.WriteHTMLPanel(&buf, view); err != nil {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (s *Server) handlePanels(c *gin.Context) {
	names := contract.PanelNames(s.cfg)
	defs := make([]contract.PanelDefinition, 0, len(names))
	for _, name := range names {
		defs = append(defs, s.cfg.Panels[name])
	}
	c.JSON(http.StatusOK, defs)
}

// renderPanel runs the requested panel and derives its view.
// complete is false when the wait expired before both queries settled.
func (s *Server) renderPanel(c *gin.Context) (schema.PanelView, bool, error) {
	req, err := panelRequest(c)
	if err != nil {
		return schema.PanelView{}, false, err
	}
	width, err := s.containerWidth(c)
	if err != nil {
		return schema.PanelView{}, false, err
	}
	props, err := contract.ResolvePanelRequest(s.cfg, req, time.Now())
	if err != nil {
		return schema.PanelView{}, false, err
	}

	ctx := c.Request.Context()
	queryCtx, cancel := context.WithTimeout(ctx, s.cfg.QueryTimeout)
	defer cancel()

	panel := core.NewPanel(s.client, props, schema.WebLayout)
	panel.Start(queryCtx)

	waitCtx, cancelWait := context.WithTimeout(ctx, s.waitTimeout())
	defer cancelWait()
	complete := panel.Wait(waitCtx) == nil

	view := panel.View(width)
	if complete && s.cfg.Record {
		if _, err := core.RecordView(s.mgr, panel, view, time.Now()); err != nil {
			contract.LogWarn("Could not record panel", err)
		}
	}
	return view, complete, nil
}

func (s *Server) waitTimeout() time.Duration {
	if s.cfg.Wait > 0 {
		return s.cfg.Wait
	}
	return s.cfg.QueryTimeout
}

func (s *Server) containerWidth(c *gin.Context) (int, error) {
	if raw := c.Query("width"); raw != "" {
		width, err := strconv.Atoi(raw)
		if err != nil || width < 0 {
			return 0, fmt.Errorf("invalid width %q", raw)
		}
		return width, nil
	}
	if s.cfg.Width > 0 {
		return s.cfg.Width, nil
	}
	return schema.DefaultContainerWidth, nil
}

// panelRequest maps query parameters onto panel overrides.
func panelRequest(c *gin.Context) (contract.PanelRequest, error) {
	req := contract.PanelRequest{
		Panel:  c.Query("panel"),
		Title:  c.Query("title"),
		Short:  c.Query("short"),
		Long:   c.Query("long"),
		Start:  c.Query("start"),
		End:    c.Query("end"),
		Window: c.Query("window"),
	}
	if raw := c.Query("threshold"); raw != "" {
		threshold, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return req, fmt.Errorf("invalid threshold %q", raw)
		}
		req.Threshold = &threshold
	}
	return req, nil
}
