package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go-job-trend-analyzer/internal/config"
	"go-job-trend-analyzer/internal/dashboard"
	"go-job-trend-analyzer/internal/insights"
	"go-job-trend-analyzer/internal/logger"
	"go-job-trend-analyzer/internal/models"
	"go-job-trend-analyzer/internal/pipeline"
	"go-job-trend-analyzer/internal/scraper"
	"go-job-trend-analyzer/internal/storage"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const mapPlaceholder = "This would show actual locations with geocoding in a production app"

type Handler struct {
	svc      Service
	defaults config.SearchConfig
	log      logger.Logger
	printer  *message.Printer
	now      func() time.Time
}

func NewHandler(svc Service, defaults config.SearchConfig, log logger.Logger) *Handler {
	return &Handler{
		svc:      svc,
		defaults: defaults,
		log:      log,
		printer:  message.NewPrinter(language.English),
		now:      time.Now,
	}
}

// scrapeRequest is accepted both as form fields and as JSON.
type scrapeRequest struct {
	Term     string `form:"term" json:"term"`
	Location string `form:"location" json:"location"`
	Pages    int    `form:"pages" json:"pages"`
}

func (h *Handler) query(req scrapeRequest) (scraper.Query, error) {
	q := scraper.Query{
		Term:     strings.TrimSpace(req.Term),
		Location: strings.TrimSpace(req.Location),
		Pages:    req.Pages,
	}
	if q.Term == "" {
		q.Term = h.defaults.Term
	}
	if q.Pages == 0 {
		q.Pages = h.defaults.Pages
	}
	if q.Pages < 1 || q.Pages > config.MaxPages {
		return q, fmt.Errorf("pages must be between 1 and %d", config.MaxPages)
	}
	return q, nil
}

// ---------------- HTML ----------------

type flash struct {
	Level   string
	Message string
}

type barRow struct {
	Label   string
	Count   int
	Percent float64
}

type indexPage struct {
	Defaults      config.SearchConfig
	MaxPages      int
	Flash         *flash
	LoadError     string
	Empty         bool
	Summary       insights.Summary
	TopTitles     []barRow
	TopSkills     []barRow
	SkillTitles   []string
	SelectedTitle string
	TitleSkills   []barRow
	TopLocations  []barRow
	Sources       []barRow
	PerDay        []insights.DayCount
	Recent        []models.JobListing
	MapNote       string
	LastUpdate    time.Time
	TotalRecords  int
	Busy          bool
}

func (h *Handler) Index(c *gin.Context) {
	snap := h.svc.Snapshot()
	agg := insights.Build(snap.Collection)

	selected := c.Query("title")
	if selected == "" && len(agg.SkillTitles) > 0 {
		selected = agg.SkillTitles[0]
	}

	page := indexPage{
		Defaults:      h.defaults,
		MaxPages:      config.MaxPages,
		Empty:         snap.Collection.Empty(),
		Summary:       agg.Summary,
		TopTitles:     bars(agg.TopTitles),
		TopSkills:     bars(agg.TopSkills),
		SkillTitles:   agg.SkillTitles,
		SelectedTitle: selected,
		TitleSkills:   bars(insights.SkillsForTitle(snap.Collection, selected, insights.SkillsPerTitleLimit)),
		TopLocations:  bars(agg.TopLocations),
		Sources:       bars(agg.Sources),
		PerDay:        agg.PostingsPerDay,
		Recent:        insights.Recent(snap.Collection),
		MapNote:       mapPlaceholder,
		LastUpdate:    h.now(),
		TotalRecords:  snap.Collection.Len(),
		Busy:          h.svc.Busy(),
	}
	if snap.Err != nil {
		page.LoadError = fmt.Sprintf("Error loading data: %v", snap.Err)
	}
	if msg := c.Query("msg"); msg != "" {
		page.Flash = &flash{Level: c.DefaultQuery("level", string(pipeline.StatusSuccess)), Message: msg}
	}

	c.HTML(http.StatusOK, "index.html", page)
}

func (h *Handler) ScrapeForm(c *gin.Context) {
	var req scrapeRequest
	if err := c.ShouldBind(&req); err != nil {
		h.redirect(c, pipeline.Result{Status: pipeline.StatusError, Message: "Invalid scrape parameters: " + err.Error()})
		return
	}
	q, err := h.query(req)
	if err != nil {
		h.redirect(c, pipeline.Result{Status: pipeline.StatusError, Message: err.Error()})
		return
	}

	res, err := h.svc.Scrape(context.WithoutCancel(c.Request.Context()), q)
	if errors.Is(err, pipeline.ErrScrapeInProgress) {
		c.String(http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		h.redirect(c, pipeline.Result{Status: pipeline.StatusError, Message: err.Error()})
		return
	}
	h.redirect(c, res.Result)
}

func (h *Handler) RefreshForm(c *gin.Context) {
	res, _ := h.svc.Refresh()
	h.redirect(c, res)
}

func (h *Handler) ClearForm(c *gin.Context) {
	res, err := h.svc.Clear()
	if errors.Is(err, pipeline.ErrScrapeInProgress) {
		c.String(http.StatusConflict, err.Error())
		return
	}
	h.redirect(c, res)
}

func (h *Handler) redirect(c *gin.Context, res pipeline.Result) {
	v := url.Values{}
	v.Set("level", string(res.Status))
	v.Set("msg", res.Message)
	c.Redirect(http.StatusSeeOther, "/?"+v.Encode())
}

func bars(counts []insights.Count) []barRow {
	rows := make([]barRow, len(counts))
	maxCount := 0
	for _, c := range counts {
		maxCount = max(maxCount, c.Count)
	}
	for i, c := range counts {
		rows[i] = barRow{Label: c.Value, Count: c.Count}
		if maxCount > 0 {
			rows[i].Percent = float64(c.Count) * 100 / float64(maxCount)
		}
	}
	return rows
}

func (h *Handler) funcMap() template.FuncMap {
	return template.FuncMap{
		"number": func(n int) string { return h.printer.Sprintf("%d", n) },
		"day":    func(t time.Time) string { return t.Format("2006-01-02") },
		"stamp":  func(t time.Time) string { return t.Format("2006-01-02 15:04:05") },
		"pct":    func(f float64) string { return strconv.FormatFloat(f, 'f', 1, 64) },
		"seq": func(n int) []int {
			s := make([]int, n)
			for i := range s {
				s[i] = i + 1
			}
			return s
		},
	}
}

// ---------------- JSON ----------------

type insightsResponse struct {
	insights.Insights
	LoadedAt time.Time `json:"loaded_at"`
	Error    string    `json:"error,omitempty"`
}

func snapshotError(s dashboard.Snapshot) string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Error()
}

func (h *Handler) Insights(c *gin.Context) {
	snap := h.svc.Snapshot()
	c.JSON(http.StatusOK, insightsResponse{
		Insights: insights.Build(snap.Collection),
		LoadedAt: snap.LoadedAt,
		Error:    snapshotError(snap),
	})
}

func (h *Handler) Listings(c *gin.Context) {
	snap := h.svc.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"columns":  snap.Collection.Columns,
		"listings": insights.Recent(snap.Collection),
		"total":    snap.Collection.Len(),
		"error":    snapshotError(snap),
	})
}

func (h *Handler) Skills(c *gin.Context) {
	title := c.Query("title")
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}
	snap := h.svc.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"title":  title,
		"skills": insights.SkillsForTitle(snap.Collection, title, insights.SkillsPerTitleLimit),
	})
}

func (h *Handler) Scrape(c *gin.Context) {
	var req scrapeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	q, err := h.query(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.svc.Scrape(context.WithoutCancel(c.Request.Context()), q)
	switch {
	case errors.Is(err, pipeline.ErrScrapeInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, res)
	}
}

func (h *Handler) Refresh(c *gin.Context) {
	res, snap := h.svc.Refresh()
	c.JSON(http.StatusOK, gin.H{
		"status":    res.Status,
		"message":   res.Message,
		"total":     snap.Collection.Len(),
		"loaded_at": snap.LoadedAt,
	})
}

func (h *Handler) Clear(c *gin.Context) {
	res, err := h.svc.Clear()
	if errors.Is(err, pipeline.ErrScrapeInProgress) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Export(c *gin.Context) {
	snap := h.svc.Snapshot()
	c.Header("Content-Disposition", `attachment; filename="jobs_data.xlsx"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Status(http.StatusOK)
	if err := storage.ExportXLSX(snap.Collection, c.Writer); err != nil {
		h.log.Error("Failed to export workbook", logger.Error(err))
		_ = c.Error(err)
	}
}
